// Package render holds the vocabulary shared between scene nodes and
// geometry backends: render styles and the per-frame dispatch context.
package render

import "github.com/go-gl/mathgl/mgl32"

// Style selects how a geometry is rasterized.
type Style int32

const (
	// StyleNormal renders filled triangles.
	StyleNormal Style = iota
	// StyleWireframe renders the geometry's line representation. The
	// geometry must have wireframe data generated before dispatch.
	StyleWireframe
)

func (s Style) String() string {
	switch s {
	case StyleNormal:
		return "normal"
	case StyleWireframe:
		return "wireframe"
	default:
		return "unknown"
	}
}

// Node is the view of a scene node that draw-time collaborators get
// through the dispatch context.
type Node interface {
	Name() string
	WorldMatrix() mgl32.Mat4
}

// Context carries dispatch state through one frame. The node currently
// being dispatched is set for the duration of its dispatch call so that
// code invoked from the geometry's draw path can introspect it.
//
// A Context is bound to one synchronous traversal: it is not safe for
// concurrent use and nested dispatch is unsupported.
type Context struct {
	current Node
}

// Current returns the node being dispatched, or nil outside a dispatch
// call.
func (c *Context) Current() Node {
	return c.current
}

// SetCurrent marks n as the node being dispatched.
func (c *Context) SetCurrent(n Node) {
	c.current = n
}

// Clear resets the current node. Dispatch clears the context on every
// return path, including error returns.
func (c *Context) Clear() {
	c.current = nil
}
