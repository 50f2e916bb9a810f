// Package scene implements the transform hierarchy and the renderable
// mesh node dispatched by the renderer each frame.
package scene

import "github.com/go-gl/mathgl/mgl32"

// Node is implemented by every node kind that can live in the
// hierarchy. Clone copies the node's own state plus base state but
// never hierarchy links; CloneTree rebuilds those.
type Node interface {
	Base() *NodeBase
	Name() string
	Clone() Node
}

// NodeBase is the transform-hierarchy state shared by all node kinds:
// name, local pose, parent/children links, and the cached world matrix.
type NodeBase struct {
	name string

	// Local pose relative to the parent node.
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	parent   Node
	children []Node

	world mgl32.Mat4
}

// NewNode creates a detached node with an identity pose.
func NewNode(name string) *NodeBase {
	return &NodeBase{
		name:     name,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		world:    mgl32.Ident4(),
	}
}

// Base returns the node's hierarchy state.
func (n *NodeBase) Base() *NodeBase { return n }

// Name returns the node name.
func (n *NodeBase) Name() string { return n.name }

// SetName renames the node.
func (n *NodeBase) SetName(name string) { n.name = name }

// Parent returns the parent node, or nil for a root.
func (n *NodeBase) Parent() Node { return n.parent }

// Children returns the node's children. The slice is owned by the node.
func (n *NodeBase) Children() []Node { return n.children }

// AddChild attaches c under n, detaching it from any previous parent.
func (n *NodeBase) AddChild(c Node) {
	cb := c.Base()
	if cb.parent != nil {
		cb.parent.Base().RemoveChild(c)
	}
	cb.parent = n
	n.children = append(n.children, c)
}

// RemoveChild detaches c from n. No-op if c is not a child of n.
func (n *NodeBase) RemoveChild(c Node) {
	for i, ch := range n.children {
		if ch == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.Base().parent = nil
			return
		}
	}
}

// LocalMatrix returns the node's local transform (translate * rotate *
// scale).
func (n *NodeBase) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	r := n.Rotation.Mat4()
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// WorldMatrix returns the world transform computed by the last
// UpdateWorldTransforms traversal.
func (n *NodeBase) WorldMatrix() mgl32.Mat4 { return n.world }

// UpdateWorldTransforms recomputes world matrices for this node and its
// subtree, top-down. parent is the accumulated transform above this
// node; pass mgl32.Ident4() for a root.
func (n *NodeBase) UpdateWorldTransforms(parent mgl32.Mat4) {
	n.world = parent.Mul4(n.LocalMatrix())
	for _, c := range n.children {
		c.Base().UpdateWorldTransforms(n.world)
	}
}

// cloneInto copies base state (name and pose) into dst. Hierarchy links
// stay untouched so node kinds can layer their own clone step on top of
// this one.
func (n *NodeBase) cloneInto(dst *NodeBase) {
	dst.name = n.name
	dst.Position = n.Position
	dst.Rotation = n.Rotation
	dst.Scale = n.Scale
	dst.world = n.world
}

// Clone returns a detached copy of the node's base state.
func (n *NodeBase) Clone() Node {
	c := NewNode(n.name)
	n.cloneInto(c)
	return c
}

// Walk visits n and its subtree depth-first. Returning false from f
// stops the walk.
func Walk(n Node, f func(Node) bool) bool {
	if !f(n) {
		return false
	}
	for _, c := range n.Base().Children() {
		if !Walk(c, f) {
			return false
		}
	}
	return true
}

// CloneTree deep-clones a node hierarchy. Each node contributes its own
// Clone step; this function rebuilds the parent/child links.
func CloneTree(n Node) Node {
	c := n.Clone()
	for _, child := range n.Base().Children() {
		c.Base().AddChild(CloneTree(child))
	}
	return c
}
