package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/torchfall/lumen3d/internal/engine/render"
)

// Scene owns a node hierarchy root and the dispatch context used to
// render it. The frame loop is strictly sequential: update transforms
// top-down, sync bounds where needed, then dispatch.
type Scene struct {
	Root *NodeBase
	ctx  render.Context
}

// New creates a scene with an empty root node.
func New() *Scene {
	return &Scene{Root: NewNode("root")}
}

// Context returns the scene's dispatch context.
func (s *Scene) Context() *render.Context { return &s.ctx }

// Update recomputes world matrices for the whole hierarchy.
func (s *Scene) Update() {
	s.Root.UpdateWorldTransforms(mgl32.Ident4())
}

// SyncBounds refreshes world-space bounds on every mesh node. Callers
// that only moved part of the tree can sync individual nodes instead.
func (s *Scene) SyncBounds() {
	Walk(s.Root, func(n Node) bool {
		if mn, ok := n.(*MeshNode); ok {
			mn.SyncBounds()
		}
		return true
	})
}

// Dispatch renders every mesh node in traversal order. The first
// dispatch error aborts the frame.
func (s *Scene) Dispatch() error {
	var err error
	Walk(s.Root, func(n Node) bool {
		mn, ok := n.(*MeshNode)
		if !ok {
			return true
		}
		if derr := mn.Dispatch(&s.ctx); derr != nil {
			err = derr
			return false
		}
		return true
	})
	return err
}
