package scene

import "fmt"

// Model ties together a node hierarchy, the skeleton built from it, and
// the mesh nodes inside it. It is the unit of instancing: cloning a
// model clones the whole hierarchy and re-resolves bone bindings
// against the cloned skeleton, which a lone node clone cannot do.
type Model struct {
	Root     Node
	Skeleton *Skeleton
	Meshes   []*MeshNode
}

// Clone deep-clones the model. Geometry resources stay shared between
// source and clone; per-node state (pose, style, flags) is copied; the
// skeleton is rebuilt from the cloned nodes and every cloned mesh
// node's bones are re-bound with the same indices.
func (m *Model) Clone() (*Model, error) {
	root := CloneTree(m.Root)

	// Map source nodes to their clones by walking both trees in step.
	mapping := make(map[*NodeBase]Node)
	var pair func(a, b Node)
	pair = func(a, b Node) {
		mapping[a.Base()] = b
		ac, bc := a.Base().Children(), b.Base().Children()
		for i := range ac {
			pair(ac[i], bc[i])
		}
	}
	pair(m.Root, root)

	clone := &Model{Root: root}

	if m.Skeleton != nil {
		sk := NewSkeleton()
		for i := 0; i < m.Skeleton.Len(); i++ {
			src := m.Skeleton.Node(i)
			dst, ok := mapping[src]
			if !ok {
				return nil, fmt.Errorf("scene: skeleton bone %q is not part of the model hierarchy", src.Name())
			}
			sk.Add(dst.Base())
		}
		clone.Skeleton = sk
	}

	for _, src := range m.Meshes {
		dst, ok := mapping[src.Base()]
		if !ok {
			return nil, fmt.Errorf("scene: mesh node %q is not part of the model hierarchy", src.Name())
		}
		mn, ok := dst.(*MeshNode)
		if !ok {
			return nil, fmt.Errorf("scene: clone of mesh node %q is not a mesh node", src.Name())
		}
		if src.Skeleton() != nil {
			bones := append([]int(nil), src.Bones()...)
			mn.BindSkeleton(clone.Skeleton, bones)
		}
		clone.Meshes = append(clone.Meshes, mn)
	}

	return clone, nil
}
