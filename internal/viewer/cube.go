package viewer

import (
	"github.com/torchfall/lumen3d/internal/engine/mesh"
	"github.com/torchfall/lumen3d/internal/engine/scene"
)

// builtinCube builds the fallback model shown when no file is
// configured: a unit cube with per-face normals.
func builtinCube() (*scene.Model, []*mesh.Mesh) {
	faces := []struct {
		normal  [3]float32
		corners [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
	}

	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	var vertices []mesh.Vertex
	var indices []uint32
	for _, f := range faces {
		base := uint32(len(vertices))
		for i, c := range f.corners {
			vertices = append(vertices, mesh.Vertex{
				Position: c,
				Normal:   f.normal,
				TexCoord: uvs[i],
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	m := mesh.New("cube", vertices, indices)

	mn := scene.NewMeshNode("cube")
	mn.SetGeometry(m)

	root := scene.NewNode("builtin")
	root.AddChild(mn)

	model := &scene.Model{Root: root, Meshes: []*scene.MeshNode{mn}}
	return model, []*mesh.Mesh{m}
}
