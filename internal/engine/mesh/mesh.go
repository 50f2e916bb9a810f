// Package mesh implements the shared geometry resource drawn by scene
// mesh nodes: vertex data, bounds, skin binding, and the GPU backend
// indirection.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/torchfall/lumen3d/internal/engine/render"
	"github.com/torchfall/lumen3d/pkg/geom"
)

// Vertex is one mesh vertex. Joints/Weights are zero for unskinned
// meshes.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Joints   [4]uint16
	Weights  [4]float32
}

// Backend submits uploaded mesh data to the GPU. The renderer package
// provides the OpenGL implementation; tests use recorders.
type Backend interface {
	Upload(m *Mesh) error
	Draw(rc *render.Context, m *Mesh, world mgl32.Mat4, style render.Style)
}

// Mesh is a geometry resource. It is shared read-mostly across any
// number of mesh nodes; the one mutable part is the skin palette
// buffer, which every dispatch of a skinned node overwrites. A mesh
// shared by skinned nodes with different poses is therefore only sound
// because dispatch is strictly sequential within a frame.
type Mesh struct {
	name string

	Vertices []Vertex
	Indices  []uint32

	box    geom.Box3
	volume geom.Volume

	skin *Skin
	wire []uint32

	backend Backend
}

// New creates a mesh and computes its local bounds: the axis-aligned
// box of all vertex positions and a bounding sphere around the box
// center.
func New(name string, vertices []Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		name:     name,
		Vertices: vertices,
		Indices:  indices,
		box:      geom.EmptyBox3(),
	}
	m.computeBounds()
	return m
}

func (m *Mesh) computeBounds() {
	for i := range m.Vertices {
		m.box.ExpandByPoint(mgl32.Vec3(m.Vertices[i].Position))
	}
	if m.box.IsEmpty() {
		m.volume = geom.Volume{Kind: geom.VolumeNone}
		return
	}
	center := m.box.Center()
	var radius float32
	for i := range m.Vertices {
		if d := mgl32.Vec3(m.Vertices[i].Position).Sub(center).Len(); d > radius {
			radius = d
		}
	}
	m.volume = geom.Volume{
		Kind:   geom.VolumeSphere,
		Sphere: geom.Sphere{Center: center, Radius: radius},
	}
}

// Name returns the mesh name.
func (m *Mesh) Name() string { return m.name }

// SetSkin attaches skinning data. Pass nil to make the mesh static.
func (m *Mesh) SetSkin(s *Skin) { m.skin = s }

// Skin returns the mesh's skin binding, or nil.
func (m *Mesh) Skin() *Skin { return m.skin }

// IsSkinned reports whether the mesh has a skin binding.
func (m *Mesh) IsSkinned() bool { return m.skin != nil }

// MatrixPalette returns the skin palette buffer, nil for static meshes.
func (m *Mesh) MatrixPalette() []mgl32.Mat4 {
	if m.skin == nil {
		return nil
	}
	return m.skin.Palette()
}

// InverseBindPose returns the inverse bind matrices, nil for static
// meshes.
func (m *Mesh) InverseBindPose() []mgl32.Mat4 {
	if m.skin == nil {
		return nil
	}
	return m.skin.InverseBindPose()
}

// LocalBox returns the local-space bounding box.
func (m *Mesh) LocalBox() geom.Box3 { return m.box }

// LocalVolume returns the local bounding volume.
func (m *Mesh) LocalVolume() geom.Volume { return m.volume }

// SetVolume overrides the computed bounding volume.
func (m *Mesh) SetVolume(v geom.Volume) { m.volume = v }

// SetBackend attaches the GPU backend after upload.
func (m *Mesh) SetBackend(b Backend) { m.backend = b }

// Draw hands the mesh to its backend. A mesh that was never uploaded
// draws nothing.
func (m *Mesh) Draw(rc *render.Context, world mgl32.Mat4, style render.Style) {
	if m.backend == nil {
		return
	}
	m.backend.Draw(rc, m, world, style)
}
