package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/torchfall/lumen3d/internal/engine/render"
	"github.com/torchfall/lumen3d/pkg/geom"
)

// Geometry is the capability a mesh node needs from its shared geometry
// resource. Implemented by mesh.Mesh; tests substitute fakes.
type Geometry interface {
	// IsSkinned reports whether the geometry deforms against a skeleton.
	IsSkinned() bool
	// MatrixPalette returns the geometry-owned skin palette buffer.
	// Dispatch writes one matrix per bone into it.
	MatrixPalette() []mgl32.Mat4
	// InverseBindPose returns the bind-pose inverse matrices, aligned
	// 1:1 with the palette.
	InverseBindPose() []mgl32.Mat4
	// LocalBox returns the geometry's local-space bounding box.
	LocalBox() geom.Box3
	// LocalVolume returns the geometry's local bounding volume.
	LocalVolume() geom.Volume
	// HasWireframe reports whether wireframe data has been generated.
	HasWireframe() bool
	// Draw submits the geometry with the given world transform and style.
	Draw(rc *render.Context, world mgl32.Mat4, style render.Style)
}

// MeshNode is a node with renderable geometry attached. The geometry is
// shared: many nodes may point at one resource (instancing), while
// render style, shadow flags, bounds, and bone bindings stay per-node.
type MeshNode struct {
	NodeBase

	geometry       Geometry
	style          render.Style
	castShadows    bool
	receiveShadows bool

	// World-space bounds as of the last SyncBounds call. Stale by
	// design once the world transform changes.
	bounds geom.Box3

	// Bone bindings: index handles into a skeleton node table, aligned
	// 1:1 with the geometry's palette. Populated externally (loader,
	// model clone); empty for non-skinned nodes.
	skeleton *Skeleton
	bones    []int
}

// NewMeshNode creates a mesh node with no geometry assigned. Nodes cast
// no shadows and receive shadows by default.
func NewMeshNode(name string) *MeshNode {
	n := &MeshNode{
		receiveShadows: true,
		bounds:         geom.EmptyBox3(),
	}
	n.NodeBase = *NewNode(name)
	return n
}

// Geometry returns the attached geometry, or nil.
func (n *MeshNode) Geometry() Geometry { return n.geometry }

// SetGeometry attaches a shared geometry resource. Passing nil detaches
// the node from its geometry.
func (n *MeshNode) SetGeometry(g Geometry) { n.geometry = g }

// Style returns the render style.
func (n *MeshNode) Style() render.Style { return n.style }

// SetStyle sets the render style. Wireframe only draws correctly if the
// geometry owner generated wireframe data; Dispatch checks that.
func (n *MeshNode) SetStyle(s render.Style) { n.style = s }

// CastShadows reports whether the node casts shadows.
func (n *MeshNode) CastShadows() bool { return n.castShadows }

// SetCastShadows sets the shadow-caster flag.
func (n *MeshNode) SetCastShadows(v bool) { n.castShadows = v }

// ReceiveShadows reports whether the node receives shadows.
func (n *MeshNode) ReceiveShadows() bool { return n.receiveShadows }

// SetReceiveShadows sets the shadow-receiver flag.
func (n *MeshNode) SetReceiveShadows(v bool) { n.receiveShadows = v }

// Skeleton returns the skeleton the node's bones index into, or nil.
func (n *MeshNode) Skeleton() *Skeleton { return n.skeleton }

// Bones returns the node's bone indices into its skeleton.
func (n *MeshNode) Bones() []int { return n.bones }

// BindSkeleton binds the node to a skeleton with the given bone index
// table. bones must align 1:1 with the geometry's palette; the mismatch
// is caught at dispatch, not here, so bindings can be staged before the
// geometry is assigned.
func (n *MeshNode) BindSkeleton(sk *Skeleton, bones []int) {
	n.skeleton = sk
	n.bones = bones
}

// Dispatch submits the node for rendering: computes the skin palette
// for skinned geometry, then hands off to the geometry's draw entry
// point with the node's world transform and style.
//
// A node without geometry is a no-op. Precondition violations (bone
// count vs. palette length, bindings that do not resolve against the
// skeleton, wireframe style without wireframe data) return an error
// without drawing. rc's current node is set for the
// duration of the call and cleared on every return path.
func (n *MeshNode) Dispatch(rc *render.Context) error {
	if n.geometry == nil {
		return nil
	}
	rc.SetCurrent(n)
	defer rc.Clear()

	if n.style == render.StyleWireframe && !n.geometry.HasWireframe() {
		return fmt.Errorf("scene: node %q dispatched as wireframe but geometry has no wireframe data", n.name)
	}

	if n.geometry.IsSkinned() {
		palette := n.geometry.MatrixPalette()
		if len(n.bones) != len(palette) {
			return fmt.Errorf("scene: node %q binds %d bones, geometry palette holds %d", n.name, len(n.bones), len(palette))
		}
		if len(n.bones) > 0 && n.skeleton == nil {
			return fmt.Errorf("scene: node %q has bone bindings but no skeleton", n.name)
		}
		inv := n.geometry.InverseBindPose()
		for i, bi := range n.bones {
			if bi < 0 || bi >= n.skeleton.Len() {
				return fmt.Errorf("scene: node %q bone %d indexes slot %d of a %d-bone skeleton", n.name, i, bi, n.skeleton.Len())
			}
			bone := n.skeleton.Node(bi)
			palette[i] = bone.WorldMatrix().Mul4(inv[i])
		}
	}

	n.geometry.Draw(rc, n.world, n.style)
	return nil
}

// SyncBounds recomputes the node's world-space bounds from the
// geometry's local box and the current world transform. There is no
// dirty tracking: callers re-sync after transform changes they care
// about.
func (n *MeshNode) SyncBounds() {
	if n.geometry == nil {
		n.bounds = geom.EmptyBox3()
		return
	}
	n.bounds.SetFromTransformedBox(n.geometry.LocalBox(), n.world)
}

// Bounds returns the bounds cached by the last SyncBounds call. The
// value is stale if the world transform changed since.
func (n *MeshNode) Bounds() geom.Box3 { return n.bounds }

// Volume returns the node's world-space bounding sphere, or false when
// the node has no geometry, the geometry has no volume, or the volume
// is not spherical.
//
// The center goes through the full world transform. The radius is
// scaled by a single factor taken from the X basis vector, which is
// exact only under uniform scale.
func (n *MeshNode) Volume() (geom.Sphere, bool) {
	if n.geometry == nil {
		return geom.Sphere{}, false
	}
	v := n.geometry.LocalVolume()
	if v.Kind != geom.VolumeSphere {
		return geom.Sphere{}, false
	}
	center := mgl32.TransformCoordinate(v.Sphere.Center, n.world)
	scale := n.world.Col(0).Vec3().Len()
	return geom.Sphere{Center: center, Radius: v.Sphere.Radius * scale}, true
}

// Clone returns a new node sharing this node's geometry reference, with
// style and shadow flags copied by value. Base state is copied by the
// NodeBase clone step. Bone bindings are never copied: they point into
// the source's skeleton and must be re-resolved against a cloned one
// (see Model.Clone).
func (n *MeshNode) Clone() Node {
	c := NewMeshNode(n.name)
	n.cloneInto(&c.NodeBase)
	c.geometry = n.geometry
	c.style = n.style
	c.castShadows = n.castShadows
	c.receiveShadows = n.receiveShadows
	return c
}
