package geom

import "github.com/go-gl/mathgl/mgl32"

// Sphere is a bounding sphere.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Contains reports whether p lies inside or on the sphere.
func (s Sphere) Contains(p mgl32.Vec3) bool {
	return p.Sub(s.Center).LenSqr() <= s.Radius*s.Radius
}

// VolumeKind identifies the shape of a local bounding volume.
type VolumeKind int32

const (
	// VolumeNone marks a geometry with no bounding volume.
	VolumeNone VolumeKind = iota
	// VolumeSphere is a spherical bounding volume.
	VolumeSphere
	// VolumeBox is a box bounding volume.
	VolumeBox
)

// Volume is a kind-tagged local bounding volume owned by a geometry
// resource. Only the field matching Kind is meaningful.
type Volume struct {
	Kind   VolumeKind
	Sphere Sphere
	Box    Box3
}
