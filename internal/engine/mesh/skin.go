package mesh

import "github.com/go-gl/mathgl/mgl32"

// Skin holds per-geometry skinning data: the inverse bind pose and the
// palette buffer the dispatching node writes posed matrices into. The
// two are always the same length.
type Skin struct {
	inverseBind []mgl32.Mat4
	palette     []mgl32.Mat4
}

// NewSkin creates a skin binding. The palette starts as identity
// matrices, one per bone.
func NewSkin(inverseBind []mgl32.Mat4) *Skin {
	s := &Skin{
		inverseBind: inverseBind,
		palette:     make([]mgl32.Mat4, len(inverseBind)),
	}
	for i := range s.palette {
		s.palette[i] = mgl32.Ident4()
	}
	return s
}

// InverseBindPose returns the inverse bind matrices.
func (s *Skin) InverseBindPose() []mgl32.Mat4 { return s.inverseBind }

// Palette returns the mutable palette buffer.
func (s *Skin) Palette() []mgl32.Mat4 { return s.palette }

// Len returns the bone count.
func (s *Skin) Len() int { return len(s.inverseBind) }
