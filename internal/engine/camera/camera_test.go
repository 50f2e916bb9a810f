package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPositionOnAxis(t *testing.T) {
	c := New(16.0 / 9.0)
	c.Pitch = 0
	c.Yaw = 0
	c.Distance = 10

	p := c.Position()
	if p.Sub(mgl32.Vec3{0, 0, 10}).Len() > 1e-5 {
		t.Errorf("position at zero angles: got %v, want (0, 0, 10)", p)
	}
}

func TestRotateClampsPitch(t *testing.T) {
	c := New(1)
	c.Rotate(0, 100)
	if c.Pitch != c.MaxPitch {
		t.Errorf("pitch not clamped: got %f, want %f", c.Pitch, c.MaxPitch)
	}
	c.Rotate(0, -100)
	if c.Pitch != c.MinPitch {
		t.Errorf("pitch not clamped: got %f, want %f", c.Pitch, c.MinPitch)
	}
}

func TestFrame(t *testing.T) {
	c := New(1)
	c.Frame(mgl32.Vec3{1, 2, 3}, 4)

	if c.Center != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("center: got %v", c.Center)
	}
	if c.Distance != 10 {
		t.Errorf("distance: got %f, want 10", c.Distance)
	}
}
