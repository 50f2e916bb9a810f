// Package camera provides the orbit camera used by the viewer.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera orbits around a center point using spherical coordinates.
type OrbitCamera struct {
	Center mgl32.Vec3

	Distance float32 // distance from center
	Pitch    float32 // vertical angle, radians
	Yaw      float32 // horizontal angle, radians

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Projection parameters.
	FOV    float32 // vertical field of view, radians
	Aspect float32
	Near   float32
	Far    float32
}

// New creates an orbit camera with default settings.
func New(aspect float32) *OrbitCamera {
	return &OrbitCamera{
		Distance:    6.0,
		Pitch:       0.4,
		MinDistance: 0.5,
		MaxDistance: 200.0,
		MinPitch:    -1.4,
		MaxPitch:    1.4,
		FOV:         mgl32.DegToRad(55),
		Aspect:      aspect,
		Near:        0.1,
		Far:         500.0,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.Pitch))*gomath.Sin(float64(c.Yaw)))
	y := c.Distance * float32(gomath.Sin(float64(c.Pitch)))
	z := c.Distance * float32(gomath.Cos(float64(c.Pitch))*gomath.Cos(float64(c.Yaw)))
	return c.Center.Add(mgl32.Vec3{x, y, z})
}

// ViewMatrix returns the view matrix looking at the orbit center.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *OrbitCamera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// Rotate adjusts yaw and pitch, clamping pitch to its limits.
func (c *OrbitCamera) Rotate(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch = clamp(c.Pitch+dPitch, c.MinPitch, c.MaxPitch)
}

// Zoom adjusts the orbit distance, clamping it to its limits.
func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance = clamp(c.Distance+delta, c.MinDistance, c.MaxDistance)
}

// Frame moves the orbit center and distance to frame a sphere of the
// given center and radius.
func (c *OrbitCamera) Frame(center mgl32.Vec3, radius float32) {
	c.Center = center
	if radius > 0 {
		c.Distance = clamp(radius*2.5, c.MinDistance, c.MaxDistance)
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
