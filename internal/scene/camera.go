// Package scene holds the perspective camera, ray casting against
// camera-facing quads, and the per-frame draw list handed to a surface.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera defaults.
const (
	DefaultFOV  = 75 // vertical, degrees
	DefaultNear = 0.1
	DefaultFar  = 1000
	DefaultZ    = 5
)

// Camera is a perspective camera looking down -Z from Pos.
type Camera struct {
	Pos    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3

	FOV       float32 // vertical, degrees
	Aspect    float32
	Near, Far float32
}

// NewCamera returns the default camera for a w×h viewport.
func NewCamera(w, h int) Camera {
	c := Camera{
		Pos:    mgl32.Vec3{0, 0, DefaultZ},
		Target: mgl32.Vec3{0, 0, 0},
		Up:     mgl32.Vec3{0, 1, 0},
		FOV:    DefaultFOV,
		Near:   DefaultNear,
		Far:    DefaultFar,
		Aspect: 1,
	}
	c.SetViewport(w, h)
	return c
}

// SetViewport updates the aspect ratio. Degenerate sizes (minimised window)
// keep the previous aspect.
func (c *Camera) SetViewport(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.Aspect = float32(w) / float32(h)
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Pos, c.Target, c.Up)
}

// Basis returns the camera's world-space right, up and forward unit vectors.
func (c *Camera) Basis() (right, up, forward mgl32.Vec3) {
	forward = c.Target.Sub(c.Pos).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward)
	return right, up, forward
}

// Ray returns the world-space ray from the camera through a point in
// normalised device coordinates.
func (c *Camera) Ray(ndcX, ndcY float32) Ray {
	inv := c.Projection().Mul4(c.View()).Inv()
	far := mgl32.TransformCoordinate(mgl32.Vec3{ndcX, ndcY, 1}, inv)
	return Ray{
		Origin: c.Pos,
		Dir:    far.Sub(c.Pos).Normalize(),
		Near:   c.Near,
		Far:    c.Far,
	}
}

// ToNDC converts viewport pixel coordinates (origin top-left, y down) to
// normalised device coordinates (origin centre, y up).
func ToNDC(x, y float64, w, h int) (float32, float32, bool) {
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	nx := float32(x/float64(w))*2 - 1
	ny := -float32(y/float64(h))*2 + 1
	return nx, ny, true
}
