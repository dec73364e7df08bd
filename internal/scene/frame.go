package scene

import "github.com/go-gl/mathgl/mgl32"

// Quad is one textured billboard to draw.
type Quad struct {
	Tex uint32
	Billboard
}

// Frame is everything a surface needs to draw one frame of the scene.
type Frame struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Quads      []Quad
}

// NewFrame captures the camera matrices for quads. Quads are ordered back to
// front so alpha blending composes correctly.
func (c *Camera) NewFrame(quads []Quad) Frame {
	forward := c.Target.Sub(c.Pos).Normalize()
	depth := func(q Quad) float32 { return q.Center.Sub(c.Pos).Dot(forward) }
	sortByDepth(quads, depth)
	return Frame{
		View:       c.View(),
		Projection: c.Projection(),
		Quads:      quads,
	}
}

// sortByDepth is an insertion sort, farthest first. Frame-to-frame order is
// nearly stable, so this stays close to linear.
func sortByDepth(q []Quad, depth func(Quad) float32) {
	for i := 1; i < len(q); i++ {
		for j := i; j > 0 && depth(q[j-1]) < depth(q[j]); j-- {
			q[j-1], q[j] = q[j], q[j-1]
		}
	}
}
