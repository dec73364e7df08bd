package scene

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line with the camera's near/far range. Hits closer than Near
// or farther than Far are ignored.
type Ray struct {
	Origin    mgl32.Vec3
	Dir       mgl32.Vec3 // unit length
	Near, Far float32
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Billboard is a quad centred at Center that always faces the camera,
// Scale units wide and tall.
type Billboard struct {
	Center mgl32.Vec3
	Scale  mgl32.Vec2
}

// Hit is one ray intersection.
type Hit struct {
	Index    int     // position in the queried slice
	Distance float32 // from the ray origin
}

// IntersectBillboard tests r against a quad spanned by the camera's right and
// up vectors. forward is the camera's view direction (the quad normal is -forward).
func IntersectBillboard(r Ray, b Billboard, right, up, forward mgl32.Vec3) (float32, bool) {
	denom := r.Dir.Dot(forward)
	if math.Abs(float64(denom)) < 1e-6 {
		return 0, false
	}
	t := b.Center.Sub(r.Origin).Dot(forward) / denom
	if t < r.Near || t > r.Far {
		return 0, false
	}
	p := r.At(t)
	d := p.Sub(b.Center)
	if abs32(d.Dot(right)) > b.Scale.X()/2 || abs32(d.Dot(up)) > b.Scale.Y()/2 {
		return 0, false
	}
	return r.Origin.Sub(p).Len(), true
}

// Intersect casts the camera ray against every billboard and returns the hits
// sorted nearest first.
func (c *Camera) Intersect(r Ray, quads []Billboard) []Hit {
	right, up, forward := c.Basis()
	var hits []Hit
	for i, q := range quads {
		if d, ok := IntersectBillboard(r, q, right, up, forward); ok {
			hits = append(hits, Hit{Index: i, Distance: d})
		}
	}
	slices.SortStableFunc(hits, func(a, b Hit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	return hits
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
