package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b, eps float32) bool { return float32(math.Abs(float64(a-b))) <= eps }

func TestToNDC(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		wx, wy float32
	}{
		{"centre", 400, 300, 0, 0},
		{"top-left", 0, 0, -1, 1},
		{"bottom-right", 800, 600, 1, -1},
		{"right-middle", 800, 300, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := ToNDC(tt.x, tt.y, 800, 600)
			if !ok || !near(x, tt.wx, 1e-6) || !near(y, tt.wy, 1e-6) {
				t.Errorf("ToNDC(%v, %v) = (%v, %v, %v), want (%v, %v)", tt.x, tt.y, x, y, ok, tt.wx, tt.wy)
			}
		})
	}
	if _, _, ok := ToNDC(1, 1, 0, 600); ok {
		t.Error("ToNDC accepted a zero-width viewport")
	}
}

func TestSetViewportKeepsAspectOnZero(t *testing.T) {
	c := NewCamera(800, 400)
	c.SetViewport(0, 0)
	if c.Aspect != 2 {
		t.Errorf("Aspect = %v, want 2", c.Aspect)
	}
}

func TestRayThroughCentre(t *testing.T) {
	c := NewCamera(800, 600)
	r := c.Ray(0, 0)
	if !near(r.Dir.X(), 0, 1e-4) || !near(r.Dir.Y(), 0, 1e-4) || !near(r.Dir.Z(), -1, 1e-4) {
		t.Errorf("centre ray dir = %v, want (0,0,-1)", r.Dir)
	}
	if r.Origin != c.Pos {
		t.Errorf("origin = %v, want %v", r.Origin, c.Pos)
	}
}

func TestRayProjectsBackToScreen(t *testing.T) {
	c := NewCamera(1280, 720)
	vp := c.Projection().Mul4(c.View())
	for _, ndc := range [][2]float32{{0.5, 0.25}, {-0.9, 0.8}, {0.3, -0.6}} {
		r := c.Ray(ndc[0], ndc[1])
		p := r.At(7)
		clip := vp.Mul4x1(p.Vec4(1))
		gx, gy := clip.X()/clip.W(), clip.Y()/clip.W()
		if !near(gx, ndc[0], 5e-3) || !near(gy, ndc[1], 5e-3) {
			t.Errorf("ray through %v reprojects to (%v, %v)", ndc, gx, gy)
		}
	}
}

func TestIntersectPicksNearest(t *testing.T) {
	c := NewCamera(800, 600)
	quads := []Billboard{
		{Center: mgl32.Vec3{0, 0, -2}, Scale: mgl32.Vec2{1.5, 1}},
		{Center: mgl32.Vec3{0.2, 0.1, 1}, Scale: mgl32.Vec2{1.5, 1}},
		{Center: mgl32.Vec3{3, 3, 0}, Scale: mgl32.Vec2{1.5, 1}},
	}
	hits := c.Intersect(c.Ray(0, 0), quads)
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	if hits[0].Index != 1 || hits[1].Index != 0 {
		t.Errorf("order = [%d %d], want [1 0]", hits[0].Index, hits[1].Index)
	}
	if !near(hits[0].Distance, 4, 1e-4) {
		t.Errorf("nearest distance = %v, want 4", hits[0].Distance)
	}
}

func TestIntersectRespectsExtent(t *testing.T) {
	c := NewCamera(800, 600)
	right, up, forward := c.Basis()
	q := Billboard{Center: mgl32.Vec3{0, 0, 0}, Scale: mgl32.Vec2{1.5, 1}}

	tests := []struct {
		name string
		aim  mgl32.Vec3
		want bool
	}{
		{"inside", mgl32.Vec3{0.7, 0.45, 0}, true},
		{"right of edge", mgl32.Vec3{0.8, 0, 0}, false},
		{"above edge", mgl32.Vec3{0, 0.55, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Ray{Origin: c.Pos, Dir: tt.aim.Sub(c.Pos).Normalize(), Near: c.Near, Far: c.Far}
			_, ok := IntersectBillboard(r, q, right, up, forward)
			if ok != tt.want {
				t.Errorf("hit = %v, want %v", ok, tt.want)
			}
		})
	}
}

func TestIntersectIgnoresBehindCamera(t *testing.T) {
	c := NewCamera(800, 600)
	quads := []Billboard{{Center: mgl32.Vec3{0, 0, 6}, Scale: mgl32.Vec2{1.5, 1}}}
	if hits := c.Intersect(c.Ray(0, 0), quads); len(hits) != 0 {
		t.Errorf("hit a quad behind the camera: %+v", hits)
	}
}

func TestNewFrameBackToFront(t *testing.T) {
	c := NewCamera(800, 600)
	quads := []Quad{
		{Tex: 1, Billboard: Billboard{Center: mgl32.Vec3{0, 0, 2}}},
		{Tex: 2, Billboard: Billboard{Center: mgl32.Vec3{0, 0, -2}}},
		{Tex: 3, Billboard: Billboard{Center: mgl32.Vec3{0, 0, 0}}},
	}
	f := c.NewFrame(quads)
	want := []uint32{2, 3, 1}
	for i, q := range f.Quads {
		if q.Tex != want[i] {
			t.Fatalf("order[%d] = %d, want %d", i, q.Tex, want[i])
		}
	}
}
