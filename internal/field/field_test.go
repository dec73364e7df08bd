package field

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"snippets/internal/corpus"
	"snippets/internal/rng"
	"snippets/internal/sched"
	"snippets/internal/scene"
	"snippets/internal/texture"
)

// fakeTextures hands out increasing handles and tracks which are live.
type fakeTextures struct {
	next     uint32
	live     map[uint32]bool
	released []uint32
}

func newFakeTextures() *fakeTextures {
	return &fakeTextures{live: make(map[uint32]bool)}
}

func (f *fakeTextures) Upload(img *image.NRGBA) uint32 {
	f.next++
	f.live[f.next] = true
	return f.next
}

func (f *fakeTextures) Release(tex uint32) {
	if !f.live[tex] {
		panic("release of unknown texture")
	}
	delete(f.live, tex)
	f.released = append(f.released, tex)
}

var raster *texture.Renderer

func testRaster(t *testing.T) *texture.Renderer {
	t.Helper()
	if raster == nil {
		r, err := texture.New()
		if err != nil {
			t.Fatalf("texture.New() error = %v", err)
		}
		raster = r
	}
	return raster
}

type harness struct {
	f      *Field
	tex    *fakeTextures
	timers *sched.Timers
}

func newHarness(t *testing.T, opts Options) harness {
	t.Helper()
	tex := newFakeTextures()
	timers := &sched.Timers{}
	f, err := New(opts, Deps{
		Rand:     rng.New(1234),
		Corpus:   corpus.Snippets,
		Raster:   testRaster(t),
		Textures: tex,
		Timers:   timers,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return harness{f: f, tex: tex, timers: timers}
}

func TestNewSpawnsPopulation(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	if h.f.Len() != 25 {
		t.Fatalf("Len() = %d, want 25", h.f.Len())
	}
	if len(h.tex.live) != 25 {
		t.Errorf("live textures = %d, want 25", len(h.tex.live))
	}
	for i := 0; i < h.f.Len(); i++ {
		s := h.f.At(i)
		if s.Pos.X() < -5 || s.Pos.X() >= 5 || s.Pos.Y() < -5 || s.Pos.Y() >= 5 || s.Pos.Z() < -2.5 || s.Pos.Z() >= 2.5 {
			t.Errorf("sprite %d spawned out of bounds at %v", i, s.Pos)
		}
		if s.Speed < 0 || s.Speed >= 0.005 {
			t.Errorf("sprite %d speed = %v", i, s.Speed)
		}
		if s.Paused || s.Resume != nil {
			t.Errorf("sprite %d spawned paused", i)
		}
		if s.Scale != (mgl32.Vec2{1.5, 1}) {
			t.Errorf("sprite %d scale = %v", i, s.Scale)
		}
		if s.Snippet == "" || s.Tex == 0 {
			t.Errorf("sprite %d has no content", i)
		}
	}
}

func TestNewValidates(t *testing.T) {
	good := Deps{Rand: rng.New(1), Corpus: corpus.Snippets, Raster: testRaster(t), Textures: newFakeTextures(), Timers: &sched.Timers{}}

	opts := DefaultOptions()
	opts.Sprites = 0
	if _, err := New(opts, good); !errors.Is(err, ErrNoSprites) {
		t.Errorf("zero sprites: err = %v", err)
	}

	noCorpus := good
	noCorpus.Corpus = nil
	if _, err := New(DefaultOptions(), noCorpus); !errors.Is(err, ErrNoSnippets) {
		t.Errorf("empty corpus: err = %v", err)
	}

	noTimers := good
	noTimers.Timers = nil
	if _, err := New(DefaultOptions(), noTimers); err == nil {
		t.Error("missing timers accepted")
	}

	inverted := DefaultOptions()
	inverted.Top, inverted.Bottom = -5, 5
	if _, err := New(inverted, good); err == nil {
		t.Error("bottom above top accepted")
	}
}

func TestUpdateKeepsSpritesInBounds(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxSpeed = 0.5 // force many recycles
	h := newHarness(t, opts)
	for tick := 0; tick < 500; tick++ {
		h.f.Update()
		for i := 0; i < h.f.Len(); i++ {
			if y := h.f.At(i).Pos.Y(); y < -5 || y > 5 {
				t.Fatalf("tick %d: sprite %d at y=%v", tick, i, y)
			}
		}
	}
	if len(h.tex.live) != 25 {
		t.Errorf("live textures = %d after recycling, want 25", len(h.tex.live))
	}
}

func TestTextureChangesOnlyOnRecycle(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxSpeed = 0.3
	h := newHarness(t, opts)
	for tick := 0; tick < 200; tick++ {
		before := make([]uint32, h.f.Len())
		for i := range before {
			before[i] = h.f.At(i).Tex
		}
		recycled := make(map[int]bool)
		for _, i := range h.f.Update() {
			recycled[i] = true
		}
		for i := range before {
			changed := h.f.At(i).Tex != before[i]
			if changed != recycled[i] {
				t.Fatalf("tick %d sprite %d: texture changed=%v recycled=%v", tick, i, changed, recycled[i])
			}
		}
	}
}

func TestRecycleAtBoundary(t *testing.T) {
	opts := DefaultOptions()
	opts.Sprites = 1
	h := newHarness(t, opts)
	s := &h.f.sprites[0]
	s.Pos[1] = -5.001
	s.Speed = 0.002
	oldTex := s.Tex

	got := h.f.Update()
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("recycled = %v, want [0]", got)
	}
	if s.Pos.Y() != 5 {
		t.Errorf("y = %v, want 5", s.Pos.Y())
	}
	if s.Tex == oldTex {
		t.Error("texture unchanged after recycle")
	}
	if h.tex.live[oldTex] {
		t.Error("old texture not released")
	}
	if len(h.tex.released) != 1 || h.tex.released[0] != oldTex {
		t.Errorf("released = %v, want [%d]", h.tex.released, oldTex)
	}
}

func TestNoRecycleAboveBoundary(t *testing.T) {
	opts := DefaultOptions()
	opts.Sprites = 1
	h := newHarness(t, opts)
	s := &h.f.sprites[0]
	s.Pos[1] = -4.99
	s.Speed = 0.001
	tex := s.Tex

	if got := h.f.Update(); len(got) != 0 {
		t.Fatalf("recycled = %v, want none", got)
	}
	if y := s.Pos.Y(); y >= -4.99 || y < -5 {
		t.Errorf("y = %v, want just above -5", y)
	}
	if s.Tex != tex {
		t.Error("texture changed without recycle")
	}
}

func TestPauseFreezesAndResumes(t *testing.T) {
	opts := DefaultOptions()
	opts.Sprites = 1
	var paused, resumed []int
	opts.OnPause = func(i int) { paused = append(paused, i) }
	opts.OnResume = func(i int) { resumed = append(resumed, i) }
	h := newHarness(t, opts)
	s := &h.f.sprites[0]
	s.Pos[1] = 0
	s.Speed = 0.004

	if !h.f.Pause(0) {
		t.Fatal("Pause() = false for running sprite")
	}
	if !s.Paused || s.Resume == nil {
		t.Fatal("sprite not paused")
	}
	for i := 0; i < 100; i++ {
		h.f.Update()
	}
	if s.Pos.Y() != 0 {
		t.Errorf("paused sprite moved to %v", s.Pos.Y())
	}

	h.timers.Advance(2999 * time.Millisecond)
	if !s.Paused {
		t.Fatal("resumed before 3s")
	}
	h.timers.Advance(3 * time.Second)
	if s.Paused || s.Resume != nil {
		t.Fatal("still paused after 3s")
	}
	h.f.Update()
	if s.Pos.Y() >= 0 {
		t.Errorf("sprite did not move after resume: y=%v", s.Pos.Y())
	}
	if len(paused) != 1 || len(resumed) != 1 {
		t.Errorf("hooks: paused=%v resumed=%v", paused, resumed)
	}
}

func TestPauseWhilePausedIsNoop(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	h.f.Pause(3)
	first := h.f.At(3).Resume
	deadline := first.Deadline()

	h.timers.Advance(time.Second)
	if h.f.Pause(3) {
		t.Error("second Pause() = true")
	}
	if h.f.At(3).Resume != first {
		t.Error("second click replaced the timer")
	}
	if first.Deadline() != deadline {
		t.Errorf("deadline moved from %v to %v", deadline, first.Deadline())
	}
	if h.timers.Len() != 1 {
		t.Errorf("pending timers = %d, want 1", h.timers.Len())
	}
	h.timers.Advance(3 * time.Second)
	if h.f.At(3).Paused {
		t.Error("still paused at original deadline")
	}
}

func TestPauseOutOfRange(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	if h.f.Pause(-1) || h.f.Pause(25) {
		t.Error("Pause accepted an out-of-range index")
	}
}

func TestPickNearest(t *testing.T) {
	opts := DefaultOptions()
	opts.Sprites = 3
	h := newHarness(t, opts)
	h.f.sprites[0].Pos = mgl32.Vec3{0, 0, -2}
	h.f.sprites[1].Pos = mgl32.Vec3{0.3, 0, 1}
	h.f.sprites[2].Pos = mgl32.Vec3{4, 4, 0}

	cam := scene.NewCamera(800, 600)
	i, ok := h.f.Pick(&cam, cam.Ray(0, 0))
	if !ok || i != 1 {
		t.Errorf("Pick() = (%d, %v), want (1, true)", i, ok)
	}

	h.f.sprites[0].Pos = mgl32.Vec3{4, -4, 0}
	h.f.sprites[1].Pos = mgl32.Vec3{-4, 4, 0}
	if _, ok := h.f.Pick(&cam, cam.Ray(0, 0)); ok {
		t.Error("Pick() hit with nothing under the ray")
	}
}

func TestCloseCancelsAndReleases(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	resumed := 0
	h.f.opts.OnResume = func(int) { resumed++ }
	for i := 0; i < 5; i++ {
		h.f.Pause(i)
	}
	timers := make([]*sched.Timer, 5)
	for i := range timers {
		timers[i] = h.f.At(i).Resume
	}

	h.f.Close()
	h.f.Close()

	if h.timers.Len() != 0 {
		t.Errorf("pending timers after Close = %d", h.timers.Len())
	}
	for i, tm := range timers {
		if tm.Pending() {
			t.Errorf("timer %d still pending", i)
		}
	}
	h.timers.Advance(time.Minute)
	if resumed != 0 {
		t.Errorf("%d resume callbacks fired after Close", resumed)
	}
	if len(h.tex.live) != 0 {
		t.Errorf("%d textures leaked", len(h.tex.live))
	}
	if got := h.f.Update(); len(got) != 0 {
		t.Error("closed field recycled sprites")
	}
	if h.f.Pause(0) {
		t.Error("closed field accepted a pause")
	}
}

func TestReshuffle(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	h.f.Pause(0)
	h.f.Pause(1)
	before := h.f.At(2).Tex

	h.f.Reshuffle()

	if h.f.PausedCount() != 0 {
		t.Errorf("PausedCount() = %d after reshuffle", h.f.PausedCount())
	}
	if h.timers.Len() != 0 {
		t.Errorf("pending timers = %d after reshuffle", h.timers.Len())
	}
	if h.f.At(2).Tex == before {
		t.Error("texture kept across reshuffle")
	}
	if len(h.tex.live) != 25 {
		t.Errorf("live textures = %d, want 25", len(h.tex.live))
	}
}

func TestQuadsMirrorSprites(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	q := h.f.Quads()
	if len(q) != h.f.Len() {
		t.Fatalf("len(Quads) = %d", len(q))
	}
	for i := range q {
		s := h.f.At(i)
		if q[i].Tex != s.Tex || q[i].Center != s.Pos || q[i].Scale != s.Scale {
			t.Errorf("quad %d = %+v, sprite %+v", i, q[i], s)
		}
	}
}
