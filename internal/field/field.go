// Package field owns the population of falling snippet sprites: spawning,
// per-frame motion, recycling at the bottom boundary, picking and the
// timed pause a click triggers.
package field

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/samber/lo"

	"snippets/internal/corpus"
	"snippets/internal/rng"
	"snippets/internal/sched"
	"snippets/internal/scene"
	"snippets/internal/texture"
)

var (
	ErrNoSnippets = errors.New("field: empty snippet corpus")
	ErrNoSprites  = errors.New("field: sprite count must be positive")
)

// Textures allocates GPU-side images. Upload returns a handle the caller owns
// until it hands it back to Release.
type Textures interface {
	Upload(img *image.NRGBA) uint32
	Release(tex uint32)
}

// Options tunes the field. Zero values are not defaults; start from DefaultOptions.
type Options struct {
	Sprites  int
	MaxSpeed float32 // world units per frame
	Top      float32 // respawn height
	Bottom   float32 // recycle once below this
	SpreadX  float32 // x spawns in [-SpreadX, SpreadX)
	SpreadZ  float32 // z spawns in [-SpreadZ, SpreadZ)
	Scale    mgl32.Vec2
	PauseFor time.Duration

	SpawnLightness   float64
	RespawnLightness float64

	// OnPause and OnResume, when set, are called with the sprite index.
	OnPause  func(i int)
	OnResume func(i int)
}

func DefaultOptions() Options {
	return Options{
		Sprites:          25,
		MaxSpeed:         0.005,
		Top:              5,
		Bottom:           -5,
		SpreadX:          5,
		SpreadZ:          2.5,
		Scale:            mgl32.Vec2{1.5, 1},
		PauseFor:         3 * time.Second,
		SpawnLightness:   0.5,
		RespawnLightness: 0.7,
	}
}

// Deps are the collaborators a field draws on. All are required.
type Deps struct {
	Rand     *rng.Rand
	Corpus   []string
	Raster   *texture.Renderer
	Textures Textures
	Timers   *sched.Timers
}

// Sprite is one falling snippet.
type Sprite struct {
	Pos    mgl32.Vec3
	Scale  mgl32.Vec2
	Speed  float32
	Paused bool
	Resume *sched.Timer // set only while paused

	Tex     uint32
	Snippet string
	Color   color.NRGBA
}

type Field struct {
	opts    Options
	deps    Deps
	sprites []Sprite

	recycled []int
	closed   bool
}

// New spawns opts.Sprites sprites at random positions with fresh textures.
func New(opts Options, deps Deps) (*Field, error) {
	if opts.Sprites <= 0 {
		return nil, ErrNoSprites
	}
	if len(deps.Corpus) == 0 {
		return nil, ErrNoSnippets
	}
	if deps.Rand == nil || deps.Raster == nil || deps.Textures == nil || deps.Timers == nil {
		return nil, fmt.Errorf("field: missing dependency")
	}
	if opts.Bottom >= opts.Top {
		return nil, fmt.Errorf("field: bottom %v must be below top %v", opts.Bottom, opts.Top)
	}

	f := &Field{
		opts:    opts,
		deps:    deps,
		sprites: make([]Sprite, opts.Sprites),
	}
	for i := range f.sprites {
		f.spawn(&f.sprites[i])
	}
	return f, nil
}

func (f *Field) spawn(s *Sprite) {
	r := f.deps.Rand
	*s = Sprite{
		Pos: mgl32.Vec3{
			float32(r.RangeF(-float64(f.opts.SpreadX), float64(f.opts.SpreadX))),
			float32(r.RangeF(float64(f.opts.Bottom), float64(f.opts.Top))),
			float32(r.RangeF(-float64(f.opts.SpreadZ), float64(f.opts.SpreadZ))),
		},
		Scale: f.opts.Scale,
		Speed: float32(r.RangeF(0, float64(f.opts.MaxSpeed))),
	}
	f.repaint(s, f.opts.SpawnLightness)
}

// repaint gives s a new random snippet and hue and swaps in a freshly
// rasterised texture, releasing the previous one.
func (f *Field) repaint(s *Sprite, lightness float64) {
	r := f.deps.Rand
	s.Snippet = corpus.Pick(f.deps.Corpus, r)
	s.Color = texture.HSL(r.RangeF(0, 360), 1, lightness)

	img := f.deps.Raster.Render(texture.Lines(s.Snippet), s.Color)
	old := s.Tex
	s.Tex = f.deps.Textures.Upload(img)
	if old != 0 {
		f.deps.Textures.Release(old)
	}
}

// Update advances every unpaused sprite by one frame and recycles those that
// fell below the bottom boundary. It returns the indices recycled this frame;
// the slice is reused by the next call.
func (f *Field) Update() []int {
	f.recycled = f.recycled[:0]
	if f.closed {
		return f.recycled
	}
	for i := range f.sprites {
		s := &f.sprites[i]
		if s.Paused {
			continue
		}
		s.Pos[1] -= s.Speed
		if s.Pos[1] < f.opts.Bottom {
			s.Pos[1] = f.opts.Top
			f.repaint(s, f.opts.RespawnLightness)
			f.recycled = append(f.recycled, i)
		}
	}
	return f.recycled
}

// Pick returns the sprite nearest the camera along r.
func (f *Field) Pick(cam *scene.Camera, r scene.Ray) (int, bool) {
	hits := cam.Intersect(r, f.Billboards())
	if len(hits) == 0 {
		return 0, false
	}
	return hits[0].Index, true
}

// Pause freezes sprite i for PauseFor. A sprite that is already paused keeps
// its original timer; Pause then reports false.
func (f *Field) Pause(i int) bool {
	if f.closed || i < 0 || i >= len(f.sprites) {
		return false
	}
	s := &f.sprites[i]
	if s.Paused {
		return false
	}
	s.Paused = true
	s.Resume = f.deps.Timers.AfterFunc(f.opts.PauseFor, func() { f.resume(i) })
	if f.opts.OnPause != nil {
		f.opts.OnPause(i)
	}
	return true
}

func (f *Field) resume(i int) {
	s := &f.sprites[i]
	s.Paused = false
	s.Resume = nil
	if f.opts.OnResume != nil {
		f.opts.OnResume(i)
	}
}

// Reshuffle respawns every sprite with new content and position, cancelling
// any pending resume timers.
func (f *Field) Reshuffle() {
	if f.closed {
		return
	}
	f.stopTimers()
	for i := range f.sprites {
		old := f.sprites[i].Tex
		f.spawn(&f.sprites[i])
		if old != 0 {
			f.deps.Textures.Release(old)
		}
	}
}

// Close stops every pending timer and releases every texture. It is safe to
// call more than once.
func (f *Field) Close() {
	if f.closed {
		return
	}
	f.closed = true
	f.stopTimers()
	for i := range f.sprites {
		if tex := f.sprites[i].Tex; tex != 0 {
			f.deps.Textures.Release(tex)
			f.sprites[i].Tex = 0
		}
	}
}

func (f *Field) stopTimers() {
	for i := range f.sprites {
		s := &f.sprites[i]
		if s.Resume != nil {
			s.Resume.Stop()
			s.Resume = nil
		}
		s.Paused = false
	}
}

func (f *Field) Len() int { return len(f.sprites) }

// At returns a copy of sprite i.
func (f *Field) At(i int) Sprite { return f.sprites[i] }

// PausedCount returns how many sprites are currently frozen.
func (f *Field) PausedCount() int {
	return lo.CountBy(f.sprites, func(s Sprite) bool { return s.Paused })
}

// Billboards returns the pickable extent of each sprite, indexed like the field.
func (f *Field) Billboards() []scene.Billboard {
	return lo.Map(f.sprites, func(s Sprite, _ int) scene.Billboard {
		return scene.Billboard{Center: s.Pos, Scale: s.Scale}
	})
}

// Quads returns the draw list for the current positions and textures.
func (f *Field) Quads() []scene.Quad {
	return lo.Map(f.sprites, func(s Sprite, _ int) scene.Quad {
		return scene.Quad{Tex: s.Tex, Billboard: scene.Billboard{Center: s.Pos, Scale: s.Scale}}
	})
}
