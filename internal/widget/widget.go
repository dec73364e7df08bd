// Package widget mounts the falling-snippets background into a host window.
//
// Mount wires a field of sprites, a perspective camera and a rendering
// surface to the host's display scheduler. The widget then animates once per
// displayed frame and pauses sprites under pointer clicks. Unmount reverses
// every registration, stopping frames, timers, listeners and GPU resources,
// and is safe on any path, including a second call.
package widget

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"snippets/internal/corpus"
	"snippets/internal/field"
	"snippets/internal/rng"
	"snippets/internal/sched"
	"snippets/internal/scene"
	"snippets/internal/texture"
)

// ErrNoContainer is returned by Mount when there is nothing to mount into.
var ErrNoContainer = errors.New("widget: no container")

// Size is a viewport or framebuffer size in pixels.
type Size struct {
	W, H int
}

// Click is a pointer click in viewport pixels, origin top-left.
type Click struct {
	X, Y float64
}

// Host is the display scheduler and event source a widget runs against.
type Host interface {
	RequestFrame(fn sched.FrameFunc) sched.FrameID
	CancelFrame(id sched.FrameID) bool
	Timers() *sched.Timers

	// OnResize and OnClick register listeners and return their removal.
	OnResize(fn func(Size)) (remove func())
	OnClick(fn func(Click)) (remove func())

	// ViewportSize is the size clicks are measured against.
	ViewportSize() Size
	// FramebufferSize is the size the surface renders at.
	FramebufferSize() Size
}

// Surface draws scene frames and owns the textures it hands out.
type Surface interface {
	Upload(img *image.NRGBA) uint32
	Release(tex uint32)
	Resize(w, h int)
	Draw(f scene.Frame)
	Destroy()
}

// Container is a Host that can create the widget's rendering surface.
type Container interface {
	Host
	NewSurface() (Surface, error)
}

// Options configures a widget. A Field with zero Sprites is replaced by
// field.DefaultOptions, keeping its OnPause and OnResume hooks.
type Options struct {
	Field  field.Options
	Seed   uint64
	Corpus []string
	Raster *texture.Renderer
	Logger *log.Logger
}

// Widget is a mounted falling-snippets background.
type Widget struct {
	host    Host
	surface Surface
	field   *field.Field
	cam     scene.Camera
	log     *log.Logger

	frame        sched.FrameID
	removeResize func()
	removeClick  func()
	closed       bool

	frames uint64
}

// Mount builds the scene inside c and starts animating on the next frame.
// Any failure leaves c exactly as it was.
func Mount(c Container, opts Options) (*Widget, error) {
	if c == nil {
		return nil, ErrNoContainer
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	raster := opts.Raster
	if raster == nil {
		r, err := texture.New()
		if err != nil {
			return nil, fmt.Errorf("text renderer: %w", err)
		}
		raster = r
	}
	fo := opts.Field
	if fo.Sprites == 0 {
		def := field.DefaultOptions()
		def.OnPause, def.OnResume = fo.OnPause, fo.OnResume
		fo = def
	}
	snippets := opts.Corpus
	if snippets == nil {
		snippets = corpus.Snippets
	}

	surface, err := c.NewSurface()
	if err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}
	if surface == nil {
		return nil, fmt.Errorf("create surface: %w", ErrNoContainer)
	}

	f, err := field.New(fo, field.Deps{
		Rand:     rng.New(opts.Seed),
		Corpus:   snippets,
		Raster:   raster,
		Textures: surface,
		Timers:   c.Timers(),
	})
	if err != nil {
		surface.Destroy()
		return nil, fmt.Errorf("spawn field: %w", err)
	}

	fb := c.FramebufferSize()
	w := &Widget{
		host:    c,
		surface: surface,
		field:   f,
		cam:     scene.NewCamera(fb.W, fb.H),
		log:     logger,
	}
	surface.Resize(fb.W, fb.H)

	w.removeResize = c.OnResize(w.resize)
	w.removeClick = c.OnClick(w.click)
	w.frame = c.RequestFrame(w.animate)

	logger.Debug("falling snippets mounted", "sprites", f.Len(), "width", fb.W, "height", fb.H)
	return w, nil
}

// animate is the per-frame task. It re-registers itself until unmount.
func (w *Widget) animate(time.Duration) {
	if w.closed {
		return
	}
	w.frames++
	if n := len(w.field.Update()); n > 0 {
		w.log.Debug("recycled sprites", "count", n)
	}
	w.surface.Draw(w.cam.NewFrame(w.field.Quads()))
	w.frame = w.host.RequestFrame(w.animate)
}

func (w *Widget) resize(s Size) {
	if w.closed {
		return
	}
	w.cam.SetViewport(s.W, s.H)
	w.surface.Resize(s.W, s.H)
	w.log.Debug("viewport resized", "width", s.W, "height", s.H)
}

func (w *Widget) click(c Click) {
	if w.closed {
		return
	}
	vp := w.host.ViewportSize()
	nx, ny, ok := scene.ToNDC(c.X, c.Y, vp.W, vp.H)
	if !ok {
		return
	}
	i, hit := w.field.Pick(&w.cam, w.cam.Ray(nx, ny))
	if !hit {
		return
	}
	if w.field.Pause(i) {
		w.log.Debug("sprite paused", "index", i, "paused", w.field.PausedCount())
	}
}

// Reshuffle respawns every sprite and drops all pending pauses.
func (w *Widget) Reshuffle() {
	if w.closed {
		return
	}
	w.field.Reshuffle()
	w.log.Debug("field reshuffled")
}

// Field exposes the sprite population for inspection.
func (w *Widget) Field() *field.Field { return w.field }

// Frames returns how many frames the widget has animated.
func (w *Widget) Frames() uint64 { return w.frames }

// Unmount stops the frame task, cancels pending resume timers, removes the
// event listeners and releases the surface. Extra calls do nothing.
func (w *Widget) Unmount() {
	if w.closed {
		return
	}
	w.closed = true
	w.host.CancelFrame(w.frame)
	w.removeResize()
	w.removeClick()
	w.field.Close()
	w.surface.Destroy()
	w.log.Debug("falling snippets unmounted", "frames", w.frames)
}
