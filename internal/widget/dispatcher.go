package widget

import (
	"time"

	"snippets/internal/sched"
)

// Dispatcher is the window-independent half of a Host: the frame queue, the
// timer clock and the resize/click listener registries. Window backends embed
// it and feed it events; tests drive it directly.
type Dispatcher struct {
	frames  sched.Frames
	timers  sched.Timers
	resizes sched.Listeners[Size]
	clicks  sched.Listeners[Click]

	viewport    Size
	framebuffer Size
}

// NewDispatcher returns a dispatcher for a viewport of the given size whose
// framebuffer is fb (larger on high-DPI displays).
func NewDispatcher(viewport, fb Size) *Dispatcher {
	return &Dispatcher{viewport: viewport, framebuffer: fb}
}

func (d *Dispatcher) RequestFrame(fn sched.FrameFunc) sched.FrameID { return d.frames.Request(fn) }
func (d *Dispatcher) CancelFrame(id sched.FrameID) bool              { return d.frames.Cancel(id) }
func (d *Dispatcher) Timers() *sched.Timers                          { return &d.timers }
func (d *Dispatcher) ViewportSize() Size                             { return d.viewport }
func (d *Dispatcher) FramebufferSize() Size                          { return d.framebuffer }

func (d *Dispatcher) OnResize(fn func(Size)) func() {
	id := d.resizes.Add(fn)
	return func() { d.resizes.Remove(id) }
}

func (d *Dispatcher) OnClick(fn func(Click)) func() {
	id := d.clicks.Add(fn)
	return func() { d.clicks.Remove(id) }
}

// Tick advances the clock, fires due timers, then runs the frame callbacks
// queued before the tick. It returns the number of frame callbacks run.
func (d *Dispatcher) Tick(now time.Duration) int {
	d.timers.Advance(now)
	return d.frames.Run(d.timers.Now())
}

// Resize records new viewport and framebuffer sizes and notifies listeners
// with the framebuffer size.
func (d *Dispatcher) Resize(viewport, fb Size) {
	if viewport == d.viewport && fb == d.framebuffer {
		return
	}
	d.viewport, d.framebuffer = viewport, fb
	d.resizes.Emit(fb)
}

// Click notifies click listeners.
func (d *Dispatcher) Click(c Click) { d.clicks.Emit(c) }

// Pending reports queued frames, pending timers and registered listeners.
func (d *Dispatcher) Pending() (frames, timers, listeners int) {
	return d.frames.Len(), d.timers.Len(), d.resizes.Len() + d.clicks.Len()
}
