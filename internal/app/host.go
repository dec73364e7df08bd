package app

import (
	"github.com/charmbracelet/log"
	"github.com/go-gl/glfw/v3.3/glfw"

	"snippets/internal/render"
	"snippets/internal/shell"
	"snippets/internal/widget"
)

var _ shell.Container = (*Host)(nil)

// Host adapts a glfw window to the page: it owns the frame and timer queues
// and feeds them window sizes and clicks polled once per loop iteration.
type Host struct {
	*widget.Dispatcher
	window *glfw.Window
	log    *log.Logger
}

func newHost(window *glfw.Window, logger *log.Logger) *Host {
	return &Host{
		Dispatcher: widget.NewDispatcher(windowSizes(window)),
		window:     window,
		log:        logger,
	}
}

func windowSizes(window *glfw.Window) (viewport, fb widget.Size) {
	w, h := window.GetSize()
	fw, fh := window.GetFramebufferSize()
	return widget.Size{W: w, H: h}, widget.Size{W: fw, H: fh}
}

func (h *Host) NewSurface() (widget.Surface, error) {
	s, err := render.NewSurface(h.log)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (h *Host) NewOverlay() (shell.Overlay, error) {
	o, err := render.NewOverlay(h.window.GetFramebufferSize)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// poll forwards size changes and fresh left clicks to listeners. It reports
// false while the window is minimised.
func (h *Host) poll(in *Input) bool {
	vp, fb := windowSizes(h.window)
	if fb.W <= 0 || fb.H <= 0 {
		return false
	}
	h.Resize(vp, fb)
	if in.JustClicked(h.window, glfw.MouseButtonLeft) {
		x, y := h.window.GetCursorPos()
		h.Click(widget.Click{X: x, Y: y})
	}
	return true
}
