package shell

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"snippets/internal/sched"
	"snippets/internal/texture"
	"snippets/internal/widget"
)

// OverlayQuad is a textured rectangle in framebuffer pixels, origin top-left.
type OverlayQuad struct {
	Tex        uint32
	X, Y, W, H float32
}

// Overlay draws screen-space images above the scene.
type Overlay interface {
	Upload(img *image.NRGBA) uint32
	Release(tex uint32)
	DrawOverlay(quads []OverlayQuad)
	Destroy()
}

// Container is a widget container that can also host overlays.
type Container interface {
	widget.Container
	NewOverlay() (Overlay, error)
}

const (
	DefaultBarHeight = 36
	viewMargin       = 24
)

var (
	barColor  = texture.HSL(210, 0.25, 0.85)
	viewColor = texture.HSL(0, 0, 0.95)
)

type Options struct {
	Widget    widget.Options
	Links     []Link
	Router    *Router
	BarHeight int
	Logger    *log.Logger

	// OnNavigate, when set, is called with the new path after a route change.
	OnNavigate func(path string)
}

// Page stacks the navigation bar, the falling-snippets widget and the routed
// view.
type Page struct {
	host    Container
	widget  *widget.Widget
	overlay Overlay
	bar     *NavBar
	router  *Router
	raster  *texture.Renderer
	log     *log.Logger
	onNav   func(string)

	barTex  uint32
	viewTex uint32

	frame        sched.FrameID
	removeClick  func()
	removeResize func()
	closed       bool
}

// linkFilter keeps clicks on a nav link away from the widget. Clicks on the
// rest of the bar still reach the scene behind it.
type linkFilter struct {
	widget.Container
	bar *NavBar
}

func (f linkFilter) OnClick(fn func(widget.Click)) func() {
	return f.Container.OnClick(func(c widget.Click) {
		if _, ok := f.bar.HitTest(c.X, c.Y); ok {
			return
		}
		fn(c)
	})
}

// Mount mounts the widget into c, then the overlay layer for the bar and the
// current view. On error nothing stays registered.
func Mount(c Container, opts Options) (*Page, error) {
	if c == nil {
		return nil, widget.ErrNoContainer
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.Widget.Logger == nil {
		opts.Widget.Logger = logger
	}
	raster := opts.Widget.Raster
	if raster == nil {
		r, err := texture.New()
		if err != nil {
			return nil, fmt.Errorf("text renderer: %w", err)
		}
		raster = r
		opts.Widget.Raster = r
	}
	router := opts.Router
	if router == nil {
		router = DefaultRouter()
	}
	links := opts.Links
	if links == nil {
		links = DefaultLinks
	}
	height := opts.BarHeight
	if height <= 0 {
		height = DefaultBarHeight
	}

	bar := NewNavBar(links, height, raster.InsetX, raster.TextWidth)
	bar.Layout(c.ViewportSize().W)

	w, err := widget.Mount(linkFilter{Container: c, bar: bar}, opts.Widget)
	if err != nil {
		return nil, err
	}
	overlay, err := c.NewOverlay()
	if err != nil {
		w.Unmount()
		return nil, fmt.Errorf("create overlay: %w", err)
	}
	if overlay == nil {
		w.Unmount()
		return nil, fmt.Errorf("create overlay: %w", widget.ErrNoContainer)
	}

	p := &Page{
		host:    c,
		widget:  w,
		overlay: overlay,
		bar:     bar,
		router:  router,
		raster:  raster,
		log:     logger,
		onNav:   opts.OnNavigate,
	}
	p.paintBar()
	p.paintView()

	p.removeClick = c.OnClick(p.click)
	p.removeResize = c.OnResize(p.resize)
	p.frame = c.RequestFrame(p.draw)
	return p, nil
}

func (p *Page) paintBar() {
	r := p.raster.WithSize(max(p.bar.Width(), 1), p.bar.Height)
	r.InsetY = (p.bar.Height - r.LineHeight) / 2
	p.barTex = p.swap(p.barTex, r.Render([]string{p.bar.Text()}, barColor))
}

func (p *Page) paintView() {
	_, v := p.router.Current()
	if v == nil {
		p.viewTex = p.swap(p.viewTex, nil)
		return
	}
	p.viewTex = p.swap(p.viewTex, p.raster.Render(v.Lines(), viewColor))
}

// swap uploads img, if any, and then releases old.
func (p *Page) swap(old uint32, img *image.NRGBA) uint32 {
	var tex uint32
	if img != nil {
		tex = p.overlay.Upload(img)
	}
	if old != 0 {
		p.overlay.Release(old)
	}
	return tex
}

// Quads returns the overlay draw list for the current viewport, bar first.
func (p *Page) Quads() []OverlayQuad {
	vp, fb := p.host.ViewportSize(), p.host.FramebufferSize()
	if vp.W <= 0 || vp.H <= 0 {
		return nil
	}
	sx := float32(fb.W) / float32(vp.W)
	sy := float32(fb.H) / float32(vp.H)

	quads := make([]OverlayQuad, 0, 2)
	if p.barTex != 0 {
		quads = append(quads, OverlayQuad{
			Tex: p.barTex,
			W:   float32(p.bar.Width()) * sx,
			H:   float32(p.bar.Height) * sy,
		})
	}
	if p.viewTex != 0 {
		x := float32(vp.W-p.raster.W) / 2
		y := float32(p.bar.Height + viewMargin)
		quads = append(quads, OverlayQuad{
			Tex: p.viewTex,
			X:   x * sx,
			Y:   y * sy,
			W:   float32(p.raster.W) * sx,
			H:   float32(p.raster.H) * sy,
		})
	}
	return quads
}

func (p *Page) draw(time.Duration) {
	if p.closed {
		return
	}
	p.overlay.DrawOverlay(p.Quads())
	p.frame = p.host.RequestFrame(p.draw)
}

func (p *Page) click(c widget.Click) {
	if p.closed {
		return
	}
	l, ok := p.bar.HitTest(c.X, c.Y)
	if !ok {
		return
	}
	if err := p.Navigate(l.Path); err != nil {
		p.log.Warn("navigation failed", "path", l.Path, "err", err)
	}
}

func (p *Page) resize(widget.Size) {
	if p.closed {
		return
	}
	p.bar.Layout(p.host.ViewportSize().W)
	p.paintBar()
}

// Navigate routes to path and repaints the view layer.
func (p *Page) Navigate(path string) error {
	if p.closed {
		return errors.New("shell: page unmounted")
	}
	before, _ := p.router.Current()
	if err := p.router.Navigate(path); err != nil {
		return fmt.Errorf("navigate %q: %w", path, err)
	}
	after, _ := p.router.Current()
	if after != before {
		p.paintView()
		p.log.Debug("navigated", "from", before, "to", after)
		if p.onNav != nil {
			p.onNav(after)
		}
	}
	return nil
}

func (p *Page) Widget() *widget.Widget { return p.widget }
func (p *Page) Router() *Router        { return p.router }
func (p *Page) Bar() *NavBar           { return p.bar }

// Unmount removes the overlay layer and then the widget. Extra calls do nothing.
func (p *Page) Unmount() {
	if p.closed {
		return
	}
	p.closed = true
	p.host.CancelFrame(p.frame)
	p.removeClick()
	p.removeResize()
	p.barTex = p.swap(p.barTex, nil)
	p.viewTex = p.swap(p.viewTex, nil)
	p.overlay.Destroy()
	p.widget.Unmount()
}
