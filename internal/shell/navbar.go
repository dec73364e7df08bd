package shell

import (
	"strings"

	"github.com/samber/lo"
)

// Link is a labelled navigation target.
type Link struct {
	Label string
	Path  string
}

// DefaultLinks are the links of the stock bar.
var DefaultLinks = []Link{
	{Label: "Home", Path: "/"},
	{Label: "About", Path: "/about"},
}

// Rect is an axis-aligned box in viewport pixels, origin top-left.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

const linkSep = "   "

// NavBar lays links out left to right along the top of the viewport.
type NavBar struct {
	Links  []Link
	Height int
	Inset  int

	measure func(string) int
	width   int
	rects   []Rect
}

// NewNavBar returns a bar whose labels are measured with measure, which must
// match the face the bar is drawn with.
func NewNavBar(links []Link, height, inset int, measure func(string) int) *NavBar {
	return &NavBar{
		Links:   links,
		Height:  height,
		Inset:   inset,
		measure: measure,
	}
}

// Text is the single line the bar draws.
func (b *NavBar) Text() string {
	return strings.Join(lo.Map(b.Links, func(l Link, _ int) string { return l.Label }), linkSep)
}

// Layout places every link for a viewport of the given width.
func (b *NavBar) Layout(width int) {
	b.width = width
	b.rects = b.rects[:0]
	prefix := ""
	for i, l := range b.Links {
		if i > 0 {
			prefix += linkSep
		}
		x0 := b.Inset + b.measure(prefix)
		prefix += l.Label
		x1 := b.Inset + b.measure(prefix)
		b.rects = append(b.rects, Rect{
			X: float64(x0),
			W: float64(x1 - x0),
			H: float64(b.Height),
		})
	}
}

func (b *NavBar) Width() int { return b.width }

// Rects returns the hit boxes from the last Layout, indexed like Links.
func (b *NavBar) Rects() []Rect { return b.rects }

// HitTest returns the link under a viewport point.
func (b *NavBar) HitTest(x, y float64) (Link, bool) {
	for i, r := range b.rects {
		if r.Contains(x, y) {
			return b.Links[i], true
		}
	}
	return Link{}, false
}
