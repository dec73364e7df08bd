// Package texture rasterises snippet text into sprite images.
package texture

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Default canvas layout for sprite textures.
const (
	Width      = 512
	Height     = 256
	FontSize   = 18.0
	LineHeight = 20
	InsetX     = 10
	InsetY     = 20
	TabWidth   = 4
)

// Renderer draws left-aligned lines of text onto a fixed-size transparent canvas.
type Renderer struct {
	W, H       int
	LineHeight int
	InsetX     int
	InsetY     int

	face   font.Face
	ascent float64
}

// New parses the embedded Go Mono face and returns a renderer using the
// default sprite layout.
func New() (*Renderer, error) {
	return NewSized(Width, Height, FontSize)
}

// NewSized returns a renderer for a w×h canvas at the given font size.
func NewSized(w, h int, size float64) (*Renderer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("canvas size %dx%d", w, h)
	}
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse gomono: %w", err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	return &Renderer{
		W:          w,
		H:          h,
		LineHeight: LineHeight,
		InsetX:     InsetX,
		InsetY:     InsetY,
		face:       face,
		ascent:     float64(face.Metrics().Ascent.Ceil()),
	}, nil
}

// WithSize returns a copy sharing the font face but drawing onto a w×h canvas.
func (r *Renderer) WithSize(w, h int) *Renderer {
	c := *r
	c.W, c.H = w, h
	return &c
}

// Render draws each line top-aligned at (InsetX, InsetY + i*LineHeight).
// Lines that fall outside the canvas are drawn off-bitmap and lost.
// Every call allocates a fresh image.
func (r *Renderer) Render(lines []string, c color.Color) *image.NRGBA {
	dc := gg.NewContext(r.W, r.H)
	dc.SetFontFace(r.face)
	dc.SetColor(c)
	for i, line := range lines {
		top := float64(r.InsetY + i*r.LineHeight)
		dc.DrawString(line, float64(r.InsetX), top+r.ascent)
	}

	src := dc.Image()
	dst := image.NewNRGBA(image.Rect(0, 0, r.W, r.H))
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// TextWidth returns the advance width of s in pixels.
func (r *Renderer) TextWidth(s string) int {
	return font.MeasureString(r.face, s).Ceil()
}

// Lines splits text into drawable lines, expanding tabs since the face has no
// tab glyph.
func Lines(text string) []string {
	lines := strings.Split(text, "\n")
	tab := strings.Repeat(" ", TabWidth)
	for i, l := range lines {
		lines[i] = strings.ReplaceAll(l, "\t", tab)
	}
	return lines
}

// HSL converts hue in degrees and saturation/lightness in [0,1] to an opaque colour.
func HSL(h, s, l float64) color.NRGBA {
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
