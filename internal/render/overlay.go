package render

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"snippets/internal/shell"
)

// Overlay draws screen-space textured quads above the scene. It implements
// shell.Overlay.
type Overlay struct {
	prog uint32
	vao  uint32
	vbo  uint32

	uRes int32
	uTex int32

	textures textureSet
	buf      []float32
	size     func() (w, h int)
}

// NewOverlay builds the overlay pipeline. size reports the framebuffer size
// the quads are measured in.
func NewOverlay(size func() (w, h int)) (*Overlay, error) {
	prog, err := linkProgram(overlayVertSrc, overlayFragSrc)
	if err != nil {
		return nil, fmt.Errorf("overlay program: %w", err)
	}
	o := &Overlay{
		prog:     prog,
		textures: newTextureSet(),
		size:     size,
	}

	gl.UseProgram(prog)
	o.uRes = uniform(prog, "uResolution")
	o.uTex = uniform(prog, "uTex")
	gl.Uniform1i(o.uTex, 1) // texture unit 1

	// Per-vertex pos(2) + uv(2) = 4 floats.
	gl.GenVertexArrays(1, &o.vao)
	gl.GenBuffers(1, &o.vbo)
	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	stride := int32(4 * 4)
	gl.BufferData(gl.ARRAY_BUFFER, 16*6*int(stride), nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0) // aPos
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, glOffset(0))
	gl.EnableVertexAttribArray(1) // aUV
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, glOffset(2*4))
	gl.BindVertexArray(0)

	return o, nil
}

func (o *Overlay) Upload(img *image.NRGBA) uint32 { return o.textures.upload(img) }
func (o *Overlay) Release(tex uint32)             { o.textures.release(tex) }

// DrawOverlay draws quads in order, one draw call per texture.
func (o *Overlay) DrawOverlay(quads []shell.OverlayQuad) {
	if len(quads) == 0 {
		return
	}
	fbW, fbH := o.size()
	if fbW <= 0 || fbH <= 0 {
		return
	}

	o.buf = appendQuadVerts(o.buf[:0], quads)

	gl.UseProgram(o.prog)
	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(o.buf)*4, gl.Ptr(o.buf), gl.STREAM_DRAW)
	gl.Uniform2f(o.uRes, float32(fbW), float32(fbH))

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ActiveTexture(gl.TEXTURE1)
	for i, q := range quads {
		if q.Tex == 0 {
			continue
		}
		gl.BindTexture(gl.TEXTURE_2D, q.Tex)
		gl.DrawArrays(gl.TRIANGLES, int32(i*6), 6)
	}
	gl.Disable(gl.BLEND)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(0)
}

func (o *Overlay) Destroy() {
	if o.prog == 0 {
		return
	}
	o.textures.releaseAll()
	gl.DeleteBuffers(1, &o.vbo)
	gl.DeleteVertexArrays(1, &o.vao)
	gl.DeleteProgram(o.prog)
	o.prog, o.vao, o.vbo = 0, 0, 0
}

// appendQuadVerts appends two triangles per quad: TL, TR, BL then TR, BR, BL.
func appendQuadVerts(buf []float32, quads []shell.OverlayQuad) []float32 {
	for _, q := range quads {
		x0, y0, x1, y1 := q.X, q.Y, q.X+q.W, q.Y+q.H
		buf = append(buf,
			x0, y0, 0, 0,
			x1, y0, 1, 0,
			x0, y1, 0, 1,
			x1, y0, 1, 0,
			x1, y1, 1, 1,
			x0, y1, 0, 1,
		)
	}
	return buf
}
