// Package render draws scene frames and screen-space overlays with OpenGL 4.1
// core. Every call must happen on the thread that owns the GL context.
package render

import (
	"fmt"
	"image"

	"github.com/charmbracelet/log"
	"github.com/go-gl/gl/v4.1-core/gl"

	"snippets/internal/scene"
)

// Surface renders billboard sprites. It implements widget.Surface.
type Surface struct {
	prog uint32
	vao  uint32
	vbo  uint32

	uView   int32
	uProj   int32
	uCenter int32
	uScale  int32
	uTex    int32

	textures textureSet
	width    int32
	height   int32
	log      *log.Logger
}

func NewSurface(logger *log.Logger) (*Surface, error) {
	if logger == nil {
		logger = log.Default()
	}
	prog, err := linkProgram(billboardVertSrc, billboardFragSrc)
	if err != nil {
		return nil, fmt.Errorf("billboard program: %w", err)
	}
	s := &Surface{
		prog:     prog,
		textures: newTextureSet(),
		log:      logger,
	}

	// Unit quad centred on the origin (6 vertices, 2 triangles).
	gl.GenVertexArrays(1, &s.vao)
	gl.GenBuffers(1, &s.vbo)
	gl.BindVertexArray(s.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	quadVerts := [12]float32{
		-0.5, -0.5, 0.5, -0.5, 0.5, 0.5,
		-0.5, -0.5, 0.5, 0.5, -0.5, 0.5,
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVerts)*4, gl.Ptr(&quadVerts[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, glOffset(0))
	gl.BindVertexArray(0)

	gl.UseProgram(prog)
	s.uView = uniform(prog, "uView")
	s.uProj = uniform(prog, "uProj")
	s.uCenter = uniform(prog, "uCenter")
	s.uScale = uniform(prog, "uScale")
	s.uTex = uniform(prog, "uTex")
	gl.Uniform1i(s.uTex, 0)

	return s, nil
}

func (s *Surface) Upload(img *image.NRGBA) uint32 { return s.textures.upload(img) }
func (s *Surface) Release(tex uint32)             { s.textures.release(tex) }

// Resize sets the viewport to the framebuffer size.
func (s *Surface) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	s.width, s.height = int32(w), int32(h)
	gl.Viewport(0, 0, s.width, s.height)
}

// Draw renders f's quads in order with alpha blending. The caller clears.
func (s *Surface) Draw(f scene.Frame) {
	if len(f.Quads) == 0 {
		return
	}
	gl.Viewport(0, 0, s.width, s.height)
	gl.UseProgram(s.prog)
	gl.BindVertexArray(s.vao)
	gl.UniformMatrix4fv(s.uView, 1, false, &f.View[0])
	gl.UniformMatrix4fv(s.uProj, 1, false, &f.Projection[0])

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ActiveTexture(gl.TEXTURE0)
	for _, q := range f.Quads {
		if q.Tex == 0 {
			continue
		}
		gl.BindTexture(gl.TEXTURE_2D, q.Tex)
		gl.Uniform3f(s.uCenter, q.Center.X(), q.Center.Y(), q.Center.Z())
		gl.Uniform2f(s.uScale, q.Scale.X(), q.Scale.Y())
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
	}
	gl.Disable(gl.BLEND)
	gl.BindVertexArray(0)
}

// Destroy frees the program, buffers and any texture still alive.
func (s *Surface) Destroy() {
	if s.prog == 0 {
		return
	}
	if n := s.textures.releaseAll(); n > 0 {
		s.log.Debug("freed leftover sprite textures", "count", n)
	}
	gl.DeleteBuffers(1, &s.vbo)
	gl.DeleteVertexArrays(1, &s.vao)
	gl.DeleteProgram(s.prog)
	s.prog, s.vao, s.vbo = 0, 0, 0
}
