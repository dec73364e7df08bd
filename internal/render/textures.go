package render

import (
	"image"
	"image/draw"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// glOffset converts a byte offset to unsafe.Pointer for VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// textureSet tracks the GL textures a drawer handed out so teardown can free
// whatever callers forgot to release.
type textureSet struct {
	live map[uint32]struct{}
}

func newTextureSet() textureSet {
	return textureSet{live: make(map[uint32]struct{})}
}

// upload copies img into a new RGBA8 texture.
func (s *textureSet) upload(img *image.NRGBA) uint32 {
	b := img.Bounds()
	if img.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		tight := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(tight, tight.Bounds(), img, b.Min, draw.Src)
		img = tight
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	s.live[tex] = struct{}{}
	return tex
}

func (s *textureSet) release(tex uint32) {
	if _, ok := s.live[tex]; !ok {
		return
	}
	delete(s.live, tex)
	gl.DeleteTextures(1, &tex)
}

func (s *textureSet) releaseAll() int {
	n := len(s.live)
	for tex := range s.live {
		gl.DeleteTextures(1, &tex)
	}
	clear(s.live)
	return n
}
