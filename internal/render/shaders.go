package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Billboard vertex shader: a unit quad expanded along the camera's right and
// up axes so every sprite faces the viewer.
const billboardVertSrc = `#version 410 core

layout(location = 0) in vec2 aPos; // -0.5..0.5 quad vertex

uniform mat4 uView;
uniform mat4 uProj;
uniform vec3 uCenter;
uniform vec2 uScale;

out vec2 vUV;

void main() {
    vec3 right = vec3(uView[0][0], uView[1][0], uView[2][0]);
    vec3 up = vec3(uView[0][1], uView[1][1], uView[2][1]);
    vec3 world = uCenter + right * aPos.x * uScale.x + up * aPos.y * uScale.y;
    gl_Position = uProj * uView * vec4(world, 1.0);
    vUV = vec2(aPos.x + 0.5, 0.5 - aPos.y);
}
` + "\x00"

const billboardFragSrc = `#version 410 core

uniform sampler2D uTex;

in vec2 vUV;
out vec4 FragColor;

void main() {
    vec4 t = texture(uTex, vUV);
    if (t.a < 0.01) discard;
    FragColor = t;
}
` + "\x00"

// Overlay vertex shader: screen-space textured quads in framebuffer pixels.
const overlayVertSrc = `#version 410 core

layout(location = 0) in vec2 aPos;
layout(location = 1) in vec2 aUV;

uniform vec2 uResolution;

out vec2 vUV;

void main() {
    vec2 ndc = (aPos / uResolution) * 2.0 - 1.0;
    ndc.y = -ndc.y;
    gl_Position = vec4(ndc, 0.0, 1.0);
    vUV = aUV;
}
` + "\x00"

const overlayFragSrc = `#version 410 core

uniform sampler2D uTex;

in vec2 vUV;
out vec4 FragColor;

void main() {
    vec4 t = texture(uTex, vUV);
    if (t.a < 0.01) discard;
    FragColor = t;
}
` + "\x00"

// stageName names a shader type in error messages.
func stageName(kind uint32) string {
	switch kind {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	}
	return fmt.Sprintf("0x%x", kind)
}

// infoLog reads a shader or program log through the matching pair of getters.
func infoLog(obj uint32, iv func(uint32, uint32, *int32), read func(uint32, int32, *int32, *uint8)) string {
	var n int32
	iv(obj, gl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	var written int32
	read(obj, n, &written, &buf[0])
	return logText(buf[:max(0, min(written, n))])
}

// logText trims the NUL terminator and trailing newlines drivers leave in logs.
func logText(b []byte) string {
	return strings.TrimSpace(strings.TrimRight(string(b), "\x00"))
}

func compileShader(kind uint32, src string) (uint32, error) {
	sh := gl.CreateShader(kind)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(sh, 1, csrc, nil)
	free()
	gl.CompileShader(sh)

	var ok int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(sh, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("compile %s shader: %s", stageName(kind), msg)
	}
	return sh, nil
}

// linkProgram compiles both stages and links them. The shader objects are
// released either way; only the program outlives the call.
func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	var shaders []uint32
	defer func() {
		for _, sh := range shaders {
			gl.DeleteShader(sh)
		}
	}()
	for _, st := range []struct {
		kind uint32
		src  string
	}{
		{gl.VERTEX_SHADER, vertSrc},
		{gl.FRAGMENT_SHADER, fragSrc},
	} {
		sh, err := compileShader(st.kind, st.src)
		if err != nil {
			return 0, err
		}
		shaders = append(shaders, sh)
	}

	prog := gl.CreateProgram()
	for _, sh := range shaders {
		gl.AttachShader(prog, sh)
	}
	gl.LinkProgram(prog)
	for _, sh := range shaders {
		gl.DetachShader(prog, sh)
	}

	var ok int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(prog, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link program: %s", msg)
	}
	return prog, nil
}

func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}
