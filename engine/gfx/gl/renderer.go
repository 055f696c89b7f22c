package glbackend

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/sqgui/sqgui/engine/core"
	"github.com/sqgui/sqgui/engine/gfx/batch"
)

// Backend is the OpenGL 3.3 device: it implements both the engine's renderer
// contract (textures, clear, resize) and batch submission. One shared
// vertex/index buffer pair is orphaned and refilled per batch; the projection
// maps framebuffer pixels with a top-left origin.
type Backend struct {
	win     core.Window
	program uint32
	vao     uint32
	vbo     uint32
	ebo     uint32
	white   uint32

	uProj int32
	uTex  int32

	width, height int
	vcap, icap    int // buffer capacities in bytes
}

type texture2D struct {
	id   uint32
	w, h int
}

func (t *texture2D) Size() (int, int) { return t.w, t.h }

// New creates the backend and initializes the GL state. The context must be
// current on the calling thread.
func New(win core.Window, cfg core.Config) (*Backend, error) {
	b := &Backend{win: win}
	if err := b.Init(); err != nil {
		return nil, err
	}
	w, h := win.FramebufferSize()
	b.Resize(w, h)
	return b, nil
}

func (b *Backend) Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("init gl: %w", err)
	}

	var err error
	b.program, err = makeProgram(vertexSource, fragmentSource)
	if err != nil {
		return err
	}
	b.uProj = gl.GetUniformLocation(b.program, gl.Str("uProj\x00"))
	b.uTex = gl.GetUniformLocation(b.program, gl.Str("uTex\x00"))

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)

	// pos2 + color4 + uv2, matching the batcher's vertex stride.
	const stride = batch.VStride * 4
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(0)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(2*4)))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(6*4)))

	gl.BindVertexArray(0)

	// 1x1 white for untextured draw keys.
	gl.GenTextures(1, &b.white)
	gl.BindTexture(gl.TEXTURE_2D, b.white)
	whitePix := []byte{255, 255, 255, 255}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(whitePix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.Disable(gl.DEPTH_TEST)
	return nil
}

func (b *Backend) Shutdown() {
	if b.white != 0 {
		gl.DeleteTextures(1, &b.white)
	}
	if b.ebo != 0 {
		gl.DeleteBuffers(1, &b.ebo)
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
	}
	if b.program != 0 {
		gl.DeleteProgram(b.program)
	}
}

func (b *Backend) Resize(w, h int) {
	b.width, b.height = w, h
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (b *Backend) Clear(r, g, bl, a float32) {
	gl.ClearColor(r, g, bl, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// CreateTexture uploads tightly packed RGBA8 pixels.
func (b *Backend) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	if desc.Format != core.TextureRGBA8 {
		return nil, fmt.Errorf("unsupported texture format %d", desc.Format)
	}
	if want := desc.Width * desc.Height * 4; len(desc.Pixels) != 0 && len(desc.Pixels) != want {
		return nil, fmt.Errorf("texture pixels: got %d bytes, want %d", len(desc.Pixels), want)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	var ptr unsafe.Pointer
	if len(desc.Pixels) > 0 {
		ptr = gl.Ptr(desc.Pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(desc.Width), int32(desc.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(desc.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(desc.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(desc.WrapU))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(desc.WrapV))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &texture2D{id: id, w: desc.Width, h: desc.Height}, nil
}

// Submit draws the ordered batch list. Untextured keys bind the white
// texture; the blend mode follows each batch's material.
func (b *Backend) Submit(batches []*batch.Batch) error {
	gl.UseProgram(b.program)
	gl.BindVertexArray(b.vao)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(b.uTex, 0)

	proj := ortho2D(float32(b.width), float32(b.height))
	gl.UniformMatrix4fv(b.uProj, 1, false, &proj[0])

	for _, bt := range batches {
		if bt.QuadCount == 0 {
			continue
		}
		b.applyBlend(bt.Key.Material.Blend)
		b.bindTexture(bt.Key)
		if err := b.upload(bt.Verts, bt.Inds); err != nil {
			return err
		}
		gl.DrawElements(gl.TRIANGLES, int32(len(bt.Inds)), gl.UNSIGNED_INT, nil)
	}

	gl.BindVertexArray(0)
	gl.UseProgram(0)
	return nil
}

func (b *Backend) bindTexture(k batch.Key) {
	tex, ok := k.Texture.(*texture2D)
	if k.Texture == nil || !ok {
		gl.BindTexture(gl.TEXTURE_2D, b.white)
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	// The draw key's filter overrides whatever the texture was created with.
	f := int32(gl.LINEAR)
	if k.Material.Filter == batch.FilterNearest {
		f = gl.NEAREST
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, f)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, f)
}

func (b *Backend) applyBlend(mode batch.BlendMode) {
	if mode == batch.BlendNone {
		gl.Disable(gl.BLEND)
		return
	}
	gl.Enable(gl.BLEND)
	switch mode {
	case batch.BlendAdditive:
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	case batch.BlendMultiply:
		gl.BlendFunc(gl.DST_COLOR, gl.ONE_MINUS_SRC_ALPHA)
	default:
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
}

// upload refills the shared buffers, growing them when a batch outsizes the
// current allocation and orphaning otherwise.
func (b *Backend) upload(verts []float32, inds []uint32) error {
	vbytes := len(verts) * 4
	ibytes := len(inds) * 4

	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if vbytes > b.vcap {
		gl.BufferData(gl.ARRAY_BUFFER, vbytes, gl.Ptr(verts), gl.DYNAMIC_DRAW)
		b.vcap = vbytes
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, b.vcap, nil, gl.DYNAMIC_DRAW)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, vbytes, gl.Ptr(verts))
	}

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	if ibytes > b.icap {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, ibytes, gl.Ptr(inds), gl.DYNAMIC_DRAW)
		b.icap = ibytes
	} else {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, b.icap, nil, gl.DYNAMIC_DRAW)
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, ibytes, gl.Ptr(inds))
	}
	return nil
}

// ortho2D builds a column-major projection mapping (0,0)..(w,h) to clip
// space with Y down.
func ortho2D(w, h float32) [16]float32 {
	var m [16]float32
	m[0] = 2 / w
	m[5] = -2 / h
	m[10] = -1
	m[12] = -1
	m[13] = 1
	m[15] = 1
	return m
}

func glFilter(s string) int32 {
	if s == "nearest" {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func glWrap(s string) int32 {
	if s == "repeat" {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

// --- shader utilities ---

const vertexSource = `
#version 330 core
layout(location=0) in vec2 aPos;
layout(location=1) in vec4 aColor;
layout(location=2) in vec2 aUV;
uniform mat4 uProj;
out vec4 vColor;
out vec2 vUV;
void main() {
    vColor = aColor;
    vUV = aUV;
    gl_Position = uProj * vec4(aPos, 0.0, 1.0);
}
` + "\x00"

const fragmentSource = `
#version 330 core
in vec4 vColor;
in vec2 vUV;
uniform sampler2D uTex;
out vec4 FragColor;
void main() {
    FragColor = texture(uTex, vUV) * vColor;
}
` + "\x00"

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("shader compile error: %s", log)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("program link error: %s", log)
	}
	return prog, nil
}
