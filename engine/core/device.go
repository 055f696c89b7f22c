package core

// Texture is an opaque device texture handle. Handles are comparable so the
// batcher can use them as part of a draw key.
type Texture interface {
	Size() (w, h int)
}

type TextureFormat int

const (
	TextureRGBA8 TextureFormat = iota
)

// TextureDesc describes a texture upload.
type TextureDesc struct {
	Width, Height int
	Format        TextureFormat
	Pixels        []byte // tightly packed, row-major, top-left origin
	MinFilter     string // "nearest" | "linear"
	MagFilter     string
	WrapU, WrapV  string // "clamp" | "repeat"
}

// Renderer abstracts the graphics device. The engine core never touches the
// GPU API directly; engine/gfx/gl is the reference implementation.
type Renderer interface {
	Init() error
	Resize(w, h int)
	Clear(r, g, b, a float32)
	CreateTexture(desc TextureDesc) (Texture, error)
	Shutdown()
}
