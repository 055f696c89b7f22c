package assets

import (
	"fmt"
	"path/filepath"

	"github.com/sqgui/sqgui/engine/core"
	"github.com/sqgui/sqgui/engine/geom"
	"github.com/sqgui/sqgui/engine/gfx/batch"
)

// Registry resolves names to uploaded textures and 9-patch descriptors for
// the frame pipeline. Nodes and themes reference assets by name only; the
// registry owns loading and upload.
type Registry struct {
	renderer core.Renderer
	root     string
	textures map[string]core.Texture
	patches  map[string]patchEntry
}

type patchEntry struct {
	tex core.Texture
	np  batch.NinePatch
}

// NewRegistry creates a registry loading files relative to root ("assets"
// when empty).
func NewRegistry(r core.Renderer, root string) *Registry {
	if root == "" {
		root = "assets"
	}
	return &Registry{
		renderer: r,
		root:     root,
		textures: make(map[string]core.Texture),
		patches:  make(map[string]patchEntry),
	}
}

// LoadTexture decodes a PNG under the registry root, uploads it, and
// registers the texture under name.
func (rg *Registry) LoadTexture(name, relPath string) (core.Texture, error) {
	w, h, pixels, err := LoadPNG(filepath.Join(rg.root, relPath))
	if err != nil {
		return nil, err
	}
	tex, err := rg.renderer.CreateTexture(core.TextureDesc{
		Width: w, Height: h,
		Format:    core.TextureRGBA8,
		Pixels:    pixels,
		MinFilter: "linear",
		MagFilter: "linear",
		WrapU:     "clamp",
		WrapV:     "clamp",
	})
	if err != nil {
		return nil, fmt.Errorf("upload texture %q: %w", name, err)
	}
	rg.Add(name, tex)
	return tex, nil
}

// Add registers an already-uploaded texture under name.
func (rg *Registry) Add(name string, tex core.Texture) {
	rg.textures[name] = tex
}

// LoadPatch loads a PNG as a 9-patch with the given fixed-corner border, in
// pixels of the source image.
func (rg *Registry) LoadPatch(name, relPath string, border geom.Insets) error {
	tex, err := rg.LoadTexture(name, relPath)
	if err != nil {
		return err
	}
	rg.AddPatch(name, tex, border)
	return nil
}

// AddPatch registers a 9-patch over an already-uploaded texture. border is in
// texture pixels.
func (rg *Registry) AddPatch(name string, tex core.Texture, border geom.Insets) {
	w, h := tex.Size()
	rg.patches[name] = patchEntry{
		tex: tex,
		np:  batch.NinePatchFromPixels(0, 0, w, h, border, w, h),
	}
}

// Texture resolves a registered texture by name.
func (rg *Registry) Texture(name string) (core.Texture, bool) {
	tex, ok := rg.textures[name]
	return tex, ok
}

// Patch resolves a registered 9-patch by name.
func (rg *Registry) Patch(name string) (core.Texture, batch.NinePatch, bool) {
	e, ok := rg.patches[name]
	if !ok {
		return nil, batch.NinePatch{}, false
	}
	return e.tex, e.np, true
}
