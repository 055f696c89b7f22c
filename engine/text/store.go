package text

import (
	"fmt"
	"os"
	"strings"

	"github.com/sqgui/sqgui/engine/core"
	"github.com/sqgui/sqgui/engine/geom"
	"github.com/sqgui/sqgui/engine/gfx/batch"
	"github.com/sqgui/sqgui/engine/ui"
)

// DefaultSize is the pixel size used when a node does not specify one.
const DefaultSize float32 = 16

type atlasKey struct {
	name string
	size int
}

// Store owns font data and lazily-built atlases and serves the layout
// engine's text measurement contract. Atlases are built on first use of a
// (font, size) pair; unknown fonts measure as empty rather than failing the
// frame.
type Store struct {
	renderer core.Renderer
	data     map[string][]byte
	atlases  map[atlasKey]*Atlas
	def      string
}

func NewStore(r core.Renderer) *Store {
	return &Store{
		renderer: r,
		data:     make(map[string][]byte),
		atlases:  make(map[atlasKey]*Atlas),
	}
}

// Register adds raw TTF/OTF data under name. The first registered font
// becomes the default.
func (s *Store) Register(name string, ttfData []byte) {
	s.data[name] = ttfData
	if s.def == "" {
		s.def = name
	}
}

// RegisterFile reads and registers a font file.
func (s *Store) RegisterFile(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("register font %q: %w", name, err)
	}
	s.Register(name, data)
	return nil
}

// AddAtlas installs a prebuilt atlas under name at its own pixel size.
func (s *Store) AddAtlas(name string, a *Atlas) {
	s.atlases[atlasKey{name, int(a.SizePx)}] = a
	if s.def == "" {
		s.def = name
	}
}

// SetDefault selects the fallback font for nodes without an explicit one.
func (s *Store) SetDefault(name string) { s.def = name }

func (s *Store) atlas(name string, size float32) *Atlas {
	if name == "" {
		name = s.def
	}
	if size <= 0 {
		size = DefaultSize
	}
	k := atlasKey{name, int(size)}
	if a, ok := s.atlases[k]; ok {
		return a
	}
	if data, ok := s.data[name]; ok && s.renderer != nil {
		a, err := BuildAtlas(s.renderer, data, float32(k.size))
		if err != nil {
			core.Logger().Error("font atlas build failed", "font", name, "size", k.size, "err", err)
			s.atlases[k] = nil // don't retry every frame
			return nil
		}
		s.atlases[k] = a
		return a
	}
	// Closest already-built size of the same font.
	var best *Atlas
	bestDiff := -1
	for ak, a := range s.atlases {
		if ak.name != name || a == nil {
			continue
		}
		diff := ak.size - k.size
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = a, diff
		}
	}
	return best
}

// Measure returns the block size of text at the given font and size, wrapping
// at maxWidth when positive. Part of the layout engine's measurer contract.
func (s *Store) Measure(font string, size float32, text string, maxWidth float32) geom.Size {
	a := s.atlas(font, size)
	if a == nil || text == "" {
		return geom.Size{}
	}
	lines := a.breakLines(text, maxWidth)
	var w float32
	for _, ln := range lines {
		w = max32(w, a.lineWidth(ln))
	}
	return geom.Size{W: w, H: float32(len(lines)) * a.LineHeight()}
}

// Glyphs lays text out into positioned atlas quads relative to the block's
// top-left corner.
func (s *Store) Glyphs(font string, size float32, text string, maxWidth float32) ([]ui.PlacedGlyph, core.Texture) {
	a := s.atlas(font, size)
	if a == nil || text == "" {
		return nil, nil
	}
	var out []ui.PlacedGlyph
	baseline := a.Ascent
	for _, ln := range a.breakLines(text, maxWidth) {
		penX := float32(0)
		prev := rune(-1)
		for _, r := range ln {
			g, ok := a.Glyphs[r]
			if !ok {
				if sp, ok2 := a.Glyphs[' ']; ok2 {
					penX += sp.Advance
				}
				prev = r
				continue
			}
			penX += a.kern(prev, r)
			if g.W > 0 && g.H > 0 {
				out = append(out, ui.PlacedGlyph{
					Rect: geom.Rect{
						X: penX + g.BearingX,
						Y: baseline - g.BearingY,
						W: float32(g.W),
						H: float32(g.H),
					},
					UV: batch.UVRect{U0: g.U0, V0: g.V0, U1: g.U1, V1: g.V1},
				})
			}
			penX += g.Advance
			prev = r
		}
		baseline += a.LineHeight()
	}
	return out, a.Texture
}

// lineWidth is the advance-plus-kerning width of a single line.
func (a *Atlas) lineWidth(ln string) float32 {
	var w float32
	prev := rune(-1)
	for _, r := range ln {
		g, ok := a.Glyphs[r]
		if !ok {
			if sp, ok2 := a.Glyphs[' ']; ok2 {
				w += sp.Advance
			}
			prev = r
			continue
		}
		w += a.kern(prev, r) + g.Advance
		prev = r
	}
	return w
}

// breakLines splits on hard newlines, then greedily word-wraps each line at
// maxWidth when positive. A single word wider than maxWidth stays on its own
// line rather than being broken mid-word.
func (a *Atlas) breakLines(text string, maxWidth float32) []string {
	var out []string
	for _, hard := range strings.Split(text, "\n") {
		if maxWidth <= 0 {
			out = append(out, hard)
			continue
		}
		words := strings.Fields(hard)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			joined := line + " " + w
			if a.lineWidth(joined) > maxWidth {
				out = append(out, line)
				line = w
				continue
			}
			line = joined
		}
		out = append(out, line)
	}
	return out
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
