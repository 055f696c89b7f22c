package text

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/sqgui/sqgui/engine/core"
)

// Glyph is one rasterized rune in an atlas.
type Glyph struct {
	Rune     rune
	Advance  float32
	BearingX float32
	BearingY float32 // baseline to glyph top
	W, H     int
	U0, V0   float32
	U1, V1   float32
}

// Atlas holds the rasterized glyph set of one font at one pixel size, packed
// into a single device texture. Kerning is precomputed so the source face can
// be closed after the build.
type Atlas struct {
	SizePx  float32
	Ascent  float32
	Descent float32 // negative, baseline to bottom
	LineGap float32
	Glyphs  map[rune]Glyph
	Kern    map[[2]rune]float32
	Texture core.Texture
}

// LineHeight is the baseline-to-baseline distance.
func (a *Atlas) LineHeight() float32 { return a.Ascent - a.Descent + a.LineGap }

func (a *Atlas) kern(prev, r rune) float32 {
	if prev < 0 {
		return 0
	}
	return a.Kern[[2]rune{prev, r}]
}

const (
	atlasPadding  = 2
	atlasMaxSize  = 4096
	atlasRuneLo   = 32
	atlasRuneHi   = 255
	atlasFilterUI = "linear"
)

// LoadTTF reads a TTF/OTF file and builds an atlas at sizePx.
func LoadTTF(r core.Renderer, path string, sizePx float32) (*Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return BuildAtlas(r, data, sizePx)
}

// BuildAtlas rasterizes the Latin-1 range of the font into a white-on-alpha
// RGBA texture with a shelf-packed layout, growing the atlas until it fits.
func BuildAtlas(r core.Renderer, ttfData []byte, sizePx float32) (*Atlas, error) {
	ft, err := opentype.Parse(ttfData)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer face.Close()

	m := face.Metrics()
	ascent := float32(m.Ascent.Round())
	descent := float32(-m.Descent.Round())
	lineGap := float32(m.Height.Round()) - ascent + descent

	type meas struct {
		r      rune
		w, h   int
		adv    float32
		bx, by float32
	}
	var measure []meas
	for rr := rune(atlasRuneLo); rr <= atlasRuneHi; rr++ {
		br, adv, ok := face.GlyphBounds(rr)
		if !ok {
			continue
		}
		measure = append(measure, meas{
			r: rr,
			w: (br.Max.X - br.Min.X).Round(),
			h: (br.Max.Y - br.Min.Y).Round(),
			adv: float32(adv.Round()),
			bx:  float32(br.Min.X.Round()),
			by:  float32(-br.Min.Y.Round()),
		})
	}

	// Shelf packer: rows of glyphs, grow the square atlas until all fit.
	size := 256
	var pos map[rune]image.Point
	for {
		x, y, rowH := atlasPadding, atlasPadding, 0
		fits := true
		pos = make(map[rune]image.Point, len(measure))
		for _, g := range measure {
			if g.w == 0 || g.h == 0 {
				continue
			}
			if x+g.w+atlasPadding > size {
				x = atlasPadding
				y += rowH + atlasPadding
				rowH = 0
			}
			if y+g.h+atlasPadding > size {
				fits = false
				break
			}
			pos[g.r] = image.Pt(x, y)
			x += g.w + atlasPadding
			if g.h > rowH {
				rowH = g.h
			}
		}
		if fits {
			break
		}
		size *= 2
		if size > atlasMaxSize {
			return nil, fmt.Errorf("font atlas exceeds %dpx at size %g", atlasMaxSize, sizePx)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
	drawer := &font.Drawer{Dst: dst, Src: image.White, Face: face}

	glyphs := make(map[rune]Glyph, len(measure))
	for _, g := range measure {
		gl := Glyph{
			Rune: g.r, Advance: g.adv,
			BearingX: g.bx, BearingY: g.by,
			W: g.w, H: g.h,
		}
		if g.w > 0 && g.h > 0 {
			p := pos[g.r]
			drawer.Dot = fixed.P(p.X-int(g.bx), p.Y+int(g.by))
			drawer.DrawString(string(g.r))
			gl.U0 = float32(p.X) / float32(size)
			gl.V0 = float32(p.Y) / float32(size)
			gl.U1 = float32(p.X+g.w) / float32(size)
			gl.V1 = float32(p.Y+g.h) / float32(size)
		}
		glyphs[g.r] = gl
	}

	kern := make(map[[2]rune]float32)
	for _, a := range measure {
		for _, b := range measure {
			if dx := face.Kern(a.r, b.r); dx != 0 {
				kern[[2]rune{a.r, b.r}] = float32(dx.Round())
			}
		}
	}

	tex, err := r.CreateTexture(core.TextureDesc{
		Width: size, Height: size,
		Format:    core.TextureRGBA8,
		Pixels:    dst.Pix,
		MinFilter: atlasFilterUI,
		MagFilter: atlasFilterUI,
		WrapU:     "clamp",
		WrapV:     "clamp",
	})
	if err != nil {
		return nil, fmt.Errorf("upload font atlas: %w", err)
	}

	return &Atlas{
		SizePx: sizePx,
		Ascent: ascent, Descent: descent, LineGap: lineGap,
		Glyphs:  glyphs,
		Kern:    kern,
		Texture: tex,
	}, nil
}
