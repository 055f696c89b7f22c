package ui

import (
	"time"

	"github.com/sqgui/sqgui/engine/colors"
	"github.com/sqgui/sqgui/engine/core"
	"github.com/sqgui/sqgui/engine/geom"
	"github.com/sqgui/sqgui/engine/gfx/batch"
)

// TextMeasurer supplies glyph metrics from the font collaborator. The measure
// pass consumes it synchronously; the engine never rasterizes glyphs itself.
type TextMeasurer interface {
	// Measure returns the block size of s at the given font and size.
	// maxWidth > 0 enables word wrapping at that width.
	Measure(font string, size float32, s string, maxWidth float32) geom.Size

	// Glyphs lays out s into positioned atlas quads relative to the text
	// block's top-left origin, plus the atlas texture they sample.
	Glyphs(font string, size float32, s string, maxWidth float32) ([]PlacedGlyph, core.Texture)
}

// PlacedGlyph is one atlas quad of a laid-out string.
type PlacedGlyph struct {
	Rect geom.Rect // relative to the text origin
	UV   batch.UVRect
}

// BorderSpec describes a resolved border.
type BorderSpec struct {
	Color colors.Color
	Width float32
}

// Paint is a resolved visual description for one node, produced by the theme
// collaborator. The engine consumes it during primitive emission and never
// interprets style rules itself.
type Paint struct {
	Fill         colors.Color
	Border       BorderSpec
	CornerRadius float32
	Opacity      float32
	TextColor    colors.Color

	// Patch names a registered 9-patch image to draw instead of a flat
	// fill. Empty means flat fill.
	Patch string
}

// PaintResolver resolves (kind, state) to a Paint. Implementations must be
// pure functions of their inputs: damage tracking assumes identical inputs
// paint identically.
type PaintResolver interface {
	Resolve(kind Kind, state StateFlags) Paint
}

// Prop identifies an animatable node property.
type Prop uint8

const (
	PropWidth Prop = iota
	PropHeight
	PropOpacity
	PropValue
)

// Animator supplies already-interpolated property values. settled=false keeps
// the node dirty every tick until the animation completes.
type Animator interface {
	Value(id NodeID, prop Prop, now time.Duration) (v float32, settled bool)
}

// TextureLookup resolves named textures registered with the asset layer.
type TextureLookup interface {
	Texture(name string) (core.Texture, bool)
	Patch(name string) (core.Texture, batch.NinePatch, bool)
}
