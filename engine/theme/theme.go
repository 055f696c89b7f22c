package theme

import (
	"github.com/sqgui/sqgui/engine/colors"
	"github.com/sqgui/sqgui/engine/ui"
)

// Theme maps element kind and interaction state to resolved visuals. Resolve
// is a pure function of its inputs; damage tracking relies on identical
// inputs painting identically, so themes must not carry per-frame state.
type Theme struct {
	WindowBackground colors.Color

	Panel       colors.Color
	PanelBorder colors.Color

	Button         colors.Color
	ButtonHovered  colors.Color
	ButtonPressed  colors.Color
	ButtonDisabled colors.Color

	Input         colors.Color
	InputBorder   colors.Color
	FocusedBorder colors.Color

	Accent       colors.Color
	Text         colors.Color
	TextDisabled colors.Color

	BorderWidth  float32
	CornerRadius float32

	// ButtonPatch, when set, names a registered 9-patch drawn instead of the
	// flat button fill.
	ButtonPatch string
}

// Dark is the default theme.
func Dark() *Theme {
	return &Theme{
		WindowBackground: colors.DarkGray,
		Panel:            colors.Color{0.13, 0.15, 0.18, 1},
		PanelBorder:      colors.Color{0.22, 0.24, 0.28, 1},
		Button:           colors.Color{0.20, 0.23, 0.28, 1},
		ButtonHovered:    colors.Color{0.26, 0.30, 0.36, 1},
		ButtonPressed:    colors.Color{0.16, 0.18, 0.22, 1},
		ButtonDisabled:   colors.Color{0.16, 0.17, 0.19, 1},
		Input:            colors.Color{0.10, 0.11, 0.13, 1},
		InputBorder:      colors.Color{0.25, 0.27, 0.31, 1},
		FocusedBorder:    colors.Color{0.25, 0.55, 0.95, 1},
		Accent:           colors.Color{0.25, 0.55, 0.95, 1},
		Text:             colors.Color{0.92, 0.93, 0.95, 1},
		TextDisabled:     colors.Color{0.45, 0.47, 0.50, 1},
		BorderWidth:      1,
	}
}

// Light is the inverted palette.
func Light() *Theme {
	return &Theme{
		WindowBackground: colors.Color{0.93, 0.94, 0.95, 1},
		Panel:            colors.Color{0.98, 0.98, 0.99, 1},
		PanelBorder:      colors.Color{0.80, 0.81, 0.83, 1},
		Button:           colors.Color{0.88, 0.89, 0.91, 1},
		ButtonHovered:    colors.Color{0.82, 0.84, 0.88, 1},
		ButtonPressed:    colors.Color{0.74, 0.76, 0.80, 1},
		ButtonDisabled:   colors.Color{0.90, 0.90, 0.91, 1},
		Input:            colors.White,
		InputBorder:      colors.Color{0.70, 0.72, 0.75, 1},
		FocusedBorder:    colors.Color{0.20, 0.45, 0.85, 1},
		Accent:           colors.Color{0.20, 0.45, 0.85, 1},
		Text:             colors.Color{0.10, 0.11, 0.13, 1},
		TextDisabled:     colors.Color{0.55, 0.57, 0.60, 1},
		BorderWidth:      1,
	}
}

// Resolve implements the paint resolution contract for the frame pipeline.
func (t *Theme) Resolve(kind ui.Kind, state ui.StateFlags) ui.Paint {
	p := ui.Paint{
		Opacity:      1,
		TextColor:    t.Text,
		CornerRadius: t.CornerRadius,
	}
	if state.Has(ui.StateDisabled) {
		p.TextColor = t.TextDisabled
	}

	switch kind {
	case ui.KindPanel:
		p.Fill = t.Panel
		p.Border = ui.BorderSpec{Color: t.PanelBorder, Width: t.BorderWidth}
	case ui.KindButton:
		p.Fill = t.buttonFill(state)
		p.Patch = t.ButtonPatch
	case ui.KindLabel:
		// Text only.
	case ui.KindImage:
		// The texture is the content; no fill.
	case ui.KindSlider:
		p.Fill = t.Accent
		p.Border = ui.BorderSpec{Color: t.InputBorder}
		if state.Has(ui.StateDisabled) {
			p.Fill = t.ButtonDisabled
		}
	case ui.KindTextInput:
		p.Fill = t.Input
		p.Border = ui.BorderSpec{Color: t.InputBorder, Width: t.BorderWidth}
		if state.Has(ui.StateFocused) {
			p.Border.Color = t.FocusedBorder
		}
	}
	return p
}

func (t *Theme) buttonFill(state ui.StateFlags) colors.Color {
	switch {
	case state.Has(ui.StateDisabled):
		return t.ButtonDisabled
	case state.Has(ui.StatePressed):
		return t.ButtonPressed
	case state.Has(ui.StateHovered):
		return t.ButtonHovered
	default:
		return t.Button
	}
}
