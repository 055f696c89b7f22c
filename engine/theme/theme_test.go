package theme

import (
	"testing"

	"github.com/sqgui/sqgui/engine/colors"
	"github.com/sqgui/sqgui/engine/ui"
)

func TestResolve_Pure(t *testing.T) {
	th := Dark()
	for kind := ui.KindPanel; kind <= ui.KindTextInput; kind++ {
		for state := ui.StateFlags(0); state < 16; state++ {
			a := th.Resolve(kind, state)
			b := th.Resolve(kind, state)
			if a != b {
				t.Fatalf("Resolve(%v, %v) not referentially transparent: %+v vs %+v", kind, state, a, b)
			}
		}
	}
}

func TestResolve_ButtonStatePrecedence(t *testing.T) {
	th := Dark()

	tests := map[string]struct {
		state ui.StateFlags
		want  colors.Color
	}{
		"idle":                      {0, th.Button},
		"hovered":                   {ui.StateHovered, th.ButtonHovered},
		"pressed":                   {ui.StatePressed, th.ButtonPressed},
		"pressed wins over hover":   {ui.StatePressed | ui.StateHovered, th.ButtonPressed},
		"disabled wins over all":    {ui.StateDisabled | ui.StatePressed, th.ButtonDisabled},
		"focused keeps idle fill":   {ui.StateFocused, th.Button},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := th.Resolve(ui.KindButton, tc.state)
			if got.Fill != tc.want {
				t.Errorf("fill = %v, want %v", got.Fill, tc.want)
			}
		})
	}
}

func TestResolve_FocusedInputBorder(t *testing.T) {
	th := Dark()
	idle := th.Resolve(ui.KindTextInput, 0)
	focused := th.Resolve(ui.KindTextInput, ui.StateFocused)
	if idle.Border.Color == focused.Border.Color {
		t.Errorf("focused input border did not change")
	}
	if focused.Border.Color != th.FocusedBorder {
		t.Errorf("focused border = %v, want %v", focused.Border.Color, th.FocusedBorder)
	}
}

func TestResolve_OpacityAlwaysSet(t *testing.T) {
	th := Light()
	for kind := ui.KindPanel; kind <= ui.KindTextInput; kind++ {
		if p := th.Resolve(kind, 0); p.Opacity != 1 {
			t.Errorf("kind %v opacity = %v, want 1", kind, p.Opacity)
		}
	}
}
