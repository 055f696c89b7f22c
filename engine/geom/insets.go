package geom

// Insets is spacing on four sides: left, top, right, bottom.
type Insets struct {
	L, T, R, B float32
}

// InsetsAll returns uniform insets on every side.
func InsetsAll(v float32) Insets { return Insets{L: v, T: v, R: v, B: v} }

// InsetsSym returns symmetric horizontal/vertical insets.
func InsetsSym(h, v float32) Insets { return Insets{L: h, T: v, R: h, B: v} }

func (in Insets) Horizontal() float32 { return in.L + in.R }
func (in Insets) Vertical() float32   { return in.T + in.B }
