package colors

// Color is straight-alpha RGBA with components in [0,1].
type Color [4]float32

var (
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Red         = Color{1, 0, 0, 1}
	Green       = Color{0, 1, 0, 1}
	Blue        = Color{0, 0, 1, 1}
	Yellow      = Color{1, 1, 0, 1}
	Gray        = Color{0.5, 0.5, 0.5, 1}
	DarkGray    = Color{0.08, 0.10, 0.12, 1}
	Transparent = Color{0, 0, 0, 0}
)

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Opaque reports whether the color fully covers what is behind it.
func (c Color) Opaque() bool { return c[3] >= 1 }

// Visible reports whether drawing the color has any effect.
func (c Color) Visible() bool { return c[3] > 0 }

// Scale multiplies the RGB channels by f, leaving alpha untouched.
// Used for hover/pressed visual feedback.
func (c Color) Scale(f float32) Color {
	for i := 0; i < 3; i++ {
		v := c[i] * f
		if v > 1 {
			v = 1
		}
		c[i] = v
	}
	return c
}

// Lerp interpolates linearly between c and o by t in [0,1].
func (c Color) Lerp(o Color, t float32) Color {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return o
	}
	var out Color
	for i := range c {
		out[i] = c[i] + (o[i]-c[i])*t
	}
	return out
}

// RGBA8 converts to 8-bit channels for texture upload.
func (c Color) RGBA8() [4]byte {
	var out [4]byte
	for i, v := range c {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		out[i] = byte(v*255 + 0.5)
	}
	return out
}
