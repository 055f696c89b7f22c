package batch

import (
	"github.com/sqgui/sqgui/engine/colors"
	"github.com/sqgui/sqgui/engine/geom"
)

// NinePatch describes a stretchable image: a source UV rectangle plus border
// insets. Corners keep their pixel size, edges stretch along one axis, the
// center stretches along both.
type NinePatch struct {
	UV UVRect

	// Border is the fixed-corner size in destination pixels.
	Border geom.Insets

	// UVBorder is the same border expressed in normalized texture
	// coordinates within UV.
	UVBorder geom.Insets
}

// NinePatchFromPixels derives a NinePatch from pixel measurements of the
// source image: the patch occupies (px,py,pw,ph) within a texW x texH
// texture, with the given pixel border.
func NinePatchFromPixels(px, py, pw, ph int, border geom.Insets, texW, texH int) NinePatch {
	fw, fh := float32(texW), float32(texH)
	return NinePatch{
		UV: UVRect{
			U0: float32(px) / fw,
			V0: float32(py) / fh,
			U1: float32(px+pw) / fw,
			V1: float32(py+ph) / fh,
		},
		Border: border,
		UVBorder: geom.Insets{
			L: border.L / fw,
			T: border.T / fh,
			R: border.R / fw,
			B: border.B / fh,
		},
	}
}

// NinePatch expands the patch into at most 9 quads covering rect. Cells with
// zero area on either axis are skipped, so a patch with no top border emits
// only 6 quads, and a rect narrower than its corners collapses the center
// column entirely.
func (b *Batcher) NinePatch(k Key, rect geom.Rect, np NinePatch, col colors.Color) {
	if rect.Empty() {
		return
	}

	bl, br := np.Border.L, np.Border.R
	bt, bb := np.Border.T, np.Border.B

	// When the destination is smaller than the summed borders, shrink the
	// corners proportionally rather than overlapping them.
	if bl+br > rect.W {
		scale := rect.W / (bl + br)
		bl *= scale
		br *= scale
	}
	if bt+bb > rect.H {
		scale := rect.H / (bt + bb)
		bt *= scale
		bb *= scale
	}

	xs := [4]float32{rect.X, rect.X + bl, rect.Right() - br, rect.Right()}
	ys := [4]float32{rect.Y, rect.Y + bt, rect.Bottom() - bb, rect.Bottom()}
	us := [4]float32{np.UV.U0, np.UV.U0 + np.UVBorder.L, np.UV.U1 - np.UVBorder.R, np.UV.U1}
	vs := [4]float32{np.UV.V0, np.UV.V0 + np.UVBorder.T, np.UV.V1 - np.UVBorder.B, np.UV.V1}

	for row := 0; row < 3; row++ {
		cellH := ys[row+1] - ys[row]
		if cellH <= 0 {
			continue
		}
		for column := 0; column < 3; column++ {
			cellW := xs[column+1] - xs[column]
			if cellW <= 0 {
				continue
			}
			cell := geom.Rect{X: xs[column], Y: ys[row], W: cellW, H: cellH}
			uv := UVRect{U0: us[column], V0: vs[row], U1: us[column+1], V1: vs[row+1]}
			b.Quad(k, cell, uv, col)
		}
	}
}
