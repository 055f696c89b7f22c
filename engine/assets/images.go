package assets

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
)

// LoadPNG returns width, height, and tightly packed RGBA8 pixels (row-major,
// top-left origin) for the image at path.
func LoadPNG(path string) (w, h int, rgba []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()
	w, h, rgba, err = DecodePNG(f)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("decode png %q: %w", path, err)
	}
	return w, h, rgba, nil
}

// DecodePNG decodes a PNG stream into tightly packed RGBA8 pixels.
func DecodePNG(r io.Reader) (w, h int, rgba []byte, err error) {
	img, err := png.Decode(r)
	if err != nil {
		return 0, 0, nil, err
	}
	m := imageToRGBA(img)
	w, h = m.Bounds().Dx(), m.Bounds().Dy()

	// Repack in tight rows (stride == 4*w).
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		copy(out[y*w*4:(y+1)*w*4], m.Pix[y*m.Stride:y*m.Stride+w*4])
	}
	return w, h, out, nil
}

func imageToRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Stride == m.Rect.Dx()*4 {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
