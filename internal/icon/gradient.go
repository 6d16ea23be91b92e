package icon

import (
	"image"
	"image/color"
)

// Gradient returns a size×size opaque image shaded diagonally from start
// (top-left) to end (bottom-right). Each pixel's position along the
// diagonal is the mean of its normalised x and y; channels are truncated,
// not rounded.
func Gradient(size int, start, end color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	d := float64(max(size-1, 1))
	for y := 0; y < size; y++ {
		ty := float64(y) / d
		for x := 0; x < size; x++ {
			t := (ty + float64(x)/d) / 2
			img.SetNRGBA(x, y, lerp(start, end, t))
		}
	}
	return img
}

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	ch := func(p, q uint8) uint8 {
		return uint8(int(float64(p) + (float64(q)-float64(p))*t))
	}
	return color.NRGBA{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B), A: 255}
}
