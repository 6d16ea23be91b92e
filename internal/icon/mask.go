package icon

import (
	"image"

	"golang.org/x/image/vector"
)

// kappa places cubic Bézier control points so a quarter arc is
// approximated to within 0.03% of the radius.
const kappa = 0.5522847498

// RoundedMask returns a size×size coverage mask of a rectangle spanning the
// whole image with the given corner radius. The radius is clamped to
// size/2. Edge pixels carry partial coverage.
func RoundedMask(size, radius int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, size, size))
	if size <= 0 {
		return mask
	}
	r := float32(min(max(radius, 0), size/2))
	s := float32(size)
	k := r * kappa

	z := vector.NewRasterizer(size, size)
	z.MoveTo(r, 0)
	z.LineTo(s-r, 0)
	z.CubeTo(s-r+k, 0, s, r-k, s, r)
	z.LineTo(s, s-r)
	z.CubeTo(s, s-r+k, s-r+k, s, s-r, s)
	z.LineTo(r, s)
	z.CubeTo(r-k, s, 0, s-r+k, 0, s-r)
	z.LineTo(0, r)
	z.CubeTo(0, r-k, r-k, 0, r, 0)
	z.ClosePath()
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// ApplyMask replaces img's alpha channel with mask. Colour channels are
// left untouched since img is non-premultiplied.
func ApplyMask(img *image.NRGBA, mask *image.Alpha) {
	b := img.Bounds().Intersect(mask.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.Pix[img.PixOffset(x, y)+3] = mask.Pix[mask.PixOffset(x, y)]
		}
	}
}
