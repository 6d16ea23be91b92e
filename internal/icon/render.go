package icon

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Kind selects the layout of an asset.
type Kind int

const (
	Standard Kind = iota // rounded corners, title and subtitle
	Maskable             // full bleed, title and subtitle
	Favicon              // rounded corners, single letter
)

func (k Kind) String() string {
	switch k {
	case Standard:
		return "standard"
	case Maskable:
		return "maskable"
	case Favicon:
		return "favicon"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "standard":
		return Standard, nil
	case "maskable":
		return Maskable, nil
	case "favicon":
		return Favicon, nil
	}
	return 0, fmt.Errorf("unknown icon kind %q (want standard, maskable or favicon)", s)
}

// Asset is one square image to generate.
type Asset struct {
	Kind Kind
	Size int
}

// FileName returns the conventional PNG name for the asset.
func (a Asset) FileName() string {
	switch a.Kind {
	case Maskable:
		return fmt.Sprintf("icon-maskable-%dx%d.png", a.Size, a.Size)
	case Favicon:
		return fmt.Sprintf("favicon-%dx%d.png", a.Size, a.Size)
	default:
		return fmt.Sprintf("icon-%dx%d.png", a.Size, a.Size)
	}
}

// Style holds everything about an icon's look except its size.
// Ratios are fractions of the icon edge length.
type Style struct {
	Start, End color.NRGBA
	Ink        color.NRGBA

	Title         string
	Subtitle      string
	Letter        string
	SubtitleAlpha uint8

	CornerRatio      float64
	MinFaviconRadius int
	TitleRatio       float64
	SubtitleRatio    float64
	LetterRatio      float64
	GapRatio         float64
	SubtitleLift     float64 // title is raised by this fraction of the subtitle size
}

// DefaultStyle is the orange RestroHub look.
func DefaultStyle() Style {
	return Style{
		Start:            color.NRGBA{249, 115, 22, 255},
		End:              color.NRGBA{234, 88, 12, 255},
		Ink:              color.NRGBA{255, 255, 255, 255},
		Title:            "RH",
		Subtitle:         "RESTROHUB",
		Letter:           "R",
		SubtitleAlpha:    200,
		CornerRatio:      0.18,
		MinFaviconRadius: 2,
		TitleRatio:       0.35,
		SubtitleRatio:    0.1,
		LetterRatio:      0.6,
		GapRatio:         0.02,
		SubtitleLift:     0.8,
	}
}

// Radius returns the corner radius used for a, or 0 when a is not masked.
func (st Style) Radius(a Asset) int {
	switch a.Kind {
	case Standard:
		return scale(a.Size, st.CornerRatio)
	case Favicon:
		return max(scale(a.Size, st.CornerRatio), st.MinFaviconRadius)
	default:
		return 0
	}
}

// Render draws a: gradient, corner mask (except maskable), then text.
func Render(a Asset, st Style, f *Font) *image.NRGBA {
	img := Gradient(a.Size, st.Start, st.End)
	if a.Kind != Maskable {
		ApplyMask(img, RoundedMask(a.Size, st.Radius(a)))
	}
	if a.Kind == Favicon {
		drawLetter(img, a.Size, st, f)
	} else {
		drawTitle(img, a.Size, st, f)
	}
	return img
}

func drawTitle(img *image.NRGBA, size int, st Style, f *Font) {
	subSize := scale(size, st.SubtitleRatio)

	title := f.Face(scale(size, st.TitleRatio))
	defer title.Close()

	tb := inkBounds(title, st.Title)
	tw, th := tb.Dx(), tb.Dy()
	x := floorDiv(size-tw, 2)
	y := floorDiv(size-th, 2) - int(float64(subSize)*st.SubtitleLift)
	drawInk(img, title, st.Title, tb, image.Pt(x, y), st.Ink)

	if st.Subtitle == "" || subSize <= 0 {
		return
	}
	sub := f.Face(subSize)
	defer sub.Close()

	sb := inkBounds(sub, st.Subtitle)
	sx := floorDiv(size-sb.Dx(), 2)
	sy := y + th + scale(size, st.GapRatio)
	ink := st.Ink
	ink.A = st.SubtitleAlpha
	drawInk(img, sub, st.Subtitle, sb, image.Pt(sx, sy), ink)
}

func drawLetter(img *image.NRGBA, size int, st Style, f *Font) {
	face := f.Face(scale(size, st.LetterRatio))
	defer face.Close()

	b := inkBounds(face, st.Letter)
	x := floorDiv(size-b.Dx(), 2)
	y := floorDiv(size-b.Dy(), 2)
	drawInk(img, face, st.Letter, b, image.Pt(x, y), st.Ink)
}

// inkBounds returns the pixel box covered by s when drawn with its dot at
// the origin.
func inkBounds(face font.Face, s string) image.Rectangle {
	b, _ := font.BoundString(face, s)
	return image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
}

// drawInk draws s with its ink box b starting at column at.X and its
// ascender line on row at.Y, the top-left text origin used by common
// raster libraries. Ink replaces pixels by coverage in all four channels,
// so a translucent colour leaves translucent text.
func drawInk(img *image.NRGBA, face font.Face, s string, b image.Rectangle, at image.Point, c color.NRGBA) {
	if s == "" {
		return
	}
	cov := image.NewAlpha(img.Bounds())
	d := &font.Drawer{
		Dst:  cov,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(at.X-b.Min.X, at.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
	paint(img, cov, c)
}

// paint blends c into img weighted by cov, channel by channel in
// non-premultiplied space. Full coverage writes c exactly.
func paint(img *image.NRGBA, cov *image.Alpha, c color.NRGBA) {
	ink := [4]uint8{c.R, c.G, c.B, c.A}
	b := img.Bounds().Intersect(cov.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m := uint32(cov.Pix[cov.PixOffset(x, y)])
			if m == 0 {
				continue
			}
			i := img.PixOffset(x, y)
			for k, v := range ink {
				p := uint32(img.Pix[i+k])
				img.Pix[i+k] = uint8((p*(255-m) + uint32(v)*m + 127) / 255)
			}
		}
	}
}

func scale(size int, ratio float64) int {
	return int(float64(size) * ratio)
}

// floorDiv divides rounding toward negative infinity so text wider than
// the icon is still centred symmetrically.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
