package icon

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	ico "github.com/sergeymakinen/go-ico"
	xdraw "golang.org/x/image/draw"
)

// supersample is the factor ICO entries are rendered above their final size.
const supersample = 4

// EncodePNG encodes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// PNGBytes encodes img as PNG into memory.
func PNGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Downscale resizes src to size×size with Catmull-Rom filtering.
func Downscale(src image.Image, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// EncodeICO encodes img as a single-entry Windows icon.
func EncodeICO(w io.Writer, img image.Image) error {
	if err := ico.Encode(w, img); err != nil {
		return fmt.Errorf("encode ico: %w", err)
	}
	return nil
}

// ICOBytes renders a favicon at supersampled resolution, scales it to
// size and encodes it as a Windows icon.
func ICOBytes(size int, st Style, f *Font) ([]byte, error) {
	big := Render(Asset{Kind: Favicon, Size: size * supersample}, st, f)
	var buf bytes.Buffer
	if err := EncodeICO(&buf, Downscale(big, size)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
