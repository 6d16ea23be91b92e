package icon

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"

	"github.com/Rushan4218/restrowtl/internal/logging"
)

// BuiltinGoBold names the embedded Go Bold font in place of a file path.
const BuiltinGoBold = "builtin:gobold"

// FallbackName identifies the bitmap face used when no TrueType font loads.
const FallbackName = "basicfont-7x13"

// Font produces faces at arbitrary pixel sizes. A Font without a parsed
// TrueType font hands out the fixed 7×13 bitmap face for every size.
type Font struct {
	Name string
	ot   *opentype.Font
}

// ParseFont reads and parses a TrueType/OpenType font from path, or the
// embedded Go Bold font for BuiltinGoBold.
func ParseFont(path string) (*Font, error) {
	var data []byte
	if path == BuiltinGoBold {
		data = gobold.TTF
	} else {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("font: %w", err)
		}
		data = b
	}
	ot, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: parse %s: %w", path, err)
	}
	return &Font{Name: path, ot: ot}, nil
}

// Fallback returns the bitmap font.
func Fallback() *Font {
	return &Font{Name: FallbackName}
}

// LoadFont parses path and falls back to the bitmap font when the file is
// missing or unreadable. The fallback is logged, never returned as an error.
func LoadFont(ctx context.Context, path string) *Font {
	f, err := ParseFont(path)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Err(err).
			Str("font", path).
			Msg("font unavailable, using bitmap fallback")
		return Fallback()
	}
	logging.FromContext(ctx).Debug().Str("font", path).Msg("loaded font")
	return f
}

// IsFallback reports whether f renders with the bitmap face.
func (f *Font) IsFallback() bool {
	return f.ot == nil
}

// Face returns a face whose em is px pixels tall. The caller closes it.
func (f *Font) Face(px int) font.Face {
	if f.ot == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f.ot, &opentype.FaceOptions{
		Size:    float64(max(px, 1)),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}
