// mkicon renders a single icon with the default RestroHub style.
// Usage: go run ./cmd/mkicon [-size N] [-kind standard|maskable|favicon] [-font path] <out.png|out.ico>
//
// An .ico output always holds a favicon; -kind defaults to favicon there and
// any other kind is rejected.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Rushan4218/restrowtl/internal/config"
	"github.com/Rushan4218/restrowtl/internal/icon"
	"github.com/Rushan4218/restrowtl/internal/logging"
	"github.com/Rushan4218/restrowtl/internal/paths"
)

func main() {
	size := flag.Int("size", 256, "edge length in pixels")
	kind := flag.String("kind", "", "standard, maskable or favicon (default standard, favicon for .ico)")
	font := flag.String("font", config.DefaultFont, "TrueType font path or "+icon.BuiltinGoBold)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: mkicon [-size N] [-kind standard|maskable|favicon] [-font path] <out.png|out.ico>")
		fmt.Fprintln(os.Stderr, "       .ico output is favicon only, at most", config.MaxICOSize, "pixels")
		os.Exit(2)
	}
	out := flag.Arg(0)

	if err := run(out, *size, *kind, *font); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(out string, size int, kindName, fontPath string) error {
	if size <= 0 {
		return fmt.Errorf("size must be positive, got %d", size)
	}
	ico := strings.HasSuffix(strings.ToLower(out), ".ico")
	if kindName == "" {
		kindName = icon.Standard.String()
		if ico {
			kindName = icon.Favicon.String()
		}
	}
	k, err := icon.ParseKind(kindName)
	if err != nil {
		return err
	}
	if ico && k != icon.Favicon {
		return fmt.Errorf("-kind %s cannot be written as .ico (favicon only)", k)
	}
	if ico && size > config.MaxICOSize {
		return fmt.Errorf(".ico size must be at most %d, got %d", config.MaxICOSize, size)
	}

	ctx := logging.WithContext(context.Background(), logging.NewFromEnv())
	f := icon.LoadFont(ctx, fontPath)
	st := icon.DefaultStyle()

	var data []byte
	if ico {
		data, err = icon.ICOBytes(size, st, f)
	} else {
		var buf bytes.Buffer
		err = icon.EncodePNG(&buf, icon.Render(icon.Asset{Kind: k, Size: size}, st, f))
		data = buf.Bytes()
	}
	if err != nil {
		return err
	}
	return paths.AtomicWrite(out, data)
}
