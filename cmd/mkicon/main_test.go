package main

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Rushan4218/restrowtl/internal/icon"
)

func TestRunWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "icon.png")
	if err := run(out, 40, "favicon", icon.BuiltinGoBold); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 40 {
		t.Errorf("bounds = %v, want 40x40", b)
	}
}

func TestRunWritesICO(t *testing.T) {
	out := filepath.Join(t.TempDir(), "favicon.ICO")
	if err := run(out, 16, "favicon", icon.BuiltinGoBold); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 6 || data[2] != 1 {
		t.Errorf("not an icon file: % x", data[:min(len(data), 6)])
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	if err := run(filepath.Join(dir, "a.png"), 0, "standard", ""); err == nil {
		t.Error("expected error for zero size")
	}
	if err := run(filepath.Join(dir, "b.png"), 32, "round", ""); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestRunICODefaultsToFavicon(t *testing.T) {
	out := filepath.Join(t.TempDir(), "favicon.ico")
	if err := run(out, 32, "", icon.BuiltinGoBold); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal(err)
	}
}

func TestRunICORejectsOtherKinds(t *testing.T) {
	dir := t.TempDir()
	for _, kind := range []string{"standard", "maskable"} {
		out := filepath.Join(dir, kind+".ico")
		err := run(out, 32, kind, icon.BuiltinGoBold)
		if err == nil || !strings.Contains(err.Error(), "favicon only") {
			t.Errorf("run(%s) error = %v, want favicon-only rejection", kind, err)
		}
		if _, err := os.Stat(out); !os.IsNotExist(err) {
			t.Errorf("%s should not have been written", out)
		}
	}
	if err := run(filepath.Join(dir, "big.ico"), 512, "favicon", icon.BuiltinGoBold); err == nil {
		t.Error("expected error for .ico larger than 256")
	}
}
