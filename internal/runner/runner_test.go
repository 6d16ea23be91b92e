package runner

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Rushan4218/restrowtl/internal/config"
	"github.com/Rushan4218/restrowtl/internal/eventlog"
	"github.com/Rushan4218/restrowtl/internal/icon"
	"github.com/Rushan4218/restrowtl/internal/tmpl"
)

// smallConfig returns defaults with tiny sizes so tests render quickly.
func smallConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.OutputDir = filepath.Join(t.TempDir(), "icons")
	cfg.Font = icon.BuiltinGoBold
	cfg.Sizes = []int{24, 48}
	cfg.MaskableSizes = []int{48}
	cfg.FaviconSizes = []int{16}
	cfg.History.Backend = "off"
	return cfg
}

func TestPlanDefaultOrder(t *testing.T) {
	var got []string
	for _, a := range Plan(config.Default()) {
		got = append(got, a.FileName())
	}
	want := []string{
		"icon-72x72.png", "icon-96x96.png", "icon-128x128.png", "icon-144x144.png",
		"icon-152x152.png", "icon-180x180.png", "icon-192x192.png", "icon-384x384.png",
		"icon-512x512.png",
		"icon-maskable-192x192.png", "icon-maskable-512x512.png",
		"favicon-32x32.png", "favicon-16x16.png",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanEmptyLists(t *testing.T) {
	cfg := config.Default()
	cfg.Sizes, cfg.MaskableSizes, cfg.FaviconSizes = nil, nil, nil
	if got := Plan(cfg); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestStyleFromDefaultsMatchesDefaultStyle(t *testing.T) {
	if diff := cmp.Diff(icon.DefaultStyle(), StyleFrom(config.Default())); diff != "" {
		t.Errorf("style mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteWritesAssets(t *testing.T) {
	cfg := smallConfig(t)
	var out bytes.Buffer

	run, err := Execute(context.Background(), cfg, Options{Out: &out})
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{
		"icon-24x24.png", "icon-48x48.png", "icon-maskable-48x48.png",
		"favicon-16x16.png", "manifest.json", "favicon.ico",
	} {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	f, err := os.Open(filepath.Join(cfg.OutputDir, "icon-48x48.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 48 || b.Dy() != 48 {
		t.Errorf("bounds = %v, want 48x48", b)
	}

	if len(run.Assets) != 6 {
		t.Errorf("run assets = %d, want 6", len(run.Assets))
	}
	if run.Fallback {
		t.Error("builtin font should not report fallback")
	}
	if run.TotalBytes() == 0 {
		t.Error("expected non-zero bytes written")
	}

	text := out.String()
	if !strings.Contains(text, "Generated: icon-24x24.png\n") {
		t.Errorf("missing progress line:\n%s", text)
	}
	if !strings.HasSuffix(text, "\n\n"+DoneMessage+"\n") {
		t.Errorf("output should end with a blank line and the done message:\n%s", text)
	}
}

func TestExecuteProgressOrder(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Manifest.Enabled = false
	cfg.ICO.Enabled = false
	var out bytes.Buffer

	if _, err := Execute(context.Background(), cfg, Options{Out: &out}); err != nil {
		t.Fatal(err)
	}

	want := "Generated: icon-24x24.png\n" +
		"Generated: icon-48x48.png\n" +
		"Generated: icon-maskable-48x48.png\n" +
		"Generated: favicon-16x16.png\n" +
		"\n" + DoneMessage + "\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteDryRun(t *testing.T) {
	cfg := smallConfig(t)
	var out bytes.Buffer

	run, err := Execute(context.Background(), cfg, Options{DryRun: true, Out: &out})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Error("dry run should not create the output directory")
	}
	if run.TotalBytes() != 0 {
		t.Errorf("dry run bytes = %d, want 0", run.TotalBytes())
	}
	if strings.Count(out.String(), "Generated: ") != 6 {
		t.Errorf("expected 6 progress lines:\n%s", out.String())
	}
}

func TestExecuteQuiet(t *testing.T) {
	cfg := smallConfig(t)
	var out bytes.Buffer
	if _, err := Execute(context.Background(), cfg, Options{Quiet: true, Out: &out}); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("quiet output = %q", out.String())
	}
}

func TestExecuteRejectsBadSizeBeforeWriting(t *testing.T) {
	cfg := smallConfig(t)
	cfg.FaviconSizes = []int{16, 0}

	_, err := Execute(context.Background(), cfg, Options{Out: io.Discard})
	if err == nil {
		t.Fatal("expected error for zero size")
	}
	if _, err := os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Error("nothing should be written when validation fails")
	}
}

func TestExecuteRejectsOversizedICOBeforeWriting(t *testing.T) {
	cfg := smallConfig(t)
	cfg.ICO.Enabled = true
	cfg.ICO.Size = config.MaxICOSize + 44

	_, err := Execute(context.Background(), cfg, Options{Out: io.Discard})
	if err == nil || !strings.Contains(err.Error(), "ico.size") {
		t.Fatalf("error = %v, want ico.size rejection", err)
	}
	if _, err := os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Error("no PNGs should be written before an oversized ICO is rejected")
	}
}

func TestExecuteFallbackFont(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Font = filepath.Join(t.TempDir(), "missing.ttf")

	run, err := Execute(context.Background(), cfg, Options{Out: io.Discard})
	if err != nil {
		t.Fatal(err)
	}
	if !run.Fallback || run.Font != icon.FallbackName {
		t.Errorf("Fallback = %v, Font = %q", run.Fallback, run.Font)
	}
}

func TestExecuteCanceled(t *testing.T) {
	cfg := smallConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := Execute(ctx, cfg, Options{Out: io.Discard})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(run.Assets) != 0 {
		t.Errorf("assets = %d, want 0", len(run.Assets))
	}
}

func TestVarsFor(t *testing.T) {
	run := eventlog.Run{
		OutputDir: "public/icons",
		Duration:  1234567 * time.Microsecond,
		Assets:    make([]eventlog.Record, 3),
	}
	want := tmpl.Vars{Count: 3, Dir: "public/icons", Duration: "1.235s"}
	if diff := cmp.Diff(want, VarsFor(run)); diff != "" {
		t.Errorf("vars mismatch (-want +got):\n%s", diff)
	}
}

func TestNotifyNothingConfigured(t *testing.T) {
	if err := Notify(context.Background(), config.Notify{Message: "x"}, tmpl.Vars{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNotifyWebhook(t *testing.T) {
	var hits atomic.Int32
	var body atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		b, _ := io.ReadAll(r.Body)
		body.Store(string(b))
	}))
	defer srv.Close()

	cfg := config.Notify{
		Message: "Generated {count} icons in {dir}",
		Webhook: config.Webhook{URL: srv.URL},
	}
	err := Notify(context.Background(), cfg, tmpl.Vars{Count: 14, Dir: "public/icons"})
	if err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("hits = %d, want 1", hits.Load())
	}
	if got := body.Load(); got != "Generated 14 icons in public/icons" {
		t.Errorf("body = %v", got)
	}
}

func TestNotifyCollectsAllErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := config.Notify{
		Message: "done",
		MQTT:    config.MQTT{Broker: "tcp://127.0.0.1:19999", ClientID: "t", Topic: "t"},
		Webhook: config.Webhook{URL: srv.URL},
	}
	err := Notify(context.Background(), cfg, tmpl.Vars{})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "mqtt:") || !strings.Contains(msg, "webhook:") {
		t.Errorf("expected both failures, got: %v", err)
	}
}
