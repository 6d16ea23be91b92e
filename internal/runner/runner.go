// Package runner drives one generation pass: plan the assets, render and
// write each one, then emit the manifest and favicon.ico.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Rushan4218/restrowtl/internal/config"
	"github.com/Rushan4218/restrowtl/internal/eventlog"
	"github.com/Rushan4218/restrowtl/internal/icon"
	"github.com/Rushan4218/restrowtl/internal/logging"
	"github.com/Rushan4218/restrowtl/internal/manifest"
	"github.com/Rushan4218/restrowtl/internal/paths"
)

// DoneMessage is printed after a successful pass.
const DoneMessage = "All PWA icons generated successfully!"

// Options controls how Execute reports and writes.
type Options struct {
	DryRun bool      // plan and print without touching the filesystem
	Quiet  bool      // suppress progress lines
	Out    io.Writer // progress output; nil means os.Stdout
}

func (o Options) printf(format string, args ...any) {
	if o.Quiet {
		return
	}
	w := o.Out
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, format, args...)
}

// StyleFrom converts the configured colours, text and layout into an
// icon.Style.
func StyleFrom(cfg config.Config) icon.Style {
	return icon.Style{
		Start:            cfg.Colors.Start.NRGBA(),
		End:              cfg.Colors.End.NRGBA(),
		Ink:              cfg.Colors.Text.NRGBA(),
		Title:            cfg.Text.Title,
		Subtitle:         cfg.Text.Subtitle,
		Letter:           cfg.Text.Letter,
		SubtitleAlpha:    uint8(cfg.Text.SubtitleAlpha),
		CornerRatio:      cfg.Layout.CornerRatio,
		MinFaviconRadius: cfg.Layout.MinFaviconRadius,
		TitleRatio:       cfg.Layout.TitleRatio,
		SubtitleRatio:    cfg.Layout.SubtitleRatio,
		LetterRatio:      cfg.Layout.LetterRatio,
		GapRatio:         cfg.Layout.GapRatio,
		SubtitleLift:     cfg.Layout.SubtitleLift,
	}
}

// Plan lists the assets in generation order: standard sizes, then
// maskable, then favicons. Duplicates are kept.
func Plan(cfg config.Config) []icon.Asset {
	assets := make([]icon.Asset, 0, len(cfg.Sizes)+len(cfg.MaskableSizes)+len(cfg.FaviconSizes))
	for _, s := range cfg.Sizes {
		assets = append(assets, icon.Asset{Kind: icon.Standard, Size: s})
	}
	for _, s := range cfg.MaskableSizes {
		assets = append(assets, icon.Asset{Kind: icon.Maskable, Size: s})
	}
	for _, s := range cfg.FaviconSizes {
		assets = append(assets, icon.Asset{Kind: icon.Favicon, Size: s})
	}
	return assets
}

// Execute renders and writes every planned asset, one at a time. The
// configuration is validated before anything is written. The returned
// Run describes what was (or in dry-run mode, would be) written; on
// error it covers the files completed so far.
func Execute(ctx context.Context, cfg config.Config, opts Options) (eventlog.Run, error) {
	start := time.Now()
	run := eventlog.Run{Time: start, OutputDir: cfg.OutputDir}

	if err := cfg.Validate(); err != nil {
		return run, err
	}

	ctx = logging.WithComponent(ctx, "runner")
	log := logging.FromContext(ctx)
	f := icon.LoadFont(ctx, cfg.Font)
	run.Font = f.Name
	run.Fallback = f.IsFallback()
	st := StyleFrom(cfg)

	if !opts.DryRun {
		if err := os.MkdirAll(cfg.OutputDir, paths.DirPerm); err != nil {
			return run, fmt.Errorf("create output dir: %w", err)
		}
	}

	assets := Plan(cfg)
	for _, a := range assets {
		if err := ctx.Err(); err != nil {
			return run, err
		}
		path := filepath.Join(cfg.OutputDir, a.FileName())
		n := 0
		if !opts.DryRun {
			data, err := icon.PNGBytes(icon.Render(a, st, f))
			if err != nil {
				return run, fmt.Errorf("%s: %w", a.FileName(), err)
			}
			if err := paths.AtomicWrite(path, data); err != nil {
				return run, fmt.Errorf("write %s: %w", path, err)
			}
			n = len(data)
		}
		log.Debug().Str("file", path).Int("bytes", n).Msg("asset written")
		run.Assets = append(run.Assets, eventlog.Record{
			File:  a.FileName(),
			Kind:  a.Kind.String(),
			Size:  a.Size,
			Bytes: n,
		})
		opts.printf("Generated: %s\n", a.FileName())
	}

	if cfg.Manifest.Enabled {
		rec, err := writeManifest(cfg, assets, opts)
		if err != nil {
			return run, err
		}
		run.Assets = append(run.Assets, rec)
	}

	if cfg.ICO.Enabled {
		rec, err := writeICO(cfg, st, f, opts)
		if err != nil {
			return run, err
		}
		run.Assets = append(run.Assets, rec)
	}

	run.Duration = time.Since(start)
	opts.printf("\n%s\n", DoneMessage)
	return run, nil
}

func writeManifest(cfg config.Config, assets []icon.Asset, opts Options) (eventlog.Record, error) {
	rec := eventlog.Record{File: paths.ManifestName, Kind: "manifest"}
	if !opts.DryRun {
		_, data, err := manifest.Write(cfg.OutputDir, cfg.Manifest, assets)
		if err != nil {
			return rec, err
		}
		rec.Bytes = len(data)
	}
	opts.printf("Generated: %s\n", rec.File)
	return rec, nil
}

func writeICO(cfg config.Config, st icon.Style, f *icon.Font, opts Options) (eventlog.Record, error) {
	rec := eventlog.Record{File: paths.ICOName, Kind: "ico", Size: cfg.ICO.Size}
	path := filepath.Join(cfg.OutputDir, paths.ICOName)
	if !opts.DryRun {
		data, err := icon.ICOBytes(cfg.ICO.Size, st, f)
		if err != nil {
			return rec, err
		}
		if err := paths.AtomicWrite(path, data); err != nil {
			return rec, fmt.Errorf("write %s: %w", path, err)
		}
		rec.Bytes = len(data)
	}
	opts.printf("Generated: %s\n", rec.File)
	return rec, nil
}
