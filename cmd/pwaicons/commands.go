package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Rushan4218/restrowtl/internal/config"
	"github.com/Rushan4218/restrowtl/internal/cooldown"
	"github.com/Rushan4218/restrowtl/internal/eventlog"
	"github.com/Rushan4218/restrowtl/internal/icon"
	"github.com/Rushan4218/restrowtl/internal/logging"
	"github.com/Rushan4218/restrowtl/internal/paths"
	"github.com/Rushan4218/restrowtl/internal/runner"
	"github.com/Rushan4218/restrowtl/internal/watch"
)

func generateCmd(ctx context.Context, opts options) {
	cfg, _, err := loadConfig(opts)
	if err != nil {
		fatal("%v", err)
	}
	if err := generate(ctx, cfg, opts); err != nil {
		exitOnCancel(err)
		fatal("%v", err)
	}
}

// generate runs one pass, then records history and sends notifications.
// Dry runs skip both.
func generate(ctx context.Context, cfg config.Config, opts options) error {
	run, err := runner.Execute(ctx, cfg, runner.Options{DryRun: opts.dryRun, Quiet: opts.quiet})
	if err != nil {
		return err
	}
	if opts.dryRun {
		return nil
	}

	log := logging.FromContext(ctx)
	store, err := eventlog.Open(ctx, cfg.History.Backend, paths.HistoryPath(cfg.History.Backend))
	if err != nil {
		log.Warn().Err(err).Msg("history unavailable")
	} else if store != nil {
		eventlog.LogRun(ctx, store, run)
		store.Close()
	}

	notify(ctx, cfg, run)
	return nil
}

// notify sends the completion message unless the output directory is
// still within its notification cooldown.
func notify(ctx context.Context, cfg config.Config, run eventlog.Run) {
	log := logging.FromContext(ctx)
	key := cfg.OutputDir
	if cooldown.Active(key, cfg.Notify.CooldownSeconds) {
		log.Info().Str("dir", key).Msg("notification skipped, cooldown active")
		return
	}
	if err := runner.Notify(ctx, cfg.Notify, runner.VarsFor(run)); err != nil {
		log.Warn().Err(err).Msg("notification failed")
	}
	if cfg.Notify.CooldownSeconds > 0 {
		cooldown.Record(ctx, key)
	}
}

func listCmd(opts options) {
	cfg, path, err := loadConfig(opts)
	if err != nil {
		fatal("%v", err)
	}
	if path == "" {
		path = "(built-in defaults)"
	}
	fmt.Printf("Config: %s\n", path)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Printf("Font:   %s\n\n", cfg.Font)

	st := runner.StyleFrom(cfg)
	assets := runner.Plan(cfg)
	for _, a := range assets {
		fmt.Println(planLine(a, st))
	}
	if cfg.Manifest.Enabled {
		fmt.Printf("  %-28s %-9s\n", paths.ManifestName, "manifest")
	}
	if cfg.ICO.Enabled {
		fmt.Printf("  %-28s %-9s %5s\n", paths.ICOName, "ico", fmt.Sprintf("%dpx", cfg.ICO.Size))
	}
	fmt.Printf("\n%d PNG files\n", len(assets))
}

func planLine(a icon.Asset, st icon.Style) string {
	line := fmt.Sprintf("  %-28s %-9s %5s", a.FileName(), a.Kind, fmt.Sprintf("%dpx", a.Size))
	if r := st.Radius(a); r > 0 {
		line += fmt.Sprintf("  radius=%d", r)
	}
	return line
}

func watchCmd(ctx context.Context, opts options) {
	cfg, path, err := loadConfig(opts)
	if err != nil {
		fatal("%v", err)
	}
	files := watchTargets(path, cfg.Font)
	if len(files) == 0 {
		fatal("nothing to watch: no config file or font file found")
	}

	if err := generate(ctx, cfg, opts); err != nil {
		exitOnCancel(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	fmt.Fprintf(os.Stderr, "pwaicons: watching %d file(s), Ctrl+C to stop...\n", len(files))
	err = watch.Run(ctx, files, watch.DefaultDebounce, func(ctx context.Context) error {
		cfg, _, err := loadConfig(opts)
		if err != nil {
			return err
		}
		return generate(ctx, cfg, opts)
	})
	if err != nil {
		fatal("%v", err)
	}
}

// watchTargets returns the config and font files that exist on disk.
func watchTargets(configPath, font string) []string {
	var files []string
	if configPath != "" {
		files = append(files, configPath)
	}
	if font != "" && font != icon.BuiltinGoBold {
		if _, err := os.Stat(font); err == nil {
			files = append(files, filepath.Clean(font))
		}
	}
	return files
}
