package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Rushan4218/restrowtl/internal/config"
	"github.com/Rushan4218/restrowtl/internal/eventlog"
	"github.com/Rushan4218/restrowtl/internal/logging"
	"github.com/Rushan4218/restrowtl/internal/paths"
)

const defaultHistoryCount = 10

func historyCmd(ctx context.Context, args []string, opts options) {
	cfg, _, err := config.Load(opts.configPath)
	if err != nil {
		fatal("%v", err)
	}
	if cfg.History.Backend == "off" {
		fmt.Println("History is disabled (history.backend is \"off\").")
		return
	}
	store, err := eventlog.Open(ctx, cfg.History.Backend, paths.HistoryPath(cfg.History.Backend))
	if err != nil {
		fatal("%v", err)
	}
	defer store.Close()
	logging.FromContext(ctx).Debug().Str("path", store.Path()).Msg("history store")

	if len(args) > 0 {
		switch args[0] {
		case "clear":
			historyClear(store)
			return
		case "clean":
			historyClean(store, args[1:])
			return
		}
	}

	count := defaultHistoryCount
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fatal("count must be a positive integer")
		}
		count = n
	}

	runs, err := store.Runs(count)
	if err != nil {
		fatal("%v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}
	renderRuns(os.Stdout, runs, time.Now())
}

func historyClear(store eventlog.Store) {
	if err := store.Clear(); err != nil {
		fatal("%v", err)
	}
	fmt.Println("History cleared.")
}

func historyClean(store eventlog.Store, args []string) {
	if len(args) == 0 {
		fatal("history clean requires a number of days\nUsage: pwaicons history clean <days>")
	}
	days, err := strconv.Atoi(args[0])
	if err != nil || days <= 0 {
		fatal("days must be a positive integer")
	}
	removed, err := store.Clean(days)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Removed %d runs older than %d days.\n", removed, days)
}

// renderRuns writes one line per run, newest last:
//
//	2026-03-01 10:00  14 files  123 kB  84ms  public/icons  2 hours ago
func renderRuns(w io.Writer, runs []eventlog.Run, now time.Time) {
	for _, r := range runs {
		var b strings.Builder
		fmt.Fprintf(&b, "%s  %s  %8s  %7s  %s",
			dim(r.Time.Local().Format("2006-01-02 15:04")),
			padL(fmt.Sprintf("%d files", len(r.Assets)), 9),
			humanize.Bytes(uint64(r.TotalBytes())),
			r.Duration.Round(time.Millisecond),
			cyan(r.OutputDir),
		)
		if r.Fallback {
			b.WriteString("  " + yellow("[fallback font]"))
		}
		b.WriteString("  " + dim(humanize.RelTime(r.Time, now, "ago", "from now")))
		fmt.Fprintln(w, b.String())
	}
}

// --- ANSI colour helpers (disabled when NO_COLOR is set or stdout is not a terminal) ---

var noColor = os.Getenv("NO_COLOR") != "" || !logging.IsTerminal(os.Stdout)

func ansi(code, s string) string {
	if noColor {
		return s
	}
	return code + s + "\033[0m"
}

func dim(s string) string    { return ansi("\033[2m", s) }
func cyan(s string) string   { return ansi("\033[36m", s) }
func yellow(s string) string { return ansi("\033[33m", s) }

// padL left-pads s to width.
func padL(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
