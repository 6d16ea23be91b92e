// Package eventlog records one history entry per generation run.
package eventlog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rushan4218/restrowtl/internal/logging"
)

// Record describes one file written during a run.
type Record struct {
	File  string
	Kind  string
	Size  int
	Bytes int
}

// Run is a single generation pass.
type Run struct {
	Time      time.Time
	OutputDir string
	Font      string
	Fallback  bool // bitmap font was used
	Duration  time.Duration
	Assets    []Record
}

// TotalBytes sums the sizes of all written files.
func (r Run) TotalBytes() int {
	n := 0
	for _, a := range r.Assets {
		n += a.Bytes
	}
	return n
}

// Open returns the store for backend: "sqlite" or "file". Backend "off"
// returns a nil Store and nil error. ctx carries the logger used while
// opening.
func Open(ctx context.Context, backend, path string) (Store, error) {
	switch backend {
	case "off":
		return nil, nil
	case "file":
		return NewFileStore(path), nil
	case "sqlite", "":
		return NewSQLiteStore(ctx, path)
	default:
		return nil, fmt.Errorf("eventlog: unknown backend %q", backend)
	}
}

// LogRun writes run to s. Failures are logged as warnings and never
// returned; history is best-effort. A nil store is a no-op.
func LogRun(ctx context.Context, s Store, run Run) {
	if s == nil {
		return
	}
	if err := s.Log(run); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("history", s.Path()).Msg("could not record run")
	}
}

// formatRun renders run as a log block: a summary line followed by one
// detail line per asset, without a trailing blank line.
func formatRun(run Run) string {
	ts := run.Time.Format(time.RFC3339)
	var b strings.Builder
	fmt.Fprintf(&b, "%s  out=%q  font=%q  fallback=%t  assets=%d  duration=%s\n",
		ts, run.OutputDir, run.Font, run.Fallback, len(run.Assets), run.Duration.Round(time.Millisecond))
	for i, a := range run.Assets {
		fmt.Fprintf(&b, "%s    asset[%d] %s  kind=%s  size=%d  bytes=%d\n",
			ts, i+1, a.File, a.Kind, a.Size, a.Bytes)
	}
	return b.String()
}
