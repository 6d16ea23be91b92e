package eventlog

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/Rushan4218/restrowtl/internal/logging"
)

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

func tempSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := NewSQLiteStore(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreLogAndRuns(t *testing.T) {
	s := tempSQLiteStore(t)
	want := sampleRun(time.Now())

	if err := s.Log(want); err != nil {
		t.Fatal(err)
	}

	runs, err := s.Runs(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if !runs[0].Time.Equal(want.Time) {
		t.Errorf("Time = %v, want %v", runs[0].Time, want.Time)
	}
	runs[0].Time = want.Time
	if diff := cmp.Diff(want, runs[0]); diff != "" {
		t.Errorf("run mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteStoreRunsLimitOldestFirst(t *testing.T) {
	s := tempSQLiteStore(t)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 4; i++ {
		r := sampleRun(base.Add(time.Duration(i) * time.Minute))
		r.OutputDir = string(rune('a' + i))
		if err := s.Log(r); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.Runs(3)
	if err != nil {
		t.Fatal(err)
	}
	var dirs []string
	for _, r := range runs {
		dirs = append(dirs, r.OutputDir)
	}
	if diff := cmp.Diff([]string{"b", "c", "d"}, dirs); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
}

func TestSQLiteStoreRunsEmpty(t *testing.T) {
	s := tempSQLiteStore(t)
	runs, err := s.Runs(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected 0 runs, got %d", len(runs))
	}
}

func TestSQLiteStoreReadContentMatchesFileFormat(t *testing.T) {
	s := tempSQLiteStore(t)
	run := sampleRun(time.Now())
	s.Log(run)

	content, err := s.ReadContent()
	if err != nil {
		t.Fatal(err)
	}
	if content != formatRun(run)+"\n" {
		t.Errorf("content = %q\nwant    %q", content, formatRun(run)+"\n")
	}
}

func TestSQLiteStoreReadContentEmpty(t *testing.T) {
	s := tempSQLiteStore(t)
	content, err := s.ReadContent()
	if err != nil {
		t.Fatal(err)
	}
	if content != "" {
		t.Fatalf("expected empty, got %q", content)
	}
}

func TestSQLiteStoreClean(t *testing.T) {
	s := tempSQLiteStore(t)
	s.Log(sampleRun(time.Now().AddDate(0, 0, -10)))
	s.Log(sampleRun(time.Now()))

	removed, err := s.Clean(1)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	runs, _ := s.Runs(0)
	if len(runs) != 1 {
		t.Fatalf("expected 1 run after clean, got %d", len(runs))
	}
}

func TestSQLiteStoreClearCascades(t *testing.T) {
	s := tempSQLiteStore(t)
	s.Log(sampleRun(time.Now()))

	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM assets`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("expected assets to cascade-delete, %d remain", n)
	}
}

func TestSQLiteStorePath(t *testing.T) {
	s := tempSQLiteStore(t)
	if filepath.Base(s.Path()) != "history.db" {
		t.Fatalf("unexpected path: %s", s.Path())
	}
}

func TestSQLiteStoreMigration(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "history.log")

	fs := NewFileStore(logPath)
	fs.Log(sampleRun(time.Now().Add(-time.Minute)))
	fs.Log(sampleRun(time.Now()))

	s, err := NewSQLiteStore(context.Background(), filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	runs, err := s.Runs(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 migrated runs, got %d", len(runs))
	}
	if len(runs[0].Assets) != 2 {
		t.Errorf("expected assets to migrate, got %d", len(runs[0].Assets))
	}

	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Error("history.log should be renamed after migration")
	}
	if _, err := os.Stat(logPath + ".migrated"); err != nil {
		t.Errorf("expected history.log.migrated: %v", err)
	}
}

func TestSQLiteStoreMigrationLogs(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(filepath.Join(dir, "history.log"))
	fs.Log(sampleRun(time.Now()))

	var buf bytes.Buffer
	ctx := logging.WithContext(context.Background(),
		logging.New(&buf, logging.Config{Level: zerolog.InfoLevel, Format: "json"}))

	s, err := NewSQLiteStore(ctx, filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	out := buf.String()
	if !strings.Contains(out, `"message":"migrated history"`) || !strings.Contains(out, `"runs":1`) {
		t.Errorf("expected migration log entry, got:\n%s", out)
	}
}

func TestSQLiteStoreMigrationSkipsWhenNoLog(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSQLiteStore(context.Background(), filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".migrated") {
			t.Errorf("unexpected file %s", e.Name())
		}
	}
}
