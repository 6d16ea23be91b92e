package eventlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Rushan4218/restrowtl/internal/logging"
	"github.com/Rushan4218/restrowtl/internal/paths"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) a SQLite database at path, creates
// tables and indexes, and performs one-time migration from history.log
// if it exists in the same directory. Migration problems are logged to the
// logger in ctx and do not fail the open.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), paths.DirPerm); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Set PRAGMAs before any DDL.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}

	ddl := `
CREATE TABLE IF NOT EXISTS runs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp   TEXT    NOT NULL,
    output_dir  TEXT    NOT NULL DEFAULT '',
    font        TEXT    NOT NULL DEFAULT '',
    fallback    INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS assets (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id  INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq     INTEGER NOT NULL,
    file    TEXT    NOT NULL,
    kind    TEXT    NOT NULL DEFAULT '',
    size    INTEGER NOT NULL DEFAULT 0,
    bytes   INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_assets_run     ON assets(run_id, seq);
`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}

	// One-time migration from flat file.
	logPath := filepath.Join(filepath.Dir(path), paths.HistoryFileName)
	if _, err := os.Stat(logPath); err == nil {
		if err := s.migrateFromFile(ctx, logPath); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("from", logPath).Msg("history migration failed")
		}
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Log(run Run) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertRun(tx, run); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRun(tx *sql.Tx, run Run) error {
	fallback := 0
	if run.Fallback {
		fallback = 1
	}

	res, err := tx.Exec(
		`INSERT INTO runs (timestamp, output_dir, font, fallback, duration_ms)
		 VALUES (?, ?, ?, ?, ?)`,
		run.Time.Format(time.RFC3339), run.OutputDir, run.Font, fallback, run.Duration.Milliseconds(),
	)
	if err != nil {
		return err
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i, a := range run.Assets {
		if _, err := tx.Exec(
			`INSERT INTO assets (run_id, seq, file, kind, size, bytes)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, i+1, a.File, a.Kind, a.Size, a.Bytes,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Runs(limit int) ([]Run, error) {
	query := `SELECT id, timestamp, output_dir, font, fallback, duration_ms
		FROM runs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	var runs []Run
	for rows.Next() {
		var id, durationMS int64
		var tsStr, outDir, font string
		var fallback int
		if err := rows.Scan(&id, &tsStr, &outDir, &font, &fallback, &durationMS); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339, tsStr)
		if err != nil {
			continue
		}
		ids = append(ids, id)
		runs = append(runs, Run{
			Time:      ts,
			OutputDir: outDir,
			Font:      font,
			Fallback:  fallback != 0,
			Duration:  time.Duration(durationMS) * time.Millisecond,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		assets, err := s.assets(id)
		if err != nil {
			return nil, err
		}
		runs[i].Assets = assets
	}

	// Oldest first.
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs, nil
}

func (s *SQLiteStore) assets(runID int64) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT file, kind, size, bytes FROM assets WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.File, &r.Kind, &r.Size, &r.Bytes); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func (s *SQLiteStore) ReadContent() (string, error) {
	runs, err := s.Runs(0)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(formatRun(run))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func (s *SQLiteStore) Clean(days int) (int, error) {
	cutoff := DayCutoff(days).Format(time.RFC3339)
	res, err := s.db.Exec(`DELETE FROM runs WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM runs`)
	return err
}

func (s *SQLiteStore) Path() string {
	return s.path
}

// migrateFromFile imports an existing history.log into the database and
// renames it to history.log.migrated on success.
func (s *SQLiteStore) migrateFromFile(ctx context.Context, logPath string) error {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return err
	}
	runs := ParseRuns(string(data))

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, run := range runs {
		if err := insertRun(tx, run); err != nil {
			return fmt.Errorf("migrate run: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	if len(runs) > 0 {
		logging.FromContext(ctx).Info().Int("runs", len(runs)).Str("from", paths.HistoryFileName).Msg("migrated history")
	}
	return os.Rename(logPath, logPath+".migrated")
}
