// Package store persists scan runs and their pattern matches to a local
// sqlite database, so findings can be compared across runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/archlens/archlens/internal/patterns"
)

// Store wraps the results database.
type Store struct {
	db *sql.DB
}

// Run is one persisted scan run.
type Run struct {
	ID            string    `json:"id"`
	Root          string    `json:"root"`
	StartedAt     time.Time `json:"started_at"`
	DurationMS    int64     `json:"duration_ms"`
	FilesScanned  int       `json:"files_scanned"`
	TotalPatterns int       `json:"total_patterns"`
}

// StoredMatch is a pattern match row, tied to a run and a file.
type StoredMatch struct {
	ID       string `json:"id"`
	RunID    string `json:"run_id"`
	FilePath string `json:"file_path"`
	patterns.PatternMatch
}

// Open opens or creates the results database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		root TEXT NOT NULL,
		started_at TEXT NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		files_scanned INTEGER NOT NULL DEFAULT 0,
		total_patterns INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		file_path TEXT NOT NULL,
		pattern_type TEXT NOT NULL,
		pattern_name TEXT NOT NULL,
		severity TEXT NOT NULL,
		description TEXT NOT NULL,
		line_number INTEGER NOT NULL,
		context TEXT NOT NULL,
		confidence REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_matches_run ON matches(run_id);
	CREATE INDEX IF NOT EXISTS idx_matches_name ON matches(pattern_name);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// AddRun inserts a run row.
func (s *Store) AddRun(r Run) error {
	if r.ID == "" {
		r.ID = "run_" + uuid.New().String()[:8]
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO runs (id, root, started_at, duration_ms, files_scanned, total_patterns)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Root, r.StartedAt.Format(time.RFC3339), r.DurationMS, r.FilesScanned, r.TotalPatterns,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// AddMatch inserts one pattern match for a run and returns its row ID.
func (s *Store) AddMatch(runID, filePath string, m patterns.PatternMatch) (string, error) {
	id := "mat_" + uuid.New().String()[:8]

	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO matches (
			id, run_id, file_path, pattern_type, pattern_name,
			severity, description, line_number, context, confidence
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, runID, filePath, string(m.PatternType), m.PatternName,
		string(m.Severity), m.Description, m.LineNumber, m.Context, m.Confidence,
	)
	if err != nil {
		return "", fmt.Errorf("insert match: %w", err)
	}
	return id, nil
}

// MatchesForRun returns every stored match of a run, ordered by file and line.
func (s *Store) MatchesForRun(runID string) ([]StoredMatch, error) {
	rows, err := s.db.QueryContext(context.Background(), `
		SELECT id, run_id, file_path, pattern_type, pattern_name,
		       severity, description, line_number, context, confidence
		FROM matches WHERE run_id = ?
		ORDER BY file_path, line_number`, runID)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []StoredMatch
	for rows.Next() {
		var m StoredMatch
		var typ, sev string
		if err := rows.Scan(&m.ID, &m.RunID, &m.FilePath, &typ, &m.PatternName,
			&sev, &m.Description, &m.LineNumber, &m.Context, &m.Confidence); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.PatternType = patterns.PatternType(typ)
		m.Severity = patterns.Severity(sev)
		out = append(out, m)
	}
	return out, rows.Err()
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(context.Background(), `
		SELECT id, root, started_at, duration_ms, files_scanned, total_patterns
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &r.Root, &started, &r.DurationMS, &r.FilesScanned, &r.TotalPatterns); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			r.StartedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
