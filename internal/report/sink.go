// Package report persists the diagnostic rows a chain run produces. Every
// message a tool reports lands here keyed by run, so the CLI can summarize a
// run after the fact and operators can query history with plain SQL.
package report

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"stagehand/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	recipe      TEXT NOT NULL,
	tool        TEXT NOT NULL,
	source_path TEXT NOT NULL,
	rule_id     TEXT NOT NULL,
	severity    TEXT NOT NULL,
	fatal       INTEGER NOT NULL DEFAULT 0,
	message     TEXT NOT NULL,
	line        INTEGER NOT NULL,
	col         INTEGER NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_run ON messages(run_id);
CREATE INDEX IF NOT EXISTS idx_messages_rule ON messages(rule_id);
`

// Row is one reported diagnostic, denormalized for querying.
type Row struct {
	RunID      string
	Recipe     string
	Tool       string
	SourcePath string
	RuleID     string
	Severity   string
	Fatal      bool
	Message    string
	Line       int
	Column     int
	CreatedAt  time.Time
}

// Sink writes diagnostic rows to a SQLite database.
type Sink struct {
	mu sync.Mutex
	db *sql.DB
}

// Open initializes the database at path, creating parent directories and
// the schema as needed.
func Open(path string) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open report database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate report database: %w", err)
	}
	logging.Get(logging.CategoryReport).Debugf("report sink open at %s", path)
	return &Sink{db: db}, nil
}

// Close releases the database handle.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Insert records one diagnostic row.
func (s *Sink) Insert(row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO messages (run_id, recipe, tool, source_path, rule_id, severity, fatal, message, line, col, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.RunID, row.Recipe, row.Tool, row.SourcePath, row.RuleID,
		row.Severity, row.Fatal, row.Message, row.Line, row.Column, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert diagnostic row: %w", err)
	}
	return nil
}

// ForRun returns every row recorded under a run, in insertion order.
func (s *Sink) ForRun(runID string) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(`
		SELECT run_id, recipe, tool, source_path, rule_id, severity, fatal, message, line, col, created_at
		FROM messages WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query diagnostic rows: %w", err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.RunID, &r.Recipe, &r.Tool, &r.SourcePath, &r.RuleID,
			&r.Severity, &r.Fatal, &r.Message, &r.Line, &r.Column, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan diagnostic row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// Totals returns the error and warning counts for a run.
func (s *Sink) Totals(runID string) (errors, warnings int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN severity = 'ERROR' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN severity = 'WARNING' THEN 1 ELSE 0 END), 0)
		FROM messages WHERE run_id = ?`, runID).Scan(&errors, &warnings)
	if err != nil {
		err = fmt.Errorf("count diagnostic rows: %w", err)
	}
	return errors, warnings, err
}
