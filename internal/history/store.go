// Package history keeps an append-only record of task executions in
// SQLite. It is an audit trail for diagnostics; the scheduler never reads
// it back.
package history

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"yasched/internal/schedule"
	"yasched/internal/timing"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	task        TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	err         TEXT
);
CREATE INDEX IF NOT EXISTS runs_task_started ON runs(task, started_at);
`

type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

type Entry struct {
	Task     string
	Started  timing.Moment
	Duration time.Duration
	Error    string
}

func Open(path string, log zerolog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun implements schedule.Recorder. Insert failures are logged, not
// propagated; a broken audit trail must not break scheduling.
func (s *Store) RecordRun(ctx context.Context, rec schedule.RunRecord) {
	if s == nil || s.db == nil {
		return
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs(task, started_at, duration_ms, err) VALUES(?,?,?,?)`,
		rec.Task, rec.Started.Format(timing.MomentLayout), rec.Duration.Milliseconds(), nullStr(rec.Error),
	)
	if err != nil {
		s.log.Warn().Err(err).Str("task", rec.Task).Msg("history insert failed")
	}
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT task, started_at, duration_ms, err FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			started string
			ms      int64
			errText sql.NullString
		)
		if err := rows.Scan(&e.Task, &started, &ms, &errText); err != nil {
			return nil, err
		}
		m, err := timing.ParseMoment("", started)
		if err != nil {
			return nil, err
		}
		e.Started = m
		e.Duration = time.Duration(ms) * time.Millisecond
		e.Error = errText.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
