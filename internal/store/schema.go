package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS results (
		id            TEXT PRIMARY KEY,
		sequence      INTEGER NOT NULL,
		session_id    TEXT NOT NULL,
		instrument_id TEXT NOT NULL,
		total_score   INTEGER NOT NULL,
		max_score     INTEGER NOT NULL,
		severity_band TEXT NOT NULL,
		band_summary  TEXT NOT NULL DEFAULT '',
		partial       INTEGER NOT NULL,
		answered      INTEGER NOT NULL,
		total         INTEGER NOT NULL,
		answers       TEXT NOT NULL,
		alerts        TEXT NOT NULL DEFAULT '[]',
		note          TEXT NOT NULL DEFAULT '',
		started_at    TEXT NOT NULL,
		completed_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS results_instrument_seq ON results (instrument_id, sequence)`,
	`CREATE TABLE IF NOT EXISTS drafts (
		session_id    TEXT PRIMARY KEY,
		instrument_id TEXT NOT NULL,
		answers       TEXT NOT NULL,
		current_index INTEGER NOT NULL DEFAULT 0,
		note          TEXT NOT NULL DEFAULT '',
		started_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS answer_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL,
		timestamp     TEXT NOT NULL,
		session_id    TEXT NOT NULL,
		instrument_id TEXT NOT NULL,
		question_id   TEXT NOT NULL,
		action        TEXT NOT NULL,
		value         INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS answer_events_session ON answer_events (session_id, sequence)`,
	`CREATE TABLE IF NOT EXISTS llm_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL,
		timestamp     TEXT NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL DEFAULT '',
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
