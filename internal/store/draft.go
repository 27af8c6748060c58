package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// draftRepo implements DraftRepo.
type draftRepo struct {
	db *sql.DB
}

func (r *draftRepo) Save(ctx context.Context, rec *DraftRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = rec.UpdatedAt
	}
	answers, err := json.Marshal(rec.Answers)
	if err != nil {
		return fmt.Errorf("marshal draft answers: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO drafts
		(session_id, instrument_id, answers, current_index, note, started_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET
			answers = excluded.answers,
			current_index = excluded.current_index,
			note = excluded.note,
			updated_at = excluded.updated_at`,
		rec.SessionID, rec.InstrumentID, string(answers), rec.CurrentIndex, rec.Note,
		formatTime(rec.StartedAt), formatTime(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (r *draftRepo) Latest(ctx context.Context, instrumentID string) (*DraftRecord, error) {
	query := `SELECT session_id, instrument_id, answers, current_index, note, started_at, updated_at
		FROM drafts`
	var args []any
	if instrumentID != "" {
		query += ` WHERE instrument_id = ?`
		args = append(args, instrumentID)
	}
	query += ` ORDER BY updated_at DESC, rowid DESC LIMIT 1`

	var (
		rec              DraftRecord
		answers          string
		started, updated string
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&rec.SessionID, &rec.InstrumentID, &answers, &rec.CurrentIndex, &rec.Note, &started, &updated,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest draft: %w", err)
	}
	if err := json.Unmarshal([]byte(answers), &rec.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal draft answers: %w", err)
	}
	if rec.StartedAt, err = parseTime(started); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *draftRepo) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func (r *draftRepo) Prune(ctx context.Context, keep int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE session_id NOT IN (
		SELECT session_id FROM drafts ORDER BY updated_at DESC, rowid DESC LIMIT ?
	)`, keep)
	if err != nil {
		return fmt.Errorf("prune drafts: %w", err)
	}
	return nil
}
