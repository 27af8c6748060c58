package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/screenwell/internal/scoring"
)

// resultRepo implements ResultRepo.
type resultRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

const resultColumns = `id, sequence, session_id, instrument_id, total_score, max_score,
	severity_band, band_summary, partial, answered, total, answers, alerts, note,
	started_at, completed_at`

func (r *resultRepo) Save(ctx context.Context, rec *ResultRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = rec.CompletedAt
	}

	answers, err := json.Marshal(rec.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	alerts := rec.Result.Alerts
	if alerts == nil {
		alerts = []scoring.Alert{}
	}
	alertJSON, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("marshal alerts: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	res := rec.Result
	_, err = r.db.ExecContext(ctx, `INSERT INTO results (`+resultColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, seqNum, rec.SessionID, res.InstrumentID, res.TotalScore, res.MaxScore,
		res.SeverityBand, res.BandSummary, boolInt(res.Partial), res.Answered, res.Total,
		string(answers), string(alertJSON), rec.Note,
		formatTime(rec.StartedAt), formatTime(rec.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	rec.Sequence = seqNum
	return nil
}

func (r *resultRepo) Get(ctx context.Context, id string) (*ResultRecord, error) {
	if id == "" {
		return nil, nil
	}
	pattern := escapeLike(id) + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+resultColumns+` FROM results WHERE id LIKE ? ESCAPE '\' ORDER BY sequence DESC LIMIT 2`,
		pattern)
	if err != nil {
		return nil, fmt.Errorf("query result: %w", err)
	}
	recs, err := scanResults(rows)
	if err != nil {
		return nil, err
	}

	switch len(recs) {
	case 0:
		return nil, nil
	case 1:
		return &recs[0], nil
	}
	// An exact match wins over longer IDs sharing the prefix.
	for i := range recs {
		if recs[i].ID == id {
			return &recs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrAmbiguousID, id)
}

func (r *resultRepo) List(ctx context.Context, q ResultQuery) ([]ResultRecord, error) {
	query := `SELECT ` + resultColumns + ` FROM results`
	var args []any
	if q.InstrumentID != "" {
		query += ` WHERE instrument_id = ?`
		args = append(args, q.InstrumentID)
	}
	query += ` ORDER BY sequence DESC`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return scanResults(rows)
}

func (r *resultRepo) Previous(ctx context.Context, rec *ResultRecord) (*ResultRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+resultColumns+` FROM results
		WHERE instrument_id = ? AND sequence < ? ORDER BY sequence DESC LIMIT 1`,
		rec.Result.InstrumentID, rec.Sequence)
	if err != nil {
		return nil, fmt.Errorf("query previous result: %w", err)
	}
	recs, err := scanResults(rows)
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return &recs[0], nil
}

func scanResults(rows *sql.Rows) ([]ResultRecord, error) {
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var (
			rec                ResultRecord
			partial            int
			answers, alerts    string
			started, completed string
		)
		err := rows.Scan(
			&rec.ID, &rec.Sequence, &rec.SessionID, &rec.Result.InstrumentID,
			&rec.Result.TotalScore, &rec.Result.MaxScore, &rec.Result.SeverityBand,
			&rec.Result.BandSummary, &partial, &rec.Result.Answered, &rec.Result.Total,
			&answers, &alerts, &rec.Note, &started, &completed,
		)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		rec.Result.Partial = partial != 0
		if err := json.Unmarshal([]byte(answers), &rec.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers of %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(alerts), &rec.Result.Alerts); err != nil {
			return nil, fmt.Errorf("unmarshal alerts of %s: %w", rec.ID, err)
		}
		if len(rec.Result.Alerts) == 0 {
			rec.Result.Alerts = nil
		}
		if rec.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		if rec.CompletedAt, err = parseTime(completed); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// isNoRows reports whether err is sql.ErrNoRows.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
