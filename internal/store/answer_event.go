package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	var value sql.NullInt64
	if data.Value != nil {
		value = sql.NullInt64{Int64: int64(*data.Value), Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO answer_events
		(sequence, timestamp, session_id, instrument_id, question_id, action, value)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seqNum, formatTime(time.Now()), data.SessionID, data.InstrumentID, data.QuestionID, data.Action, value,
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAnswerEvents(ctx context.Context, sessionID string) ([]AnswerEventRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, sequence, timestamp, session_id, instrument_id,
		question_id, action, value
		FROM answer_events WHERE session_id = ? ORDER BY sequence`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerEventRecord
	for rows.Next() {
		var (
			e     AnswerEventRecord
			ts    string
			value sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.SessionID, &e.InstrumentID,
			&e.QuestionID, &e.Action, &value); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		if value.Valid {
			v := int(value.Int64)
			e.Value = &v
		}
		if e.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answer events: %w", err)
	}
	return out, nil
}
