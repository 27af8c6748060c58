package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/screenwell/internal/scoring"
)

// ErrAmbiguousID is returned when a result ID prefix matches more than one row.
var ErrAmbiguousID = errors.New("ambiguous result ID")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// ResultRecord is a scored session as persisted.
type ResultRecord struct {
	ID          string
	Sequence    int64
	SessionID   string
	Note        string
	Answers     map[string]int
	StartedAt   time.Time
	CompletedAt time.Time
	Result      scoring.Result
}

// ResultQuery filters ResultRepo.List.
type ResultQuery struct {
	InstrumentID string // empty = all instruments
	Limit        int    // 0 = unlimited
}

// ResultRepo stores scored results. Results are append-only.
type ResultRepo interface {
	// Save assigns ID (if empty) and Sequence and inserts the record.
	Save(ctx context.Context, rec *ResultRecord) error

	// Get returns the result whose ID equals or starts with id, or nil if
	// none does. A prefix matching several results yields ErrAmbiguousID.
	Get(ctx context.Context, id string) (*ResultRecord, error)

	// List returns results newest first.
	List(ctx context.Context, q ResultQuery) ([]ResultRecord, error)

	// Previous returns the newest result for the same instrument saved
	// before rec, or nil.
	Previous(ctx context.Context, rec *ResultRecord) (*ResultRecord, error)
}

// DraftRecord is an unfinished session saved for resuming later.
type DraftRecord struct {
	SessionID    string
	InstrumentID string
	Answers      map[string]int
	CurrentIndex int
	Note         string
	StartedAt    time.Time
	UpdatedAt    time.Time
}

// DraftRepo manages in-progress sessions. There is at most one draft per
// session ID; saving again replaces it.
type DraftRepo interface {
	// Save inserts or replaces the draft for rec.SessionID.
	Save(ctx context.Context, rec *DraftRecord) error

	// Latest returns the most recently updated draft for instrumentID (any
	// instrument when empty), or nil if none exist.
	Latest(ctx context.Context, instrumentID string) (*DraftRecord, error)

	// Delete removes the draft for sessionID. Deleting a missing draft is not an error.
	Delete(ctx context.Context, sessionID string) error

	// Prune deletes all but the N most recently updated drafts.
	Prune(ctx context.Context, keep int) error
}

// Answer event actions.
const (
	AnswerSet   = "set"
	AnswerClear = "clear"
)

// AnswerEventData captures one answer mutation.
type AnswerEventData struct {
	SessionID    string
	InstrumentID string
	QuestionID   string
	Action       string // AnswerSet or AnswerClear
	Value        *int   // nil for AnswerClear
}

// AnswerEventRecord is a stored answer event.
type AnswerEventRecord struct {
	AnswerEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	LLMRequestEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// LLMUsage aggregates LLM events by a grouping key.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendAnswerEvent records a single answer mutation.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// QueryAnswerEvents returns a session's answer events in order.
	QueryAnswerEvents(ctx context.Context, sessionID string) ([]AnswerEventRecord, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
