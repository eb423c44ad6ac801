package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	BankID string // only events for this bank ("" = all banks)
	Limit  int    // max results (0 = unlimited)
	After  int64  // sequence > After
}

// AnswerEventData captures one graded answer.
type AnswerEventData struct {
	SessionID  string
	BankID     string
	QuestionID string
	Kind       string
	Given      string
	Expected   string
	Correct    bool
	Tier       string
	TimeMs     int
	At         time.Time // zero means now
}

// AttemptEventData captures one finished quiz attempt.
type AttemptEventData struct {
	SessionID    string
	BankID       string
	Title        string
	Score        int
	Total        int
	Answered     int
	DurationSecs int
	BestStreak   int
	At           time.Time // zero means now
}

// AttemptRecord is a stored attempt event.
type AttemptRecord struct {
	Sequence     int64
	Timestamp    time.Time
	SessionID    string
	BankID       string
	Title        string
	Score        int
	Total        int
	Answered     int
	DurationSecs int
	BestStreak   int
}

// Percent returns the score as a whole percentage of the question count.
func (r AttemptRecord) Percent() int {
	if r.Total == 0 {
		return 0
	}
	return r.Score * 100 / r.Total
}

// QuestionStat aggregates every recorded answer to one question.
type QuestionStat struct {
	BankID       string
	QuestionID   string
	Answered     int
	Correct      int
	LastCorrect  bool
	LastAnswered time.Time
}

// EventRepo provides append and query access to quiz events.
type EventRepo interface {
	// AppendAnswerEvent records a single graded answer.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendAttemptEvent records a finished quiz attempt.
	AppendAttemptEvent(ctx context.Context, data AttemptEventData) error

	// QueryAttempts returns attempt events, newest first.
	QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error)

	// QuestionStats aggregates answer events per question. An empty
	// bankID aggregates every bank.
	QuestionStats(ctx context.Context, bankID string) ([]QuestionStat, error)

	// DeleteBank removes all events recorded for a bank.
	DeleteBank(ctx context.Context, bankID string) error

	// DeleteAll removes every event.
	DeleteAll(ctx context.Context) error
}
