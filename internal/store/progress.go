package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ProgressKeyPrefix prefixes every progress key in the KV store.
const ProgressKeyPrefix = "quiz_"

// DefaultHistoryLimit caps the attempt history kept per bank.
const DefaultHistoryLimit = 50

// ProgressKey returns the KV key for a bank's progress record.
func ProgressKey(bankID string) string {
	return ProgressKeyPrefix + bankID
}

// AttemptEntry is one item of a bank's attempt history.
type AttemptEntry struct {
	Score int       `json:"score"`
	Date  time.Time `json:"date"`
}

// Progress is the persisted per-bank record.
type Progress struct {
	BankID         string         `json:"-"`
	Score          int            `json:"score"`
	Completed      int            `json:"completed"`
	Total          int            `json:"total"`
	BestScore      int            `json:"bestScore"`
	Attempts       int            `json:"attempts"`
	LastAttempt    time.Time      `json:"lastAttempt"`
	AttemptHistory []AttemptEntry `json:"attemptHistory"`
}

// Attempt is the outcome of one finished quiz, as recorded in progress.
type Attempt struct {
	Score     int
	Completed int
	Total     int
	At        time.Time
}

// ProgressRepo reads and writes progress records in a KV store.
type ProgressRepo struct {
	kv           KV
	historyLimit int
}

// NewProgressRepo creates a ProgressRepo. A historyLimit of zero or less
// means DefaultHistoryLimit.
func NewProgressRepo(kv KV, historyLimit int) *ProgressRepo {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &ProgressRepo{kv: kv, historyLimit: historyLimit}
}

// Record folds an attempt into the bank's progress and saves it.
func (r *ProgressRepo) Record(ctx context.Context, bankID string, a Attempt) (*Progress, error) {
	p, err := r.Get(ctx, bankID)
	if errors.Is(err, ErrNotFound) {
		p = &Progress{BankID: bankID}
	} else if err != nil {
		return nil, err
	}

	p.Score = a.Score
	p.Completed = a.Completed
	p.Total = a.Total
	p.BestScore = max(p.BestScore, a.Score)
	p.Attempts++
	p.LastAttempt = a.At.UTC()
	p.AttemptHistory = append(p.AttemptHistory, AttemptEntry{Score: a.Score, Date: p.LastAttempt})
	if over := len(p.AttemptHistory) - r.historyLimit; over > 0 {
		p.AttemptHistory = p.AttemptHistory[over:]
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode progress for %s: %w", bankID, err)
	}
	if err := r.kv.Put(ctx, ProgressKey(bankID), string(raw)); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the progress for a bank, or ErrNotFound.
func (r *ProgressRepo) Get(ctx context.Context, bankID string) (*Progress, error) {
	raw, ok, err := r.kv.Get(ctx, ProgressKey(bankID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return decodeProgress(bankID, raw)
}

// All returns every stored progress record keyed by bank ID.
func (r *ProgressRepo) All(ctx context.Context) (map[string]*Progress, error) {
	keys, err := r.kv.Keys(ctx, ProgressKeyPrefix)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Progress, len(keys))
	for _, k := range keys {
		bankID := strings.TrimPrefix(k, ProgressKeyPrefix)
		p, err := r.Get(ctx, bankID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[bankID] = p
	}
	return out, nil
}

// Reset forgets the progress for one bank.
func (r *ProgressRepo) Reset(ctx context.Context, bankID string) error {
	return r.kv.Delete(ctx, ProgressKey(bankID))
}

// ResetAll forgets the progress for every bank.
func (r *ProgressRepo) ResetAll(ctx context.Context) error {
	keys, err := r.kv.Keys(ctx, ProgressKeyPrefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := r.kv.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// decodeProgress parses a stored record and fills in fields that older
// records may lack.
func decodeProgress(bankID, raw string) (*Progress, error) {
	var p Progress
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode progress for %s: %w", bankID, err)
	}
	p.BankID = bankID
	if len(p.AttemptHistory) == 0 && !p.LastAttempt.IsZero() {
		p.AttemptHistory = []AttemptEntry{{Score: p.Score, Date: p.LastAttempt}}
	}
	p.Attempts = max(p.Attempts, len(p.AttemptHistory))
	p.BestScore = max(p.BestScore, p.Score)
	return &p, nil
}
