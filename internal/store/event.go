package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter manages the global monotonic sequence number shared across
// answer and attempt events. Each event type lives in its own table, so
// per-table auto-increment IDs can't establish cross-type ordering.
//
// Uses raw SQL because the ent builders don't support database-level atomic
// counters. The mutex serializes within the process; the RETURNING clause
// makes the increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo on top of the ent SQL builders.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func newEventRepo(db *sql.DB, seq *sequenceCounter) *eventRepo {
	return &eventRepo{db: db, seq: seq, now: time.Now}
}

func (r *eventRepo) stamp(at time.Time) time.Time {
	if at.IsZero() {
		at = r.now()
	}
	return at.UTC()
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(answerEventsTableName).
		Columns("sequence", "timestamp", "session_id", "bank_id", "question_id",
			"kind", "given", "expected", "correct", "tier", "time_ms").
		Values(seq, r.stamp(data.At), data.SessionID, data.BankID, data.QuestionID,
			data.Kind, data.Given, data.Expected, data.Correct, data.Tier, data.TimeMs).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAttemptEvent(ctx context.Context, data AttemptEventData) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(attemptEventsTableName).
		Columns("sequence", "timestamp", "session_id", "bank_id", "title",
			"score", "total", "answered", "duration_secs", "best_streak").
		Values(seq, r.stamp(data.At), data.SessionID, data.BankID, data.Title,
			data.Score, data.Total, data.Answered, data.DurationSecs, data.BestStreak).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append attempt event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(attemptEventsTableName)
	sel := b.Select(
		t.C("sequence"), t.C("timestamp"), t.C("session_id"), t.C("bank_id"),
		t.C("title"), t.C("score"), t.C("total"), t.C("answered"),
		t.C("duration_secs"), t.C("best_streak"),
	).From(t)

	var preds []*entsql.Predicate
	if opts.BankID != "" {
		preds = append(preds, entsql.EQ(t.C("bank_id"), opts.BankID))
	}
	if opts.After > 0 {
		preds = append(preds, entsql.GT(t.C("sequence"), opts.After))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc(t.C("sequence")))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptRecord
	for rows.Next() {
		var rec AttemptRecord
		if err := rows.Scan(&rec.Sequence, &rec.Timestamp, &rec.SessionID, &rec.BankID,
			&rec.Title, &rec.Score, &rec.Total, &rec.Answered,
			&rec.DurationSecs, &rec.BestStreak); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	return out, nil
}

func (r *eventRepo) QuestionStats(ctx context.Context, bankID string) ([]QuestionStat, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(answerEventsTableName)
	sel := b.Select(t.C("bank_id"), t.C("question_id"), t.C("correct"), t.C("timestamp")).
		From(t)
	if bankID != "" {
		sel.Where(entsql.EQ(t.C("bank_id"), bankID))
	}
	sel.OrderBy(t.C("sequence"))

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	type qkey struct{ bank, question string }
	agg := make(map[qkey]*QuestionStat)
	for rows.Next() {
		var (
			k       qkey
			correct bool
			ts      time.Time
		)
		if err := rows.Scan(&k.bank, &k.question, &correct, &ts); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		st, ok := agg[k]
		if !ok {
			st = &QuestionStat{BankID: k.bank, QuestionID: k.question}
			agg[k] = st
		}
		st.Answered++
		if correct {
			st.Correct++
		}
		// Rows arrive in sequence order, so the last one wins.
		st.LastCorrect = correct
		st.LastAnswered = ts
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}

	out := make([]QuestionStat, 0, len(agg))
	for _, st := range agg {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BankID != out[j].BankID {
			return out[i].BankID < out[j].BankID
		}
		return out[i].QuestionID < out[j].QuestionID
	})
	return out, nil
}

func (r *eventRepo) DeleteBank(ctx context.Context, bankID string) error {
	for _, table := range []string{answerEventsTableName, attemptEventsTableName} {
		query, args := entsql.Dialect(dialect.SQLite).
			Delete(table).
			Where(entsql.EQ("bank_id", bankID)).
			Query()
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete %s for %s: %w", table, bankID, err)
		}
	}
	return nil
}

func (r *eventRepo) DeleteAll(ctx context.Context) error {
	for _, table := range []string{answerEventsTableName, attemptEventsTableName} {
		query, args := entsql.Dialect(dialect.SQLite).Delete(table).Query()
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}
