package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressRepo_Record(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepo(NewMemoryKV(), 0)
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	_, err := repo.Get(ctx, "ux-laws")
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := repo.Record(ctx, "ux-laws", Attempt{Score: 7, Completed: 12, Total: 12, At: t0})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Attempts)
	assert.Equal(t, 7, p.BestScore)

	p, err = repo.Record(ctx, "ux-laws", Attempt{Score: 5, Completed: 12, Total: 12, At: t0.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Attempts)
	assert.Equal(t, 5, p.Score)
	assert.Equal(t, 7, p.BestScore, "best score never decreases")
	assert.True(t, p.LastAttempt.Equal(t0.Add(time.Hour)))

	got, err := repo.Get(ctx, "ux-laws")
	require.NoError(t, err)
	assert.Equal(t, "ux-laws", got.BankID)
	require.Len(t, got.AttemptHistory, 2)
	assert.Equal(t, 7, got.AttemptHistory[0].Score)
	assert.Equal(t, 5, got.AttemptHistory[1].Score)
}

func TestProgressRepo_HistoryLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepo(NewMemoryKV(), 3)
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 1; i <= 5; i++ {
		_, err := repo.Record(ctx, "b", Attempt{Score: i, Total: 5, At: t0.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}

	p, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Attempts, "attempts keep counting past the history cap")
	require.Len(t, p.AttemptHistory, 3)
	assert.Equal(t, 3, p.AttemptHistory[0].Score)
	assert.Equal(t, 5, p.AttemptHistory[2].Score)
}

func TestProgressRepo_LegacyRecord(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(ctx, ProgressKey("old"),
		`{"score":4,"completed":10,"total":10,"lastAttempt":"2025-12-01T10:00:00Z"}`))

	p, err := NewProgressRepo(kv, 0).Get(ctx, "old")
	require.NoError(t, err)
	require.Len(t, p.AttemptHistory, 1)
	assert.Equal(t, 4, p.AttemptHistory[0].Score)
	assert.Equal(t, 1, p.Attempts)
	assert.Equal(t, 4, p.BestScore)
}

func TestProgressRepo_CorruptRecord(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(ctx, ProgressKey("bad"), "{not json"))

	_, err := NewProgressRepo(kv, 0).Get(ctx, "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestProgressRepo_AllAndReset(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(ctx, "unrelated", "x"))
	repo := NewProgressRepo(kv, 0)
	now := time.Now()

	for _, id := range []string{"a", "b", "c"} {
		_, err := repo.Record(ctx, id, Attempt{Score: 1, Total: 2, At: now})
		require.NoError(t, err)
	}

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Contains(t, all, "b")

	require.NoError(t, repo.Reset(ctx, "b"))
	all, err = repo.All(ctx)
	require.NoError(t, err)
	assert.NotContains(t, all, "b")

	require.NoError(t, repo.ResetAll(ctx))
	all, err = repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, ok, _ := kv.Get(ctx, "unrelated")
	assert.True(t, ok, "ResetAll only touches progress keys")
}

func TestProgressRepo_SQLBacked(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	repo := NewProgressRepo(s.KV(), 0)

	_, err := repo.Record(ctx, "ux-laws", Attempt{Score: 9, Completed: 12, Total: 12, At: time.Now()})
	require.NoError(t, err)

	p, err := repo.Get(ctx, "ux-laws")
	require.NoError(t, err)
	assert.Equal(t, 9, p.Score)
	assert.Equal(t, 12, p.Total)
}
