package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/strata-ai/strata/internal/store"
	"github.com/strata-ai/strata/internal/store/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) store.Repository {
	t.Helper()
	repo, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func decision(id, fingerprint string, at time.Time) *model.Decision {
	return &model.Decision{
		ID:              id,
		Fingerprint:     fingerprint,
		Tool:            "debug",
		Score:           0.6,
		RecommendedTier: "senior",
		ChosenModel:     "claude-apex",
		Provider:        "anthropic",
		FallbackJSON:    `["gpt-alpha"]`,
		CostMicros:      18750000,
		CreatedAt:       at,
	}
}

func TestDecisionRepo_LogAndGetByFingerprint(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Decisions().Log(ctx, decision("d1", "fp-1", now.Add(-2*time.Minute))))
	require.NoError(t, repo.Decisions().Log(ctx, decision("d2", "fp-1", now.Add(-time.Minute))))
	require.NoError(t, repo.Decisions().Log(ctx, decision("d3", "fp-2", now)))

	got, err := repo.Decisions().GetByFingerprint(ctx, "fp-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "d2", got[0].ID, "newest first")
	assert.Equal(t, "d1", got[1].ID)
	assert.Equal(t, `["gpt-alpha"]`, got[0].FallbackJSON)

	missing, err := repo.Decisions().GetByFingerprint(ctx, "fp-none")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestDecisionRepo_GetRecent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		d := decision("d"+string(rune('0'+i)), "fp", now.Add(time.Duration(i)*time.Second))
		require.NoError(t, repo.Decisions().Log(ctx, d))
	}

	got, err := repo.Decisions().GetRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "d4", got[0].ID)
}

func TestDecisionRepo_GetDailyStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	d1 := decision("d1", "fp", now)
	d1.Escalated = true
	d2 := decision("d2", "fp", now)
	d2.Bypassed = true
	require.NoError(t, repo.Decisions().Log(ctx, d1))
	require.NoError(t, repo.Decisions().Log(ctx, d2))

	stats, err := repo.Decisions().GetDailyStats(ctx, 7)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	assert.Equal(t, int64(2), stats[0].TotalDecisions)
	assert.Equal(t, int64(1), stats[0].Escalations)
	assert.Equal(t, int64(1), stats[0].Bypasses)
	assert.Equal(t, int64(37500000), stats[0].TotalCostMicros)
	assert.InDelta(t, 0.6, stats[0].AvgScore, 1e-9)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repo.WithTx(ctx, func(txRepo store.Repository) error {
		require.NoError(t, txRepo.Decisions().Log(ctx, decision("d1", "fp", time.Now().UTC())))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.Decisions().GetRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, got, "rolled back insert must not be visible")
}
