package store

import (
	"context"

	"github.com/strata-ai/strata/internal/store/model"
)

// Repository is the main contract for the data layer.
type Repository interface {
	Decisions() DecisionRepository

	// transaction support
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	Close() error
}

type DecisionRepository interface {
	// Log stores one routing decision.
	Log(ctx context.Context, decision *model.Decision) error
	// GetByFingerprint returns all decisions sharing a request fingerprint,
	// newest first.
	GetByFingerprint(ctx context.Context, fingerprint string) ([]model.Decision, error)
	// GetRecent returns the last N decisions across all requests.
	GetRecent(ctx context.Context, limit int) ([]model.Decision, error)
	// GetDailyStats returns aggregated stats grouped by day.
	GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error)
}
