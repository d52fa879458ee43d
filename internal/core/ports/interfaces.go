package ports

import (
	"context"
	"time"

	"github.com/strata-ai/strata/internal/core/domain"
)

// Catalog is the read-only view of the model table. Snapshot returns the
// current in-memory table; the returned slice is immutable and remains valid
// across concurrent reloads, which swap in a fresh slice instead of mutating.
type Catalog interface {
	Snapshot() []domain.ModelRecord
	// ReloadIfStale re-reads the backing file when its modification time has
	// changed since the last load. Returns whether a reload occurred.
	ReloadIfStale() (bool, error)
	LoadedAt() time.Time
}

// ComplexityAnalyzer scores a request and recommends a tier. Pure and
// deterministic: identical descriptors always produce identical analyses.
type ComplexityAnalyzer interface {
	Analyze(req domain.RequestDescriptor) domain.Analysis
}

// ModelSelector resolves a tier (and optional specialization preference) to a
// primary model plus fallback chain. count is the desired total number of
// candidates; values below 2 fall back to the configured chain length.
type ModelSelector interface {
	Select(tier domain.Tier, spec domain.Specialization, count int) (domain.SelectionResult, error)
	SelectLayered(tier domain.Tier) ([]domain.TierLayer, error)
}

// DecisionSink receives routing decisions for observability. Appends must be
// safe under concurrent routing requests and must never block them.
type DecisionSink interface {
	Append(d domain.RoutingDecision)
}

// DecisionLog is a sink that also serves reads, newest first.
type DecisionLog interface {
	DecisionSink
	Recent(limit int) []domain.RoutingDecision
}

// CacheService defines the interface for a distributed cache system
type CacheService interface {
	// Get retrieves a value from the cache.
	// The implementation should unmarshal the data into the 'dest' pointer.
	Get(ctx context.Context, key string, dest interface{}) error

	// Set stores a value in the cache with a TTL.
	// The implementation should marshal the value.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error
}
