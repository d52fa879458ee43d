// Package selector resolves a tier request to a concrete model plus fallback
// chain, drawn from the current catalog snapshot.
package selector

import (
	"fmt"
	"regexp"
	"sort"

	goversion "github.com/hashicorp/go-version"
	"github.com/strata-ai/strata/internal/core/domain"
	"github.com/strata-ai/strata/internal/core/ports"
	"go.uber.org/zap"
)

// Selector is stateless between calls; every call works on the catalog
// snapshot current at that moment, so it is safe for concurrent use.
type Selector struct {
	catalog      ports.Catalog
	maxFallbacks int
	logger       *zap.Logger
}

func New(catalog ports.Catalog, maxFallbacks int, logger *zap.Logger) *Selector {
	if maxFallbacks < 0 {
		maxFallbacks = 0
	}
	return &Selector{catalog: catalog, maxFallbacks: maxFallbacks, logger: logger}
}

// Select picks the best available model at or above the requested tier.
// Candidates never come from below the requested tier; when the requested
// tier is empty the selection escalates upward and flags it. count is the
// desired total number of candidates including the primary; count below 2
// means "primary plus the configured fallback chain".
func (s *Selector) Select(tier domain.Tier, spec domain.Specialization, count int) (domain.SelectionResult, error) {
	if !tier.Valid() {
		return domain.SelectionResult{}, fmt.Errorf("select: invalid tier %d", tier)
	}

	pool := s.eligible(tier)
	if len(pool) == 0 {
		return domain.SelectionResult{}, fmt.Errorf("%w: no available model at or above tier %s",
			domain.ErrNoAvailableModel, tier)
	}

	ranked := rankPool(pool, spec)
	primary := ranked[0]

	chainLen := s.maxFallbacks
	if count > 1 && count-1 < chainLen {
		chainLen = count - 1
	}
	if chainLen > len(ranked)-1 {
		chainLen = len(ranked) - 1
	}

	chain := make([]string, 0, chainLen)
	for _, rec := range ranked[1 : 1+chainLen] {
		chain = append(chain, rec.Identifier)
	}

	escalated := primary.Tier > tier
	if escalated {
		s.logger.Info("Selection escalated: requested tier has no candidates",
			zap.String("requested", tier.String()),
			zap.String("granted", primary.Tier.String()),
			zap.String("model", primary.Identifier),
		)
	}

	return domain.SelectionResult{
		Primary:       primary,
		FallbackChain: chain,
		Tier:          primary.Tier,
		Escalated:     escalated,
		EstimatedCost: primary.BlendedPrice(),
	}, nil
}

// SelectLayered builds the tier-by-tier view: the junior layer is always the
// base, with one layer per tier up to and including the requested one. A
// model qualifying for several layers appears only in the lowest, identified
// by its identifier.
func (s *Selector) SelectLayered(tier domain.Tier) ([]domain.TierLayer, error) {
	if !tier.Valid() {
		return nil, fmt.Errorf("select layered: invalid tier %d", tier)
	}

	lo, hi := domain.TierJunior, tier
	if tier < lo {
		lo = tier
		hi = domain.TierJunior
	}

	byTier := make(map[domain.Tier][]domain.ModelRecord)
	for _, rec := range s.catalog.Snapshot() {
		if rec.Available {
			byTier[rec.Tier] = append(byTier[rec.Tier], rec)
		}
	}

	var total int
	layers := make([]domain.TierLayer, 0, int(hi-lo)+1)
	seen := make(map[string]bool)
	for t := lo; t <= hi; t++ {
		var models []domain.ModelRecord
		for _, rec := range rankPool(byTier[t], "") {
			if seen[rec.Identifier] {
				continue
			}
			seen[rec.Identifier] = true
			models = append(models, rec)
		}
		total += len(models)
		layers = append(layers, domain.TierLayer{Tier: t, Models: models})
	}

	if total == 0 {
		return nil, fmt.Errorf("%w: no available model in tiers %s..%s",
			domain.ErrNoAvailableModel, lo, hi)
	}
	return layers, nil
}

func (s *Selector) eligible(tier domain.Tier) []domain.ModelRecord {
	var pool []domain.ModelRecord
	for _, rec := range s.catalog.Snapshot() {
		if rec.Available && rec.Tier >= tier {
			pool = append(pool, rec)
		}
	}
	return pool
}

// rankPool orders candidates: nearest tier first, then specialization match,
// then benchmark descending. Exact benchmark ties are spread across providers
// so one provider cannot monopolize a chain. The ordering is fully
// deterministic for a given snapshot.
func rankPool(pool []domain.ModelRecord, spec domain.Specialization) []domain.ModelRecord {
	ranked := make([]domain.ModelRecord, len(pool))
	copy(ranked, pool)

	match := func(r domain.ModelRecord) bool {
		return spec != "" && r.Specialization == spec
	}

	revisions := make(map[string]*goversion.Version, len(ranked))
	for _, r := range ranked {
		revisions[r.Identifier] = revision(r.Identifier)
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		if match(a) != match(b) {
			return match(a)
		}
		if a.BenchmarkScore != b.BenchmarkScore {
			return a.BenchmarkScore > b.BenchmarkScore
		}
		if a.BlendedPrice() != b.BlendedPrice() {
			return a.BlendedPrice() < b.BlendedPrice()
		}
		ra, rb := revisions[a.Identifier], revisions[b.Identifier]
		if ra != nil && rb != nil && !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		if (ra != nil) != (rb != nil) {
			return ra != nil
		}
		if a.Provider != b.Provider {
			return a.Provider < b.Provider
		}
		return a.Identifier < b.Identifier
	})

	// Interleave providers within each run of exact ties.
	out := ranked[:0]
	for lo := 0; lo < len(ranked); {
		hi := lo + 1
		for hi < len(ranked) &&
			ranked[hi].Tier == ranked[lo].Tier &&
			match(ranked[hi]) == match(ranked[lo]) &&
			ranked[hi].BenchmarkScore == ranked[lo].BenchmarkScore {
			hi++
		}
		out = append(out, interleave(ranked[lo:hi])...)
		lo = hi
	}
	return out
}

var revisionPattern = regexp.MustCompile(`\d+(?:\.\d+)+`)

// revision extracts a dotted revision from a model identifier, e.g. 4.1 out
// of "gpt-4.1-mini". Identifiers without one sort as oldest.
func revision(id string) *goversion.Version {
	m := revisionPattern.FindString(id)
	if m == "" {
		return nil
	}
	v, err := goversion.NewVersion(m)
	if err != nil {
		return nil
	}
	return v
}

// interleave cycles through the run's providers in name order, taking each
// provider's cheapest remaining model per pass.
func interleave(run []domain.ModelRecord) []domain.ModelRecord {
	if len(run) < 3 {
		return append([]domain.ModelRecord(nil), run...)
	}

	// The run arrives already ordered (price, then revision), so each
	// provider queue keeps that order.
	byProvider := make(map[string][]domain.ModelRecord)
	var providers []string
	for _, rec := range run {
		if _, ok := byProvider[rec.Provider]; !ok {
			providers = append(providers, rec.Provider)
		}
		byProvider[rec.Provider] = append(byProvider[rec.Provider], rec)
	}
	sort.Strings(providers)

	out := make([]domain.ModelRecord, 0, len(run))
	for len(out) < len(run) {
		for _, p := range providers {
			if queue := byProvider[p]; len(queue) > 0 {
				out = append(out, queue[0])
				byProvider[p] = queue[1:]
			}
		}
	}
	return out
}
