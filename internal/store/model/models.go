package model

import (
	"encoding/json"
	"math"
	"time"

	"github.com/strata-ai/strata/internal/core/domain"
)

// Decision is the persisted form of one routing decision. Costs are stored
// as integer micros and the fallback chain as a JSON array, so the row stays
// flat and queryable.
type Decision struct {
	ID              string    `db:"id" json:"id"`
	Fingerprint     string    `db:"fingerprint" json:"fingerprint"`
	Tool            string    `db:"tool" json:"tool"`
	Score           float64   `db:"score" json:"score"`
	RecommendedTier string    `db:"recommended_tier" json:"recommended_tier"`
	ChosenModel     string    `db:"chosen_model" json:"chosen_model"`
	Provider        string    `db:"provider" json:"provider"`
	FallbackJSON    string    `db:"fallback_json" json:"-"`
	CostMicros      int64     `db:"cost_micros" json:"cost_micros"`
	Escalated       bool      `db:"escalated" json:"escalated"`
	Bypassed        bool      `db:"bypassed" json:"bypassed"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// DailyStats aggregates decisions per calendar day.
type DailyStats struct {
	Date            string  `db:"date" json:"date"`
	TotalDecisions  int64   `db:"total_decisions" json:"total_decisions"`
	Escalations     int64   `db:"escalations" json:"escalations"`
	Bypasses        int64   `db:"bypasses" json:"bypasses"`
	TotalCostMicros int64   `db:"total_cost_micros" json:"total_cost_micros"`
	AvgScore        float64 `db:"avg_score" json:"avg_score"`
}

func FromDomain(d domain.RoutingDecision) *Decision {
	fallback, err := json.Marshal(d.FallbackChain)
	if err != nil || d.FallbackChain == nil {
		fallback = []byte("[]")
	}
	return &Decision{
		ID:              d.ID,
		Fingerprint:     d.Fingerprint,
		Tool:            d.Tool,
		Score:           d.Score,
		RecommendedTier: d.RecommendedTier.String(),
		ChosenModel:     d.ChosenModel,
		Provider:        d.Provider,
		FallbackJSON:    string(fallback),
		CostMicros:      int64(math.Round(d.EstimatedCost * 1e6)),
		Escalated:       d.Escalated,
		Bypassed:        d.Bypassed,
		CreatedAt:       d.CreatedAt,
	}
}

func (d *Decision) ToDomain() domain.RoutingDecision {
	var fallback []string
	_ = json.Unmarshal([]byte(d.FallbackJSON), &fallback)

	tier, err := domain.ParseTier(d.RecommendedTier)
	if err != nil {
		tier = domain.TierFree
	}

	return domain.RoutingDecision{
		ID:              d.ID,
		Fingerprint:     d.Fingerprint,
		Tool:            d.Tool,
		Score:           d.Score,
		RecommendedTier: tier,
		ChosenModel:     d.ChosenModel,
		Provider:        d.Provider,
		FallbackChain:   fallback,
		EstimatedCost:   float64(d.CostMicros) / 1e6,
		Escalated:       d.Escalated,
		Bypassed:        d.Bypassed,
		CreatedAt:       d.CreatedAt,
	}
}
