package domain

import "time"

// Analysis is the output of the complexity analyzer: a heuristic score in
// [0,1], the tier that score maps to, and the signals that contributed.
type Analysis struct {
	Score   float64  `json:"score"`
	Tier    Tier     `json:"tier"`
	Signals []string `json:"signals,omitempty"`
}

// SelectionResult is the outcome of one selector call. Tier is the tier the
// primary was actually drawn from, which is above the requested tier when
// Escalated is set.
type SelectionResult struct {
	Primary       ModelRecord `json:"primary"`
	FallbackChain []string    `json:"fallback_chain"`
	Tier          Tier        `json:"tier"`
	Escalated     bool        `json:"escalated"`
	EstimatedCost float64     `json:"estimated_cost"` // blended USD per 1M tokens
}

// ResolvedModel is what the routing shim hands back to the caller. The caller
// performs the actual model invocation; this type carries everything it needs
// to do so, plus observability fields.
type ResolvedModel struct {
	Model         string   `json:"model"`
	Provider      string   `json:"provider,omitempty"`
	Tier          Tier     `json:"tier"`
	EstimatedCost float64  `json:"estimated_cost"`
	FallbackChain []string `json:"fallback_chain,omitempty"`
	Escalated     bool     `json:"escalated"`
	Bypassed      bool     `json:"bypassed"`
	Fingerprint   string   `json:"fingerprint"`
}

// RoutingDecision is the write-once record of one routing event. It is kept
// in an in-memory ring buffer (and optionally archived) purely for
// observability; losing it has no correctness impact.
type RoutingDecision struct {
	ID              string    `json:"id"`
	Fingerprint     string    `json:"fingerprint"`
	Tool            string    `json:"tool"`
	Score           float64   `json:"score"`
	RecommendedTier Tier      `json:"recommended_tier"`
	ChosenModel     string    `json:"chosen_model"`
	Provider        string    `json:"provider,omitempty"`
	FallbackChain   []string  `json:"fallback_chain,omitempty"`
	EstimatedCost   float64   `json:"estimated_cost"`
	Escalated       bool      `json:"escalated"`
	Bypassed        bool      `json:"bypassed"`
	CreatedAt       time.Time `json:"created_at"`
}

// TierLayer is one layer of a layered selection: the tier and its ranked
// models. Layers accumulate from junior upward so higher-tier selections
// always include the junior base layer.
type TierLayer struct {
	Tier   Tier          `json:"tier"`
	Models []ModelRecord `json:"models"`
}
