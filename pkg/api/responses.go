package api

import "github.com/strata-ai/strata/internal/core/domain"

// RouteResponse is the wire shape of a resolved routing call.
type RouteResponse struct {
	Model         string   `json:"model"`
	Provider      string   `json:"provider,omitempty"`
	Tier          string   `json:"tier"`
	EstimatedCost float64  `json:"estimated_cost"`
	FallbackChain []string `json:"fallback_chain,omitempty"`
	Escalated     bool     `json:"escalated"`
	Bypassed      bool     `json:"bypassed"`
	Fingerprint   string   `json:"fingerprint"`
}

func FromResolved(r domain.ResolvedModel) RouteResponse {
	return RouteResponse{
		Model:         r.Model,
		Provider:      r.Provider,
		Tier:          r.Tier.String(),
		EstimatedCost: r.EstimatedCost,
		FallbackChain: r.FallbackChain,
		Escalated:     r.Escalated,
		Bypassed:      r.Bypassed,
		Fingerprint:   r.Fingerprint,
	}
}
