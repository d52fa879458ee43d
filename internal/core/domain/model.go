package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Tier is the organizational capability band a model belongs to. Requests are
// routed to a tier first and a concrete model second, so tiers bound which
// models a request may ever be served by.
type Tier int

const (
	TierFree Tier = iota
	TierJunior
	TierSenior
	TierExecutive
)

var tierNames = [...]string{"free", "junior", "senior", "executive"}

func (t Tier) String() string {
	if t >= 0 && int(t) < len(tierNames) {
		return tierNames[t]
	}
	return "unknown"
}

// Valid reports whether t is one of the four defined tiers.
func (t Tier) Valid() bool {
	return t >= TierFree && t <= TierExecutive
}

// ParseTier maps a case-insensitive tier name to its Tier value.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free":
		return TierFree, nil
	case "junior":
		return TierJunior, nil
	case "senior":
		return TierSenior, nil
	case "executive":
		return TierExecutive, nil
	}
	return TierFree, fmt.Errorf("unknown tier %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler. Accepts both the string form
// ("senior") and the integer form (2) for compatibility with older clients.
func (t *Tier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var i int
		if err2 := json.Unmarshal(data, &i); err2 != nil {
			return err
		}
		*t = Tier(i)
		return nil
	}
	parsed, err := ParseTier(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Specialization is the workload a model is tuned for.
type Specialization string

const (
	SpecGeneral      Specialization = "general"
	SpecCoding       Specialization = "coding"
	SpecReasoning    Specialization = "reasoning"
	SpecVision       Specialization = "vision"
	SpecConversation Specialization = "conversation"
)

// ParseSpecialization maps a case-insensitive name to a Specialization.
// An empty string is valid and means "no preference".
func ParseSpecialization(s string) (Specialization, error) {
	switch Specialization(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", nil
	case SpecGeneral:
		return SpecGeneral, nil
	case SpecCoding:
		return SpecCoding, nil
	case SpecReasoning:
		return SpecReasoning, nil
	case SpecVision:
		return SpecVision, nil
	case SpecConversation:
		return SpecConversation, nil
	}
	return "", fmt.Errorf("unknown specialization %q", s)
}

// ModelRecord is one row of the model catalog. Records are owned by the
// catalog and treated as immutable once loaded; a reload produces a fresh
// slice rather than mutating records in place.
type ModelRecord struct {
	Rank           int            `json:"rank"`
	Identifier     string         `json:"identifier"`
	Provider       string         `json:"provider"`
	Band           string         `json:"band"`
	Available      bool           `json:"available"`
	ContextWindow  int            `json:"context_window"`
	PriceInput     float64        `json:"price_input"`  // USD per 1M input tokens
	PriceOutput    float64        `json:"price_output"` // USD per 1M output tokens
	Tier           Tier           `json:"tier"`
	Specialization Specialization `json:"specialization"`
	Role           string         `json:"role"`
	Strength       string         `json:"strength"`
	BenchmarkScore float64        `json:"benchmark_score"` // 0-100
	SourceURL      string         `json:"source_url,omitempty"`
	Updated        time.Time      `json:"updated,omitempty"`
}

// BlendedPrice is a single USD-per-1M-tokens figure weighted toward input
// cost, since prompts dominate token volume for routing workloads.
func (m ModelRecord) BlendedPrice() float64 {
	return (3*m.PriceInput + m.PriceOutput) / 4
}
