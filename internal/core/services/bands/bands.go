// Package bands maps numeric model attributes (cost, context size, benchmark
// score) onto categorical labels using configured threshold scales.
package bands

import (
	"fmt"
	"math"

	"github.com/strata-ai/strata/internal/core/domain"
)

// Band is one threshold interval. Boundaries are lower-inclusive and
// upper-exclusive; the final band of a scale is unbounded above.
type Band struct {
	Label string
	Lower float64
	Upper float64
}

// Scale is a validated, ordered list of contiguous bands. Construction fails
// fast on malformed configuration; Classify never fails.
type Scale struct {
	bands []Band
}

// NewScale validates the band list and returns a Scale. Bands must be
// non-empty, ordered, contiguous and non-overlapping, with unique labels.
// A zero upper bound on the final band is treated as +Inf.
func NewScale(in []Band) (*Scale, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: no bands defined", domain.ErrThresholdConfig)
	}

	bs := make([]Band, len(in))
	copy(bs, in)

	last := len(bs) - 1
	if bs[last].Upper == 0 {
		bs[last].Upper = math.Inf(1)
	}

	seen := make(map[string]bool, len(bs))
	for i, b := range bs {
		if b.Label == "" {
			return nil, fmt.Errorf("%w: band %d has empty label", domain.ErrThresholdConfig, i)
		}
		if seen[b.Label] {
			return nil, fmt.Errorf("%w: duplicate band label %q", domain.ErrThresholdConfig, b.Label)
		}
		seen[b.Label] = true

		if b.Lower >= b.Upper {
			return nil, fmt.Errorf("%w: band %q has lower bound %.4f >= upper bound %.4f",
				domain.ErrThresholdConfig, b.Label, b.Lower, b.Upper)
		}
		if i > 0 && b.Lower != bs[i-1].Upper {
			return nil, fmt.Errorf("%w: band %q lower bound %.4f does not meet previous upper bound %.4f",
				domain.ErrThresholdConfig, b.Label, b.Lower, bs[i-1].Upper)
		}
	}

	return &Scale{bands: bs}, nil
}

// Classify returns the label of the band containing v. Values below the
// first band's lower bound clamp to the first band, so every value in the
// domain maps to exactly one label.
func (s *Scale) Classify(v float64) string {
	for _, b := range s.bands {
		if v < b.Upper {
			return b.Label
		}
	}
	// Unreachable: the final band is unbounded.
	return s.bands[len(s.bands)-1].Label
}

// Index returns the position of the band containing v, counting from zero.
func (s *Scale) Index(v float64) int {
	for i, b := range s.bands {
		if v < b.Upper {
			return i
		}
	}
	return len(s.bands) - 1
}

// Size returns the number of bands in the scale.
func (s *Scale) Size() int {
	return len(s.bands)
}

// Labels returns the band labels in threshold order.
func (s *Scale) Labels() []string {
	out := make([]string, len(s.bands))
	for i, b := range s.bands {
		out[i] = b.Label
	}
	return out
}

// TierScale is a Scale whose labels are the four organizational tiers in
// ascending order. It backs both score-to-tier mapping in the analyzer and
// tier derivation in the catalog.
type TierScale struct {
	*Scale
	tiers []domain.Tier
}

// NewTierScale builds a TierScale. Beyond Scale validation, every label must
// parse as a tier and tiers must strictly ascend.
func NewTierScale(in []Band) (*TierScale, error) {
	s, err := NewScale(in)
	if err != nil {
		return nil, err
	}

	tiers := make([]domain.Tier, len(s.bands))
	for i, b := range s.bands {
		t, err := domain.ParseTier(b.Label)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrThresholdConfig, err)
		}
		if i > 0 && t <= tiers[i-1] {
			return nil, fmt.Errorf("%w: tier bands must ascend, %q follows %q",
				domain.ErrThresholdConfig, b.Label, s.bands[i-1].Label)
		}
		tiers[i] = t
	}

	return &TierScale{Scale: s, tiers: tiers}, nil
}

// Tier returns the tier of the band containing v.
func (s *TierScale) Tier(v float64) domain.Tier {
	return s.tiers[s.Index(v)]
}
