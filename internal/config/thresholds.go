package config

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/strata-ai/strata/internal/core/domain"
	"github.com/strata-ai/strata/internal/core/services/analyzer"
	"github.com/strata-ai/strata/internal/core/services/bands"
	"github.com/strata-ai/strata/internal/core/services/catalog"
)

// Thresholds is the decoded and validated threshold document: the band
// scales the catalog derives tiers from and the analyzer's heuristic tables.
type Thresholds struct {
	Analyzer analyzer.Config
	Deriver  *catalog.Deriver
}

type bandSpec struct {
	Label string  `mapstructure:"label"`
	Lower float64 `mapstructure:"lower"`
	Upper float64 `mapstructure:"upper"`
}

type lengthStepSpec struct {
	MinChars int     `mapstructure:"min_chars"`
	Weight   float64 `mapstructure:"weight"`
}

type thresholdsFile struct {
	Tiers []bandSpec `mapstructure:"tiers"`
	Bands struct {
		Benchmark []bandSpec `mapstructure:"benchmark"`
		Context   []bandSpec `mapstructure:"context"`
		Price     []bandSpec `mapstructure:"price"`
	} `mapstructure:"bands"`
	Analyzer struct {
		BasePrior       float64            `mapstructure:"base_prior"`
		ToolPriors      map[string]float64 `mapstructure:"tool_priors"`
		ToolFloors      map[string]string  `mapstructure:"tool_floors"`
		KeywordWeights  map[string]float64 `mapstructure:"keyword_weights"`
		LengthSteps     []lengthStepSpec   `mapstructure:"length_steps"`
		FileWeight      float64            `mapstructure:"file_weight"`
		TraceWeight     float64            `mapstructure:"trace_weight"`
		MultiFileWeight float64            `mapstructure:"multi_file_weight"`
	} `mapstructure:"analyzer"`
}

// LoadThresholds reads and validates the threshold document. Any violation
// wraps ErrThresholdConfig so startup can fail fast rather than route with
// undefined band semantics.
func LoadThresholds(path string) (*Thresholds, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrThresholdConfig, path, err)
	}

	var file thresholdsFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", domain.ErrThresholdConfig, path, err)
	}

	tierScale, err := bands.NewTierScale(toBands(file.Tiers))
	if err != nil {
		return nil, fmt.Errorf("tiers: %w", err)
	}

	deriver := &catalog.Deriver{Score: tierScale}
	for _, dim := range []struct {
		name  string
		specs []bandSpec
		dst   **bands.Scale
	}{
		{"benchmark", file.Bands.Benchmark, &deriver.Benchmark},
		{"context", file.Bands.Context, &deriver.Context},
		{"price", file.Bands.Price, &deriver.Price},
	} {
		scale, err := bands.NewScale(toBands(dim.specs))
		if err != nil {
			return nil, fmt.Errorf("bands.%s: %w", dim.name, err)
		}
		*dim.dst = scale
	}

	floors := make(map[string]domain.Tier, len(file.Analyzer.ToolFloors))
	for tool, label := range file.Analyzer.ToolFloors {
		tier, err := domain.ParseTier(label)
		if err != nil {
			return nil, fmt.Errorf("%w: tool floor %q: %v", domain.ErrThresholdConfig, tool, err)
		}
		floors[tool] = tier
	}

	steps := make([]analyzer.LengthStep, 0, len(file.Analyzer.LengthSteps))
	for _, s := range file.Analyzer.LengthSteps {
		if s.MinChars < 0 || s.Weight < 0 {
			return nil, fmt.Errorf("%w: length steps must be non-negative", domain.ErrThresholdConfig)
		}
		steps = append(steps, analyzer.LengthStep{MinChars: s.MinChars, Weight: s.Weight})
	}

	return &Thresholds{
		Analyzer: analyzer.Config{
			BasePrior:       file.Analyzer.BasePrior,
			ToolPriors:      file.Analyzer.ToolPriors,
			ToolFloors:      floors,
			KeywordWeights:  file.Analyzer.KeywordWeights,
			LengthSteps:     steps,
			FileWeight:      file.Analyzer.FileWeight,
			TraceWeight:     file.Analyzer.TraceWeight,
			MultiFileWeight: file.Analyzer.MultiFileWeight,
			Scale:           tierScale,
		},
		Deriver: deriver,
	}, nil
}

func toBands(specs []bandSpec) []bands.Band {
	out := make([]bands.Band, 0, len(specs))
	for _, s := range specs {
		out = append(out, bands.Band{Label: s.Label, Lower: s.Lower, Upper: s.Upper})
	}
	return out
}
