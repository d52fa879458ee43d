// Package analyzer scores incoming requests with keyword and structural
// heuristics and recommends an organizational tier.
package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/strata-ai/strata/internal/core/domain"
	"github.com/strata-ai/strata/internal/core/services/bands"
)

// LengthStep adds Weight once the prompt reaches MinChars. Steps are
// cumulative: a long prompt earns every step it clears.
type LengthStep struct {
	MinChars int
	Weight   float64
}

// Config holds the analyzer's heuristic tables, typically decoded from the
// thresholds document.
type Config struct {
	// BasePrior is the starting score for tools with no explicit prior.
	BasePrior float64
	// ToolPriors overrides the starting score per tool name.
	ToolPriors map[string]float64
	// ToolFloors raises (never lowers) the minimum tier per tool.
	ToolFloors map[string]domain.Tier
	// KeywordWeights maps complexity keywords/phrases to score increments.
	KeywordWeights map[string]float64
	LengthSteps    []LengthStep
	// FileWeight is the increment for the first attached file; each further
	// file contributes FileWeight/(n+1), so file influence diminishes.
	FileWeight float64
	// TraceWeight is added when the prompt contains an error or stack trace.
	TraceWeight float64
	// MultiFileWeight is added when more than one file is attached.
	MultiFileWeight float64
	// Scale maps the clamped score to a tier.
	Scale *bands.TierScale
}

// tracePattern matches common error-report shapes: Go panics, goroutine
// dumps, Python tracebacks, JVM-style frames and bare stderr markers.
var tracePattern = regexp.MustCompile(
	`(?mi)(panic:|goroutine \d+|Traceback \(most recent call last\)|^\s+at [\w$.]+\(|segmentation fault|Exception in thread|^\s*Error:|stack trace)`)

type keyword struct {
	phrase string
	re     *regexp.Regexp
	weight float64
}

// Analyzer is safe for concurrent use; all state is immutable after New.
type Analyzer struct {
	cfg      Config
	keywords []keyword
}

// New compiles the keyword table and validates the configuration.
func New(cfg Config) (*Analyzer, error) {
	if cfg.Scale == nil {
		return nil, fmt.Errorf("%w: analyzer requires a tier scale", domain.ErrThresholdConfig)
	}
	for _, f := range cfg.ToolFloors {
		if !f.Valid() {
			return nil, fmt.Errorf("%w: invalid tool floor tier %d", domain.ErrThresholdConfig, f)
		}
	}
	steps := make([]LengthStep, len(cfg.LengthSteps))
	copy(steps, cfg.LengthSteps)
	sort.Slice(steps, func(i, j int) bool { return steps[i].MinChars < steps[j].MinChars })
	cfg.LengthSteps = steps

	// Sorted iteration keeps scoring deterministic across runs.
	phrases := make([]string, 0, len(cfg.KeywordWeights))
	for p := range cfg.KeywordWeights {
		phrases = append(phrases, p)
	}
	sort.Strings(phrases)

	kws := make([]keyword, 0, len(phrases))
	for _, p := range phrases {
		pattern := `(?i)\b` + strings.ReplaceAll(regexp.QuoteMeta(strings.ToLower(p)), `\ `, `\s+`) + `\b`
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: keyword %q: %v", domain.ErrThresholdConfig, p, err)
		}
		kws = append(kws, keyword{phrase: p, re: re, weight: cfg.KeywordWeights[p]})
	}

	return &Analyzer{cfg: cfg, keywords: kws}, nil
}

// Analyze produces a complexity score in [0,1] and a tier recommendation.
// Fully deterministic: no randomness, no clock reads.
func (a *Analyzer) Analyze(req domain.RequestDescriptor) domain.Analysis {
	tool := normalizeTool(req.Tool)
	prompt := strings.TrimSpace(req.Prompt)

	var score float64
	var signals []string

	if prompt == "" && req.FileCount() == 0 {
		// Nothing to analyze. Tool floors still apply below.
		signals = append(signals, "empty-request")
	} else {
		score = a.prior(tool)

		for _, step := range a.cfg.LengthSteps {
			if len(prompt) >= step.MinChars {
				score += step.Weight
				signals = append(signals, fmt.Sprintf("length>=%d", step.MinChars))
			}
		}

		for _, kw := range a.keywords {
			if kw.re.MatchString(prompt) {
				score += kw.weight
				signals = append(signals, "keyword:"+kw.phrase)
			}
		}

		for i := 0; i < req.FileCount(); i++ {
			score += a.cfg.FileWeight / float64(i+1)
		}
		if req.FileCount() > 0 {
			signals = append(signals, fmt.Sprintf("files:%d", req.FileCount()))
		}
		if req.MultiFile() {
			score += a.cfg.MultiFileWeight
			signals = append(signals, "multi-file")
		}

		if tracePattern.MatchString(prompt) {
			score += a.cfg.TraceWeight
			signals = append(signals, "error-trace")
		}
	}

	score = clamp01(score)
	tier := a.cfg.Scale.Tier(score)

	// Tool floors raise the minimum tier but never lower a recommendation.
	if floor, ok := a.cfg.ToolFloors[tool]; ok && floor > tier {
		tier = floor
		signals = append(signals, "tier-floor:"+tool)
	}

	return domain.Analysis{Score: score, Tier: tier, Signals: signals}
}

func (a *Analyzer) prior(tool string) float64 {
	if p, ok := a.cfg.ToolPriors[tool]; ok {
		return p
	}
	// Unknown tools are scored with generic chat priors.
	return a.cfg.BasePrior
}

func normalizeTool(tool string) string {
	return strings.ToLower(strings.TrimSpace(tool))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
