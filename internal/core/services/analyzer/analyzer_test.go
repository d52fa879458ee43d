package analyzer

import (
	"strings"
	"testing"

	"github.com/strata-ai/strata/internal/core/domain"
	"github.com/strata-ai/strata/internal/core/services/bands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScale(t *testing.T) *bands.TierScale {
	t.Helper()
	s, err := bands.NewTierScale([]bands.Band{
		{Label: "free", Lower: 0, Upper: 0.2},
		{Label: "junior", Lower: 0.2, Upper: 0.5},
		{Label: "senior", Lower: 0.5, Upper: 0.8},
		{Label: "executive", Lower: 0.8},
	})
	require.NoError(t, err)
	return s
}

func testAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := New(Config{
		BasePrior: 0.05,
		ToolPriors: map[string]float64{
			"chat":     0.05,
			"debug":    0.20,
			"secaudit": 0.30,
		},
		ToolFloors: map[string]domain.Tier{
			"secaudit": domain.TierJunior,
		},
		KeywordWeights: map[string]float64{
			"architecture":   0.20,
			"race condition": 0.25,
			"security":       0.20,
			"migrate":        0.15,
		},
		LengthSteps: []LengthStep{
			{MinChars: 280, Weight: 0.05},
			{MinChars: 1200, Weight: 0.10},
		},
		FileWeight:      0.05,
		TraceWeight:     0.15,
		MultiFileWeight: 0.05,
		Scale:           testScale(t),
	})
	require.NoError(t, err)
	return a
}

func TestAnalyze_TrivialPromptIsFree(t *testing.T) {
	a := testAnalyzer(t)

	got := a.Analyze(domain.RequestDescriptor{
		Tool:   "chat",
		Prompt: "fix typo in README",
	})

	assert.Equal(t, domain.TierFree, got.Tier)
	assert.Less(t, got.Score, 0.2)
}

func TestAnalyze_KeywordAndFileWeighting(t *testing.T) {
	a := testAnalyzer(t)

	files := make([]domain.FileRef, 12)
	for i := range files {
		files[i] = domain.FileRef{Path: "pkg/pay/file.go", SizeBytes: 2048}
	}

	got := a.Analyze(domain.RequestDescriptor{
		Tool:   "debug",
		Prompt: "investigate race condition in payment processing across 12 files",
		Files:  files,
	})

	assert.GreaterOrEqual(t, got.Tier, domain.TierSenior)
	assert.Contains(t, got.Signals, "keyword:race condition")
	assert.Contains(t, got.Signals, "multi-file")
}

func TestAnalyze_EmptyPromptScoresZero(t *testing.T) {
	a := testAnalyzer(t)

	got := a.Analyze(domain.RequestDescriptor{Tool: "chat", Prompt: "   "})

	assert.Zero(t, got.Score)
	assert.Equal(t, domain.TierFree, got.Tier)
}

func TestAnalyze_ToolFloorRaisesTier(t *testing.T) {
	a := testAnalyzer(t)

	// Zero complexity, but secaudit is floored at junior.
	got := a.Analyze(domain.RequestDescriptor{Tool: "secaudit", Prompt: ""})

	assert.Zero(t, got.Score)
	assert.Equal(t, domain.TierJunior, got.Tier)
	assert.Contains(t, got.Signals, "tier-floor:secaudit")
}

func TestAnalyze_ToolFloorNeverLowers(t *testing.T) {
	a := testAnalyzer(t)

	// A complex secaudit prompt must keep its computed senior tier, not be
	// pulled down to the junior floor.
	got := a.Analyze(domain.RequestDescriptor{
		Tool:   "secaudit",
		Prompt: "full security architecture review: migrate the auth layer and audit for race condition classes " + strings.Repeat("with detail ", 30),
	})

	assert.GreaterOrEqual(t, got.Tier, domain.TierSenior)
}

func TestAnalyze_UnknownToolUsesBasePrior(t *testing.T) {
	a := testAnalyzer(t)

	known := a.Analyze(domain.RequestDescriptor{Tool: "chat", Prompt: "hello there"})
	unknown := a.Analyze(domain.RequestDescriptor{Tool: "somefuturetool", Prompt: "hello there"})

	assert.Equal(t, known.Score, unknown.Score)
	assert.Equal(t, known.Tier, unknown.Tier)
}

func TestAnalyze_ErrorTraceDetected(t *testing.T) {
	a := testAnalyzer(t)

	got := a.Analyze(domain.RequestDescriptor{
		Tool:   "debug",
		Prompt: "process crashed:\npanic: runtime error: invalid memory address\ngoroutine 17 [running]:",
	})

	assert.Contains(t, got.Signals, "error-trace")
}

func TestAnalyze_ScoreClamped(t *testing.T) {
	a := testAnalyzer(t)

	files := make([]domain.FileRef, 50)
	got := a.Analyze(domain.RequestDescriptor{
		Tool:   "secaudit",
		Prompt: "security architecture migrate race condition " + strings.Repeat("security architecture ", 100),
		Files:  files,
	})

	assert.LessOrEqual(t, got.Score, 1.0)
	assert.Equal(t, domain.TierExecutive, got.Tier)
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := testAnalyzer(t)

	req := domain.RequestDescriptor{
		Tool:   "debug",
		Prompt: "investigate race condition in the security migration",
		Files:  []domain.FileRef{{Path: "a.go"}, {Path: "b.go"}},
	}

	first := a.Analyze(req)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, a.Analyze(req))
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, domain.ErrThresholdConfig)

	_, err = New(Config{
		Scale:      testScale(t),
		ToolFloors: map[string]domain.Tier{"secaudit": domain.Tier(9)},
	})
	assert.ErrorIs(t, err, domain.ErrThresholdConfig)
}
