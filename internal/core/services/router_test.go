package services

import (
	"errors"
	"testing"
	"time"

	"github.com/strata-ai/strata/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCatalog struct{}

func (stubCatalog) Snapshot() []domain.ModelRecord { return nil }
func (stubCatalog) ReloadIfStale() (bool, error)   { return false, nil }
func (stubCatalog) LoadedAt() time.Time            { return time.Time{} }

type stubAnalyzer struct {
	analysis domain.Analysis
	panics   bool
	calls    int
}

func (a *stubAnalyzer) Analyze(domain.RequestDescriptor) domain.Analysis {
	a.calls++
	if a.panics {
		panic("analyzer defect")
	}
	return a.analysis
}

type stubSelector struct {
	result        domain.SelectionResult
	err           error
	requestedTier domain.Tier
}

func (s *stubSelector) Select(tier domain.Tier, _ domain.Specialization, _ int) (domain.SelectionResult, error) {
	s.requestedTier = tier
	return s.result, s.err
}

func (s *stubSelector) SelectLayered(domain.Tier) ([]domain.TierLayer, error) {
	return nil, nil
}

func newTestRouter(cfg RouterConfig, an *stubAnalyzer, sel *stubSelector, log *RingLog) *Router {
	return NewRouter(cfg, stubCatalog{}, an, sel, log, zap.NewNop())
}

func seniorSelection() domain.SelectionResult {
	return domain.SelectionResult{
		Primary: domain.ModelRecord{
			Identifier: "claude-apex",
			Provider:   "anthropic",
			Tier:       domain.TierSenior,
		},
		FallbackChain: []string{"gpt-alpha"},
		Tier:          domain.TierSenior,
		EstimatedCost: 18.75,
	}
}

func TestRoute_ResolvesAndRecords(t *testing.T) {
	an := &stubAnalyzer{analysis: domain.Analysis{Score: 0.6, Tier: domain.TierSenior}}
	sel := &stubSelector{result: seniorSelection()}
	log := NewRingLog(8)
	r := newTestRouter(RouterConfig{Enabled: true, SafeDefaultModel: "llama-local"}, an, sel, log)

	got := r.Route(domain.RequestDescriptor{Tool: "debug", Prompt: "find the deadlock"}, RouteOptions{})

	assert.Equal(t, "claude-apex", got.Model)
	assert.Equal(t, "anthropic", got.Provider)
	assert.Equal(t, domain.TierSenior, got.Tier)
	assert.Equal(t, []string{"gpt-alpha"}, got.FallbackChain)
	assert.False(t, got.Bypassed)
	assert.NotEmpty(t, got.Fingerprint)

	recent := log.Recent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, got.Fingerprint, recent[0].Fingerprint)
	assert.Equal(t, "claude-apex", recent[0].ChosenModel)
	assert.Equal(t, 0.6, recent[0].Score)
	assert.NotEmpty(t, recent[0].ID)
}

func TestRoute_ExcludedToolBypasses(t *testing.T) {
	an := &stubAnalyzer{}
	sel := &stubSelector{result: seniorSelection()}
	log := NewRingLog(8)
	r := newTestRouter(RouterConfig{
		Enabled:          true,
		ExcludedTools:    []string{"ListModels"},
		SafeDefaultModel: "llama-local",
	}, an, sel, log)

	got := r.Route(domain.RequestDescriptor{Tool: "listmodels", Model: "caller-pinned"}, RouteOptions{})

	assert.True(t, got.Bypassed)
	assert.Equal(t, "caller-pinned", got.Model)
	assert.Zero(t, an.calls, "bypass must run before any analysis")

	recent := log.Recent(1)
	require.Len(t, recent, 1)
	assert.True(t, recent[0].Bypassed)
}

func TestRoute_DisabledIsPassThrough(t *testing.T) {
	an := &stubAnalyzer{}
	sel := &stubSelector{result: seniorSelection()}
	r := newTestRouter(RouterConfig{Enabled: false, SafeDefaultModel: "llama-local"}, an, sel, NewRingLog(8))

	got := r.Route(domain.RequestDescriptor{Tool: "debug", Prompt: "anything"}, RouteOptions{})

	assert.True(t, got.Bypassed)
	assert.Equal(t, "llama-local", got.Model)
	assert.Zero(t, an.calls)
}

func TestRoute_ExplicitModelPinBypasses(t *testing.T) {
	an := &stubAnalyzer{}
	sel := &stubSelector{result: seniorSelection()}
	r := newTestRouter(RouterConfig{Enabled: true, SafeDefaultModel: "llama-local"}, an, sel, NewRingLog(8))

	got := r.Route(domain.RequestDescriptor{Tool: "debug", Prompt: "x", Model: "pinned"}, RouteOptions{})

	assert.True(t, got.Bypassed)
	assert.Equal(t, "pinned", got.Model)
	assert.Zero(t, an.calls)
}

func TestRoute_SelectorErrorFallsBackToSafeDefault(t *testing.T) {
	an := &stubAnalyzer{analysis: domain.Analysis{Score: 0.9, Tier: domain.TierExecutive}}
	sel := &stubSelector{err: errors.New("boom")}
	log := NewRingLog(8)
	r := newTestRouter(RouterConfig{Enabled: true, SafeDefaultModel: "llama-local"}, an, sel, log)

	got := r.Route(domain.RequestDescriptor{Tool: "thinkdeep", Prompt: "hard problem"}, RouteOptions{})

	assert.Equal(t, "llama-local", got.Model)
	assert.False(t, got.Bypassed)
	assert.NotEmpty(t, got.Fingerprint)

	recent := log.Recent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, "llama-local", recent[0].ChosenModel)
}

func TestRoute_AnalyzerPanicContained(t *testing.T) {
	an := &stubAnalyzer{panics: true}
	sel := &stubSelector{result: seniorSelection()}
	r := newTestRouter(RouterConfig{Enabled: true, SafeDefaultModel: "llama-local"}, an, sel, NewRingLog(8))

	var got domain.ResolvedModel
	assert.NotPanics(t, func() {
		got = r.Route(domain.RequestDescriptor{Tool: "debug", Prompt: "x"}, RouteOptions{})
	})
	assert.Equal(t, "llama-local", got.Model)
}

func TestRoute_RequestedTierRaisesOnly(t *testing.T) {
	an := &stubAnalyzer{analysis: domain.Analysis{Score: 0.1, Tier: domain.TierFree}}
	sel := &stubSelector{result: seniorSelection()}
	r := newTestRouter(RouterConfig{Enabled: true, SafeDefaultModel: "llama-local"}, an, sel, NewRingLog(8))

	senior := domain.TierSenior
	r.Route(domain.RequestDescriptor{Tool: "chat", Prompt: "x"}, RouteOptions{RequestedTier: &senior})
	assert.Equal(t, domain.TierSenior, sel.requestedTier)

	// A requested tier below the recommendation does not lower it.
	an.analysis = domain.Analysis{Score: 0.7, Tier: domain.TierSenior}
	free := domain.TierFree
	r.Route(domain.RequestDescriptor{Tool: "chat", Prompt: "x"}, RouteOptions{RequestedTier: &free})
	assert.Equal(t, domain.TierSenior, sel.requestedTier)
}

func TestRoute_FansOutToSinks(t *testing.T) {
	an := &stubAnalyzer{analysis: domain.Analysis{Tier: domain.TierSenior}}
	sel := &stubSelector{result: seniorSelection()}
	extra := NewRingLog(8)
	r := NewRouter(RouterConfig{Enabled: true, SafeDefaultModel: "llama-local"},
		stubCatalog{}, an, sel, NewRingLog(8), zap.NewNop(), extra)

	r.Route(domain.RequestDescriptor{Tool: "debug", Prompt: "x"}, RouteOptions{})

	assert.Len(t, extra.Recent(0), 1)
}

func TestFingerprint_Stable(t *testing.T) {
	req := domain.RequestDescriptor{
		Tool:   "Debug",
		Prompt: "  investigate leak  ",
		Files:  []domain.FileRef{{Path: "b.go"}, {Path: "a.go"}},
	}

	fp := Fingerprint(req)
	assert.Len(t, fp, 16)

	// Tool case and file order do not change the fingerprint.
	assert.Equal(t, fp, Fingerprint(domain.RequestDescriptor{
		Tool:   "debug",
		Prompt: "  investigate leak  ",
		Files:  []domain.FileRef{{Path: "a.go"}, {Path: "b.go"}},
	}))

	assert.NotEqual(t, fp, Fingerprint(domain.RequestDescriptor{Tool: "debug", Prompt: "other"}))
	assert.NotEqual(t, fp, Fingerprint(domain.RequestDescriptor{
		Tool:   "debug",
		Prompt: "  investigate leak  ",
	}))
}

func TestRoute_Deterministic(t *testing.T) {
	an := &stubAnalyzer{analysis: domain.Analysis{Score: 0.6, Tier: domain.TierSenior}}
	sel := &stubSelector{result: seniorSelection()}
	r := newTestRouter(RouterConfig{Enabled: true, SafeDefaultModel: "llama-local"}, an, sel, NewRingLog(64))

	req := domain.RequestDescriptor{Tool: "debug", Prompt: "same input"}
	first := r.Route(req, RouteOptions{})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Route(req, RouteOptions{}))
	}
}
