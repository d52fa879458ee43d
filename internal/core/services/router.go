// Package services composes the routing core: analyzer, selector and catalog
// behind the single Route entry point the transport layer calls.
package services

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/strata-ai/strata/internal/core/domain"
	"github.com/strata-ai/strata/internal/core/ports"
	"go.uber.org/zap"
)

// RouterConfig is the shim's own knob set, decoded from the routing section
// of the service config.
type RouterConfig struct {
	// Enabled false puts the whole service in pass-through mode: every call
	// is a bypass.
	Enabled bool
	// ExcludedTools bypass routing entirely; the caller-specified model (or
	// the safe default) passes through unchanged.
	ExcludedTools []string
	// SafeDefaultModel is the hardcoded answer when routing itself breaks.
	// It should name the cheapest generally available model.
	SafeDefaultModel string
}

// RouteOptions carries the caller's optional constraints alongside the
// request descriptor.
type RouteOptions struct {
	// RequestedTier raises the routed tier when above the analyzer's
	// recommendation. It never lowers it.
	RequestedTier *domain.Tier
	Specialization domain.Specialization
}

// Router is the integration shim between the transport layer and the routing
// core. Route never fails: any internal error or panic degrades to the safe
// default model, because a routing fault must never block the tool call the
// caller is about to make.
type Router struct {
	catalog  ports.Catalog
	analyzer ports.ComplexityAnalyzer
	selector ports.ModelSelector
	log      ports.DecisionLog
	sinks    []ports.DecisionSink

	enabled     bool
	excluded    map[string]bool
	safeDefault string
	logger      *zap.Logger
}

func NewRouter(
	cfg RouterConfig,
	catalog ports.Catalog,
	analyzer ports.ComplexityAnalyzer,
	selector ports.ModelSelector,
	log ports.DecisionLog,
	logger *zap.Logger,
	sinks ...ports.DecisionSink,
) *Router {
	excluded := make(map[string]bool, len(cfg.ExcludedTools))
	for _, t := range cfg.ExcludedTools {
		excluded[normalizeTool(t)] = true
	}
	return &Router{
		catalog:     catalog,
		analyzer:    analyzer,
		selector:    selector,
		log:         log,
		sinks:       sinks,
		enabled:     cfg.Enabled,
		excluded:    excluded,
		safeDefault: cfg.SafeDefaultModel,
		logger:      logger,
	}
}

// Route resolves a request to a model. The result always carries a
// fingerprint, and a decision is always appended, including for bypasses.
func (r *Router) Route(req domain.RequestDescriptor, opts RouteOptions) domain.ResolvedModel {
	fingerprint := Fingerprint(req)
	tool := normalizeTool(req.Tool)

	var resolved domain.ResolvedModel
	var analysis domain.Analysis

	switch {
	case !r.enabled, r.excluded[tool], req.Model != "":
		// Pure pass-through: the caller-specified model goes out unchanged,
		// before any analysis runs.
		model := req.Model
		if model == "" {
			model = r.safeDefault
		}
		resolved = domain.ResolvedModel{
			Model:       model,
			Bypassed:    true,
			Fingerprint: fingerprint,
		}
	default:
		resolved, analysis = r.resolve(req, opts, fingerprint)
	}

	r.record(tool, analysis, resolved)
	return resolved
}

// resolve runs analyzer and selector under a recover so that a defect in
// either degrades to the safe default instead of failing the call.
func (r *Router) resolve(req domain.RequestDescriptor, opts RouteOptions, fingerprint string) (resolved domain.ResolvedModel, analysis domain.Analysis) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("Routing panicked, using safe default",
				zap.Any("panic", rec),
				zap.String("fingerprint", fingerprint),
			)
			resolved = r.safeResolved(fingerprint)
		}
	}()

	// Freshness is opportunistic; a failed reload keeps the last snapshot.
	if _, err := r.catalog.ReloadIfStale(); err != nil {
		r.logger.Warn("Catalog staleness check errored", zap.Error(err))
	}

	analysis = r.analyzer.Analyze(req)

	tier := analysis.Tier
	if opts.RequestedTier != nil && opts.RequestedTier.Valid() && *opts.RequestedTier > tier {
		tier = *opts.RequestedTier
	}

	sel, err := r.selector.Select(tier, opts.Specialization, 0)
	if err != nil {
		r.logger.Warn("Selection failed, using safe default",
			zap.Error(err),
			zap.String("tier", tier.String()),
			zap.String("fingerprint", fingerprint),
		)
		return r.safeResolved(fingerprint), analysis
	}

	return domain.ResolvedModel{
		Model:         sel.Primary.Identifier,
		Provider:      sel.Primary.Provider,
		Tier:          sel.Tier,
		EstimatedCost: sel.EstimatedCost,
		FallbackChain: sel.FallbackChain,
		Escalated:     sel.Escalated,
		Fingerprint:   fingerprint,
	}, analysis
}

func (r *Router) safeResolved(fingerprint string) domain.ResolvedModel {
	return domain.ResolvedModel{
		Model:       r.safeDefault,
		Tier:        domain.TierFree,
		Fingerprint: fingerprint,
	}
}

func (r *Router) record(tool string, analysis domain.Analysis, resolved domain.ResolvedModel) {
	d := domain.RoutingDecision{
		ID:              uuid.NewString(),
		Fingerprint:     resolved.Fingerprint,
		Tool:            tool,
		Score:           analysis.Score,
		RecommendedTier: analysis.Tier,
		ChosenModel:     resolved.Model,
		Provider:        resolved.Provider,
		FallbackChain:   resolved.FallbackChain,
		EstimatedCost:   resolved.EstimatedCost,
		Escalated:       resolved.Escalated,
		Bypassed:        resolved.Bypassed,
		CreatedAt:       time.Now().UTC(),
	}
	r.log.Append(d)
	for _, s := range r.sinks {
		s.Append(d)
	}
}

// Fingerprint hashes the normalized tool name, the trimmed prompt and the
// sorted file list into a short stable correlation id. It identifies the
// request shape for logs and lookups only; nothing is memoized under it.
func Fingerprint(req domain.RequestDescriptor) string {
	h := sha256.New()
	io.WriteString(h, normalizeTool(req.Tool))
	h.Write([]byte{0})
	io.WriteString(h, strings.TrimSpace(req.Prompt))

	paths := make([]string, 0, len(req.Files))
	for _, f := range req.Files {
		paths = append(paths, f.Path)
	}
	sort.Strings(paths)
	for _, p := range paths {
		h.Write([]byte{0})
		io.WriteString(h, p)
	}

	return hex.EncodeToString(h.Sum(nil))[:16]
}

func normalizeTool(tool string) string {
	return strings.ToLower(strings.TrimSpace(tool))
}
