package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/strata-ai/strata/internal/analytics"
	"github.com/strata-ai/strata/internal/core/domain"
	"github.com/strata-ai/strata/internal/core/ports"
	"github.com/strata-ai/strata/internal/store"
)

const decisionCacheTTL = time.Minute

type DecisionHandler struct {
	log   ports.DecisionLog
	repo  store.Repository
	cache ports.CacheService
	stats analytics.Service
}

func NewDecisionHandler(log ports.DecisionLog, repo store.Repository, cache ports.CacheService, stats analytics.Service) *DecisionHandler {
	return &DecisionHandler{
		log:   log,
		repo:  repo,
		cache: cache,
		stats: stats,
	}
}

// Recent returns the newest in-memory decisions.
//
// GET /v1/decisions
func (h *DecisionHandler) Recent(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		_ = c.Error(domain.BadRequestError("Invalid 'limit' parameter"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   h.log.Recent(limit),
	})
}

// ByFingerprint looks up archived decisions for one request fingerprint,
// cache first, then the store.
//
// GET /v1/decisions/:fingerprint
func (h *DecisionHandler) ByFingerprint(c *gin.Context) {
	fingerprint := c.Param("fingerprint")
	cacheKey := "decision:" + fingerprint

	var decisions []domain.RoutingDecision
	if err := h.cache.Get(c.Request.Context(), cacheKey, &decisions); err == nil {
		c.JSON(http.StatusOK, gin.H{"object": "list", "data": decisions, "cached": true})
		return
	}

	if h.repo == nil {
		_ = c.Error(domain.NotFoundError("Decision archive is disabled"))
		return
	}

	rows, err := h.repo.Decisions().GetByFingerprint(c.Request.Context(), fingerprint)
	if err != nil {
		_ = c.Error(domain.InternalError("Failed to fetch decisions", err))
		return
	}
	if len(rows) == 0 {
		_ = c.Error(domain.NotFoundError("No decisions for fingerprint"))
		return
	}

	decisions = make([]domain.RoutingDecision, 0, len(rows))
	for _, row := range rows {
		decisions = append(decisions, row.ToDomain())
	}

	_ = h.cache.Set(c.Request.Context(), cacheKey, decisions, decisionCacheTTL)

	c.JSON(http.StatusOK, gin.H{"object": "list", "data": decisions})
}

// Stats returns daily aggregates over the archived decisions.
//
// GET /v1/decisions/stats
func (h *DecisionHandler) Stats(c *gin.Context) {
	daysStr := c.DefaultQuery("days", "7")
	days, err := strconv.Atoi(daysStr)
	if err != nil {
		_ = c.Error(domain.BadRequestError("Invalid 'days' parameter"))
		return
	}

	if h.stats == nil {
		_ = c.Error(domain.NotFoundError("Decision archive is disabled"))
		return
	}

	stats, err := h.stats.GetDecisionOverview(c.Request.Context(), days)
	if err != nil {
		_ = c.Error(domain.InternalError("Failed to fetch decision stats", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   stats,
	})
}
