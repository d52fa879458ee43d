package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/strata-ai/strata/internal/core/domain"
	"github.com/strata-ai/strata/internal/core/ports"
	"go.uber.org/zap"
)

const layeredCacheTTL = 30 * time.Second

type ModelHandler struct {
	catalog  ports.Catalog
	selector ports.ModelSelector
	cache    ports.CacheService
	logger   *zap.Logger
}

func NewModelHandler(catalog ports.Catalog, selector ports.ModelSelector, cache ports.CacheService, logger *zap.Logger) *ModelHandler {
	return &ModelHandler{
		catalog:  catalog,
		selector: selector,
		cache:    cache,
		logger:   logger,
	}
}

// List returns the catalog, optionally filtered by tier, provider or
// specialization.
//
// GET /v1/models
func (h *ModelHandler) List(c *gin.Context) {
	// Listing is the natural place to pick up catalog edits.
	if _, err := h.catalog.ReloadIfStale(); err != nil {
		h.logger.Warn("Catalog refresh failed", zap.Error(err))
	}

	var tierFilter *domain.Tier
	if q := c.Query("tier"); q != "" {
		tier, err := domain.ParseTier(q)
		if err != nil {
			_ = c.Error(domain.BadRequestError("Unknown tier"))
			return
		}
		tierFilter = &tier
	}
	provider := c.Query("provider")
	spec := c.Query("specialization")

	models := make([]domain.ModelRecord, 0)
	for _, rec := range h.catalog.Snapshot() {
		if tierFilter != nil && rec.Tier != *tierFilter {
			continue
		}
		if provider != "" && rec.Provider != provider {
			continue
		}
		if spec != "" && string(rec.Specialization) != spec {
			continue
		}
		models = append(models, rec)
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   models,
	})
}

// Layered returns the tier-by-tier selection view.
//
// GET /v1/models/layered?tier=
func (h *ModelHandler) Layered(c *gin.Context) {
	tierStr := c.DefaultQuery("tier", domain.TierExecutive.String())
	tier, err := domain.ParseTier(tierStr)
	if err != nil {
		_ = c.Error(domain.BadRequestError("Unknown tier"))
		return
	}

	cacheKey := "layered:" + tier.String()
	var layers []domain.TierLayer
	if err := h.cache.Get(c.Request.Context(), cacheKey, &layers); err == nil {
		c.JSON(http.StatusOK, gin.H{"object": "list", "data": layers, "cached": true})
		return
	}

	layers, err = h.selector.SelectLayered(tier)
	if err != nil {
		if errors.Is(err, domain.ErrNoAvailableModel) {
			_ = c.Error(domain.UnavailableError("No models available", err))
		} else {
			_ = c.Error(domain.InternalError("Layered selection failed", err))
		}
		return
	}

	if err := h.cache.Set(c.Request.Context(), cacheKey, layers, layeredCacheTTL); err != nil {
		h.logger.Warn("Layered view cache write failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"object": "list", "data": layers})
}
