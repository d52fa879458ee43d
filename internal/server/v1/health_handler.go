package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/strata-ai/strata/internal/core/ports"
)

type HealthHandler struct {
	startTime time.Time
	catalog   ports.Catalog
}

func NewHealthHandler(catalog ports.Catalog) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		catalog:   catalog,
	}
}

// Health returns liveness plus the age of the catalog snapshot.
//
// This endpoint is used by load balancers and monitoring systems
// to verify the service is running.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"uptime":      time.Since(h.startTime).String(),
		"time":        time.Now().UTC().Format(time.RFC3339),
		"catalog_age": time.Since(h.catalog.LoadedAt()).String(),
		"models":      len(h.catalog.Snapshot()),
	})
}
