package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/strata-ai/strata/internal/core/domain"
	"github.com/strata-ai/strata/internal/core/services"
	"github.com/strata-ai/strata/internal/server/validator"
	"github.com/strata-ai/strata/pkg/api"
)

type RouteHandler struct {
	router *services.Router
}

func NewRouteHandler(router *services.Router) *RouteHandler {
	return &RouteHandler{router: router}
}

// Route resolves a tool invocation to a model.
//
// POST /v1/route
func (h *RouteHandler) Route(c *gin.Context) {
	var req api.RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationError(validator.ParseValidationError(err)))
		return
	}

	desc := domain.RequestDescriptor{
		Tool:   req.Tool,
		Prompt: req.Prompt,
		Model:  req.Model,
	}
	for _, f := range req.Files {
		desc.Files = append(desc.Files, domain.FileRef{Path: f.Path, SizeBytes: f.SizeBytes})
	}

	var opts services.RouteOptions
	if req.RequestedTier != "" {
		tier, err := domain.ParseTier(req.RequestedTier)
		if err != nil {
			_ = c.Error(domain.BadRequestError("Unknown requested_tier"))
			return
		}
		opts.RequestedTier = &tier
	}
	if req.Specialization != "" {
		spec, err := domain.ParseSpecialization(req.Specialization)
		if err != nil {
			_ = c.Error(domain.BadRequestError("Unknown specialization"))
			return
		}
		opts.Specialization = spec
	}

	// Route never fails; worst case is the safe default model.
	resolved := h.router.Route(desc, opts)
	c.JSON(http.StatusOK, api.FromResolved(resolved))
}
