package server

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/strata-ai/strata/internal/analytics"
	"github.com/strata-ai/strata/internal/config"
	"github.com/strata-ai/strata/internal/core/ports"
	"github.com/strata-ai/strata/internal/core/services"
	"github.com/strata-ai/strata/internal/store"
	"go.uber.org/zap"
)

// Deps bundles everything the HTTP surface needs. Repo and Stats may be nil
// when the decision archive is disabled; the handlers degrade to the ring
// buffer alone.
type Deps struct {
	Router   *services.Router
	Catalog  ports.Catalog
	Selector ports.ModelSelector
	Log      ports.DecisionLog
	Cache    ports.CacheService
	Repo     store.Repository
	Stats    analytics.Service
}

type Server struct {
	router *gin.Engine
	config *config.Config
	logger *zap.Logger
	deps   Deps
}

func New(cfg *config.Config, logger *zap.Logger, deps Deps) *Server {

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	engine.Use(ginzap.RecoveryWithZap(logger, true))

	s := &Server{
		router: engine,
		config: cfg,
		logger: logger,
		deps:   deps,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
