package server

import (
	"github.com/strata-ai/strata/internal/server/middleware"
	v1 "github.com/strata-ai/strata/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	// 1. Global Middleware
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.Tracing("strata"))
	s.router.Use(middleware.ErrorHandler(s.logger))

	// 2. Health Check (Public)
	healthHandler := v1.NewHealthHandler(s.deps.Catalog)
	s.router.GET("/health", healthHandler.Health)

	// 3. API V1 Group
	api := s.router.Group("/v1")
	if s.config.Server.AuthEnabled {
		api.Use(middleware.Auth(s.config.Server.APIKeys))
	}
	if s.config.RateLimit.RequestsPerSecond > 0 {
		rl := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst, s.logger)
		api.Use(rl.Middleware())
	}
	{
		routeHandler := v1.NewRouteHandler(s.deps.Router)
		api.POST("/route", routeHandler.Route)

		modelHandler := v1.NewModelHandler(s.deps.Catalog, s.deps.Selector, s.deps.Cache, s.logger)
		api.GET("/models", modelHandler.List)
		api.GET("/models/layered", modelHandler.Layered)

		decisionHandler := v1.NewDecisionHandler(s.deps.Log, s.deps.Repo, s.deps.Cache, s.deps.Stats)
		api.GET("/decisions", decisionHandler.Recent)
		api.GET("/decisions/stats", decisionHandler.Stats)
		api.GET("/decisions/:fingerprint", decisionHandler.ByFingerprint)
	}
}
