package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/strata-ai/strata/cmd"
	"github.com/strata-ai/strata/internal/adapters/cache/memory"
	"github.com/strata-ai/strata/internal/adapters/cache/redis"
	"github.com/strata-ai/strata/internal/analytics"
	"github.com/strata-ai/strata/internal/config"
	"github.com/strata-ai/strata/internal/core/ports"
	"github.com/strata-ai/strata/internal/core/services"
	"github.com/strata-ai/strata/internal/core/services/analyzer"
	"github.com/strata-ai/strata/internal/core/services/catalog"
	"github.com/strata-ai/strata/internal/core/services/selector"
	"github.com/strata-ai/strata/internal/logger"
	"github.com/strata-ai/strata/internal/platform/otel"
	"github.com/strata-ai/strata/internal/server"
	"github.com/strata-ai/strata/internal/server/validator"
	"github.com/strata-ai/strata/internal/store"
	"github.com/strata-ai/strata/internal/store/sqlite"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Initialize("development")
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Initialize(cfg.Server.Env)
	defer logger.Sync()
	log := logger.Get()

	validator.InitValidator()

	shutdownTracer, err := otel.InitTracer("strata", log, os.Stdout)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}

	thresholds, err := config.LoadThresholds(cfg.Routing.ThresholdsPath)
	if err != nil {
		log.Fatal("Failed to load thresholds", zap.Error(err))
	}

	cat, err := catalog.Open(cfg.Routing.CatalogPath, thresholds.Deriver, cfg.Routing.PinnedModels, log)
	if err != nil {
		log.Fatal("Failed to load model catalog", zap.Error(err))
	}

	an, err := analyzer.New(thresholds.Analyzer)
	if err != nil {
		log.Fatal("Failed to build complexity analyzer", zap.Error(err))
	}

	sel := selector.New(cat, cfg.Routing.MaxFallbacks, log)
	ring := services.NewRingLog(cfg.Routing.DecisionBuffer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Decision archive is optional; without it the ring buffer is the only
	// decision history.
	var (
		repo     store.Repository
		ingestor analytics.Ingestor
		stats    analytics.Service
		sinks    []ports.DecisionSink
	)
	if cfg.Database.Path != "" {
		repo, err = sqlite.NewSQLiteStorage(cfg.Database.Path)
		if err != nil {
			log.Fatal("Failed to open decision store", zap.Error(err))
		}
		ingestor = analytics.NewIngestor(log, repo)
		ingestor.Start(ctx)
		stats = analytics.NewService(repo)
		sinks = append(sinks, ingestor)
	}

	var cacheSvc ports.CacheService
	if cfg.Redis.Enabled {
		cacheSvc, err = redis.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Info("Using Redis cache", zap.String("addr", cfg.Redis.Addr))
	} else {
		cacheSvc = memory.NewMemoryCache()
		log.Info("Using in-memory cache")
	}

	router := services.NewRouter(services.RouterConfig{
		Enabled:          cfg.Routing.Enabled,
		ExcludedTools:    cfg.Routing.ExcludedTools,
		SafeDefaultModel: cfg.Routing.SafeDefaultModel,
	}, cat, an, sel, ring, log, sinks...)

	srv := server.New(cfg, log, server.Deps{
		Router:   router,
		Catalog:  cat,
		Selector: sel,
		Log:      ring,
		Cache:    cacheSvc,
		Repo:     repo,
		Stats:    stats,
	})

	go cmd.CheckForUpdates()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Starting server",
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.Server.Env),
			zap.String("version", cmd.AppVersion),
			zap.Int("models", len(cat.Snapshot())))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	if ingestor != nil {
		ingestor.Stop()
	}
	if repo != nil {
		if closer, ok := repo.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("Tracer shutdown failed", zap.Error(err))
	}
}
