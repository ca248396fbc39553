// ABOUTME: Main entry point for the recipe importer API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-importer-api/api"
	"recipe-importer-api/api/handlers"
	"recipe-importer-api/core/fetch"
	"recipe-importer-api/core/interfaces"
	"recipe-importer-api/core/pipeline"
	"recipe-importer-api/core/ratelimit"
	"recipe-importer-api/core/security"
	"recipe-importer-api/infrastructure/cache/memory"
	rediscache "recipe-importer-api/infrastructure/cache/redis"
	logruslogger "recipe-importer-api/infrastructure/logger/logrus"
	"recipe-importer-api/infrastructure/render/noop"
	"recipe-importer-api/pkg/config"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logruslogger.NewLogrusLogger()
	logger.Info("Starting recipe importer API", map[string]interface{}{
		"port":           cfg.Server.Port,
		"cache_type":     cfg.Cache.Type,
		"strategy_order": cfg.StrategyOrder,
	})

	// Create cache
	var cache interfaces.Cache
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := rediscache.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			cache = memory.NewMemoryCache(cfg.CacheTTL())
		} else {
			cache = redisCache
			logger.Info("Using Redis cache", map[string]interface{}{
				"address": cfg.Cache.Redis.Address,
			})
		}
	default:
		cache = memory.NewMemoryCache(cfg.CacheTTL())
		logger.Info("Using memory cache", nil)
	}

	deps := interfaces.Dependencies{
		Cache:    cache,
		Logger:   logger,
		Renderer: noop.NewRenderer(),
	}

	validator := security.NewValidator(cfg.Security, cfg.Fetch.RedirectLimit, nil)
	fetcher := fetch.NewClient(cfg.Fetch, validator)
	pipelineService := pipeline.NewService(cfg, deps, fetcher)
	limiter := ratelimit.NewBackstop(cfg.RateLimit.IPPerMinute, cfg.RateLimit.DomainPerMinute)

	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		ParseHandler: handlers.NewParseHandler(pipelineService, limiter, cfg, logger),
		Health:       handlers.NewHealthHandler(cfg),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server stopped", nil)
}
