package main

import (
	"context"
	"fmt"

	"codeberg.org/algopatterns/forge/internal/config"
	"codeberg.org/algopatterns/forge/internal/logger"
	"codeberg.org/algopatterns/forge/internal/publisher"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// creates and configures a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	var ledger publisher.Ledger = publisher.NewMemoryLedger(0)
	var redisClient *redis.Client

	if cfg.RedisURL != "" {
		redisLedger, err := publisher.NewRedisLedger(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis ledger: %w", err)
		}

		if err := redisLedger.Ping(ctx); err != nil {
			redisLedger.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}

		ledger = redisLedger
		redisClient = redisLedger.Client()

		logger.Info("using redis for artifact ledger and rate limits")
	}

	services, err := InitializeServices(ctx, cfg, ledger)
	if err != nil {
		if redisClient != nil {
			redisClient.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		}
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		config:   cfg,
		services: services,
		redis:    redisClient,
		router:   router,
	}

	if err := RegisterRoutes(router, server); err != nil {
		server.Close()
		return nil, err
	}

	return server, nil
}

// releases connections held by the server
func (s *Server) Close() {
	if s.redis != nil {
		s.redis.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	}
}
