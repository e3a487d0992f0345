package main

import (
	"context"
	"fmt"

	"codeberg.org/algopatterns/forge/api/rest/generate"
	"codeberg.org/algopatterns/forge/api/rest/health"
	"codeberg.org/algopatterns/forge/internal/auth"
	"codeberg.org/algopatterns/forge/internal/logger"
	"codeberg.org/algopatterns/forge/internal/middleware"
	"github.com/gin-gonic/gin"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	if err := generate.RegisterValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(server.config.CORSOrigins))

	checks := map[string]health.Check{}
	if server.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return server.redis.Ping(ctx).Err()
		}
	}

	v1 := router.Group("/api/v1")
	health.RegisterRoutes(router, v1, Version, checks)

	var guards []gin.HandlerFunc

	if server.config.APIJWTSecret.IsSet() {
		guards = append(guards, auth.RequireToken(server.config.APIJWTSecret))
	} else {
		logger.Warn("API_JWT_SECRET not set, /api/v1/generate accepts unauthenticated requests")
	}

	limit, err := middleware.RateLimit(server.config.RateLimit, server.redis)
	if err != nil {
		return err
	}
	guards = append(guards, limit)

	generate.RegisterRoutes(v1, server.services.Orchestrator, guards...)

	return nil
}
