package main

import (
	"codeberg.org/algopatterns/forge/internal/config"
	"codeberg.org/algopatterns/forge/internal/generation"
	"codeberg.org/algopatterns/forge/internal/orchestrator"
	"codeberg.org/algopatterns/forge/internal/publisher"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// holds all dependencies and state for the API server
type Server struct {
	config   *config.Config
	services *Services
	redis    *redis.Client // nil without REDIS_URL
	router   *gin.Engine
}

// holds the pipeline components
type Services struct {
	Generation   *generation.Client
	Publisher    *publisher.Publisher
	Orchestrator *orchestrator.Orchestrator
	Ledger       publisher.Ledger
}
