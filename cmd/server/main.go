package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/algopatterns/forge/internal/config"
	"codeberg.org/algopatterns/forge/internal/logger"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

// @title Forge API
// @version 1.0
// @description Generates code from a natural-language requirement and commits it to a GitHub repository
// @description
// @description Every response to /api/v1/generate is an outcome:
// @description {status, reference?, stage?, error?, message?}

// @contact.name API Support
// @contact.url https://codeberg.org/algopatterns/forge

// @license.name GPL-3.0
// @license.url https://www.gnu.org/licenses/gpl-3.0.html

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description API client JWT issued with forgectl token. Format: Bearer {token}

func main() {
	// load configuration from environment; missing secrets stop startup
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	logger.Configure(cfg.Environment)
	logger.Info("starting forge server", "version", Version, "provider", cfg.Generation.Provider)

	ctx := context.Background()

	srv, err := NewServer(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     srv.router,
		ReadTimeout: 15 * time.Second,
		// outlives both pipeline stages so the outcome is always written
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// in-flight requests get time to finish publishing
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	srv.Close()

	logger.Info("server stopped")
}
