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

	"github.com/joho/godotenv"

	"farmacia-compras/app"
	"farmacia-compras/config"
	"farmacia-compras/logger"
)

func main() {
	// Load .env file in development (ignores error if file doesn't exist)
	// In production, variables should be set directly
	var envErr error
	if os.Getenv("ENV") != "production" {
		// Use Overload to ensure .env values override system environment variables
		envErr = godotenv.Overload(".env")
	}

	cfg := config.Load()
	if err := logger.Init(cfg.LogLevel, cfg.IsProduction()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Log.Infof("ℹ️  .env file not loaded, using system environment variables: %v", envErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize application
	application, err := app.Initialize(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("❌ %v", err)
	}
	defer application.Close()

	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker)
	addr := "0.0.0.0:" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           application.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("🚀 Server starting on %s", addr)
		logger.Log.Infof("Catalog endpoint: GET http://localhost:%s/catalog/products", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("❌ Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Log.Infof("🛑 Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("❌ Graceful shutdown failed: %v", err)
	}
}
