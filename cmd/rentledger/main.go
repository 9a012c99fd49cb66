package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"rentledger/internal/cli"
	"rentledger/internal/core"
	apphttp "rentledger/internal/http"
	"rentledger/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	store, cleanup := cli.InitStore(context.Background(), logger, cfg)
	if cleanup != nil {
		defer func() { _ = cleanup() }()
	}

	// One-time seeding: a brand-new occupancy file gets 16 occupied units.
	if err := store.EnsureOccupancySeeded(context.Background(), core.Today(time.Now())); err != nil {
		logger.Error("Failed to seed occupancy table", "error", err)
		os.Exit(1)
	}

	events := cli.InitAMQP(logger, cfg)
	if events != nil {
		defer func() { _ = events.Close() }()
	}

	svc := services.NewLedgerService(store, events)
	srv := apphttp.NewServer(":"+cfg.Port, svc)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting rentledger server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
