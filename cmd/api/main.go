package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/pick-ledger/internal/app"
	"github.com/riskibarqy/pick-ledger/internal/config"
	"github.com/riskibarqy/pick-ledger/internal/observability"
	"github.com/riskibarqy/pick-ledger/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry, err := observability.Start(ctx, cfg, logger)
	if err != nil {
		logger.Error("start telemetry", "error", err)
		os.Exit(1)
	}

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() { _ = application.Close() }()

	// A failed first load is not fatal; POST /v1/ledger/refresh retries it.
	if _, err := application.Ledger.Refresh(ctx); err != nil {
		logger.WarnContext(ctx, "initial ledger refresh failed", "error", err)
	}

	srv, err := application.NewHTTPServer()
	if err != nil {
		logger.Error("build http server", "error", err)
		os.Exit(1)
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	_ = telemetry.Shutdown(shutdownCtx)

	logger.Info("http server stopped")
}
