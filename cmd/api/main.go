package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"calc-api/internal/config"
	"calc-api/internal/expression"
	"calc-api/internal/observability"
	"calc-api/internal/server"
)

func main() {
	if err := run(); err != nil {
		observability.Logger.Error("server exited", zap.Error(err))
		observability.SyncLogger()
		os.Exit(1)
	}
}

func run() error {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := loadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	// Logger
	if err := observability.InitLogger(cfg.Telemetry.LogLevel); err != nil {
		return err
	}
	defer observability.SyncLogger()

	// Tracing, metrics, OTLP logs
	shutdown, err := initTelemetry(ctx, cfg)
	defer func() {
		// The signal context is already cancelled here.
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			observability.Logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()
	if err != nil {
		return err
	}

	// Router
	eval := expression.NewEvaluator(cfg.Limits())
	router := server.NewRouter(eval, cfg.Evaluator.DefaultPrecision)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Server.Addr),
			zap.String("service", cfg.Telemetry.ServiceName),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		observability.Logger.Info("shutting down", zap.Duration("timeout", cfg.GetShutdownTimeout()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
