package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/rosca/internal/audit"
	"github.com/mmynk/rosca/internal/config"
	"github.com/mmynk/rosca/internal/metrics"
	"github.com/mmynk/rosca/internal/rosca"
	"github.com/mmynk/rosca/internal/storage/sqlstore"
	"github.com/mmynk/rosca/internal/telemetry"
	"github.com/mmynk/rosca/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "rosca", cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("Failed to flush traces", "error", err)
		}
	}()

	var store *sqlstore.Store
	if cfg.DBDriver == sqlstore.DriverPostgres {
		store, err = sqlstore.Open(sqlstore.DriverPostgres, cfg.DatabaseURL)
	} else {
		store, err = sqlstore.New(cfg.DBPath)
	}
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.DBDriver)

	rec := metrics.New()
	engine := rosca.New(store, rosca.WithMetrics(rec))

	if cfg.LateAuditSpec != "" {
		lateAudit := audit.NewLateAudit(engine, rec, cfg.LateAuditSpec)
		if err := lateAudit.Start(); err != nil {
			return err
		}
		defer lateAudit.Stop()
	}

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h2c.NewHandler(newRouter(cfg, engine, rec), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", srv.Addr, "auth", cfg.JWTSecret != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
