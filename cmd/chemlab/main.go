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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/sciforge/chemlab/internal/auth"
	"github.com/sciforge/chemlab/internal/config"
	"github.com/sciforge/chemlab/internal/engine"
	"github.com/sciforge/chemlab/internal/server"
	"github.com/sciforge/chemlab/internal/session"
	"github.com/sciforge/chemlab/internal/storage"
	"github.com/sciforge/chemlab/internal/telemetry"
	"github.com/sciforge/chemlab/migrations"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run0())
}

func run0() int {
	level := slog.LevelInfo
	if os.Getenv("CHEMLAB_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger); err != nil {
		slog.Error("fatal error", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, logger *slog.Logger) error {
	// Load .env file if present (non-fatal; production won't have one).
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.Info("chemlab starting", "version", version, "port", cfg.Port)

	// Initialize OpenTelemetry.
	otelShutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, cfg.OTELInsecure)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	// Connect to database and apply migrations.
	db, err := storage.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, migrations.FS); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	// Token verifier for the external identity provider.
	verifier, err := auth.NewVerifier(cfg.JWTPublicKeyPath, cfg.JWTPrivateKeyPath)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	// Local snapshot store for session rehydration.
	snapshots, err := session.OpenSnapshotStore(cfg.SnapshotPath, logger)
	if err != nil {
		return fmt.Errorf("snapshots: %w", err)
	}
	defer func() { _ = snapshots.Close() }()

	// Reaction engine, event broker, and session registry.
	eng := engine.New(logger)
	broker := server.NewBroker(logger)
	sessions := session.NewManager(eng, snapshots, broker, logger)

	srv := server.New(server.ServerConfig{
		DB:                  db,
		Verifier:            verifier,
		Sessions:            sessions,
		Broker:              broker,
		Logger:              logger,
		Port:                cfg.Port,
		ReadTimeout:         cfg.ReadTimeout,
		WriteTimeout:        cfg.WriteTimeout,
		Version:             version,
		MaxRequestBodyBytes: cfg.MaxRequestBodyBytes,
	})

	autosaver := session.NewAutoSaver(sessions, db, cfg.AutoSaveInterval, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return autosaver.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	slog.Info("chemlab stopped")
	return nil
}
