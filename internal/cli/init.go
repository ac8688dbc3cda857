// Package cli consolidates initialization shared by the commands: env file
// loading, logging, config, and graceful shutdown.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"asdgest/internal/book"
	"asdgest/internal/config"
	"asdgest/internal/core"
	applog "asdgest/internal/log"
	"asdgest/internal/mirror/factory"
	"asdgest/internal/services"
)

// LoadEnvFile loads .env for local development. Missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging and installs it as default.
func SetupLogger() *applog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	logger := applog.New(level, applog.ComponentApp)
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads the environment config, exiting on failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configurazione non valida", "error", err)
		os.Exit(1)
	}
	return cfg
}

// BuildService assembles the whole posting stack from config: profile and
// price list, the configured mirror, and the restored book.
func BuildService(ctx context.Context, cfg *config.Config, renderer services.Renderer, logger *applog.Logger) (*services.Service, factory.CleanupFunc, error) {
	var assoc core.Association
	if cfg.AssociationFile != "" {
		a, err := core.LoadAssociation(cfg.AssociationFile)
		if err != nil {
			return nil, nil, fmt.Errorf("profilo associazione: %w", err)
		}
		assoc = a
	}
	b := book.New()
	if cfg.ListinoFile != "" {
		listino, err := core.LoadListino(cfg.ListinoFile)
		if err != nil {
			return nil, nil, fmt.Errorf("listino: %w", err)
		}
		b.Listino = listino
	}

	m, cleanup, err := factory.New(ctx, factory.Config{
		Type:         factory.Backend(cfg.MirrorBackend),
		Dir:          cfg.MirrorDir,
		SQLiteDBPath: cfg.SQLiteDBPath,
	}, logger.WithComponent(applog.ComponentMirror).Logger)
	if err != nil {
		return nil, nil, err
	}

	svc := services.New(b, assoc, m, renderer,
		logger.WithComponent(applog.ComponentService).Logger, cfg.MirrorTimeout)
	if err := svc.Load(ctx); err != nil {
		if cleanup != nil {
			_ = cleanup()
		}
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// GracefulShutdown cancels the returned context on SIGINT/SIGTERM and runs
// the cleanup before signalling completion.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("segnale di arresto ricevuto", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup()
		}
		cancel()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("timeout di arresto raggiunto")
		case <-time.After(2 * time.Second):
			logger.Info("arresto completato")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the shutdown sequence has finished.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
