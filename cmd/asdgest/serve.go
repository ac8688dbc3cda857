package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"time"

	"github.com/spf13/cobra"

	"asdgest/internal/cli"
	apphttp "asdgest/internal/http"
	applog "asdgest/internal/log"
	"asdgest/internal/notify"
	"asdgest/internal/render"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Avvia il server HTTP",
	Long: `Carica lo stato iniziale dal mirror configurato e serve l'API su PORT.
L'invio delle ricevute via email è attivo solo se le variabili SMTP_* sono
impostate.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, cleanup, err := cli.BuildService(ctx, cfg, render.NewPDF(), logger)
	if err != nil {
		return err
	}

	var mailer apphttp.Mailer
	if m, err := notify.NewFromEnv(); err == nil {
		mailer = m
		logger.Info("invio email attivo")
	} else if errors.Is(err, notify.ErrNotConfigured) {
		logger.Info("invio email disattivato", "reason", err)
	} else {
		return err
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, mailer,
		logger.WithComponent(applog.ComponentHTTP).Logger)

	shutdownCtx, done := cli.GracefulShutdown(logger, 15*time.Second, func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(stopCtx); err != nil {
			logger.Error("arresto server fallito", "error", err)
		}
		if cleanup != nil {
			if err := cleanup(); err != nil {
				logger.Error("chiusura mirror fallita", "error", err)
			}
		}
	})

	logger.Info("server in ascolto", "port", cfg.Port, "mirror", cfg.MirrorBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return err
	}
	cli.WaitForShutdown(shutdownCtx, done)
	return nil
}
