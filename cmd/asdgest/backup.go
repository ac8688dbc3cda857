package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"asdgest/internal/cli"
	"asdgest/internal/export"
)

var backupOutput string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Scrive l'archivio di backup (ricevute + prima nota) su file",
	Long: `Carica lo stato dal mirror configurato e scrive lo ZIP di backup con i due
fogli Excel, come il download /backup del server.`,
	RunE: runBackup,
}

func init() {
	backupCmd.Flags().StringVarP(&backupOutput, "output", "o", export.FileBackup, "file di destinazione")
}

func runBackup(cmd *cobra.Command, _ []string) error {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, cleanup, err := cli.BuildService(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cleanup != nil {
			_ = cleanup()
		}
	}()

	data, err := svc.BackupArchive()
	if err != nil {
		return fmt.Errorf("creazione backup: %w", err)
	}
	if err := os.WriteFile(backupOutput, data, 0o644); err != nil {
		return fmt.Errorf("scrittura %s: %w", backupOutput, err)
	}
	logger.Info("backup scritto", "file", backupOutput, "bytes", len(data))
	return nil
}
