package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"asdgest/internal/cli"
)

var (
	reportAnno   int
	reportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Scrive il report annuale su file",
	Long: `Carica lo stato dal mirror configurato e scrive il report Excel dell'anno
richiesto: entrate per tipologia, entrate per centro di costo e il dettaglio
della prima nota.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportAnno, "anno", 0, "anno del report (obbligatorio)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "file di destinazione (default report_<anno>_asd_ssd.xlsx)")
	_ = reportCmd.MarkFlagRequired("anno")
}

func runReport(cmd *cobra.Command, _ []string) error {
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

	data, err := svc.AnnualReport(reportAnno)
	if err != nil {
		return err
	}
	out := reportOutput
	if out == "" {
		out = fmt.Sprintf("report_%d_asd_ssd.xlsx", reportAnno)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("scrittura %s: %w", out, err)
	}
	logger.Info("report scritto", "anno", reportAnno, "file", out, "bytes", len(data))
	return nil
}
