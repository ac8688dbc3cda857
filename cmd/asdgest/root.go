package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "asdgest",
	Short: "Gestione ricevute e prima nota per associazioni sportive dilettantistiche",
	Long: `asdgest emette ricevute non fiscali, mantiene la prima nota derivata da
ricevute e uscite manuali, e produce report ed esportazioni in formato Excel.

Lo stato autorevole vive in memoria per la durata della sessione; un mirror
configurabile (memory, dir, drive, sqlite) ne conserva una copia best-effort.`,
	Version: version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "errore: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(reportCmd)
}
