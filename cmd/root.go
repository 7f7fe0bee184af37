package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andestravel/feerules/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "feerules",
	Short: "Travel-agency fee rule engine",
	Long:  "Normalizes agency fee spreadsheets into a canonical rule catalog and resolves the single best-matching fee rule for a booking query, with a reproducible tie-break chain.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
