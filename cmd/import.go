package main

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andestravel/feerules/internal/ingest"
	"github.com/andestravel/feerules/internal/model"
)

var (
	importFile    string
	importSheet   string
	importWorkers int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a fee rule file into the catalog",
	Long: `Reads a rule file, normalizes it into the canonical catalog and replaces
the persisted rule set atomically. The format is chosen by extension:
.xlsx/.xlsm workbooks and .csv files go through the normalizer, .json files
are taken as an already-canonical catalog.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sheet := importSheet
		if sheet == "" {
			sheet = cfg.Import.Sheet
		}
		workers := importWorkers
		if workers <= 0 {
			workers = cfg.Import.Workers
		}

		rules, err := ingest.Load(ctx, importFile, sheet, workers)
		if err != nil {
			return eris.Wrap(err, "import: load file")
		}

		eligible := 0
		for _, r := range rules {
			if r.Status == model.StatusOK {
				eligible++
			}
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		source := filepath.Base(importFile)
		if err := st.ReplaceRules(ctx, rules, source); err != nil {
			return eris.Wrap(err, "import: replace rules")
		}

		zap.L().Info("catalog replaced",
			zap.String("source", source),
			zap.Int("rules", len(rules)),
			zap.Int("eligible", eligible),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "rule file (.xlsx, .csv or .json)")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "workbook sheet name (default from config)")
	importCmd.Flags().IntVar(&importWorkers, "workers", 0, "normalization workers (default from config)")
	importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
