package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andestravel/feerules/internal/model"
	"github.com/andestravel/feerules/internal/scenario"
)

var (
	verifyFile        string
	verifyWithCatalog bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run resolution scenarios against the engine",
	Long: `Runs the builtin acceptance suite, or a YAML suite given with --file,
and reports the winner resolved for each scenario. With --with-catalog the
stored rule catalog is merged into every scenario's rule set.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		scenarios := scenario.Builtin()
		if verifyFile != "" {
			loaded, err := scenario.LoadFile(verifyFile)
			if err != nil {
				return err
			}
			scenarios = loaded
		}

		var base []model.Rule
		if verifyWithCatalog {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			base, err = st.LoadRules(ctx)
			if err != nil {
				return eris.Wrap(err, "verify: load catalog")
			}
		}

		results := scenario.Run(scenarios, base)

		failed := 0
		for _, res := range results {
			status := "PASS"
			if !res.Passed {
				status = "FAIL"
				failed++
			}
			fmt.Printf("%s  %-4s %s (expected %s, got %s)\n",
				status, res.Scenario.ID, res.Scenario.Description,
				res.Scenario.ExpectedRuleID, res.ActualRuleID)
		}

		zap.L().Info("verify complete",
			zap.Int("scenarios", len(results)),
			zap.Int("failed", failed),
		)

		if failed > 0 {
			return eris.Errorf("verify: %d of %d scenarios failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyFile, "file", "", "YAML scenario suite (default builtin)")
	verifyCmd.Flags().BoolVar(&verifyWithCatalog, "with-catalog", false, "merge the stored catalog into every scenario")
	rootCmd.AddCommand(verifyCmd)
}
