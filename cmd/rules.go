package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/andestravel/feerules/internal/model"
)

var rulesStatus string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the stored rule catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rules, err := st.LoadRules(ctx)
		if err != nil {
			return eris.Wrap(err, "rules: load")
		}

		if rulesStatus != "" {
			filtered := make([]model.Rule, 0, len(rules))
			for _, r := range rules {
				if r.Status == rulesStatus {
					filtered = append(filtered, r)
				}
			}
			rules = filtered
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(rules), "rules: encode")
	},
}

var importsCmd = &cobra.Command{
	Use:   "imports",
	Short: "List recent catalog imports",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		imports, err := st.ListImports(ctx, 20)
		if err != nil {
			return eris.Wrap(err, "imports: list")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(imports), "imports: encode")
	},
}

func init() {
	rulesCmd.Flags().StringVar(&rulesStatus, "status", "", "filter by rule status (ok, conflicto, incompleto)")
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(importsCmd)
}
