package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/andestravel/feerules/internal/export"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored catalog as CSV or JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rules, err := st.LoadRules(ctx)
		if err != nil {
			return eris.Wrap(err, "export: load rules")
		}

		var w io.Writer = os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return eris.Wrap(err, "export: create output file")
			}
			defer f.Close()
			w = f
		}

		switch exportFormat {
		case "csv":
			return export.WriteCSV(w, rules)
		case "json":
			return export.WriteJSON(w, rules)
		default:
			return eris.Errorf("export: unknown format %q", exportFormat)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format (csv or json)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
