package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/andestravel/feerules/internal/engine"
	"github.com/andestravel/feerules/internal/model"
)

// Load reads a rule file into canonical rules, dispatching on the file
// extension: .json catalogs are taken as-is, .csv and .xlsx files go through
// the normalizer. sheetName only applies to workbooks; workers bounds the
// normalization parallelism (<=1 means sequential).
func Load(ctx context.Context, path, sheetName string, workers int) ([]model.Rule, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "ingest: open json")
		}
		defer f.Close()
		return ReadJSON(f)

	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "ingest: open csv")
		}
		defer f.Close()
		rows, err := ReadCSV(f)
		if err != nil {
			return nil, err
		}
		return engine.NormalizeBatch(ctx, rows, workers)

	case ".xlsx", ".xlsm":
		rows, err := ReadXLSX(path, sheetName)
		if err != nil {
			return nil, err
		}
		return engine.NormalizeBatch(ctx, rows, workers)

	default:
		return nil, eris.Errorf("ingest: unsupported file type %q", filepath.Ext(path))
	}
}
