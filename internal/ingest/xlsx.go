package ingest

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/andestravel/feerules/internal/engine"
)

// DefaultSheet is the tab the fee catalog lives on in agency workbooks.
const DefaultSheet = "FEEV3"

// ReadXLSX reads raw rule rows from an XLSX workbook. The sheet is selected
// by case-insensitive name; when no sheet matches, the first sheet is used,
// mirroring how agencies occasionally rename the tab. The first row is the
// header.
func ReadXLSX(path, sheetName string) ([]engine.Row, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("ingest: %s has no sheets", path)
	}

	if sheetName == "" {
		sheetName = DefaultSheet
	}
	sheet := f.Sheets[0]
	for _, s := range f.Sheets {
		if strings.EqualFold(s.Name, sheetName) {
			sheet = s
			break
		}
	}

	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	header := cellStrings(sheet.Rows[0])
	cells := make([][]string, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		cells = append(cells, cellStrings(row))
	}

	return rowsFromCells(header, cells), nil
}

func cellStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.String()
	}
	return cells
}
