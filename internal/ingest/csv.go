package ingest

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"

	"github.com/andestravel/feerules/internal/engine"
)

// ReadCSV reads raw rule rows from CSV data. The first record is the header;
// rows may have a variable number of fields.
func ReadCSV(r io.Reader) ([]engine.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv header")
	}

	var cells [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read csv row")
		}
		cells = append(cells, record)
	}

	return rowsFromCells(header, cells), nil
}
