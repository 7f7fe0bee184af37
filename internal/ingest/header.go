// Package ingest reads fee-rule files (XLSX, CSV, JSON) into the raw rows
// consumed by the normalizer. Values are passed through as loosely-typed
// strings; all coercion and defaulting is the normalizer's job.
package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/andestravel/feerules/internal/engine"
)

// columnSynonyms maps folded header labels to canonical raw column keys.
// Source sheets come from Argentine agencies, so Spanish labels are accepted
// alongside the canonical camelCase keys.
var columnSynonyms = map[string]string{
	"id":                   "id",
	"name":                 "name",
	"nombre":               "name",
	"airline":              "airline",
	"aerolinea":            "airline",
	"linea aerea":          "airline",
	"flightkind":           "flightKind",
	"tipo de vuelo":        "flightKind",
	"ambito":               "flightKind",
	"farekind":             "fareKind",
	"tipo de tarifa":       "fareKind",
	"provider":             "provider",
	"proveedor":            "provider",
	"group":                "group",
	"grupo":                "group",
	"operator":             "operator",
	"operador":             "operator",
	"fee":                  "fee",
	"valor":                "fee",
	"currency":             "currency",
	"moneda":               "currency",
	"agencygrouptoexclude": "agencyGroupToExclude",
	"grupos excluidos":     "agencyGroupToExclude",
	"excluye grupos":       "agencyGroupToExclude",
	"flighttripkind":       "flightTripKind",
	"tipo de viaje":        "flightTripKind",
	"prioritymanual":       "priorityManual",
	"prioridad manual":     "priorityManual",
	"applyalways":          "applyAlways",
	"aplica siempre":       "applyAlways",
}

// stripMarks removes combining marks so accented and unaccented spellings of
// a header compare equal.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldHeader canonicalizes a header cell: trims, lowercases, folds
// diacritics and collapses inner whitespace.
func FoldHeader(header string) string {
	folded, _, err := transform.String(stripMarks, header)
	if err != nil {
		folded = header
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// ColumnKey resolves a header cell to its canonical raw column key. The
// second return is false for unrecognized headers, which are skipped.
func ColumnKey(header string) (string, bool) {
	key, ok := columnSynonyms[FoldHeader(header)]
	return key, ok
}

// rowsFromCells zips a header row with data rows into raw records. Cells in
// unrecognized columns are dropped; empty cells stay absent so the
// normalizer sees them as missing rather than as empty strings.
func rowsFromCells(header []string, cells [][]string) []engine.Row {
	keys := make([]string, len(header))
	for i, h := range header {
		if key, ok := ColumnKey(h); ok {
			keys[i] = key
		}
	}

	rows := make([]engine.Row, 0, len(cells))
	for _, record := range cells {
		row := engine.Row{}
		for i, cell := range record {
			if i >= len(keys) || keys[i] == "" {
				continue
			}
			if strings.TrimSpace(cell) == "" {
				continue
			}
			row[keys[i]] = cell
		}
		rows = append(rows, row)
	}
	return rows
}
