// Package export writes the rule catalog for external consumption. The
// emitted field set exactly matches the canonical rule shape so an exported
// catalog can be re-imported losslessly.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/andestravel/feerules/internal/model"
)

// csvHeader is the canonical column order, matching the Rule field order.
var csvHeader = []string{
	"rule_id", "name", "airline", "route_scope", "provider", "fare_type",
	"group", "fee_type", "fee_value", "currency", "excludes_groups",
	"trip_kind", "notes", "priority", "priority_manual", "source_tab",
	"source_row", "status",
}

// WriteJSON writes the catalog as an indented JSON array.
func WriteJSON(w io.Writer, rules []model.Rule) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if rules == nil {
		rules = []model.Rule{}
	}
	return eris.Wrap(enc.Encode(rules), "export: encode json")
}

// WriteCSV writes the catalog as CSV with a header row. The exclusion list
// is joined with "|"; a null source_row becomes an empty cell.
func WriteCSV(w io.Writer, rules []model.Rule) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}

	for _, r := range rules {
		sourceRow := ""
		if r.SourceRow != nil {
			sourceRow = strconv.Itoa(*r.SourceRow)
		}
		record := []string{
			r.RuleID,
			r.Name,
			r.Airline,
			string(r.RouteScope),
			string(r.Provider),
			string(r.FareType),
			r.Group,
			string(r.FeeType),
			strconv.FormatFloat(r.FeeValue, 'f', -1, 64),
			string(r.Currency),
			strings.Join(r.ExcludesGroups, "|"),
			string(r.TripKind),
			r.Notes,
			strconv.Itoa(r.Priority),
			strconv.Itoa(r.PriorityManual),
			r.SourceTab,
			sourceRow,
			r.Status,
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrapf(err, "export: write csv row %s", r.RuleID)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}
