// Package engine implements the fee rule resolution core: normalization of
// raw tabular rows into canonical scored rules, candidate matching, ranking
// and resolution. All engine functions are total for well-typed inputs and
// never return errors; malformed field values degrade to documented defaults.
package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/andestravel/feerules/internal/model"
)

// Row is one loosely-typed raw record as produced by the ingestion layer: a
// mapping from raw column key to an untyped value (absent, string, number or
// bool). Every field is optional and every coercion is total.
type Row map[string]any

// str coerces a raw value to a string. Numbers are formatted, absent and
// unsupported values become the empty string.
func (r Row) str(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// truthy reports whether a raw value is present and non-empty.
func (r Row) truthy(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}

// flightKindMap translates raw flight-kind synonyms to a route scope.
var flightKindMap = map[string]model.Scope{
	"cabotaje":      model.ScopeDomestic,
	"national":      model.ScopeDomestic,
	"regional":      model.ScopeRegional,
	"inter":         model.ScopeInternational,
	"international": model.ScopeInternational,
}

// fareKindMap translates raw fare-kind synonyms to a fare category.
var fareKindMap = map[string]model.FareType{
	"public":     model.FarePublic,
	"private":    model.FareBT,
	"negotiated": model.FareBT,
	"corporate":  model.FareCorporate,
}

// tripKindMap translates raw trip-kind synonyms that are not already
// canonical RT/OW codes.
var tripKindMap = map[string]model.TripKind{
	"multidestino": model.TripMulti,
}

// Normalize turns one raw row into a canonical rule. It never fails: every
// field has a default for malformed or absent input. ordinal is the 0-based
// position of the row within its source; it seeds the synthesized rule id
// and the source_row provenance field.
func Normalize(row Row, ordinal int) model.Rule {
	scope := normalizeScope(row.str("flightKind"))
	fare := normalizeFareType(row.str("fareKind"))

	var notes []string
	if row.truthy("applyAlways") {
		notes = append(notes, "Aplica Siempre")
	}
	if name := row.str("name"); name != "" {
		notes = append(notes, name)
	}

	sourceRow := ordinal + 2 // header row plus 1-based display

	rule := model.Rule{
		RuleID:         ruleID(row.str("id"), ordinal),
		Name:           row.str("name"),
		Airline:        normalizeAirline(row.str("airline")),
		RouteScope:     scope,
		Provider:       normalizeProvider(row.str("provider")),
		FareType:       fare,
		Group:          strings.TrimSpace(row.str("group")),
		FeeType:        normalizeFeeType(row.str("operator")),
		FeeValue:       normalizeFeeValue(row["fee"]),
		Currency:       normalizeCurrency(row.str("currency"), scope),
		ExcludesGroups: SplitGroups(row.str("agencyGroupToExclude")),
		TripKind:       normalizeTripKind(row.str("flightTripKind")),
		Notes:          strings.Join(notes, " | "),
		PriorityManual: normalizeInt(row["priorityManual"]),
		SourceTab:      "FEE v3",
		SourceRow:      &sourceRow,
		Status:         model.StatusOK,
	}
	rule.Priority = Score(rule)

	return rule
}

// NormalizeAll normalizes a batch of raw rows sequentially. Rows are
// independent; the output index matches the input index.
func NormalizeAll(rows []Row) []model.Rule {
	rules := make([]model.Rule, len(rows))
	for i, row := range rows {
		rules[i] = Normalize(row, i)
	}
	return rules
}

// NormalizeBatch normalizes rows with up to workers goroutines. Output is
// identical to NormalizeAll; only the processing order differs. The only
// possible error is context cancellation.
func NormalizeBatch(ctx context.Context, rows []Row, workers int) ([]model.Rule, error) {
	if workers <= 1 || len(rows) < 2 {
		return NormalizeAll(rows), nil
	}

	rules := make([]model.Rule, len(rows))
	indexes := make(chan int)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range indexes {
				rules[i] = Normalize(rows[i], i)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(indexes)
		for i := range rows {
			select {
			case indexes <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rules, nil
}

// Score computes the specificity score of a rule: the sum of fixed bit
// weights for each pinned-down dimension, 0-63. Weights are non-overlapping
// so no combination of lower-weight dimensions can outscore a higher one
// (group > airline > scope > provider > fare type > trip kind).
func Score(r model.Rule) int {
	score := 0
	if r.Group != "" {
		score += 32
	}
	if r.Airline != "" && r.Airline != model.Wildcard {
		score += 16
	}
	if r.RouteScope != "" && r.RouteScope != model.ScopeAny {
		score += 8
	}
	if r.Provider != "" && r.Provider != model.ProviderAny {
		score += 4
	}
	if r.FareType != "" && r.FareType != model.FareAny {
		score += 2
	}
	if r.TripKind != "" && r.TripKind != model.TripAny {
		score += 1
	}
	return score
}

// SplitGroups parses a delimited agency-group exclusion list. Tokens are
// split on comma, semicolon, pipe or hyphen, trimmed, uppercased; empty
// tokens are dropped.
func SplitGroups(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '|' || r == '-'
	})
	groups := make([]string, 0, len(fields))
	for _, f := range fields {
		g := strings.ToUpper(strings.TrimSpace(f))
		if g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}

func ruleID(raw string, ordinal int) string {
	if id := strings.TrimSpace(raw); id != "" {
		return id
	}
	return fmt.Sprintf("R%d", ordinal+1)
}

func normalizeAirline(raw string) string {
	airline := strings.ToUpper(strings.TrimSpace(raw))
	if airline == "" {
		return model.Wildcard
	}
	return airline
}

func normalizeScope(raw string) model.Scope {
	if scope, ok := flightKindMap[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return scope
	}
	return model.ScopeAny
}

func normalizeFareType(raw string) model.FareType {
	if fare, ok := fareKindMap[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return fare
	}
	return model.FareAny
}

func normalizeProvider(raw string) model.Provider {
	switch model.Provider(strings.ToUpper(strings.TrimSpace(raw))) {
	case model.ProviderGDS:
		return model.ProviderGDS
	case model.ProviderNDC:
		return model.ProviderNDC
	default:
		return model.ProviderAny
	}
}

// normalizeCurrency keeps an explicit ARS/USD value and otherwise infers the
// currency from the route scope: domestic routes bill in ARS, any other
// known scope in USD.
func normalizeCurrency(raw string, scope model.Scope) model.Currency {
	switch model.Currency(strings.ToUpper(strings.TrimSpace(raw))) {
	case model.CurrencyARS:
		return model.CurrencyARS
	case model.CurrencyUSD:
		return model.CurrencyUSD
	}
	switch scope {
	case model.ScopeDomestic:
		return model.CurrencyARS
	case model.ScopeAny:
		return model.CurrencyAny
	default:
		return model.CurrencyUSD
	}
}

// normalizeFeeType maps the raw operator code to a fee type. Only the exact
// code "MUL" yields a percentage fee.
func normalizeFeeType(operator string) model.FeeType {
	if operator == "MUL" {
		return model.FeePercentage
	}
	return model.FeeFixed
}

// normalizeFeeValue accepts numbers as-is and strings with either decimal
// separator; anything unparseable defaults to 0.
func normalizeFeeValue(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		cleaned := strings.TrimSpace(strings.Replace(v, ",", ".", 1))
		n, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func normalizeTripKind(raw string) model.TripKind {
	if kind, ok := tripKindMap[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return kind
	}
	switch model.TripKind(strings.ToUpper(strings.TrimSpace(raw))) {
	case model.TripRoundTrip:
		return model.TripRoundTrip
	case model.TripOneWay:
		return model.TripOneWay
	default:
		return model.TripAny
	}
}

// normalizeInt parses a manual priority override; non-numeric or absent
// values default to 0. Fractional values are truncated toward zero.
func normalizeInt(raw any) int {
	switch v := raw.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		cleaned := strings.TrimSpace(v)
		if n, err := strconv.Atoi(cleaned); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return int(f)
		}
		return 0
	default:
		return 0
	}
}
