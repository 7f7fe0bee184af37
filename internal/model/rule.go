// Package model defines the canonical fee-rule types shared by the
// normalization, matching and persistence layers.
package model

// Wildcard matches any value on a rule dimension.
const Wildcard = "*"

// Scope classifies a route by geography.
type Scope string

const (
	ScopeDomestic      Scope = "DOM"
	ScopeRegional      Scope = "REG"
	ScopeInternational Scope = "INT"
	ScopeAny           Scope = Wildcard
)

// Provider identifies the distribution channel a fare was sold through.
type Provider string

const (
	ProviderGDS Provider = "GDS"
	ProviderNDC Provider = "NDC"
	ProviderAny Provider = Wildcard
)

// FareType classifies the fare category.
type FareType string

const (
	FarePublic    FareType = "Pública"
	FareBT        FareType = "BT"
	FareCorporate FareType = "Corpo"
	FareAny       FareType = Wildcard
)

// TripKind classifies the itinerary shape.
type TripKind string

const (
	TripRoundTrip TripKind = "RT"
	TripOneWay    TripKind = "OW"
	TripMulti     TripKind = "MULTI"
	TripAny       TripKind = Wildcard
)

// FeeType says whether the fee value is a percentage or a fixed amount.
type FeeType string

const (
	FeePercentage FeeType = "%"
	FeeFixed      FeeType = "fixed"
)

// Currency is the fee currency, inferred from route scope when absent.
type Currency string

const (
	CurrencyARS Currency = "ARS"
	CurrencyUSD Currency = "USD"
	CurrencyAny Currency = Wildcard
)

// Rule statuses. Only StatusOK rules are eligible for matching; other
// statuses are retained in the catalog for manual review.
const (
	StatusOK         = "ok"
	StatusConflict   = "conflicto"
	StatusIncomplete = "incompleto"
)

// Rule is a canonical, immutable fee rule. Rules are created exclusively by
// the normalizer at load time and whole catalogs are replaced atomically;
// individual rules are never mutated in place.
type Rule struct {
	RuleID         string   `json:"rule_id" yaml:"rule_id"`
	Name           string   `json:"name" yaml:"name"`
	Airline        string   `json:"airline" yaml:"airline"` // IATA code or "*"
	RouteScope     Scope    `json:"route_scope" yaml:"route_scope"`
	Provider       Provider `json:"provider" yaml:"provider"`
	FareType       FareType `json:"fare_type" yaml:"fare_type"`
	Group          string   `json:"group" yaml:"group"` // empty = applies to all groups
	FeeType        FeeType  `json:"fee_type" yaml:"fee_type"`
	FeeValue       float64  `json:"fee_value" yaml:"fee_value"`
	Currency       Currency `json:"currency" yaml:"currency"`
	ExcludesGroups []string `json:"excludes_groups" yaml:"excludes_groups"`
	TripKind       TripKind `json:"trip_kind,omitempty" yaml:"trip_kind,omitempty"`
	Notes          string   `json:"notes" yaml:"notes"`
	Priority       int      `json:"priority" yaml:"priority"` // computed specificity score, 0-63
	PriorityManual int      `json:"priority_manual" yaml:"priority_manual"`
	SourceTab      string   `json:"source_tab" yaml:"source_tab"`
	SourceRow      *int     `json:"source_row" yaml:"source_row"`
	Status         string   `json:"status" yaml:"status"`
}

// Excludes reports whether the rule explicitly excludes the given agency
// group. Absence from the exclusion list means the rule applies.
func (r Rule) Excludes(group string) bool {
	for _, g := range r.ExcludesGroups {
		if g == group {
			return true
		}
	}
	return false
}

// CalculationInput is one fee lookup query. All six fields are required and
// non-wildcard; callers validate shape before invoking the resolver.
type CalculationInput struct {
	Group      string   `json:"group" yaml:"group"`
	Provider   Provider `json:"provider" yaml:"provider"`
	FareType   FareType `json:"fare_type" yaml:"fare_type"`
	Airline    string   `json:"airline" yaml:"airline"`
	RouteScope Scope    `json:"route_scope" yaml:"route_scope"`
	TripKind   TripKind `json:"trip_kind" yaml:"trip_kind"`
}

// CalculationResult carries the winning rule plus the full ranked candidate
// list so a consumer can replay why the winner was chosen.
type CalculationResult struct {
	BestRule      Rule   `json:"bestRule"`
	MatchingRules []Rule `json:"matchingRules"`
}

// DefaultRuleID identifies the fallback sentinel returned when no rule
// matches a query.
const DefaultRuleID = "DEFAULT_0"

var defaultRule = Rule{
	RuleID:         DefaultRuleID,
	Name:           "Default Fallback Rule",
	Airline:        Wildcard,
	RouteScope:     ScopeAny,
	Provider:       ProviderAny,
	FareType:       FareAny,
	FeeType:        FeeFixed,
	FeeValue:       0,
	Currency:       CurrencyAny,
	ExcludesGroups: []string{},
	TripKind:       TripAny,
	Notes:          "Regla por defecto aplicada cuando ninguna otra coincide.",
	Priority:       -1,
	PriorityManual: -1,
	SourceTab:      "DEFAULT",
	Status:         StatusOK,
}

// DefaultRule returns the zero-fee fallback sentinel. The sentinel is a
// single shared value; callers must not modify it.
func DefaultRule() Rule {
	return defaultRule
}

// sourceTabPrecedence ranks rule provenance for the third-tier tie-break.
// Unknown tabs deliberately rank below every named tab.
var sourceTabPrecedence = map[string]int{
	"Detalle":  4,
	"Planilla": 3,
	"FEE v3":   2,
	"DEFAULT":  1,
}

// SourceTabPrecedence returns the tie-break rank of a source tab, 0 for any
// unmapped tab name.
func SourceTabPrecedence(tab string) int {
	return sourceTabPrecedence[tab]
}
