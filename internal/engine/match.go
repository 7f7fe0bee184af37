package engine

import "github.com/andestravel/feerules/internal/model"

// Matches reports whether a single rule is a candidate for the given query.
// A wildcard on any rule dimension matches every query value; the agency
// group only disqualifies a rule when it appears in the exclusion list; and
// rules not in "ok" status are never eligible.
func Matches(r model.Rule, in model.CalculationInput) bool {
	if r.Status != model.StatusOK {
		return false
	}
	if r.Airline != model.Wildcard && r.Airline != in.Airline {
		return false
	}
	if r.Provider != model.ProviderAny && r.Provider != in.Provider {
		return false
	}
	if r.FareType != model.FareAny && r.FareType != in.FareType {
		return false
	}
	if r.RouteScope != model.ScopeAny && r.RouteScope != in.RouteScope {
		return false
	}
	if r.Excludes(in.Group) {
		return false
	}
	if r.TripKind != "" && r.TripKind != model.TripAny && r.TripKind != in.TripKind {
		return false
	}
	return true
}

// Match filters the rule set down to the unsorted candidate subset for a
// query. Pure: the input slice is never modified.
func Match(rules []model.Rule, in model.CalculationInput) []model.Rule {
	var candidates []model.Rule
	for _, r := range rules {
		if Matches(r, in) {
			candidates = append(candidates, r)
		}
	}
	return candidates
}
