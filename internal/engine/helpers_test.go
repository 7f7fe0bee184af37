package engine

import "github.com/andestravel/feerules/internal/model"

// testRule builds an all-wildcard eligible rule, applies mut, then
// recomputes the specificity score the way the normalizer would.
func testRule(id string, mut func(*model.Rule)) model.Rule {
	r := model.Rule{
		RuleID:         id,
		Airline:        model.Wildcard,
		RouteScope:     model.ScopeAny,
		Provider:       model.ProviderAny,
		FareType:       model.FareAny,
		FeeType:        model.FeeFixed,
		Currency:       model.CurrencyAny,
		ExcludesGroups: []string{},
		TripKind:       model.TripAny,
		SourceTab:      "FEE v3",
		Status:         model.StatusOK,
	}
	if mut != nil {
		mut(&r)
	}
	r.Priority = Score(r)
	return r
}

// testInput is a representative valid query.
func testInput() model.CalculationInput {
	return model.CalculationInput{
		Group:      "G1",
		Provider:   model.ProviderGDS,
		FareType:   model.FarePublic,
		Airline:    "AR",
		RouteScope: model.ScopeDomestic,
		TripKind:   model.TripRoundTrip,
	}
}
