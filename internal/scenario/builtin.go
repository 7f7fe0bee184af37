package scenario

import "github.com/andestravel/feerules/internal/model"

// Builtin returns the acceptance suite carried over from the fee desk's
// original sign-off cases.
func Builtin() []Scenario {
	baseInput := model.CalculationInput{
		Group:      "G1",
		Provider:   model.ProviderGDS,
		FareType:   model.FarePublic,
		Airline:    "AR",
		RouteScope: model.ScopeDomestic,
		TripKind:   model.TripAny,
	}

	return []Scenario{
		{
			ID:          "T01",
			Description: "Match GDS Público Cabotaje",
			Input:       baseInput,
			Rules: []RuleSpec{
				{RuleID: "R1", Provider: model.ProviderGDS, FareType: model.FarePublic, RouteScope: model.ScopeDomestic, FeeValue: 10},
			},
			ExpectedRuleID: "R1",
		},
		{
			ID:          "T02",
			Description: "Match NDC, score should win over wildcard",
			Input: model.CalculationInput{
				Group: "G1", Provider: model.ProviderNDC, FareType: model.FarePublic,
				Airline: "AR", RouteScope: model.ScopeDomestic, TripKind: model.TripAny,
			},
			Rules: []RuleSpec{
				{RuleID: "R1", FeeValue: 5},
				{RuleID: "R2", Provider: model.ProviderNDC, FeeValue: 10},
			},
			ExpectedRuleID: "R2",
		},
		{
			ID:          "T11",
			Description: "priority_manual debe ganar sobre score",
			Input:       baseInput,
			Rules: []RuleSpec{
				{RuleID: "SCORE_WINS", Provider: model.ProviderGDS, Airline: "AR", FareType: model.FarePublic, RouteScope: model.ScopeDomestic, FeeValue: 100},
				{RuleID: "MANUAL_WINS", FeeValue: 200, PriorityManual: 10},
			},
			ExpectedRuleID: "MANUAL_WINS",
		},
		{
			ID:          "T12",
			Description: "Sin priority_manual, score debe ganar",
			Input:       baseInput,
			Rules: []RuleSpec{
				{RuleID: "SCORE_LOSES", FeeValue: 200},
				{RuleID: "SCORE_WINS", Provider: model.ProviderGDS, Airline: "AR", FareType: model.FarePublic, RouteScope: model.ScopeDomestic, FeeValue: 100},
			},
			ExpectedRuleID: "SCORE_WINS",
		},
		{
			ID:          "T13",
			Description: "Una regla con airline='*' debe matchear una aerolínea específica",
			Input: model.CalculationInput{
				Group: "G1", Provider: model.ProviderGDS, FareType: model.FarePublic,
				Airline: "LA", RouteScope: model.ScopeInternational, TripKind: model.TripAny,
			},
			Rules: []RuleSpec{
				{RuleID: "R_WILDCARD_AIRLINE", Airline: model.Wildcard, RouteScope: model.ScopeInternational, FeeValue: 50},
			},
			ExpectedRuleID: "R_WILDCARD_AIRLINE",
		},
		{
			ID:          "T14",
			Description: "Una regla con scope='*' debe matchear un ámbito específico (DOM)",
			Input:       baseInput,
			Rules: []RuleSpec{
				{RuleID: "R_SPECIFIC_SCOPE", RouteScope: model.ScopeDomestic, FeeValue: 10},
				{RuleID: "R_WILDCARD_SCOPE", RouteScope: model.ScopeAny, FeeValue: 5},
			},
			ExpectedRuleID: "R_SPECIFIC_SCOPE",
		},
		{
			ID:          "T15",
			Description: "Empate de score y manual resuelto por source_tab",
			Input:       baseInput,
			Rules: []RuleSpec{
				{RuleID: "R_FEEV3", Airline: "AR", FeeValue: 10, SourceTab: "FEE v3"},
				{RuleID: "R_DETALLE", Airline: "AR", FeeValue: 20, SourceTab: "Detalle"},
			},
			ExpectedRuleID: "R_DETALLE",
		},
		{
			ID:          "T16",
			Description: "Empate total resuelto por rule_id ASC",
			Input:       baseInput,
			Rules: []RuleSpec{
				{RuleID: "Z_RULE", Airline: "AR", FeeValue: 99},
				{RuleID: "A_RULE", Airline: "AR", FeeValue: 100},
			},
			ExpectedRuleID: "A_RULE",
		},
	}
}
