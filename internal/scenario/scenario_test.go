package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andestravel/feerules/internal/model"
)

func TestBuiltinSuitePasses(t *testing.T) {
	t.Parallel()

	results := Run(Builtin(), nil)
	require.NotEmpty(t, results)

	for _, res := range results {
		assert.True(t, res.Passed, "%s: expected %s, got %s",
			res.Scenario.ID, res.Scenario.ExpectedRuleID, res.ActualRuleID)
	}
}

func TestHydrateDefaults(t *testing.T) {
	t.Parallel()

	r := hydrate(RuleSpec{FeeValue: 5}, 0)

	assert.Equal(t, "S1", r.RuleID)
	assert.Equal(t, model.Wildcard, r.Airline)
	assert.Equal(t, model.ScopeAny, r.RouteScope)
	assert.Equal(t, model.ProviderAny, r.Provider)
	assert.Equal(t, model.FareAny, r.FareType)
	assert.Equal(t, model.FeeFixed, r.FeeType)
	assert.Equal(t, model.CurrencyAny, r.Currency)
	assert.Equal(t, "FEE v3", r.SourceTab)
	assert.Equal(t, model.StatusOK, r.Status)
	assert.Empty(t, r.ExcludesGroups)
	assert.Equal(t, 0, r.Priority)
}

func TestHydrateRecomputesScore(t *testing.T) {
	t.Parallel()

	r := hydrate(RuleSpec{
		RuleID:     "X",
		Airline:    "AR",
		RouteScope: model.ScopeDomestic,
		Group:      "G1",
	}, 0)

	assert.Equal(t, 32+16+8, r.Priority)
}

func TestRunWithBaseRules(t *testing.T) {
	t.Parallel()

	// A catalog rule with a manual override hijacks the scenario winner.
	base := []model.Rule{
		{
			RuleID:         "CATALOG_OVERRIDE",
			Airline:        model.Wildcard,
			RouteScope:     model.ScopeAny,
			Provider:       model.ProviderAny,
			FareType:       model.FareAny,
			FeeType:        model.FeeFixed,
			Currency:       model.CurrencyAny,
			ExcludesGroups: []string{},
			PriorityManual: 99,
			SourceTab:      "Detalle",
			Status:         model.StatusOK,
		},
	}

	scenarios := []Scenario{
		{
			ID:    "B1",
			Input: model.CalculationInput{Group: "G1", Provider: model.ProviderGDS, FareType: model.FarePublic, Airline: "AR", RouteScope: model.ScopeDomestic, TripKind: model.TripAny},
			Rules: []RuleSpec{
				{RuleID: "LOCAL", FeeValue: 10},
			},
			ExpectedRuleID: "LOCAL",
		},
	}

	results := Run(scenarios, base)
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Equal(t, "CATALOG_OVERRIDE", results[0].ActualRuleID)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	data := `
- id: Y01
  description: wildcard provider loses to pinned provider
  input:
    group: G1
    provider: NDC
    fare_type: Pública
    airline: AR
    route_scope: DOM
    trip_kind: "*"
  rules:
    - rule_id: R1
      fee_value: 5
    - rule_id: R2
      provider: NDC
      fee_value: 10
  expected_rule_id: R2
`
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	scenarios, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "Y01", scenarios[0].ID)
	assert.Equal(t, model.ProviderNDC, scenarios[0].Input.Provider)

	results := Run(scenarios, nil)
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
