package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andestravel/feerules/internal/model"
)

func TestMatchesWildcards(t *testing.T) {
	t.Parallel()

	in := testInput()

	t.Run("all-wildcard rule matches anything", func(t *testing.T) {
		t.Parallel()
		assert.True(t, Matches(testRule("W", nil), in))
	})

	t.Run("wildcard airline matches any airline", func(t *testing.T) {
		t.Parallel()
		r := testRule("A", func(r *model.Rule) { r.Airline = model.Wildcard })
		assert.True(t, Matches(r, in))
	})

	t.Run("specific airline must equal query airline", func(t *testing.T) {
		t.Parallel()
		assert.True(t, Matches(testRule("AR", func(r *model.Rule) { r.Airline = "AR" }), in))
		assert.False(t, Matches(testRule("LA", func(r *model.Rule) { r.Airline = "LA" }), in))
	})

	t.Run("provider", func(t *testing.T) {
		t.Parallel()
		assert.True(t, Matches(testRule("P", func(r *model.Rule) { r.Provider = model.ProviderGDS }), in))
		assert.False(t, Matches(testRule("P", func(r *model.Rule) { r.Provider = model.ProviderNDC }), in))
	})

	t.Run("fare type", func(t *testing.T) {
		t.Parallel()
		assert.True(t, Matches(testRule("F", func(r *model.Rule) { r.FareType = model.FarePublic }), in))
		assert.False(t, Matches(testRule("F", func(r *model.Rule) { r.FareType = model.FareCorporate }), in))
	})

	t.Run("route scope", func(t *testing.T) {
		t.Parallel()
		assert.True(t, Matches(testRule("S", func(r *model.Rule) { r.RouteScope = model.ScopeDomestic }), in))
		assert.False(t, Matches(testRule("S", func(r *model.Rule) { r.RouteScope = model.ScopeInternational }), in))
	})
}

func TestMatchesExclusion(t *testing.T) {
	t.Parallel()

	r := testRule("X", func(r *model.Rule) { r.ExcludesGroups = []string{"G1"} })

	in := testInput() // group G1
	assert.False(t, Matches(r, in), "excluded group does not match")

	in.Group = "G2"
	assert.True(t, Matches(r, in), "absence from the exclusion list means the rule applies")
}

func TestMatchesTripKind(t *testing.T) {
	t.Parallel()

	in := testInput() // trip RT

	assert.True(t, Matches(testRule("T", func(r *model.Rule) { r.TripKind = "" }), in), "absent trip kind matches")
	assert.True(t, Matches(testRule("T", func(r *model.Rule) { r.TripKind = model.TripAny }), in))
	assert.True(t, Matches(testRule("T", func(r *model.Rule) { r.TripKind = model.TripRoundTrip }), in))
	assert.False(t, Matches(testRule("T", func(r *model.Rule) { r.TripKind = model.TripOneWay }), in))
}

func TestMatchesStatus(t *testing.T) {
	t.Parallel()

	in := testInput()

	assert.False(t, Matches(testRule("C", func(r *model.Rule) { r.Status = model.StatusConflict }), in))
	assert.False(t, Matches(testRule("I", func(r *model.Rule) { r.Status = model.StatusIncomplete }), in))
	assert.True(t, Matches(testRule("OK", nil), in))
}

func TestMatchFiltersWithoutSorting(t *testing.T) {
	t.Parallel()

	rules := []model.Rule{
		testRule("Z", func(r *model.Rule) { r.Airline = "AR" }),
		testRule("A", nil),
		testRule("NOPE", func(r *model.Rule) { r.Airline = "LA" }),
	}

	got := Match(rules, testInput())

	// input order preserved, non-candidates dropped
	assert.Len(t, got, 2)
	assert.Equal(t, "Z", got[0].RuleID)
	assert.Equal(t, "A", got[1].RuleID)
}

func TestMatchEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Match(nil, testInput()))
	assert.Empty(t, Match([]model.Rule{testRule("LA", func(r *model.Rule) { r.Airline = "LA" })}, testInput()))
}
