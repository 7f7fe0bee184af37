package engine

import "github.com/andestravel/feerules/internal/model"

// Resolve picks the single best-matching rule for a query. The result always
// carries the full ranked candidate list so a consumer can reconstruct why
// the winner was chosen; when nothing matches, the best rule is the DEFAULT
// sentinel and the candidate list is empty.
//
// Resolve is stateless and pure: all state lives in the supplied rule set,
// and the same inputs always produce the same result.
func Resolve(rules []model.Rule, in model.CalculationInput) model.CalculationResult {
	matching := Match(rules, in)
	if len(matching) == 0 {
		return model.CalculationResult{
			BestRule:      model.DefaultRule(),
			MatchingRules: []model.Rule{},
		}
	}

	Sort(matching)

	return model.CalculationResult{
		BestRule:      matching[0],
		MatchingRules: matching,
	}
}
