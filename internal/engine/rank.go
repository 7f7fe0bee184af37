package engine

import (
	"sort"
	"strings"

	"github.com/andestravel/feerules/internal/model"
)

// Compare imposes a strict total order over candidate rules. It returns a
// negative value when a ranks before b, positive when b ranks before a, and
// zero only when both carry the same rule id. Keys are evaluated in order
// with short-circuit stop-at-first-difference rather than subtraction:
//
//  1. priority_manual, descending — a manual override always outranks any
//     score-based reasoning.
//  2. priority (specificity score), descending.
//  3. source-tab precedence, descending (unknown tabs rank last).
//  4. rule_id, ascending by codepoint order.
func Compare(a, b model.Rule) int {
	if a.PriorityManual != b.PriorityManual {
		if a.PriorityManual > b.PriorityManual {
			return -1
		}
		return 1
	}

	if a.Priority != b.Priority {
		if a.Priority > b.Priority {
			return -1
		}
		return 1
	}

	tabA := model.SourceTabPrecedence(a.SourceTab)
	tabB := model.SourceTabPrecedence(b.SourceTab)
	if tabA != tabB {
		if tabA > tabB {
			return -1
		}
		return 1
	}

	return strings.Compare(a.RuleID, b.RuleID)
}

// Sort orders candidates in place, best first.
func Sort(rules []model.Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return Compare(rules[i], rules[j]) < 0
	})
}
