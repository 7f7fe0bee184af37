// Package scenario evaluates resolution scenarios: small rule sets plus a
// query and the rule id expected to win. The builtin suite mirrors the
// acceptance cases the fee desk signed off on; additional suites can be
// loaded from YAML files.
package scenario

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/andestravel/feerules/internal/engine"
	"github.com/andestravel/feerules/internal/model"
)

// RuleSpec is a sparse rule definition. Unset dimensions default to
// wildcards and the specificity score is recomputed after hydration, so a
// spec only needs the fields the scenario is about.
type RuleSpec struct {
	RuleID         string         `yaml:"rule_id" json:"rule_id"`
	Name           string         `yaml:"name,omitempty" json:"name,omitempty"`
	Airline        string         `yaml:"airline,omitempty" json:"airline,omitempty"`
	RouteScope     model.Scope    `yaml:"route_scope,omitempty" json:"route_scope,omitempty"`
	Provider       model.Provider `yaml:"provider,omitempty" json:"provider,omitempty"`
	FareType       model.FareType `yaml:"fare_type,omitempty" json:"fare_type,omitempty"`
	Group          string         `yaml:"group,omitempty" json:"group,omitempty"`
	FeeType        model.FeeType  `yaml:"fee_type,omitempty" json:"fee_type,omitempty"`
	FeeValue       float64        `yaml:"fee_value,omitempty" json:"fee_value,omitempty"`
	Currency       model.Currency `yaml:"currency,omitempty" json:"currency,omitempty"`
	ExcludesGroups []string       `yaml:"excludes_groups,omitempty" json:"excludes_groups,omitempty"`
	TripKind       model.TripKind `yaml:"trip_kind,omitempty" json:"trip_kind,omitempty"`
	PriorityManual int            `yaml:"priority_manual,omitempty" json:"priority_manual,omitempty"`
	SourceTab      string         `yaml:"source_tab,omitempty" json:"source_tab,omitempty"`
	Status         string         `yaml:"status,omitempty" json:"status,omitempty"`
}

// Scenario is one resolution check.
type Scenario struct {
	ID             string                 `yaml:"id" json:"id"`
	Description    string                 `yaml:"description" json:"description"`
	Input          model.CalculationInput `yaml:"input" json:"input"`
	Rules          []RuleSpec             `yaml:"rules" json:"rules"`
	ExpectedRuleID string                 `yaml:"expected_rule_id" json:"expected_rule_id"`
}

// Result is the outcome of running one scenario.
type Result struct {
	Scenario     Scenario `json:"scenario"`
	ActualRuleID string   `json:"actual_rule_id"`
	Passed       bool     `json:"passed"`
}

// hydrate fills a sparse spec into a full candidate rule and recomputes its
// specificity score from the hydrated dimensions.
func hydrate(spec RuleSpec, ordinal int) model.Rule {
	r := model.Rule{
		RuleID:         spec.RuleID,
		Name:           spec.Name,
		Airline:        spec.Airline,
		RouteScope:     spec.RouteScope,
		Provider:       spec.Provider,
		FareType:       spec.FareType,
		Group:          spec.Group,
		FeeType:        spec.FeeType,
		FeeValue:       spec.FeeValue,
		Currency:       spec.Currency,
		ExcludesGroups: spec.ExcludesGroups,
		TripKind:       spec.TripKind,
		PriorityManual: spec.PriorityManual,
		SourceTab:      spec.SourceTab,
		Status:         spec.Status,
	}

	if r.RuleID == "" {
		r.RuleID = fmt.Sprintf("S%d", ordinal+1)
	}
	if r.Airline == "" {
		r.Airline = model.Wildcard
	}
	if r.RouteScope == "" {
		r.RouteScope = model.ScopeAny
	}
	if r.Provider == "" {
		r.Provider = model.ProviderAny
	}
	if r.FareType == "" {
		r.FareType = model.FareAny
	}
	if r.FeeType == "" {
		r.FeeType = model.FeeFixed
	}
	if r.Currency == "" {
		r.Currency = model.CurrencyAny
	}
	if r.ExcludesGroups == nil {
		r.ExcludesGroups = []string{}
	}
	if r.SourceTab == "" {
		r.SourceTab = "FEE v3"
	}
	if r.Status == "" {
		r.Status = model.StatusOK
	}
	r.Priority = engine.Score(r)

	return r
}

// BuildRules hydrates the scenario's sparse rule specs.
func (s Scenario) BuildRules() []model.Rule {
	rules := make([]model.Rule, len(s.Rules))
	for i, spec := range s.Rules {
		rules[i] = hydrate(spec, i)
	}
	return rules
}

// Run evaluates scenarios against the resolver. baseRules, when non-nil, are
// added to every scenario's rule set, letting a loaded catalog be checked
// against the suite.
func Run(scenarios []Scenario, baseRules []model.Rule) []Result {
	results := make([]Result, len(scenarios))
	for i, sc := range scenarios {
		rules := append(append([]model.Rule{}, baseRules...), sc.BuildRules()...)
		resolved := engine.Resolve(rules, sc.Input)

		results[i] = Result{
			Scenario:     sc,
			ActualRuleID: resolved.BestRule.RuleID,
			Passed:       resolved.BestRule.RuleID == sc.ExpectedRuleID,
		}
	}
	return results
}

// LoadFile reads a YAML scenario suite.
func LoadFile(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "scenario: read file")
	}

	var scenarios []Scenario
	if err := yaml.Unmarshal(data, &scenarios); err != nil {
		return nil, eris.Wrap(err, "scenario: parse yaml")
	}
	return scenarios, nil
}
