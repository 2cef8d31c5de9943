package engine

import (
	"github.com/faderctl/faderctl/internal/config"
	"github.com/faderctl/faderctl/internal/event"
	"github.com/faderctl/faderctl/internal/logger"
)

// RuleSet holds the configured rules in insertion order. It is mutated only
// by the initial configuration load and by appends the learning session
// makes; rules are never removed at runtime.
type RuleSet struct {
	rules   []config.Rule
	matcher *Matcher
}

// NewRuleSet creates a rule set seeded with the configured rules.
func NewRuleSet(rules []config.Rule) *RuleSet {
	rs := &RuleSet{matcher: NewMatcher()}
	for _, r := range rules {
		rs.Add(r)
	}
	return rs
}

// Add appends a rule and returns its index.
func (rs *RuleSet) Add(rule config.Rule) int {
	rs.rules = append(rs.rules, rule)
	return len(rs.rules) - 1
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// At returns the rule at index i.
func (rs *RuleSet) At(i int) config.Rule {
	return rs.rules[i]
}

// Rules returns the rules in insertion order. The returned slice must not
// be mutated.
func (rs *RuleSet) Rules() []config.Rule {
	return rs.rules
}

// MatchControlEvent returns the indexes of every rule whose control address
// equals the event's, preserving rule-set order. An empty result is a valid
// outcome: no mapping is configured for that control.
func (rs *RuleSet) MatchControlEvent(ev event.ControlEvent) []int {
	var matched []int
	for i, rule := range rs.rules {
		if rule.ControlEvent == ev.Kind &&
			rule.ControlChannel == ev.Channel &&
			rule.ControlNumber == ev.Control {
			matched = append(matched, i)
		}
	}
	return matched
}

// MatchEndpoint returns the first endpoint, in the order supplied by the
// audio subsystem, that satisfies the rule's predicates. The second return
// is false when no endpoint currently satisfies it.
func (rs *RuleSet) MatchEndpoint(rule config.Rule, endpoints []event.Endpoint) (event.Endpoint, bool) {
	for _, ep := range endpoints {
		ok, err := rs.matcher.MatchEndpoint(rule, ep)
		if err != nil {
			logger.Warn().Err(err).Str("rule", rule.Name).Msg("Skipping rule with invalid pattern")
			return event.Endpoint{}, false
		}
		if ok {
			return ep, true
		}
	}
	return event.Endpoint{}, false
}

// MatchRulesForEndpoint returns the indexes of every rule of the same
// endpoint kind whose predicates the concrete endpoint satisfies, in
// rule-set order. One endpoint may feed several physical controls.
func (rs *RuleSet) MatchRulesForEndpoint(kind event.EndpointKind, ep event.Endpoint) []int {
	var matched []int
	for i, rule := range rs.rules {
		if rule.EndpointKind != kind {
			continue
		}
		ok, err := rs.matcher.MatchEndpoint(rule, ep)
		if err != nil {
			logger.Warn().Err(err).Str("rule", rule.Name).Msg("Skipping rule with invalid pattern")
			continue
		}
		if ok {
			matched = append(matched, i)
		}
	}
	return matched
}
