package rules

import (
	"fmt"
	"strings"

	"github.com/pcfixlab/diagrouter/pkg/observability/logging"
)

// Rule maps a keyword condition to a label with a fixed confidence. Keywords
// are AND-combined: every keyword must appear as a case-insensitive substring
// of the normalized input. There is no negative condition and no weighting
// between rules; declaration order is the only priority mechanism, so more
// specific rules must be declared first.
type Rule struct {
	Keywords    []string
	Label       string
	Confidence  float64
	Explanation string
	Related     []string
}

// Match is the outcome of a successful rule match.
type Match struct {
	Label       string
	Confidence  float64
	Explanation string
	Related     []string
}

// preppedRule stores lowercased keywords so matching does no per-call
// normalization work.
type preppedRule struct {
	keywords    []string
	label       string
	confidence  float64
	explanation string
	related     []string
}

// Matcher walks an ordered rule list and returns the first rule whose
// condition is satisfied. It is immutable after construction and safe for
// concurrent use.
type Matcher struct {
	rules []preppedRule
}

// NewMatcher validates and preprocesses the rule list, preserving order.
func NewMatcher(ruleList []Rule) (*Matcher, error) {
	m := &Matcher{rules: make([]preppedRule, 0, len(ruleList))}
	for i, rule := range ruleList {
		if len(rule.Keywords) == 0 {
			return nil, fmt.Errorf("rule %d (%q) has no keywords", i, rule.Label)
		}
		if rule.Label == "" {
			return nil, fmt.Errorf("rule %d has no label", i)
		}
		if rule.Confidence <= 0 || rule.Confidence > 1 {
			return nil, fmt.Errorf("rule %d (%q) confidence must be in (0,1], got %v", i, rule.Label, rule.Confidence)
		}

		prepped := preppedRule{
			keywords:    make([]string, len(rule.Keywords)),
			label:       rule.Label,
			confidence:  rule.Confidence,
			explanation: rule.Explanation,
			related:     rule.Related,
		}
		for j, kw := range rule.Keywords {
			prepped.keywords[j] = strings.ToLower(kw)
		}
		m.rules = append(m.rules, prepped)
	}
	return m, nil
}

// NewDefaultMatcher returns a matcher over the built-in rule table, extended
// by the given rules (evaluated after the built-ins).
func NewDefaultMatcher(extra []Rule) (*Matcher, error) {
	return NewMatcher(append(append([]Rule(nil), builtinRules...), extra...))
}

// Match returns the first rule satisfied by text, or nil when no rule
// matches. Matching is pure: no logging side effects change state, no rule
// state is mutated.
func (m *Matcher) Match(text string) *Match {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return nil
	}

	for _, rule := range m.rules {
		if matchesAll(normalized, rule.keywords) {
			logging.Debugf("Rule matched label %q (confidence=%.2f, keywords=%v)",
				rule.label, rule.confidence, rule.keywords)
			return &Match{
				Label:       rule.label,
				Confidence:  rule.confidence,
				Explanation: rule.explanation,
				Related:     rule.related,
			}
		}
	}
	return nil
}

// Len returns the number of rules in the matcher.
func (m *Matcher) Len() int {
	return len(m.rules)
}

func matchesAll(normalized string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(normalized, kw) {
			return false
		}
	}
	return true
}
