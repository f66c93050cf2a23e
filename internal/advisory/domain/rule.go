package advisory

import (
	"errors"
	"fmt"
)

// Rule maps a score range to a classification outcome. A rule matches when
// the score is strictly below its upper bound.
type Rule struct {
	UpperBound float64
	Level      Level
	Severity   Severity
	Message    string
}

// RuleTable is an ordered threshold policy, ascending by upper bound. The
// last rule doubles as the open-ended fallback on the high side.
type RuleTable []Rule

// Validate checks table invariants.
func (t RuleTable) Validate() error {
	if len(t) == 0 {
		return errors.New("advisory: empty rule table")
	}
	for i, rule := range t {
		if rule.Level == "" {
			return fmt.Errorf("advisory: rule %d: empty level", i)
		}
		if rule.Message == "" {
			return fmt.Errorf("advisory: rule %d: empty message", i)
		}
		if rule.Severity.Rank() == 0 {
			return fmt.Errorf("advisory: rule %d: unknown severity %q", i, rule.Severity)
		}
		if i > 0 && rule.UpperBound <= t[i-1].UpperBound {
			return fmt.Errorf("advisory: rule %d: upper bound %v not ascending", i, rule.UpperBound)
		}
	}
	return nil
}

// Evaluate returns the first rule whose upper bound exceeds the score.
// A score at or beyond every bound falls back to the last, most severe rule.
// The comparison is strictly less-than: a score exactly on a boundary belongs
// to the next bucket up.
func Evaluate(score float64, table RuleTable) Result {
	if len(table) == 0 {
		return Result{}
	}
	for _, rule := range table {
		if score < rule.UpperBound {
			return Result{Level: rule.Level, Severity: rule.Severity, Message: rule.Message}
		}
	}
	last := table[len(table)-1]
	return Result{Level: last.Level, Severity: last.Severity, Message: last.Message}
}
