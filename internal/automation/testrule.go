package automation

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/forms"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
)

// TestResult is the outcome of a dry run. Nothing is executed to produce it.
type TestResult struct {
	Success        bool     `json:"success"`
	Errors         []string `json:"errors"`
	TriggerSummary string   `json:"triggerSummary"`
	Previews       []string `json:"previews"`
	// ConditionsMet is set only when a sample item was supplied.
	ConditionsMet *bool `json:"conditionsMet,omitempty"`
}

// TestRule checks that an automation is completely configured and builds a
// human-readable preview of each action. sample, when non-nil, is an item's
// cells (plus "name" and "status") used to evaluate the condition group.
func TestRule(a *Automation, cols []*columns.Column, sample map[string]any) TestResult {
	names := newColumnNames(cols)
	res := TestResult{Errors: []string{}, Previews: []string{}}

	if strings.TrimSpace(a.Name) == "" {
		res.Errors = append(res.Errors, "Automation name is required")
	}

	switch trig, ok := triggers[a.Trigger.Type]; {
	case a.Trigger.Type == "":
		res.Errors = append(res.Errors, "Trigger type is required")
	case !ok:
		res.Errors = append(res.Errors, fmt.Sprintf("Unknown trigger type %q", a.Trigger.Type))
	default:
		res.Errors = append(res.Errors, trig.validate(a.Trigger.Config)...)
		res.TriggerSummary = trig.describe(a.Trigger.Config, names)
	}

	if len(a.Actions) == 0 {
		res.Errors = append(res.Errors, "At least one action is required")
	}
	for i, act := range a.Actions {
		k, ok := actions[act.Type]
		if !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("Action %d: unknown action type %q", i+1, act.Type))
			continue
		}
		for _, msg := range k.validate(act.Config) {
			res.Errors = append(res.Errors, fmt.Sprintf("Action %d: %s", i+1, msg))
		}
		res.Previews = append(res.Previews, fmt.Sprintf("%d. %s", i+1, k.describe(act.Config, names)))
	}

	condErrs := validateConditions(a.Conditions)
	res.Errors = append(res.Errors, condErrs...)
	if sample != nil && len(condErrs) == 0 {
		met := MatchConditions(a.Conditions, sample)
		res.ConditionsMet = &met
	}

	res.Success = len(res.Errors) == 0
	return res
}

func validateConditions(g *ConditionGroup) []string {
	if g == nil {
		return nil
	}
	var errs []string
	if g.Type != "" && g.Type != types.JoinAnd && g.Type != types.JoinOr {
		errs = append(errs, fmt.Sprintf("Condition group type must be %q or %q", types.JoinAnd, types.JoinOr))
	}
	for i, c := range g.Conditions {
		switch {
		case strings.TrimSpace(c.Field) == "":
			errs = append(errs, fmt.Sprintf("Condition %d requires a field", i+1))
		case !types.IsValidOperator(c.Operator):
			errs = append(errs, fmt.Sprintf("Condition %d has an unknown operator %q", i+1, c.Operator))
		case c.Operator != types.OpIsEmpty && c.Operator != types.OpIsNotEmpty && columns.IsEmptyValue(c.Value):
			errs = append(errs, fmt.Sprintf("Condition %d requires a value", i+1))
		}
	}
	return errs
}

// MatchConditions evaluates a condition group against an item's values. An
// absent or empty group always matches.
func MatchConditions(g *ConditionGroup, item map[string]any) bool {
	if g == nil || len(g.Conditions) == 0 {
		return true
	}
	orJoin := g.Type == types.JoinOr
	for _, c := range g.Conditions {
		ok := forms.Compare(item[c.Field], c.Operator, c.Value)
		if orJoin && ok {
			return true
		}
		if !orJoin && !ok {
			return false
		}
	}
	return !orJoin
}

// Previewer produces extra action previews from an external source.
type Previewer interface {
	Preview(ctx context.Context, a *Automation) ([]string, error)
}

// Tester runs TestRule and merges previews from an optional Previewer.
// Previewer failures never fail the test.
type Tester struct {
	previewer Previewer
}

func NewTester(previewer Previewer) *Tester {
	return &Tester{previewer: previewer}
}

func (t *Tester) Test(ctx context.Context, a *Automation, cols []*columns.Column, sample map[string]any) TestResult {
	res := TestRule(a, cols, sample)
	if t == nil || t.previewer == nil || !res.Success {
		return res
	}

	extra, err := t.previewer.Preview(ctx, a)
	if err != nil {
		log.Printf("⚠️ [Automation] Remote preview unavailable: %v", err)
		return res
	}
	seen := make(map[string]bool, len(res.Previews))
	for _, p := range res.Previews {
		seen[p] = true
	}
	for _, p := range extra {
		if p = strings.TrimSpace(p); p != "" && !seen[p] {
			res.Previews = append(res.Previews, p)
			seen[p] = true
		}
	}
	return res
}
