package forms

import (
	"strings"

	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
)

// EvaluateRule checks a single conditional rule against the current form
// data. Unknown operators never match.
func EvaluateRule(rule columns.Rule, formData map[string]any) bool {
	return Compare(formData[rule.FieldID], rule.Operator, rule.Value)
}

// Compare applies a rule operator to a field value. isEmpty and isNotEmpty
// ignore expected.
func Compare(actual any, operator string, expected any) bool {
	switch operator {
	case types.OpIsEmpty:
		return columns.IsEmptyValue(actual)
	case types.OpIsNotEmpty:
		return !columns.IsEmptyValue(actual)
	case types.OpEquals:
		return equals(actual, expected)
	case types.OpNotEquals:
		return !equals(actual, expected)
	case types.OpContains:
		return contains(actual, expected)
	case types.OpNotContains:
		return !contains(actual, expected)
	case types.OpGreaterThan:
		c, ok := compareOrdered(actual, expected)
		return ok && c > 0
	case types.OpLessThan:
		c, ok := compareOrdered(actual, expected)
		return ok && c < 0
	default:
		return false
	}
}

// ShouldShowField is true when every showWhen rule passes and no hideWhen
// rule does.
func ShouldShowField(col *columns.Column, formData map[string]any) bool {
	rules := col.Rules()
	for _, r := range rules.ShowWhen {
		if !EvaluateRule(r, formData) {
			return false
		}
	}
	for _, r := range rules.HideWhen {
		if EvaluateRule(r, formData) {
			return false
		}
	}
	return true
}

// IsFieldRequired is true for statically required columns, or when the
// column has requiredWhen rules and all of them pass.
func IsFieldRequired(col *columns.Column, formData map[string]any) bool {
	if col.Required {
		return true
	}
	rules := col.Rules()
	if len(rules.RequiredWhen) == 0 {
		return false
	}
	for _, r := range rules.RequiredWhen {
		if !EvaluateRule(r, formData) {
			return false
		}
	}
	return true
}

// VisibleColumns returns the columns a form should currently render, in order.
func VisibleColumns(cols []*columns.Column, formData map[string]any) []*columns.Column {
	out := make([]*columns.Column, 0, len(cols))
	for _, col := range cols {
		if col.IsHidden || !ShouldShowField(col, formData) {
			continue
		}
		out = append(out, col)
	}
	return out
}

// FieldState is the live state of one form field.
type FieldState struct {
	FieldID  string `json:"fieldId"`
	Visible  bool   `json:"visible"`
	Required bool   `json:"required"`
	Editable bool   `json:"editable"`
	Widget   string `json:"widget"`
}

// Evaluate recomputes visibility and required-ness of every column.
func Evaluate(cols []*columns.Column, formData map[string]any) []FieldState {
	out := make([]FieldState, 0, len(cols))
	for _, col := range cols {
		f := columns.FieldFor(col.Type)
		out = append(out, FieldState{
			FieldID:  col.ID,
			Visible:  !col.IsHidden && ShouldShowField(col, formData),
			Required: IsFieldRequired(col, formData),
			Editable: f.Editable(),
			Widget:   f.Widget(),
		})
	}
	return out
}

func equals(actual, expected any) bool {
	if list, ok := asList(actual); ok {
		for _, it := range list {
			if scalarEquals(it, expected) {
				return true
			}
		}
		return false
	}
	return scalarEquals(actual, expected)
}

func scalarEquals(a, b any) bool {
	if a == nil || b == nil {
		return columns.IsEmptyValue(a) && columns.IsEmptyValue(b)
	}
	if fa, ok := columns.AsFloat(a); ok {
		if fb, ok := columns.AsFloat(b); ok {
			return fa == fb
		}
	}
	if ba, ok := a.(bool); ok {
		bb, ok := columns.AsBool(b)
		return ok && ba == bb
	}
	return columns.AsString(a) == columns.AsString(b)
}

func contains(actual, expected any) bool {
	needle := strings.ToLower(columns.AsString(expected))
	if list, ok := asList(actual); ok {
		for _, it := range list {
			if strings.ToLower(columns.AsString(it)) == needle {
				return true
			}
		}
		return false
	}
	if actual == nil {
		return false
	}
	return strings.Contains(strings.ToLower(columns.AsString(actual)), needle)
}

// compareOrdered compares numbers numerically and dates chronologically.
func compareOrdered(a, b any) (int, bool) {
	if fa, ok := columns.AsFloat(a); ok {
		fb, ok := columns.AsFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa > fb:
			return 1, true
		case fa < fb:
			return -1, true
		}
		return 0, true
	}
	ta, ok := columns.ParseDate(columns.AsString(a))
	if !ok {
		return 0, false
	}
	tb, ok := columns.ParseDate(columns.AsString(b))
	if !ok {
		return 0, false
	}
	return ta.Compare(tb), true
}

func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}
