package forms

import (
	"testing"

	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestEvaluateRule_EmptinessIgnoresValue(t *testing.T) {
	data := map[string]any{"filled": "x", "blank": "", "list": []any{}}
	for _, value := range []any{nil, "", "x", 42, []any{"x"}} {
		assert.True(t, EvaluateRule(columns.Rule{FieldID: "blank", Operator: types.OpIsEmpty, Value: value}, data))
		assert.True(t, EvaluateRule(columns.Rule{FieldID: "missing", Operator: types.OpIsEmpty, Value: value}, data))
		assert.True(t, EvaluateRule(columns.Rule{FieldID: "list", Operator: types.OpIsEmpty, Value: value}, data))
		assert.False(t, EvaluateRule(columns.Rule{FieldID: "filled", Operator: types.OpIsEmpty, Value: value}, data))
		assert.True(t, EvaluateRule(columns.Rule{FieldID: "filled", Operator: types.OpIsNotEmpty, Value: value}, data))
	}
}

func TestEvaluateRule_Operators(t *testing.T) {
	data := map[string]any{
		"status":   "Draft",
		"amount":   "12.5",
		"tags":     []any{"urgent", "backend"},
		"due":      "2024-05-10",
		"archived": false,
	}
	cases := []struct {
		name string
		rule columns.Rule
		want bool
	}{
		{"equals string", columns.Rule{FieldID: "status", Operator: types.OpEquals, Value: "Draft"}, true},
		{"equals is case sensitive", columns.Rule{FieldID: "status", Operator: types.OpEquals, Value: "draft"}, false},
		{"notEquals", columns.Rule{FieldID: "status", Operator: types.OpNotEquals, Value: "Done"}, true},
		{"equals numeric string", columns.Rule{FieldID: "amount", Operator: types.OpEquals, Value: 12.5}, true},
		{"equals bool", columns.Rule{FieldID: "archived", Operator: types.OpEquals, Value: "false"}, true},
		{"contains substring", columns.Rule{FieldID: "status", Operator: types.OpContains, Value: "raf"}, true},
		{"contains list element", columns.Rule{FieldID: "tags", Operator: types.OpContains, Value: "Urgent"}, true},
		{"notContains list", columns.Rule{FieldID: "tags", Operator: types.OpNotContains, Value: "frontend"}, true},
		{"greaterThan number", columns.Rule{FieldID: "amount", Operator: types.OpGreaterThan, Value: 10}, true},
		{"lessThan number", columns.Rule{FieldID: "amount", Operator: types.OpLessThan, Value: 10}, false},
		{"greaterThan date", columns.Rule{FieldID: "due", Operator: types.OpGreaterThan, Value: "2024-05-01"}, true},
		{"lessThan on text", columns.Rule{FieldID: "status", Operator: types.OpLessThan, Value: 3}, false},
		{"unknown operator", columns.Rule{FieldID: "status", Operator: "startsWith", Value: "D"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EvaluateRule(tc.rule, data))
		})
	}
}

func TestShouldShowField_HideWhenDraft(t *testing.T) {
	col := &columns.Column{
		ID:   "notes",
		Name: "Notes",
		Type: types.ColumnText,
		Conditional: &columns.Conditional{
			HideWhen: []columns.Rule{{FieldID: "status", Operator: types.OpEquals, Value: "draft"}},
		},
	}
	assert.False(t, ShouldShowField(col, map[string]any{"status": "draft"}))
	assert.True(t, ShouldShowField(col, map[string]any{"status": "published"}))
	assert.True(t, ShouldShowField(col, map[string]any{}))
}

func TestShouldShowField_AllShowWhenMustPass(t *testing.T) {
	col := &columns.Column{
		ID:   "reason",
		Type: types.ColumnText,
		Conditional: &columns.Conditional{
			ShowWhen: []columns.Rule{
				{FieldID: "kind", Operator: types.OpEquals, Value: "bug"},
				{FieldID: "severity", Operator: types.OpIsNotEmpty},
			},
		},
	}
	assert.False(t, ShouldShowField(col, map[string]any{"kind": "bug"}))
	assert.True(t, ShouldShowField(col, map[string]any{"kind": "bug", "severity": "high"}))
}

func TestIsFieldRequired(t *testing.T) {
	col := &columns.Column{
		ID:   "approver",
		Type: types.ColumnPeople,
		Conditional: &columns.Conditional{
			RequiredWhen: []columns.Rule{{FieldID: "amount", Operator: types.OpGreaterThan, Value: 1000}},
		},
	}
	assert.False(t, IsFieldRequired(col, map[string]any{"amount": 10}))
	assert.True(t, IsFieldRequired(col, map[string]any{"amount": 5000}))

	col.Required = true
	assert.True(t, IsFieldRequired(col, map[string]any{"amount": 10}))
	assert.False(t, IsFieldRequired(&columns.Column{Type: types.ColumnText}, nil))
}

func TestValidateForm_RequiredDropdownWithEmptyString(t *testing.T) {
	col := &columns.Column{
		ID:       "priority",
		Name:     "Priority",
		Type:     types.ColumnDropdown,
		Required: true,
		Settings: &columns.OptionSettings{Options: []string{"A", "B"}},
	}
	res := ValidateForm([]*columns.Column{col}, map[string]any{"priority": ""})
	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, FieldError{FieldID: "priority", FieldName: "Priority", Message: "Priority is required"}, res.Errors[0])
}

func TestValidateForm_RequiredEmptyValuesYieldOneError(t *testing.T) {
	empties := map[types.ColumnType][]any{
		types.ColumnText:        {nil, "", "   "},
		types.ColumnMultiSelect: {nil, []any{}, []string{}},
		types.ColumnEmail:       {nil, ""},
		types.ColumnCheckbox:    {nil, false, "false"},
		types.ColumnTimeline:    {nil, `{"start":`, map[string]any{}},
		types.ColumnNumber:      {nil, ""},
	}
	for ct, values := range empties {
		col := &columns.Column{ID: "f", Name: "Field", Type: ct, Required: true, Settings: &columns.TextSettings{MinLength: intPtr(3)}}
		for _, v := range values {
			res := ValidateForm([]*columns.Column{col}, map[string]any{"f": v})
			assert.False(t, res.IsValid, "%s %#v", ct, v)
			require.Len(t, res.Errors, 1, "%s %#v", ct, v)
			assert.Equal(t, "Field is required", res.Errors[0].Message)
		}
	}
}

func TestValidateForm_OptionalEmptySkipsTypeRules(t *testing.T) {
	col := &columns.Column{ID: "email", Name: "Email", Type: types.ColumnEmail}
	res := ValidateForm([]*columns.Column{col}, map[string]any{})
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
}

func TestValidateForm_PercentageBounds(t *testing.T) {
	col := &columns.Column{ID: "p", Name: "Done", Type: types.ColumnPercentage}
	for _, v := range []any{-1, 100.5, "101"} {
		res := ValidateForm([]*columns.Column{col}, map[string]any{"p": v})
		require.Len(t, res.Errors, 1, "%v", v)
		assert.Equal(t, "Done must be between 0 and 100", res.Errors[0].Message)
	}
	for _, v := range []any{0, 50, 100} {
		assert.True(t, ValidateForm([]*columns.Column{col}, map[string]any{"p": v}).IsValid, "%v", v)
	}
}

func TestValidateForm_TypeRules(t *testing.T) {
	cases := []struct {
		name  string
		col   *columns.Column
		value any
		msg   string
	}{
		{"email", &columns.Column{Name: "Email", Type: types.ColumnEmail}, "nope", "Email must be a valid email address"},
		{"phone", &columns.Column{Name: "Phone", Type: types.ColumnPhone}, "call me", "Phone must be a valid phone number"},
		{"link", &columns.Column{Name: "Site", Type: types.ColumnLink}, "example.com", "Site must be a valid URL"},
		{"min length", &columns.Column{Name: "Code", Type: types.ColumnText, Settings: &columns.TextSettings{MinLength: intPtr(3)}}, "ab", "Code must be at least 3 characters"},
		{"max length", &columns.Column{Name: "Code", Type: types.ColumnText, Settings: &columns.TextSettings{MaxLength: intPtr(2)}}, "abc", "Code must be at most 2 characters"},
		{"pattern message", &columns.Column{Name: "SKU", Type: types.ColumnText, Settings: &columns.TextSettings{Pattern: `^[A-Z]{3}-\d+$`, PatternMessage: "Use ABC-123"}}, "abc", "Use ABC-123"},
		{"number", &columns.Column{Name: "Qty", Type: types.ColumnNumber}, "many", "Qty must be a number"},
		{"number max", &columns.Column{Name: "Qty", Type: types.ColumnNumber, Settings: &columns.NumberSettings{Max: floatPtr(10)}}, 11, "Qty must be at most 10"},
		{"currency min", &columns.Column{Name: "Budget", Type: types.ColumnCurrency, Settings: &columns.CurrencySettings{Currency: "USD", Min: floatPtr(0.1)}}, "0.09", "Budget must be at least 0.1"},
		{"rating", &columns.Column{Name: "Score", Type: types.ColumnRating}, 6, "Score must be a whole number between 1 and 5"},
		{"dropdown", &columns.Column{Name: "Size", Type: types.ColumnDropdown, Settings: &columns.OptionSettings{Options: []string{"S", "M"}}}, "XL", "Size must be one of the available options"},
		{"status", &columns.Column{Name: "State", Type: types.ColumnStatus, Settings: &columns.StatusSettings{Options: []columns.StatusOption{{Label: "Todo"}}}}, "Done", "State must be one of the available statuses"},
		{"multi select max", &columns.Column{Name: "Tags", Type: types.ColumnMultiSelect, Settings: &columns.OptionSettings{Options: []string{"a", "b"}, MaxSelections: 1}}, []any{"a", "b"}, "Tags allows at most 1 selections"},
		{"date", &columns.Column{Name: "Due", Type: types.ColumnDate}, "tomorrow", "Due must be a valid date"},
		{"date min", &columns.Column{Name: "Due", Type: types.ColumnDate, Settings: &columns.DateSettings{MinDate: "2024-01-01"}}, "2023-12-31", "Due must be on or after 2024-01-01"},
		{"timeline order", &columns.Column{Name: "Span", Type: types.ColumnTimeline}, map[string]any{"start": "2024-02-01", "end": "2024-01-01"}, "Span end date must be on or after the start date"},
		{"week", &columns.Column{Name: "Sprint", Type: types.ColumnWeek}, "2024-W60", "Sprint must be a valid week"},
		{"people single", &columns.Column{Name: "Owner", Type: types.ColumnPeople, Settings: &columns.PeopleSettings{}}, []any{"u1", "u2"}, "Owner allows only one person"},
		{"files", &columns.Column{Name: "Docs", Type: types.ColumnFile, Settings: &columns.FileSettings{MaxFiles: 1}}, []any{"a", "b"}, "Docs allows at most 1 files"},
		{"location", &columns.Column{Name: "Site", Type: types.ColumnLocation}, map[string]any{"lat": 91.0, "lng": 0.0}, "Site has an invalid latitude"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.col.ID = "f"
			res := ValidateForm([]*columns.Column{tc.col}, map[string]any{"f": tc.value})
			require.Len(t, res.Errors, 1)
			assert.Equal(t, tc.msg, res.Errors[0].Message)
		})
	}
}

func TestValidateForm_SkipsHiddenAndComputedColumns(t *testing.T) {
	cols := []*columns.Column{
		{ID: "secret", Name: "Secret", Type: types.ColumnText, Required: true, IsHidden: true},
		{ID: "num", Name: "Number", Type: types.ColumnAutoNumber, Required: true},
		{
			ID: "notes", Name: "Notes", Type: types.ColumnText, Required: true,
			Conditional: &columns.Conditional{HideWhen: []columns.Rule{{FieldID: "status", Operator: types.OpEquals, Value: "draft"}}},
		},
	}
	res := ValidateForm(cols, map[string]any{"status": "draft"})
	assert.True(t, res.IsValid)

	res = ValidateForm(cols, map[string]any{"status": "final"})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "notes", res.Errors[0].FieldID)
}

func TestValidateForm_RequiredValueThatFormatsEmpty(t *testing.T) {
	cols := []*columns.Column{
		{ID: "tags", Name: "Tags", Type: types.ColumnMultiSelect, Required: true},
		{ID: "team", Name: "Team", Type: types.ColumnPeople, Required: true, Settings: &columns.PeopleSettings{AllowMultiple: true}},
		{ID: "site", Name: "Site", Type: types.ColumnLocation, Required: true},
	}
	res := ValidateForm(cols, map[string]any{
		"tags": " , ",
		"team": "[1,2]",
		"site": map[string]any{"foo": 1},
	})
	require.Len(t, res.Errors, 3)
	assert.Equal(t, "Tags is required", res.Errors[0].Message)
	assert.Equal(t, "Team is required", res.Errors[1].Message)
	assert.Equal(t, "Site is required", res.Errors[2].Message)

	for _, col := range cols {
		col.Required = false
	}
	assert.True(t, ValidateForm(cols, map[string]any{"tags": " , ", "site": map[string]any{"foo": 1}}).IsValid)
	assert.Empty(t, BuildCells(cols, map[string]any{"tags": " , ", "site": map[string]any{"foo": 1}})["tags"])
}

func TestValidateForm_HiddenColumnsStillTypeChecked(t *testing.T) {
	cols := []*columns.Column{
		{ID: "stage", Name: "Stage", Type: types.ColumnText},
		{ID: "score", Name: "Score", Type: types.ColumnPercentage, IsHidden: true},
		{
			ID: "pick", Name: "Pick", Type: types.ColumnDropdown, Required: true,
			Settings:    &columns.OptionSettings{Options: []string{"A", "B"}},
			Conditional: &columns.Conditional{HideWhen: []columns.Rule{{FieldID: "stage", Operator: types.OpEquals, Value: "draft"}}},
		},
	}

	res := ValidateForm(cols, map[string]any{"stage": "draft", "score": 500, "pick": "ZZZ"})
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "Score must be between 0 and 100", res.Errors[0].Message)
	assert.Equal(t, "Pick must be one of the available options", res.Errors[1].Message)

	// Hidden columns skip the required check but accept valid values.
	assert.True(t, ValidateForm(cols, map[string]any{"stage": "draft", "score": 40}).IsValid)
}

func TestValidateChanged_OnlyChecksChangedColumns(t *testing.T) {
	cols := []*columns.Column{
		{ID: "title", Name: "Title", Type: types.ColumnText, Required: true},
		{ID: "score", Name: "Score", Type: types.ColumnPercentage, IsHidden: true},
	}
	formData := map[string]any{"score": 500}

	res := ValidateChanged(cols, formData, map[string]any{"score": 500})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "score", res.Errors[0].FieldID)

	assert.True(t, ValidateChanged(cols, map[string]any{"title": "x"}, map[string]any{"title": "x"}).IsValid)
	assert.True(t, ValidateChanged(cols, formData, nil).IsValid)
}

func TestValidateForm_FilesAcceptJSONString(t *testing.T) {
	col := &columns.Column{ID: "docs", Name: "Docs", Type: types.ColumnFile, Settings: &columns.FileSettings{MaxFiles: 1}}
	cols := []*columns.Column{col}

	assert.True(t, ValidateForm(cols, map[string]any{"docs": `["a.pdf"]`}).IsValid)

	res := ValidateForm(cols, map[string]any{"docs": `["a.pdf","b.pdf"]`})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Docs allows at most 1 files", res.Errors[0].Message)

	res = ValidateForm(cols, map[string]any{"docs": "a.pdf"})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Docs must be a list of files", res.Errors[0].Message)
}

func TestBuildCells_DropsComputedAndFormats(t *testing.T) {
	cols := []*columns.Column{
		{ID: "title", Type: types.ColumnText},
		{ID: "num", Type: types.ColumnAutoNumber},
		{ID: "week", Type: types.ColumnWeek},
		{ID: "done", Type: types.ColumnCheckbox},
	}
	cells := BuildCells(cols, map[string]any{
		"title":   "  Ship it ",
		"num":     "INV-9",
		"week":    "2024-01-31",
		"done":    "true",
		"unknown": 1,
	})
	assert.Equal(t, map[string]any{"title": "Ship it", "week": "2024-W05", "done": true}, cells)
}

func TestApplyDefaultsAndMerge(t *testing.T) {
	cols := []*columns.Column{
		{ID: "status", Type: types.ColumnStatus, DefaultValue: "Todo"},
		{ID: "title", Type: types.ColumnText},
	}
	data := ApplyDefaults(cols, map[string]any{"title": "x"})
	assert.Equal(t, "Todo", data["status"])

	merged := MergeCells(map[string]any{"a": 1, "b": 2}, map[string]any{"b": nil, "c": 3})
	assert.Equal(t, map[string]any{"a": 1, "c": 3}, merged)
}

func TestColumnForm_MultiSelectDefaultRoundTrip(t *testing.T) {
	col := &columns.Column{
		ID:           "c1",
		Name:         "Labels",
		Type:         types.ColumnMultiSelect,
		Settings:     &columns.OptionSettings{Options: []string{"c", "a", "b"}},
		DefaultValue: []any{"b", "c", "a"},
	}
	values := ToFormValues(col)
	assert.Equal(t, []string{"b", "c", "a"}, values.DefaultValue)

	payload, err := FromFormValues(values)
	require.NoError(t, err)
	reloaded := &columns.Column{ID: "c1"}
	payload.Apply(reloaded)

	again := ToFormValues(reloaded)
	assert.Equal(t, values.DefaultValue, again.DefaultValue)
	assert.Equal(t, []string{"c", "a", "b"}, reloaded.Settings.(*columns.OptionSettings).Options)
}

func TestColumnForm_ConditionalSurvivesRoundTrip(t *testing.T) {
	values := DefaultsForType(types.ColumnText)
	values.Name = "Reason"
	values.Conditional = &columns.Conditional{
		RequiredWhen: []columns.Rule{{FieldID: "status", Operator: types.OpEquals, Value: "blocked"}},
	}
	payload, err := FromFormValues(values)
	require.NoError(t, err)
	require.NotNil(t, payload.Conditional)
	assert.Len(t, payload.Conditional.RequiredWhen, 1)
	assert.Equal(t, DefaultColumnWidth, payload.Width)
}

func TestColumnForm_Errors(t *testing.T) {
	_, err := FromFormValues(ColumnFormValues{Type: types.ColumnText})
	assert.ErrorIs(t, err, ErrColumnNameRequired)

	_, err = FromFormValues(ColumnFormValues{Name: "x", Type: "SPREADSHEET"})
	assert.ErrorIs(t, err, ErrUnknownColumnType)
}

func TestPreviewTypeChange(t *testing.T) {
	col := &columns.Column{Type: types.ColumnDropdown, Settings: &columns.OptionSettings{Options: []string{"A"}}}

	tc := PreviewTypeChange(col, types.ColumnMultiSelect)
	assert.False(t, tc.Lossy)
	assert.Equal(t, []any{"A"}, tc.Settings["options"])

	tc = PreviewTypeChange(&columns.Column{Type: types.ColumnText}, types.ColumnNumber)
	assert.True(t, tc.Lossy)
	assert.Equal(t, "Text values that are not numbers will be cleared", tc.Warning)
}

func TestEvaluate_ReportsFieldState(t *testing.T) {
	cols := []*columns.Column{
		{ID: "a", Type: types.ColumnText, Required: true},
		{ID: "b", Type: types.ColumnFormula},
	}
	states := Evaluate(cols, nil)
	require.Len(t, states, 2)
	assert.True(t, states[0].Visible)
	assert.True(t, states[0].Required)
	assert.False(t, states[1].Editable)
	assert.Equal(t, "formula", states[1].Widget)
}
