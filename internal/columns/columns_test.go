package columns

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryColumnTypeHasFieldAndMetadata(t *testing.T) {
	require.Len(t, types.AllColumnTypes, 27)
	for _, ct := range types.AllColumnTypes {
		_, ok := fields[ct]
		assert.True(t, ok, "missing field strategy for %s", ct)
		info, ok := Info(ct)
		assert.True(t, ok, "missing metadata for %s", ct)
		assert.NotEmpty(t, info.Label)
		assert.NotNil(t, NewSettings(ct))
	}
}

func TestComputedTypesAreNotEditable(t *testing.T) {
	for _, ct := range []types.ColumnType{types.ColumnFormula, types.ColumnAutoNumber, types.ColumnMirror} {
		assert.False(t, IsEditable(ct), "%s should be read-only", ct)
		assert.Nil(t, FormatCell(&Column{Type: ct}, "anything"))
	}
	assert.True(t, IsEditable(types.ColumnText))
}

func TestDecodeSettings_PicksStructByType(t *testing.T) {
	s, cond := DecodeSettings(types.ColumnDropdown, []byte(`{"options":["A","B"],"conditional":{"hideWhen":[{"fieldId":"status","operator":"equals","value":"draft"}]}}`))
	opts, ok := s.(*OptionSettings)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, opts.Options)
	require.NotNil(t, cond)
	require.Len(t, cond.HideWhen, 1)
	assert.Equal(t, "status", cond.HideWhen[0].FieldID)

	s, _ = DecodeSettings(types.ColumnAutoNumber, []byte(`{"prefix":"INV-","padding":4,"startNumber":100}`))
	auto := s.(*AutoNumberSettings)
	assert.Equal(t, "INV-", auto.Prefix)
	assert.Equal(t, 100, auto.StartNumber)
	assert.Equal(t, ResetNever, auto.ResetOn)
}

func TestDecodeSettings_MalformedFallsBackToDefaults(t *testing.T) {
	s, cond := DecodeSettings(types.ColumnRating, []byte(`{"max": "lots"`))
	assert.Nil(t, cond)
	assert.Equal(t, &RatingSettings{Max: DefaultRatingMax}, s)

	s, _ = DecodeSettings(types.ColumnCurrency, nil)
	assert.Equal(t, "USD", s.(*CurrencySettings).Currency)
}

func TestStatusOptions_AcceptStringsAndObjects(t *testing.T) {
	s, _ := DecodeSettings(types.ColumnStatus, []byte(`{"options":["Todo",{"label":"Done","color":"#00c875"}]}`))
	status := s.(*StatusSettings)
	assert.Equal(t, []string{"Todo", "Done"}, status.Labels())
	assert.Equal(t, "#00c875", status.Options[1].Color)
}

func TestColumnJSONRoundTrip(t *testing.T) {
	col := Column{
		ID:       "c1",
		BoardID:  "b1",
		Name:     "Priority",
		Type:     types.ColumnDropdown,
		Required: true,
		Settings: &OptionSettings{Options: []string{"Low", "High"}},
		Conditional: &Conditional{
			ShowWhen: []Rule{{FieldID: "kind", Operator: types.OpEquals, Value: "bug"}},
		},
	}
	b, err := json.Marshal(col)
	require.NoError(t, err)

	var back Column
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, col.Name, back.Name)
	assert.Equal(t, []string{"Low", "High"}, back.Settings.(*OptionSettings).Options)
	require.NotNil(t, back.Conditional)
	assert.Equal(t, "kind", back.Conditional.ShowWhen[0].FieldID)
}

func TestMigrationWarning(t *testing.T) {
	assert.NotEmpty(t, MigrationWarning(types.ColumnText, types.ColumnNumber))
	assert.NotEmpty(t, MigrationWarning(types.ColumnMultiSelect, types.ColumnDropdown))
	assert.NotEmpty(t, MigrationWarning(types.ColumnNumber, types.ColumnFormula))
	assert.Empty(t, MigrationWarning(types.ColumnNumber, types.ColumnText))
	assert.Empty(t, MigrationWarning(types.ColumnDropdown, types.ColumnMultiSelect))
	assert.Empty(t, MigrationWarning(types.ColumnDate, types.ColumnDate))
}

func TestTimeline_MalformedJSONDegradesToEmpty(t *testing.T) {
	col := &Column{Type: types.ColumnTimeline}
	assert.Equal(t, Timeline{}, ParseCell(col, `{"start": "2024-01-01"`))
	assert.Equal(t, Timeline{Start: "2024-01-01", End: "2024-01-31"},
		ParseCell(col, `{"start":"2024-01-01","end":"2024-01-31"}`))
	assert.Equal(t, Timeline{Start: "2024-02-01", End: "2024-02-02"},
		ParseCell(col, map[string]any{"start": "2024-02-01", "end": "2024-02-02"}))
	assert.Nil(t, FormatCell(col, "not json"))
}

func TestWeek_ISOStringAndDateConversions(t *testing.T) {
	col := &Column{Type: types.ColumnWeek}
	assert.Equal(t, "2024-01-29", ParseCell(col, "2024-W05"))
	assert.Equal(t, "2024-W05", FormatCell(col, "2024-01-31"))
	assert.Equal(t, "2024-W05", FormatCell(col, "2024-W05"))
	assert.Nil(t, FormatCell(col, "week five"))

	monday, ok := WeekStart("2021-W01")
	require.True(t, ok)
	assert.Equal(t, time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC), monday)
	_, ok = WeekStart("2021-W53")
	assert.False(t, ok)
}

func TestRatingAndPercentageDisplayClamps(t *testing.T) {
	rating := &Column{Type: types.ColumnRating}
	assert.Equal(t, 5, ParseCell(rating, 9))
	assert.Equal(t, 0, ParseCell(rating, -2))
	assert.Equal(t, 3, ParseCell(rating, "3"))

	pct := &Column{Type: types.ColumnPercentage}
	assert.Equal(t, 100.0, ParseCell(pct, 140))
	assert.Equal(t, 0.0, ParseCell(pct, -1))
}

func TestCurrencyFormatRoundsToDecimals(t *testing.T) {
	col := &Column{Type: types.ColumnCurrency, Settings: &CurrencySettings{Currency: "EUR", Decimals: 2}}
	assert.Equal(t, 10.13, FormatCell(col, "10.129"))
	assert.Equal(t, "10.50 EUR", DisplayCell(col, 10.5))
}

func TestMultiSelectPreservesOrder(t *testing.T) {
	col := &Column{Type: types.ColumnMultiSelect}
	assert.Equal(t, []string{"c", "a", "b"}, FormatCell(col, []any{"c", "a", "b"}))
	assert.Equal(t, []string{"x", "y"}, ParseCell(col, `["x","y"]`))
	assert.Nil(t, FormatCell(col, []any{}))
}

func TestFormatAutoNumber(t *testing.T) {
	now := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	s := &AutoNumberSettings{Prefix: "INV-", Padding: 4}
	assert.Equal(t, "INV-0042", FormatAutoNumber(s, 42, now))

	s = &AutoNumberSettings{Format: "{year}{month}-{number}", Padding: 3}
	assert.Equal(t, "202503-007", FormatAutoNumber(s, 7, now))
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2025, 3, 9, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), PeriodStart(ResetDaily, now))
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), PeriodStart(ResetMonthly, now))
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), PeriodStart(ResetYearly, now))
	assert.True(t, PeriodStart(ResetNever, now).IsZero())
}

func TestIsEmptyValue(t *testing.T) {
	assert.True(t, IsEmptyValue(nil))
	assert.True(t, IsEmptyValue("  "))
	assert.True(t, IsEmptyValue([]any{}))
	assert.True(t, IsEmptyValue([]string{}))
	assert.True(t, IsEmptyValue(Timeline{}))
	assert.False(t, IsEmptyValue(0.0))
	assert.False(t, IsEmptyValue(false))
	assert.False(t, IsEmptyValue("x"))
}
