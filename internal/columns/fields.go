package columns

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02"
)

// Field is the per-type strategy for moving a cell between its stored form,
// the value an input widget edits, and the text shown in exports.
type Field interface {
	Widget() string
	Editable() bool
	// Parse turns a stored (or submitted) value into the widget value.
	Parse(col *Column, raw any) any
	// Format turns a widget value into the value stored in the cell.
	Format(col *Column, v any) any
	// Display renders the stored value as plain text.
	Display(col *Column, v any) string
}

type field struct {
	widget   string
	editable bool
	parse    func(col *Column, raw any) any
	format   func(col *Column, v any) any
	display  func(col *Column, v any) string
}

func (f field) Widget() string { return f.widget }
func (f field) Editable() bool { return f.editable }

func (f field) Parse(col *Column, raw any) any {
	if f.parse == nil {
		return raw
	}
	return f.parse(col, raw)
}

func (f field) Format(col *Column, v any) any {
	if !f.editable {
		return nil
	}
	if f.format == nil {
		return v
	}
	return f.format(col, v)
}

func (f field) Display(col *Column, v any) string {
	if v == nil {
		return ""
	}
	if f.display == nil {
		return AsString(v)
	}
	return f.display(col, v)
}

// fields is the dispatch table from column type to strategy. Every entry of
// types.AllColumnTypes must be present.
var fields = map[types.ColumnType]Field{
	types.ColumnText:        field{widget: "text", editable: true, parse: parseString, format: formatString},
	types.ColumnLongText:    field{widget: "textarea", editable: true, parse: parseString, format: formatString},
	types.ColumnNumber:      field{widget: "number", editable: true, parse: parseNumber, format: formatNumber, display: displayNumber},
	types.ColumnCurrency:    field{widget: "currency", editable: true, parse: parseNumber, format: formatCurrency, display: displayCurrency},
	types.ColumnPercentage:  field{widget: "percentage", editable: true, parse: parsePercentage, format: formatNumber, display: displayPercentage},
	types.ColumnRating:      field{widget: "rating", editable: true, parse: parseRating, format: formatRating},
	types.ColumnStatus:      field{widget: "status", editable: true, parse: parseString, format: formatString},
	types.ColumnDropdown:    field{widget: "select", editable: true, parse: parseString, format: formatString},
	types.ColumnMultiSelect: field{widget: "multi-select", editable: true, parse: parseList, format: formatList, display: displayList},
	types.ColumnTags:        field{widget: "tags", editable: true, parse: parseList, format: formatList, display: displayList},
	types.ColumnCheckbox:    field{widget: "checkbox", editable: true, parse: parseBool, format: parseBool},
	types.ColumnDate:        field{widget: "date", editable: true, parse: parseDate, format: parseDate},
	types.ColumnDateTime:    field{widget: "datetime", editable: true, parse: parseDateTime, format: parseDateTime},
	types.ColumnTimeline:    field{widget: "date-range", editable: true, parse: parseTimeline, format: formatTimeline, display: displayTimeline},
	types.ColumnWeek:        field{widget: "week", editable: true, parse: parseWeek, format: formatWeek},
	types.ColumnPeople:      field{widget: "people", editable: true, parse: parseList, format: formatList, display: displayList},
	types.ColumnEmail:       field{widget: "email", editable: true, parse: parseString, format: formatString},
	types.ColumnPhone:       field{widget: "phone", editable: true, parse: parseString, format: formatString},
	types.ColumnLink:        field{widget: "url", editable: true, parse: parseString, format: formatString},
	types.ColumnFile:        field{widget: "file", editable: true, parse: parseFiles, format: parseFiles, display: displayFiles},
	types.ColumnLocation:    field{widget: "location", editable: true, parse: parseLocation, format: formatLocation, display: displayLocation},
	types.ColumnFormula:     field{widget: "formula"},
	types.ColumnMirror:      field{widget: "mirror"},
	types.ColumnAutoNumber:  field{widget: "auto-number"},
	types.ColumnProgress:    field{widget: "progress", display: displayPercentage},
	types.ColumnCreatedAt:   field{widget: "readonly-datetime"},
	types.ColumnUpdatedAt:   field{widget: "readonly-datetime"},
}

var readOnlyField = field{widget: "readonly"}

// FieldFor returns the strategy for a column type. Unknown types are rendered
// read-only.
func FieldFor(t types.ColumnType) Field {
	if f, ok := fields[t]; ok {
		return f
	}
	return readOnlyField
}

// ParseCell is FieldFor(col.Type).Parse(col, raw).
func ParseCell(col *Column, raw any) any {
	return FieldFor(col.Type).Parse(col, raw)
}

// FormatCell is FieldFor(col.Type).Format(col, v).
func FormatCell(col *Column, v any) any {
	return FieldFor(col.Type).Format(col, v)
}

// DisplayCell is FieldFor(col.Type).Display(col, v).
func DisplayCell(col *Column, v any) string {
	return FieldFor(col.Type).Display(col, v)
}

// ============================================
// Scalars
// ============================================

func parseString(_ *Column, raw any) any {
	if raw == nil {
		return ""
	}
	return AsString(raw)
}

func formatString(_ *Column, v any) any {
	s := strings.TrimSpace(AsString(v))
	if s == "" {
		return nil
	}
	return s
}

func parseNumber(_ *Column, raw any) any {
	f, ok := AsFloat(raw)
	if !ok {
		return nil
	}
	return f
}

func formatNumber(_ *Column, v any) any {
	f, ok := AsFloat(v)
	if !ok {
		return nil
	}
	return f
}

func displayNumber(col *Column, v any) string {
	f, ok := AsFloat(v)
	if !ok {
		return AsString(v)
	}
	s, _ := col.TypedSettings().(*NumberSettings)
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if s != nil {
		if s.Decimals > 0 {
			out = strconv.FormatFloat(f, 'f', s.Decimals, 64)
		}
		out = s.Prefix + out + s.Suffix
		if s.Unit != "" {
			out += " " + s.Unit
		}
	}
	return out
}

func formatCurrency(col *Column, v any) any {
	f, ok := AsFloat(v)
	if !ok {
		return nil
	}
	s, _ := col.TypedSettings().(*CurrencySettings)
	places := int32(2)
	if s != nil {
		places = int32(s.Decimals)
	}
	rounded, _ := decimal.NewFromFloat(f).Round(places).Float64()
	return rounded
}

func displayCurrency(col *Column, v any) string {
	f, ok := AsFloat(v)
	if !ok {
		return AsString(v)
	}
	s, _ := col.TypedSettings().(*CurrencySettings)
	if s == nil {
		s = &CurrencySettings{Currency: "USD", Decimals: 2}
	}
	return decimal.NewFromFloat(f).StringFixed(int32(s.Decimals)) + " " + s.Currency
}

func parsePercentage(_ *Column, raw any) any {
	f, ok := AsFloat(raw)
	if !ok {
		return nil
	}
	return math.Min(100, math.Max(0, f))
}

func displayPercentage(_ *Column, v any) string {
	f, ok := AsFloat(v)
	if !ok {
		return AsString(v)
	}
	return strconv.FormatFloat(f, 'f', -1, 64) + "%"
}

// RatingMax returns the rating scale of a column.
func RatingMax(col *Column) int {
	if s, ok := col.TypedSettings().(*RatingSettings); ok && s.Max > 0 {
		return s.Max
	}
	return DefaultRatingMax
}

func parseRating(col *Column, raw any) any {
	f, ok := AsFloat(raw)
	if !ok {
		return 0
	}
	n := int(math.Round(f))
	if n < 0 {
		return 0
	}
	if limit := RatingMax(col); n > limit {
		return limit
	}
	return n
}

func formatRating(_ *Column, v any) any {
	f, ok := AsFloat(v)
	if !ok || f == 0 {
		return nil
	}
	return int(math.Round(f))
}

func parseBool(_ *Column, raw any) any {
	b, _ := AsBool(raw)
	return b
}

func parseList(_ *Column, raw any) any {
	out := AsStringSlice(raw)
	if out == nil {
		return []string{}
	}
	return out
}

func formatList(_ *Column, v any) any {
	out := AsStringSlice(v)
	if len(out) == 0 {
		return nil
	}
	return out
}

func displayList(_ *Column, v any) string {
	return strings.Join(AsStringSlice(v), ", ")
}

// ============================================
// Dates
// ============================================

// ParseDate accepts YYYY-MM-DD and RFC3339 values.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func parseDate(_ *Column, raw any) any {
	t, ok := ParseDate(AsString(raw))
	if !ok {
		return nil
	}
	return t.Format(DateLayout)
}

func parseDateTime(_ *Column, raw any) any {
	t, ok := ParseDate(AsString(raw))
	if !ok {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// Timeline is a {start, end} date pair.
type Timeline struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (t Timeline) IsZero() bool {
	return t.Start == "" && t.End == ""
}

// ParseTimeline accepts a map, a Timeline or a JSON string. Anything
// malformed yields an empty timeline.
func ParseTimeline(raw any) Timeline {
	switch v := raw.(type) {
	case Timeline:
		return v
	case *Timeline:
		if v == nil {
			return Timeline{}
		}
		return *v
	case map[string]any:
		return Timeline{Start: AsString(v["start"]), End: AsString(v["end"])}
	case string:
		var tl Timeline
		if err := json.Unmarshal([]byte(v), &tl); err != nil {
			return Timeline{}
		}
		return tl
	default:
		return Timeline{}
	}
}

func parseTimeline(_ *Column, raw any) any {
	return ParseTimeline(raw)
}

func formatTimeline(_ *Column, v any) any {
	tl := ParseTimeline(v)
	if tl.IsZero() {
		return nil
	}
	return map[string]any{"start": tl.Start, "end": tl.End}
}

func displayTimeline(_ *Column, v any) string {
	tl := ParseTimeline(v)
	if tl.IsZero() {
		return ""
	}
	return tl.Start + " - " + tl.End
}

// ISOWeek formats a date as an ISO week string, e.g. "2024-W05".
func ISOWeek(t time.Time) string {
	y, w := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

// WeekStart returns the Monday of an ISO week string.
func WeekStart(week string) (time.Time, bool) {
	var y, w int
	if _, err := fmt.Sscanf(strings.TrimSpace(week), "%4d-W%2d", &y, &w); err != nil {
		return time.Time{}, false
	}
	if w < 1 || w > 53 {
		return time.Time{}, false
	}
	// Jan 4th is always in week 1.
	jan4 := time.Date(y, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := int(jan4.Weekday()+6) % 7
	monday := jan4.AddDate(0, 0, -offset+(w-1)*7)
	if _, got := monday.ISOWeek(); got != w {
		return time.Time{}, false
	}
	return monday, true
}

// parseWeek turns a stored week string into the Monday date the picker edits.
func parseWeek(_ *Column, raw any) any {
	s := AsString(raw)
	if t, ok := WeekStart(s); ok {
		return t.Format(DateLayout)
	}
	if t, ok := ParseDate(s); ok {
		return t.Format(DateLayout)
	}
	return nil
}

// formatWeek stores a picked date (or week string) as an ISO week string.
func formatWeek(_ *Column, v any) any {
	s := AsString(v)
	if t, ok := WeekStart(s); ok {
		return ISOWeek(t)
	}
	if t, ok := ParseDate(s); ok {
		return ISOWeek(t)
	}
	return nil
}

// ============================================
// Structured values
// ============================================

func parseFiles(_ *Column, raw any) any {
	switch v := raw.(type) {
	case []any:
		if len(v) == 0 {
			return nil
		}
		return v
	case string:
		var arr []any
		if err := json.Unmarshal([]byte(v), &arr); err != nil || len(arr) == 0 {
			return nil
		}
		return arr
	default:
		return nil
	}
}

func displayFiles(_ *Column, v any) string {
	arr, _ := v.([]any)
	names := make([]string, 0, len(arr))
	for _, it := range arr {
		if m, ok := it.(map[string]any); ok {
			if n := AsString(m["name"]); n != "" {
				names = append(names, n)
				continue
			}
			names = append(names, AsString(m["url"]))
			continue
		}
		names = append(names, AsString(it))
	}
	return strings.Join(names, ", ")
}

// Location is a geocoded address.
type Location struct {
	Address string   `json:"address,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// ParseLocation accepts an address string or {address, lat, lng}.
func ParseLocation(raw any) Location {
	switch v := raw.(type) {
	case Location:
		return v
	case string:
		return Location{Address: strings.TrimSpace(v)}
	case map[string]any:
		loc := Location{Address: AsString(v["address"])}
		if f, ok := AsFloat(v["lat"]); ok {
			loc.Lat = &f
		}
		if f, ok := AsFloat(v["lng"]); ok {
			loc.Lng = &f
		}
		return loc
	default:
		return Location{}
	}
}

func parseLocation(_ *Column, raw any) any {
	return ParseLocation(raw)
}

func formatLocation(_ *Column, v any) any {
	loc := ParseLocation(v)
	if loc.Address == "" && loc.Lat == nil && loc.Lng == nil {
		return nil
	}
	out := map[string]any{"address": loc.Address}
	if loc.Lat != nil {
		out["lat"] = *loc.Lat
	}
	if loc.Lng != nil {
		out["lng"] = *loc.Lng
	}
	return out
}

func displayLocation(_ *Column, v any) string {
	loc := ParseLocation(v)
	if loc.Address != "" {
		return loc.Address
	}
	if loc.Lat != nil && loc.Lng != nil {
		return fmt.Sprintf("%.5f, %.5f", *loc.Lat, *loc.Lng)
	}
	return ""
}
