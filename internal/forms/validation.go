package forms

import (
	"fmt"
	"log"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
	"github.com/shopspring/decimal"
)

// FieldError is a single failed check on one field.
type FieldError struct {
	FieldID   string `json:"fieldId"`
	FieldName string `json:"fieldName"`
	Message   string `json:"message"`
}

// Result is the outcome of ValidateForm. It is data, not an error: callers
// block submission while IsValid is false.
type Result struct {
	IsValid bool         `json:"isValid"`
	Errors  []FieldError `json:"errors"`
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9\s\-().]{7,20}$`)
	weekPattern  = regexp.MustCompile(`^\d{4}-W\d{2}$`)
)

// ValidateForm checks every editable column against formData (keyed by
// column id). Required-ness applies to visible columns only; an empty
// optional field skips the type rules.
func ValidateForm(cols []*columns.Column, formData map[string]any) Result {
	return validate(cols, formData, nil)
}

// ValidateChanged checks only the columns keyed in changed, evaluated
// against the full formData. Used for partial item updates.
func ValidateChanged(cols []*columns.Column, formData, changed map[string]any) Result {
	if changed == nil {
		changed = map[string]any{}
	}
	return validate(cols, formData, changed)
}

// validate runs the full checks on visible columns. Columns hidden by
// IsHidden or a rule skip the required check, but a value sent for them
// must still fit the column type.
func validate(cols []*columns.Column, formData, only map[string]any) Result {
	visible := make(map[string]bool, len(cols))
	for _, col := range VisibleColumns(cols, formData) {
		visible[col.ID] = true
	}

	res := Result{IsValid: true, Errors: []FieldError{}}
	for _, col := range cols {
		if !col.Editable() {
			continue
		}
		if only != nil {
			if _, ok := only[col.ID]; !ok {
				continue
			}
		}
		value := formData[col.ID]
		var msg string
		switch {
		case visible[col.ID]:
			msg = ValidateField(col, value, formData)
		case !isBlank(col, value):
			msg = checkType(col, value)
		}
		if msg != "" {
			res.Errors = append(res.Errors, FieldError{FieldID: col.ID, FieldName: col.Name, Message: msg})
		}
	}
	res.IsValid = len(res.Errors) == 0
	return res
}

// ValidateField returns the first failed check for one value, or "".
// A value that formats to an empty cell (" , " for a list, a location
// without address or coordinates) counts as blank.
func ValidateField(col *columns.Column, value any, formData map[string]any) string {
	if !isBlank(col, value) {
		if msg := checkType(col, value); msg != "" {
			return msg
		}
		if !isBlank(col, columns.FormatCell(col, value)) {
			return ""
		}
	}
	if IsFieldRequired(col, formData) {
		return fmt.Sprintf("%s is required", col.Name)
	}
	return ""
}

func checkType(col *columns.Column, value any) string {
	if check, ok := validators[col.Type]; ok {
		return check(col, value)
	}
	return ""
}

// isBlank treats an unchecked checkbox as empty so "required" means "must tick".
func isBlank(col *columns.Column, value any) bool {
	if col.Type == types.ColumnCheckbox {
		b, _ := columns.AsBool(value)
		return !b
	}
	if col.Type == types.ColumnTimeline {
		return columns.ParseTimeline(value).IsZero()
	}
	return columns.IsEmptyValue(value)
}

type validator func(col *columns.Column, value any) string

var validators = map[types.ColumnType]validator{
	types.ColumnText:        validateText,
	types.ColumnLongText:    validateText,
	types.ColumnNumber:      validateNumber,
	types.ColumnCurrency:    validateCurrency,
	types.ColumnPercentage:  validatePercentage,
	types.ColumnRating:      validateRating,
	types.ColumnStatus:      validateStatus,
	types.ColumnDropdown:    validateDropdown,
	types.ColumnMultiSelect: validateMultiSelect,
	types.ColumnTags:        validateMultiSelect,
	types.ColumnCheckbox:    validateCheckbox,
	types.ColumnDate:        validateDate,
	types.ColumnDateTime:    validateDate,
	types.ColumnTimeline:    validateTimeline,
	types.ColumnWeek:        validateWeek,
	types.ColumnPeople:      validatePeople,
	types.ColumnEmail:       validateEmail,
	types.ColumnPhone:       validatePhone,
	types.ColumnLink:        validateLink,
	types.ColumnFile:        validateFiles,
	types.ColumnLocation:    validateLocation,
}

func validateText(col *columns.Column, value any) string {
	s, _ := col.TypedSettings().(*columns.TextSettings)
	text := columns.AsString(value)
	if s == nil {
		return ""
	}
	n := len([]rune(text))
	if s.MinLength != nil && n < *s.MinLength {
		return fmt.Sprintf("%s must be at least %d characters", col.Name, *s.MinLength)
	}
	if s.MaxLength != nil && n > *s.MaxLength {
		return fmt.Sprintf("%s must be at most %d characters", col.Name, *s.MaxLength)
	}
	return checkPattern(col, s, text)
}

func checkPattern(col *columns.Column, s *columns.TextSettings, text string) string {
	if s.Pattern == "" {
		return ""
	}
	re, err := regexp.Compile(s.Pattern)
	if err != nil {
		log.Printf("⚠️ [Forms] Ignoring invalid pattern on column %s: %v", col.ID, err)
		return ""
	}
	if re.MatchString(text) {
		return ""
	}
	if s.PatternMessage != "" {
		return s.PatternMessage
	}
	return fmt.Sprintf("%s has an invalid format", col.Name)
}

func validateNumber(col *columns.Column, value any) string {
	f, ok := columns.AsFloat(value)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprintf("%s must be a number", col.Name)
	}
	s, _ := col.TypedSettings().(*columns.NumberSettings)
	if s == nil {
		return ""
	}
	return checkBounds(col.Name, decimal.NewFromFloat(f), s.Min, s.Max)
}

func validateCurrency(col *columns.Column, value any) string {
	var amount decimal.Decimal
	switch v := value.(type) {
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return fmt.Sprintf("%s must be a valid amount", col.Name)
		}
		amount = d
	default:
		f, ok := columns.AsFloat(v)
		if !ok {
			return fmt.Sprintf("%s must be a valid amount", col.Name)
		}
		amount = decimal.NewFromFloat(f)
	}
	s, _ := col.TypedSettings().(*columns.CurrencySettings)
	if s == nil {
		return ""
	}
	return checkBounds(col.Name, amount, s.Min, s.Max)
}

func checkBounds(name string, v decimal.Decimal, lo, hi *float64) string {
	if lo != nil && v.LessThan(decimal.NewFromFloat(*lo)) {
		return fmt.Sprintf("%s must be at least %s", name, decimal.NewFromFloat(*lo).String())
	}
	if hi != nil && v.GreaterThan(decimal.NewFromFloat(*hi)) {
		return fmt.Sprintf("%s must be at most %s", name, decimal.NewFromFloat(*hi).String())
	}
	return ""
}

func validatePercentage(col *columns.Column, value any) string {
	f, ok := columns.AsFloat(value)
	if !ok {
		return fmt.Sprintf("%s must be a number", col.Name)
	}
	if f < 0 || f > 100 {
		return fmt.Sprintf("%s must be between 0 and 100", col.Name)
	}
	return ""
}

func validateRating(col *columns.Column, value any) string {
	f, ok := columns.AsFloat(value)
	limit := columns.RatingMax(col)
	if !ok || f != math.Trunc(f) || f < 1 || f > float64(limit) {
		return fmt.Sprintf("%s must be a whole number between 1 and %d", col.Name, limit)
	}
	return ""
}

func validateStatus(col *columns.Column, value any) string {
	s, _ := col.TypedSettings().(*columns.StatusSettings)
	if s == nil || len(s.Options) == 0 {
		return ""
	}
	if !member(s.Labels(), columns.AsString(value)) {
		return fmt.Sprintf("%s must be one of the available statuses", col.Name)
	}
	return ""
}

func validateDropdown(col *columns.Column, value any) string {
	s, _ := col.TypedSettings().(*columns.OptionSettings)
	if s == nil || s.AllowCustom || len(s.Options) == 0 {
		return ""
	}
	if !member(s.Options, columns.AsString(value)) {
		return fmt.Sprintf("%s must be one of the available options", col.Name)
	}
	return ""
}

func validateMultiSelect(col *columns.Column, value any) string {
	selected := columns.AsStringSlice(value)
	s, _ := col.TypedSettings().(*columns.OptionSettings)
	if s == nil {
		return ""
	}
	if s.MaxSelections > 0 && len(selected) > s.MaxSelections {
		return fmt.Sprintf("%s allows at most %d selections", col.Name, s.MaxSelections)
	}
	if s.AllowCustom || len(s.Options) == 0 {
		return ""
	}
	for _, v := range selected {
		if !member(s.Options, v) {
			return fmt.Sprintf("%s contains an unknown option: %s", col.Name, v)
		}
	}
	return ""
}

func validateCheckbox(col *columns.Column, value any) string {
	if _, ok := columns.AsBool(value); !ok {
		return fmt.Sprintf("%s must be checked or unchecked", col.Name)
	}
	return ""
}

func validateDate(col *columns.Column, value any) string {
	t, ok := columns.ParseDate(columns.AsString(value))
	if !ok {
		return fmt.Sprintf("%s must be a valid date", col.Name)
	}
	return checkDateBounds(col, t)
}

func checkDateBounds(col *columns.Column, t time.Time) string {
	s, _ := col.TypedSettings().(*columns.DateSettings)
	if s == nil {
		return ""
	}
	day := t.Format(columns.DateLayout)
	if lo, ok := columns.ParseDate(s.MinDate); ok && day < lo.Format(columns.DateLayout) {
		return fmt.Sprintf("%s must be on or after %s", col.Name, lo.Format(columns.DateLayout))
	}
	if hi, ok := columns.ParseDate(s.MaxDate); ok && day > hi.Format(columns.DateLayout) {
		return fmt.Sprintf("%s must be on or before %s", col.Name, hi.Format(columns.DateLayout))
	}
	return ""
}

func validateTimeline(col *columns.Column, value any) string {
	tl := columns.ParseTimeline(value)
	start, okStart := columns.ParseDate(tl.Start)
	end, okEnd := columns.ParseDate(tl.End)
	if !okStart || !okEnd {
		return fmt.Sprintf("%s needs a valid start and end date", col.Name)
	}
	if end.Before(start) {
		return fmt.Sprintf("%s end date must be on or after the start date", col.Name)
	}
	if msg := checkDateBounds(col, start); msg != "" {
		return msg
	}
	return checkDateBounds(col, end)
}

func validateWeek(col *columns.Column, value any) string {
	s := strings.TrimSpace(columns.AsString(value))
	if weekPattern.MatchString(s) {
		if _, ok := columns.WeekStart(s); ok {
			return ""
		}
	} else if _, ok := columns.ParseDate(s); ok {
		return ""
	}
	return fmt.Sprintf("%s must be a valid week", col.Name)
}

func validatePeople(col *columns.Column, value any) string {
	s, _ := col.TypedSettings().(*columns.PeopleSettings)
	if s != nil && !s.AllowMultiple && len(columns.AsStringSlice(value)) > 1 {
		return fmt.Sprintf("%s allows only one person", col.Name)
	}
	return ""
}

func validateEmail(col *columns.Column, value any) string {
	if !emailPattern.MatchString(strings.TrimSpace(columns.AsString(value))) {
		return fmt.Sprintf("%s must be a valid email address", col.Name)
	}
	return validateText(col, value)
}

func validatePhone(col *columns.Column, value any) string {
	if !phonePattern.MatchString(strings.TrimSpace(columns.AsString(value))) {
		return fmt.Sprintf("%s must be a valid phone number", col.Name)
	}
	return validateText(col, value)
}

func validateLink(col *columns.Column, value any) string {
	u, err := url.ParseRequestURI(strings.TrimSpace(columns.AsString(value)))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Sprintf("%s must be a valid URL", col.Name)
	}
	return validateText(col, value)
}

func validateFiles(col *columns.Column, value any) string {
	switch value.(type) {
	case []any, string:
	default:
		return fmt.Sprintf("%s must be a list of files", col.Name)
	}
	// Accepts the JSON-array string form the field strategy reads.
	files, ok := columns.ParseCell(col, value).([]any)
	if !ok {
		return fmt.Sprintf("%s must be a list of files", col.Name)
	}
	s, _ := col.TypedSettings().(*columns.FileSettings)
	if s != nil && s.MaxFiles > 0 && len(files) > s.MaxFiles {
		return fmt.Sprintf("%s allows at most %d files", col.Name, s.MaxFiles)
	}
	return ""
}

func validateLocation(col *columns.Column, value any) string {
	loc := columns.ParseLocation(value)
	if loc.Lat != nil && (*loc.Lat < -90 || *loc.Lat > 90) {
		return fmt.Sprintf("%s has an invalid latitude", col.Name)
	}
	if loc.Lng != nil && (*loc.Lng < -180 || *loc.Lng > 180) {
		return fmt.Sprintf("%s has an invalid longitude", col.Name)
	}
	return ""
}

func member(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
