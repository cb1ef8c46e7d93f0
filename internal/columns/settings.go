package columns

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
)

// Settings is the per-type configuration of a column. Each column type maps
// to exactly one concrete settings struct (see NewSettings).
type Settings interface {
	isSettings()
}

type TextSettings struct {
	Placeholder    string `json:"placeholder,omitempty"`
	MinLength      *int   `json:"minLength,omitempty"`
	MaxLength      *int   `json:"maxLength,omitempty"`
	Pattern        string `json:"pattern,omitempty"`
	PatternMessage string `json:"patternMessage,omitempty"`
}

type NumberSettings struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Decimals int      `json:"decimals,omitempty"`
	Prefix   string   `json:"prefix,omitempty"`
	Suffix   string   `json:"suffix,omitempty"`
	Unit     string   `json:"unit,omitempty"`
}

type CurrencySettings struct {
	Currency string   `json:"currency"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Decimals int      `json:"decimals"`
}

type PercentageSettings struct {
	Decimals int `json:"decimals,omitempty"`
}

type RatingSettings struct {
	Max  int    `json:"max"`
	Icon string `json:"icon,omitempty"`
}

// OptionSettings backs DROPDOWN, MULTI_SELECT and TAGS.
type OptionSettings struct {
	Options       []string `json:"options"`
	AllowCustom   bool     `json:"allowCustom,omitempty"`
	MaxSelections int      `json:"maxSelections,omitempty"`
}

// StatusOption accepts either a bare label or {label, color}.
type StatusOption struct {
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

func (o *StatusOption) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &o.Label)
	}
	type plain StatusOption
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*o = StatusOption(p)
	return nil
}

type StatusSettings struct {
	Options       []StatusOption `json:"options"`
	DefaultStatus string         `json:"defaultStatus,omitempty"`
	DoneStatus    string         `json:"doneStatus,omitempty"`
}

// Labels returns the option labels in order.
func (s *StatusSettings) Labels() []string {
	out := make([]string, 0, len(s.Options))
	for _, o := range s.Options {
		out = append(out, o.Label)
	}
	return out
}

// DateSettings backs DATE, DATETIME, TIMELINE and WEEK.
type DateSettings struct {
	MinDate     string `json:"minDate,omitempty"`
	MaxDate     string `json:"maxDate,omitempty"`
	IncludeTime bool   `json:"includeTime,omitempty"`
}

type PeopleSettings struct {
	AllowMultiple bool `json:"allowMultiple"`
}

type FileSettings struct {
	MaxFiles     int      `json:"maxFiles,omitempty"`
	AllowedTypes []string `json:"allowedTypes,omitempty"`
	MaxSizeMB    int      `json:"maxSizeMb,omitempty"`
}

type FormulaSettings struct {
	Expression string `json:"expression"`
	ResultType string `json:"resultType,omitempty"`
}

type MirrorSettings struct {
	LinkedBoardID  string `json:"linkedBoardId"`
	LinkedColumnID string `json:"linkedColumnId"`
}

// Auto-number reset periods
const (
	ResetNever   = "never"
	ResetDaily   = "daily"
	ResetMonthly = "monthly"
	ResetYearly  = "yearly"
)

type AutoNumberSettings struct {
	Format      string `json:"format,omitempty"`
	Prefix      string `json:"prefix,omitempty"`
	Suffix      string `json:"suffix,omitempty"`
	StartNumber int    `json:"startNumber"`
	Padding     int    `json:"padding,omitempty"`
	ResetOn     string `json:"resetOn,omitempty"`
}

// EmptySettings is used by types without configuration.
type EmptySettings struct{}

func (*TextSettings) isSettings()       {}
func (*NumberSettings) isSettings()     {}
func (*CurrencySettings) isSettings()   {}
func (*PercentageSettings) isSettings() {}
func (*RatingSettings) isSettings()     {}
func (*OptionSettings) isSettings()     {}
func (*StatusSettings) isSettings()     {}
func (*DateSettings) isSettings()       {}
func (*PeopleSettings) isSettings()     {}
func (*FileSettings) isSettings()       {}
func (*FormulaSettings) isSettings()    {}
func (*MirrorSettings) isSettings()     {}
func (*AutoNumberSettings) isSettings() {}
func (*EmptySettings) isSettings()      {}

const DefaultRatingMax = 5

// NewSettings returns the default settings struct for a column type.
func NewSettings(t types.ColumnType) Settings {
	switch t {
	case types.ColumnText, types.ColumnLongText, types.ColumnEmail, types.ColumnPhone, types.ColumnLink:
		return &TextSettings{}
	case types.ColumnNumber:
		return &NumberSettings{}
	case types.ColumnCurrency:
		return &CurrencySettings{Currency: "USD", Decimals: 2}
	case types.ColumnPercentage:
		return &PercentageSettings{}
	case types.ColumnRating:
		return &RatingSettings{Max: DefaultRatingMax}
	case types.ColumnDropdown, types.ColumnMultiSelect, types.ColumnTags:
		return &OptionSettings{Options: []string{}}
	case types.ColumnStatus:
		return &StatusSettings{Options: []StatusOption{}}
	case types.ColumnDate, types.ColumnDateTime, types.ColumnTimeline, types.ColumnWeek:
		return &DateSettings{IncludeTime: t == types.ColumnDateTime}
	case types.ColumnPeople:
		return &PeopleSettings{AllowMultiple: true}
	case types.ColumnFile:
		return &FileSettings{}
	case types.ColumnFormula:
		return &FormulaSettings{}
	case types.ColumnMirror:
		return &MirrorSettings{}
	case types.ColumnAutoNumber:
		return &AutoNumberSettings{StartNumber: 1, ResetOn: ResetNever}
	default:
		return &EmptySettings{}
	}
}

// DecodeSettings parses a persisted settings bag into the struct matching t.
// Malformed JSON degrades to the type defaults.
func DecodeSettings(t types.ColumnType, raw []byte) (Settings, *Conditional) {
	s := NewSettings(t)
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return s, nil
	}

	if err := json.Unmarshal(raw, s); err != nil {
		log.Printf("⚠️ [Columns] Malformed %s settings, using defaults: %v", t, err)
		return NewSettings(t), nil
	}
	normalize(s)

	var wrapper struct {
		Conditional *Conditional `json:"conditional"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil || wrapper.Conditional.IsEmpty() {
		return s, nil
	}
	return s, wrapper.Conditional
}

// DecodeSettingsMap is DecodeSettings for an already-decoded request body.
func DecodeSettingsMap(t types.ColumnType, m map[string]any) (Settings, *Conditional) {
	if len(m) == 0 {
		return NewSettings(t), nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return NewSettings(t), nil
	}
	return DecodeSettings(t, raw)
}

// EncodeSettings writes typed settings back as a flat bag with the
// conditional block under "conditional".
func EncodeSettings(s Settings, cond *Conditional) (json.RawMessage, error) {
	bag := map[string]any{}
	if s != nil {
		b, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("failed to encode settings: %w", err)
		}
		if err := json.Unmarshal(b, &bag); err != nil {
			return nil, fmt.Errorf("failed to encode settings: %w", err)
		}
	}
	if !cond.IsEmpty() {
		bag["conditional"] = cond
	}
	return json.Marshal(bag)
}

// SettingsMap is EncodeSettings decoded into a generic map.
func SettingsMap(s Settings, cond *Conditional) map[string]any {
	raw, err := EncodeSettings(s, cond)
	if err != nil {
		return map[string]any{}
	}
	m := map[string]any{}
	_ = json.Unmarshal(raw, &m)
	return m
}

// TypedSettings returns the column's settings, falling back to the type
// defaults when none (or a mismatched struct) were attached.
func (c *Column) TypedSettings() Settings {
	if c.Settings == nil || !settingsMatch(c.Type, c.Settings) {
		return NewSettings(c.Type)
	}
	return c.Settings
}

func settingsMatch(t types.ColumnType, s Settings) bool {
	return reflect.TypeOf(NewSettings(t)) == reflect.TypeOf(s)
}

func normalize(s Settings) {
	switch v := s.(type) {
	case *RatingSettings:
		if v.Max <= 0 {
			v.Max = DefaultRatingMax
		}
	case *CurrencySettings:
		if strings.TrimSpace(v.Currency) == "" {
			v.Currency = "USD"
		}
		v.Currency = strings.ToUpper(v.Currency)
		if v.Decimals < 0 {
			v.Decimals = 2
		}
	case *AutoNumberSettings:
		if v.ResetOn == "" {
			v.ResetOn = ResetNever
		}
		if v.Padding < 0 {
			v.Padding = 0
		}
	case *OptionSettings:
		if v.Options == nil {
			v.Options = []string{}
		}
	case *StatusSettings:
		if v.Options == nil {
			v.Options = []StatusOption{}
		}
	}
}

// FormatAutoNumber renders a counter value using the column's format.
// Supported tokens: {prefix} {number} {suffix} {year} {month} {day}.
func FormatAutoNumber(s *AutoNumberSettings, n int64, now time.Time) string {
	num := fmt.Sprintf("%d", n)
	if s.Padding > 0 {
		num = fmt.Sprintf("%0*d", s.Padding, n)
	}
	format := s.Format
	if format == "" {
		format = "{prefix}{number}{suffix}"
	}
	r := strings.NewReplacer(
		"{prefix}", s.Prefix,
		"{number}", num,
		"{suffix}", s.Suffix,
		"{year}", now.Format("2006"),
		"{month}", now.Format("01"),
		"{day}", now.Format("02"),
	)
	return r.Replace(format)
}

// PeriodStart returns the start of the counter period containing now.
func PeriodStart(resetOn string, now time.Time) time.Time {
	y, m, d := now.Date()
	switch resetOn {
	case ResetDaily:
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case ResetMonthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	case ResetYearly:
		return time.Date(y, 1, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}
	}
}
