package automation

import (
	"strconv"
	"strings"
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
)

// Config is the kind-specific configuration of a trigger or action.
type Config map[string]any

// String returns a trimmed string value for key.
func (c Config) String(key string) string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(columns.AsString(c[key]))
}

// Has reports whether key holds a non-empty value.
func (c Config) Has(key string) bool {
	return c != nil && !columns.IsEmptyValue(c[key])
}

// Int returns an integer value for key.
func (c Config) Int(key string) (int, bool) {
	if c == nil {
		return 0, false
	}
	f, ok := columns.AsFloat(c[key])
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Strings returns a list value for key.
func (c Config) Strings(key string) []string {
	if c == nil {
		return nil
	}
	return columns.AsStringSlice(c[key])
}

type Trigger struct {
	Type   string `json:"type"`
	Config Config `json:"config"`
}

type Action struct {
	Type   string `json:"type"`
	Config Config `json:"config"`
}

type Condition struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value,omitempty"`
}

// ConditionGroup joins conditions with "and" or "or".
type ConditionGroup struct {
	Type       string      `json:"type"`
	Conditions []Condition `json:"conditions"`
}

// Automation is a trigger -> condition -> action rule configured on a board.
// Execution happens elsewhere; this package only describes and checks rules.
type Automation struct {
	ID          string          `json:"id"`
	BoardID     string          `json:"boardId"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Trigger     Trigger         `json:"trigger"`
	Actions     []Action        `json:"actions"`
	Conditions  *ConditionGroup `json:"conditions,omitempty"`
	IsActive    bool            `json:"isActive"`
	CreatedBy   string          `json:"createdBy,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// columnNames resolves column ids to display names for previews.
type columnNames map[string]string

func newColumnNames(cols []*columns.Column) columnNames {
	names := make(columnNames, len(cols))
	for _, c := range cols {
		names[c.ID] = c.Name
	}
	return names
}

func (n columnNames) name(id string) string {
	if name, ok := n[id]; ok && name != "" {
		return strconv.Quote(name)
	}
	if id == "" {
		return "a column"
	}
	return strconv.Quote(id)
}
