package columns

import (
	"encoding/json"
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
)

// Rule is a single conditional-field predicate against another field's value.
type Rule struct {
	FieldID  string `json:"fieldId"`
	Operator string `json:"operator"`
	Value    any    `json:"value,omitempty"`
}

// Conditional holds the visibility and required-ness rules a column may carry.
type Conditional struct {
	ShowWhen     []Rule `json:"showWhen,omitempty"`
	HideWhen     []Rule `json:"hideWhen,omitempty"`
	RequiredWhen []Rule `json:"requiredWhen,omitempty"`
}

func (c *Conditional) IsEmpty() bool {
	return c == nil || (len(c.ShowWhen) == 0 && len(c.HideWhen) == 0 && len(c.RequiredWhen) == 0)
}

// Column is a typed field definition belonging to a board.
type Column struct {
	ID           string
	BoardID      string
	Name         string
	Type         types.ColumnType
	Description  string
	Position     int
	Required     bool
	IsHidden     bool
	Width        int
	Settings     Settings
	Conditional  *Conditional
	DefaultValue any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type columnJSON struct {
	ID           string           `json:"id"`
	BoardID      string           `json:"boardId"`
	Name         string           `json:"name"`
	Type         types.ColumnType `json:"type"`
	Description  string           `json:"description,omitempty"`
	Position     int              `json:"position"`
	Required     bool             `json:"required"`
	IsHidden     bool             `json:"isHidden"`
	Width        int              `json:"width,omitempty"`
	Settings     json.RawMessage  `json:"settings,omitempty"`
	DefaultValue any              `json:"defaultValue,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// MarshalJSON flattens the typed settings back into the `settings` bag.
func (c Column) MarshalJSON() ([]byte, error) {
	raw, err := EncodeSettings(c.Settings, c.Conditional)
	if err != nil {
		return nil, err
	}
	return json.Marshal(columnJSON{
		ID:           c.ID,
		BoardID:      c.BoardID,
		Name:         c.Name,
		Type:         c.Type,
		Description:  c.Description,
		Position:     c.Position,
		Required:     c.Required,
		IsHidden:     c.IsHidden,
		Width:        c.Width,
		Settings:     raw,
		DefaultValue: c.DefaultValue,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	})
}

// UnmarshalJSON selects the settings struct from the column type.
func (c *Column) UnmarshalJSON(b []byte) error {
	var j columnJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	*c = Column{
		ID:           j.ID,
		BoardID:      j.BoardID,
		Name:         j.Name,
		Type:         j.Type,
		Description:  j.Description,
		Position:     j.Position,
		Required:     j.Required,
		IsHidden:     j.IsHidden,
		Width:        j.Width,
		DefaultValue: j.DefaultValue,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
	c.Settings, c.Conditional = DecodeSettings(j.Type, j.Settings)
	return nil
}

// Editable reports whether users may write this column's cells.
func (c *Column) Editable() bool {
	return IsEditable(c.Type)
}

// Rules returns the column's conditional block, never nil.
func (c *Column) Rules() Conditional {
	if c.Conditional == nil {
		return Conditional{}
	}
	return *c.Conditional
}
