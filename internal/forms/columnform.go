package forms

import (
	"errors"
	"strings"

	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
)

const DefaultColumnWidth = 150

var (
	ErrColumnNameRequired = errors.New("column name is required")
	ErrUnknownColumnType  = errors.New("unknown column type")
)

// ColumnFormValues is the editable state of the create/edit column dialog.
// Settings holds the flat per-type fields; the conditional block is kept
// separate so the rule builder can edit it on its own.
type ColumnFormValues struct {
	Name         string               `json:"name"`
	Type         types.ColumnType     `json:"type"`
	Description  string               `json:"description"`
	Required     bool                 `json:"required"`
	IsHidden     bool                 `json:"isHidden"`
	Width        int                  `json:"width"`
	DefaultValue any                  `json:"defaultValue"`
	Settings     map[string]any       `json:"settings"`
	Conditional  *columns.Conditional `json:"conditional,omitempty"`
}

// ColumnPayload is what the column dialog sends on save.
type ColumnPayload struct {
	Name         string
	Type         types.ColumnType
	Description  string
	Required     bool
	IsHidden     bool
	Width        int
	DefaultValue any
	Settings     columns.Settings
	Conditional  *columns.Conditional
}

// DefaultsForType returns the initial dialog state for a new column.
func DefaultsForType(t types.ColumnType) ColumnFormValues {
	return ColumnFormValues{
		Type:     t,
		Width:    DefaultColumnWidth,
		Settings: columns.SettingsMap(columns.NewSettings(t), nil),
	}
}

// ToFormValues loads an existing column into the dialog.
func ToFormValues(col *columns.Column) ColumnFormValues {
	v := ColumnFormValues{
		Name:        col.Name,
		Type:        col.Type,
		Description: col.Description,
		Required:    col.Required,
		IsHidden:    col.IsHidden,
		Width:       col.Width,
		Settings:    columns.SettingsMap(col.TypedSettings(), nil),
	}
	if v.Width <= 0 {
		v.Width = DefaultColumnWidth
	}
	if !col.Conditional.IsEmpty() {
		cond := *col.Conditional
		v.Conditional = &cond
	}
	if col.DefaultValue != nil && col.Editable() {
		v.DefaultValue = columns.ParseCell(col, col.DefaultValue)
	}
	return v
}

// FromFormValues serializes the dialog back into a payload. Settings that do
// not fit the chosen type are dropped in favor of that type's defaults.
func FromFormValues(v ColumnFormValues) (ColumnPayload, error) {
	name := strings.TrimSpace(v.Name)
	if name == "" {
		return ColumnPayload{}, ErrColumnNameRequired
	}
	if !types.IsValidColumnType(string(v.Type)) {
		return ColumnPayload{}, ErrUnknownColumnType
	}

	settings, cond := columns.DecodeSettingsMap(v.Type, v.Settings)
	if !v.Conditional.IsEmpty() {
		cond = v.Conditional
	}

	p := ColumnPayload{
		Name:        name,
		Type:        v.Type,
		Description: strings.TrimSpace(v.Description),
		Required:    v.Required,
		IsHidden:    v.IsHidden,
		Width:       v.Width,
		Settings:    settings,
		Conditional: cond,
	}
	if p.Width <= 0 {
		p.Width = DefaultColumnWidth
	}
	if v.DefaultValue != nil {
		probe := &columns.Column{Type: v.Type, Settings: settings}
		p.DefaultValue = columns.FormatCell(probe, v.DefaultValue)
	}
	return p, nil
}

// Apply copies the payload onto a column.
func (p ColumnPayload) Apply(col *columns.Column) {
	col.Name = p.Name
	col.Type = p.Type
	col.Description = p.Description
	col.Required = p.Required
	col.IsHidden = p.IsHidden
	col.Width = p.Width
	col.DefaultValue = p.DefaultValue
	col.Settings = p.Settings
	col.Conditional = p.Conditional
}

// TypeChange describes what switching a column to another type implies.
type TypeChange struct {
	From     types.ColumnType `json:"from"`
	To       types.ColumnType `json:"to"`
	Warning  string           `json:"warning,omitempty"`
	Lossy    bool             `json:"lossy"`
	Settings map[string]any   `json:"settings"`
}

// PreviewTypeChange returns the migration warning and the settings the
// dialog should switch to. Settings carry over when the new type shares the
// old type's settings struct.
func PreviewTypeChange(col *columns.Column, to types.ColumnType) TypeChange {
	warning := columns.MigrationWarning(col.Type, to)
	settings := columns.NewSettings(to)
	probe := &columns.Column{Type: to, Settings: col.TypedSettings()}
	if probe.TypedSettings() == col.TypedSettings() {
		settings = col.TypedSettings()
	}
	return TypeChange{
		From:     col.Type,
		To:       to,
		Warning:  warning,
		Lossy:    warning != "",
		Settings: columns.SettingsMap(settings, col.Conditional),
	}
}
