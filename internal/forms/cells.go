package forms

import (
	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
)

// BuildCells converts submitted form data into the cells map stored on an
// item. Only editable columns present in formData are written; a value that
// formats to nil clears the cell.
func BuildCells(cols []*columns.Column, formData map[string]any) map[string]any {
	cells := make(map[string]any, len(formData))
	for _, col := range cols {
		if !col.Editable() {
			continue
		}
		v, ok := formData[col.ID]
		if !ok {
			continue
		}
		cells[col.ID] = columns.FormatCell(col, v)
	}
	return cells
}

// ApplyDefaults returns a copy of formData where columns missing a value
// take their configured default.
func ApplyDefaults(cols []*columns.Column, formData map[string]any) map[string]any {
	out := make(map[string]any, len(formData)+len(cols))
	for k, v := range formData {
		out[k] = v
	}
	for _, col := range cols {
		if _, ok := out[col.ID]; ok || col.DefaultValue == nil || !col.Editable() {
			continue
		}
		out[col.ID] = col.DefaultValue
	}
	return out
}

// FormValues turns stored cells into the values an edit form starts with.
func FormValues(cols []*columns.Column, cells map[string]any) map[string]any {
	out := make(map[string]any, len(cols))
	for _, col := range cols {
		out[col.ID] = columns.ParseCell(col, cells[col.ID])
	}
	return out
}

// MergeCells overlays a partial update onto existing cells. Nil values are
// removed.
func MergeCells(existing, update map[string]any) map[string]any {
	out := make(map[string]any, len(existing)+len(update))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range update {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}
