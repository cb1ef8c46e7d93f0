package models

import (
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/automation"
	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/forms"
	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
)

// ============================================
// Envelope
// ============================================

// APIResponse wraps every JSON body the API returns.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// ============================================
// Board DTOs
// ============================================

type CreateBoardRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
}

type UpdateBoardRequest struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	FormPublic      *bool   `json:"formPublic,omitempty"`
	FormTitle       *string `json:"formTitle,omitempty"`
	FormDescription *string `json:"formDescription,omitempty"`
}

type BoardResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	OwnerID         string    `json:"ownerId"`
	FormPublic      bool      `json:"formPublic"`
	FormTitle       *string   `json:"formTitle,omitempty"`
	FormDescription *string   `json:"formDescription,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func ToBoardResponse(b *repository.Board) BoardResponse {
	return BoardResponse{
		ID:              b.ID,
		Name:            b.Name,
		Description:     b.Description,
		OwnerID:         b.OwnerID,
		FormPublic:      b.FormPublic,
		FormTitle:       b.FormTitle,
		FormDescription: b.FormDescription,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// ============================================
// Column DTOs
// ============================================

// ColumnRequest is the column dialog's form state.
type ColumnRequest = forms.ColumnFormValues

type UpdateColumnRequest struct {
	forms.ColumnFormValues
	ConfirmTypeChange bool `json:"confirmTypeChange"`
}

type ReorderColumnsRequest struct {
	ColumnIDs []string `json:"columnIds" binding:"required,min=1"`
}

// Columns serialize through columns.Column's own JSON shape.
type ColumnResponse = *columns.Column

// ============================================
// Item DTOs
// ============================================

type CreateItemRequest struct {
	Name     string         `json:"name" binding:"required"`
	Status   *string        `json:"status,omitempty"`
	Group    *string        `json:"group,omitempty"`
	Position *int           `json:"position,omitempty"`
	Cells    map[string]any `json:"cells"`
}

type UpdateItemRequest struct {
	Name     *string        `json:"name,omitempty"`
	Status   *string        `json:"status,omitempty"`
	Group    *string        `json:"group,omitempty"`
	Position *int           `json:"position,omitempty"`
	State    *string        `json:"state,omitempty" binding:"omitempty,oneof=active archived"`
	Cells    map[string]any `json:"cells,omitempty"`
}

type ItemResponse struct {
	ID        string         `json:"id"`
	BoardID   string         `json:"boardId"`
	Name      string         `json:"name"`
	Status    *string        `json:"status,omitempty"`
	Group     *string        `json:"group,omitempty"`
	Position  int            `json:"position"`
	State     string         `json:"state"`
	Cells     map[string]any `json:"cells"`
	CreatedBy *string        `json:"createdBy,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func ToItemResponse(it *repository.Item) ItemResponse {
	cells := it.Cells
	if cells == nil {
		cells = map[string]any{}
	}
	return ItemResponse{
		ID:        it.ID,
		BoardID:   it.BoardID,
		Name:      it.Name,
		Status:    it.Status,
		Group:     it.Group,
		Position:  it.Position,
		State:     it.State,
		Cells:     cells,
		CreatedBy: it.CreatedBy,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

// ============================================
// Form DTOs
// ============================================

type FormDataRequest struct {
	FormData map[string]any `json:"formData"`
}

type PublicFormResponse struct {
	BoardID     string             `json:"boardId"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Columns     []*columns.Column  `json:"columns"`
	Fields      []forms.FieldState `json:"fields"`
}

// ============================================
// Automation DTOs
// ============================================

type AutomationRequest struct {
	Name        string                     `json:"name"`
	Description string                     `json:"description,omitempty"`
	Trigger     automation.Trigger         `json:"trigger"`
	Actions     []automation.Action        `json:"actions"`
	Conditions  *automation.ConditionGroup `json:"conditions,omitempty"`
	IsActive    *bool                      `json:"isActive,omitempty"`
}

type CreateAutomationRequest struct {
	BoardID string `json:"boardId" binding:"required"`
	AutomationRequest
}

// TestAutomationRequest runs "Test Rule" against an unsaved automation.
type TestAutomationRequest struct {
	BoardID    string            `json:"boardId" binding:"required"`
	Automation AutomationRequest `json:"automation"`
	SampleItem map[string]any    `json:"sampleItem,omitempty"`
}

func (r AutomationRequest) ToAutomation() *automation.Automation {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &automation.Automation{
		Name:        r.Name,
		Description: r.Description,
		Trigger:     r.Trigger,
		Actions:     r.Actions,
		Conditions:  r.Conditions,
		IsActive:    active,
	}
}

// ============================================
// View DTOs
// ============================================

type CreateViewRequest struct {
	Name      string                  `json:"name" binding:"required"`
	Type      string                  `json:"type,omitempty"`
	Settings  repository.ViewSettings `json:"settings"`
	IsDefault bool                    `json:"isDefault"`
}

type UpdateViewRequest struct {
	Name      *string                  `json:"name,omitempty"`
	Type      *string                  `json:"type,omitempty"`
	Settings  *repository.ViewSettings `json:"settings,omitempty"`
	IsDefault *bool                    `json:"isDefault,omitempty"`
}

type ViewResponse struct {
	ID         string                  `json:"id"`
	BoardID    string                  `json:"boardId"`
	OwnerID    string                  `json:"ownerId"`
	Name       string                  `json:"name"`
	Type       string                  `json:"type"`
	Settings   repository.ViewSettings `json:"settings"`
	IsDefault  bool                    `json:"isDefault"`
	IsFavorite bool                    `json:"isFavorite"`
	CreatedAt  time.Time               `json:"createdAt"`
	UpdatedAt  time.Time               `json:"updatedAt"`
}

func ToViewResponse(v *repository.SavedView, favorite bool) ViewResponse {
	settings := v.Settings
	if settings.Filters == nil {
		settings.Filters = []repository.ViewFilter{}
	}
	if settings.Columns == nil {
		settings.Columns = []string{}
	}
	return ViewResponse{
		ID:         v.ID,
		BoardID:    v.BoardID,
		OwnerID:    v.OwnerID,
		Name:       v.Name,
		Type:       v.Type,
		Settings:   settings,
		IsDefault:  v.IsDefault,
		IsFavorite: favorite,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

type FavoriteResponse struct {
	ViewID     string `json:"viewId"`
	IsFavorite bool   `json:"isFavorite"`
}
