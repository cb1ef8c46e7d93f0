package service

import (
	"context"
	"log"
	"strings"

	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/forms"
	"github.com/Marga-Ghale/ora-boards-backend/internal/metrics"
	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
)

// ============================================
// Form Service
// ============================================

// PublicForm is what an anonymous visitor needs to render a board form.
type PublicForm struct {
	BoardID     string
	Title       string
	Description string
	Columns     []*columns.Column
	Fields      []forms.FieldState
}

type FormService interface {
	Evaluate(ctx context.Context, boardID, userID string, formData map[string]any) ([]forms.FieldState, error)
	Validate(ctx context.Context, boardID, userID string, formData map[string]any) (forms.Result, error)
	PublicForm(ctx context.Context, boardID string) (*PublicForm, error)
	SubmitPublic(ctx context.Context, boardID string, formData map[string]any) (*repository.Item, error)
}

type formService struct {
	boardRepo repository.BoardRepository
	boards    BoardService
	columns   ColumnService
	items     ItemService
}

func NewFormService(boardRepo repository.BoardRepository, boards BoardService, columns ColumnService, items ItemService) FormService {
	return &formService{boardRepo: boardRepo, boards: boards, columns: columns, items: items}
}

func (s *formService) Evaluate(ctx context.Context, boardID, userID string, formData map[string]any) ([]forms.FieldState, error) {
	cols, err := s.columns.List(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}
	return forms.Evaluate(cols, formData), nil
}

func (s *formService) Validate(ctx context.Context, boardID, userID string, formData map[string]any) (forms.Result, error) {
	cols, err := s.columns.List(ctx, boardID, userID)
	if err != nil {
		return forms.Result{}, err
	}
	res := forms.ValidateForm(cols, forms.ApplyDefaults(cols, formData))
	metrics.Get().RecordValidation(res.IsValid)
	return res, nil
}

func (s *formService) publicBoard(ctx context.Context, boardID string) (*repository.Board, error) {
	if !validID(boardID) {
		return nil, ErrNotFound
	}
	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, ErrNotFound
	}
	if !board.FormPublic {
		return nil, ErrFormNotPublic
	}
	return board, nil
}

func (s *formService) PublicForm(ctx context.Context, boardID string) (*PublicForm, error) {
	board, err := s.publicBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	cols, err := s.columns.Schema(ctx, boardID)
	if err != nil {
		return nil, err
	}

	editable := make([]*columns.Column, 0, len(cols))
	for _, c := range cols {
		if c.Editable() && !c.IsHidden {
			editable = append(editable, c)
		}
	}

	form := &PublicForm{
		BoardID: board.ID,
		Title:   board.Name,
		Columns: editable,
		Fields:  forms.Evaluate(editable, forms.ApplyDefaults(editable, nil)),
	}
	if board.FormTitle != nil && *board.FormTitle != "" {
		form.Title = *board.FormTitle
	}
	if board.FormDescription != nil {
		form.Description = *board.FormDescription
	} else if board.Description != nil {
		form.Description = *board.Description
	}
	return form, nil
}

func (s *formService) SubmitPublic(ctx context.Context, boardID string, formData map[string]any) (*repository.Item, error) {
	board, err := s.publicBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	cols, err := s.columns.Schema(ctx, boardID)
	if err != nil {
		return nil, err
	}

	cells := publicCells(cols, formData)
	item, err := s.items.Submit(ctx, boardID, nil, ItemInput{
		Name:  submissionName(cols, cells),
		Cells: cells,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("📝 [Forms] Public submission %s on board %s", item.ID, board.ID)
	return item, nil
}

// publicCells keeps the values of columns the public form shows. Keys of
// hidden or unknown columns are dropped; read-only keys stay so the
// submission is rejected.
func publicCells(cols []*columns.Column, formData map[string]any) map[string]any {
	out := make(map[string]any, len(formData))
	for _, c := range cols {
		if c.IsHidden {
			continue
		}
		if v, ok := formData[c.ID]; ok {
			out[c.ID] = v
		}
	}
	return out
}

// submissionName names an item after the first filled text column.
func submissionName(cols []*columns.Column, formData map[string]any) string {
	for _, c := range cols {
		if c.Type != types.ColumnText {
			continue
		}
		if v := strings.TrimSpace(columns.AsString(formData[c.ID])); v != "" {
			return v
		}
	}
	return "Form submission"
}
