package service

import (
	"context"
	"fmt"
	"log"

	"github.com/Marga-Ghale/ora-boards-backend/internal/cache"
	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/forms"
	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
	"github.com/Marga-Ghale/ora-boards-backend/internal/socket"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
)

// ============================================
// Column Service
// ============================================

type ColumnService interface {
	// Schema returns the board's columns in position order without an
	// ownership check. Callers authorize the board first.
	Schema(ctx context.Context, boardID string) ([]*columns.Column, error)
	List(ctx context.Context, boardID, userID string) ([]*columns.Column, error)
	Get(ctx context.Context, columnID, userID string) (*columns.Column, error)
	FormValues(ctx context.Context, columnID, userID string) (forms.ColumnFormValues, error)
	Create(ctx context.Context, boardID, userID string, values forms.ColumnFormValues) (*columns.Column, error)
	// Update saves the dialog. A lossy type change fails with a
	// TypeChangeError unless confirmTypeChange is set.
	Update(ctx context.Context, columnID, userID string, values forms.ColumnFormValues, confirmTypeChange bool) (*columns.Column, error)
	PreviewTypeChange(ctx context.Context, columnID, userID string, to types.ColumnType) (forms.TypeChange, error)
	Reorder(ctx context.Context, boardID, userID string, columnIDs []string) ([]*columns.Column, error)
	Delete(ctx context.Context, columnID, userID string) error
}

type columnService struct {
	columnRepo  repository.ColumnRepository
	boards      BoardService
	schema      *cache.SchemaCache
	broadcaster *socket.Broadcaster
}

func NewColumnService(
	columnRepo repository.ColumnRepository,
	boards BoardService,
	schema *cache.SchemaCache,
	broadcaster *socket.Broadcaster,
) ColumnService {
	if schema == nil {
		schema = cache.NewSchemaCache(nil, 0)
	}
	return &columnService{
		columnRepo:  columnRepo,
		boards:      boards,
		schema:      schema,
		broadcaster: broadcaster,
	}
}

func (s *columnService) Schema(ctx context.Context, boardID string) ([]*columns.Column, error) {
	return s.schema.Columns(ctx, boardID, s.columnRepo.FindByBoardID)
}

func (s *columnService) List(ctx context.Context, boardID, userID string) ([]*columns.Column, error) {
	if _, err := s.boards.Get(ctx, boardID, userID); err != nil {
		return nil, err
	}
	return s.Schema(ctx, boardID)
}

func (s *columnService) Get(ctx context.Context, columnID, userID string) (*columns.Column, error) {
	if !validID(columnID) {
		return nil, ErrNotFound
	}
	col, err := s.columnRepo.FindByID(ctx, columnID)
	if err != nil {
		return nil, err
	}
	if col == nil {
		return nil, ErrNotFound
	}
	if _, err := s.boards.Get(ctx, col.BoardID, userID); err != nil {
		return nil, err
	}
	return col, nil
}

func (s *columnService) FormValues(ctx context.Context, columnID, userID string) (forms.ColumnFormValues, error) {
	col, err := s.Get(ctx, columnID, userID)
	if err != nil {
		return forms.ColumnFormValues{}, err
	}
	return forms.ToFormValues(col), nil
}

func payloadFrom(values forms.ColumnFormValues) (forms.ColumnPayload, error) {
	p, err := forms.FromFormValues(values)
	switch err {
	case nil:
		return p, nil
	case forms.ErrColumnNameRequired:
		return p, invalid("Column name is required")
	case forms.ErrUnknownColumnType:
		return p, invalid(fmt.Sprintf("Unknown column type %q", values.Type))
	default:
		return p, err
	}
}

func (s *columnService) Create(ctx context.Context, boardID, userID string, values forms.ColumnFormValues) (*columns.Column, error) {
	if _, err := s.boards.Get(ctx, boardID, userID); err != nil {
		return nil, err
	}
	p, err := payloadFrom(values)
	if err != nil {
		return nil, err
	}

	position, err := s.columnRepo.NextPosition(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute column position: %w", err)
	}
	col := &columns.Column{BoardID: boardID, Position: position}
	p.Apply(col)

	if err := s.columnRepo.Create(ctx, col); err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}
	s.schema.Invalidate(ctx, boardID)
	s.broadcaster.BroadcastColumnCreated(boardID, col, userID)
	log.Printf("🧱 [Columns] Created %s column %q on board %s", col.Type, col.Name, boardID)
	return col, nil
}

func (s *columnService) Update(ctx context.Context, columnID, userID string, values forms.ColumnFormValues, confirmTypeChange bool) (*columns.Column, error) {
	col, err := s.Get(ctx, columnID, userID)
	if err != nil {
		return nil, err
	}
	p, err := payloadFrom(values)
	if err != nil {
		return nil, err
	}

	typeChanged := p.Type != col.Type
	if typeChanged {
		change := forms.PreviewTypeChange(col, p.Type)
		if change.Lossy && !confirmTypeChange {
			return nil, &TypeChangeError{Change: change}
		}
		log.Printf("🔁 [Columns] Column %s type %s -> %s", col.ID, col.Type, p.Type)
	}

	p.Apply(col)
	if err := s.columnRepo.Update(ctx, col); err != nil {
		return nil, fmt.Errorf("failed to update column: %w", err)
	}
	s.schema.Invalidate(ctx, col.BoardID)
	s.broadcaster.BroadcastColumnUpdated(col.BoardID, col, typeChanged, userID)
	return col, nil
}

func (s *columnService) PreviewTypeChange(ctx context.Context, columnID, userID string, to types.ColumnType) (forms.TypeChange, error) {
	if !types.IsValidColumnType(string(to)) {
		return forms.TypeChange{}, invalid(fmt.Sprintf("Unknown column type %q", to))
	}
	col, err := s.Get(ctx, columnID, userID)
	if err != nil {
		return forms.TypeChange{}, err
	}
	return forms.PreviewTypeChange(col, to), nil
}

func (s *columnService) Reorder(ctx context.Context, boardID, userID string, columnIDs []string) ([]*columns.Column, error) {
	current, err := s.List(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(current))
	for _, c := range current {
		known[c.ID] = true
	}
	if len(columnIDs) != len(current) {
		return nil, invalid("Column order must list every column of the board")
	}
	seen := make(map[string]bool, len(columnIDs))
	for _, id := range columnIDs {
		if !known[id] || seen[id] {
			return nil, invalid(fmt.Sprintf("Column %s is not on this board or is listed twice", id))
		}
		seen[id] = true
	}

	if err := s.columnRepo.Reorder(ctx, boardID, columnIDs); err != nil {
		return nil, fmt.Errorf("failed to reorder columns: %w", err)
	}
	s.schema.Invalidate(ctx, boardID)
	s.broadcaster.BroadcastColumnsReordered(boardID, columnIDs, userID)
	return s.Schema(ctx, boardID)
}

func (s *columnService) Delete(ctx context.Context, columnID, userID string) error {
	col, err := s.Get(ctx, columnID, userID)
	if err != nil {
		return err
	}
	if err := s.columnRepo.Delete(ctx, columnID); err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}
	s.schema.Invalidate(ctx, col.BoardID)
	s.broadcaster.BroadcastColumnDeleted(col.BoardID, columnID, userID)
	return nil
}
