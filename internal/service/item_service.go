package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/forms"
	"github.com/Marga-Ghale/ora-boards-backend/internal/metrics"
	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
	"github.com/Marga-Ghale/ora-boards-backend/internal/socket"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
)

// ============================================
// Item Service
// ============================================

type ItemInput struct {
	Name     string
	Status   *string
	Group    *string
	Position *int
	Cells    map[string]any
}

type ItemUpdate struct {
	Name     *string
	Status   *string
	Group    *string
	Position *int
	State    *string
	// Cells holds only the cells being changed; a nil value clears one.
	Cells map[string]any
}

type ItemService interface {
	List(ctx context.Context, boardID, userID string, includeArchived bool) ([]*repository.Item, error)
	Get(ctx context.Context, itemID, userID string) (*repository.Item, error)
	Create(ctx context.Context, boardID, userID string, input ItemInput) (*repository.Item, error)
	Update(ctx context.Context, itemID, userID string, upd ItemUpdate) (*repository.Item, error)
	Delete(ctx context.Context, itemID, userID string) error
	// Submit stores a submission without an ownership check. The board
	// must already be authorized or public.
	Submit(ctx context.Context, boardID string, createdBy *string, input ItemInput) (*repository.Item, error)
}

type itemService struct {
	itemRepo    repository.ItemRepository
	counterRepo repository.CounterRepository
	boards      BoardService
	columns     ColumnService
	broadcaster *socket.Broadcaster
	now         func() time.Time
}

func NewItemService(
	itemRepo repository.ItemRepository,
	counterRepo repository.CounterRepository,
	boards BoardService,
	columns ColumnService,
	broadcaster *socket.Broadcaster,
) ItemService {
	return &itemService{
		itemRepo:    itemRepo,
		counterRepo: counterRepo,
		boards:      boards,
		columns:     columns,
		broadcaster: broadcaster,
		now:         time.Now,
	}
}

func (s *itemService) List(ctx context.Context, boardID, userID string, includeArchived bool) ([]*repository.Item, error) {
	if _, err := s.boards.Get(ctx, boardID, userID); err != nil {
		return nil, err
	}
	return s.itemRepo.FindByBoardID(ctx, boardID, includeArchived)
}

func (s *itemService) Get(ctx context.Context, itemID, userID string) (*repository.Item, error) {
	if !validID(itemID) {
		return nil, ErrNotFound
	}
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	if _, err := s.boards.Get(ctx, item.BoardID, userID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) Create(ctx context.Context, boardID, userID string, input ItemInput) (*repository.Item, error) {
	if _, err := s.boards.Get(ctx, boardID, userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, invalid("Item name is required")
	}
	return s.Submit(ctx, boardID, &userID, input)
}

func (s *itemService) Submit(ctx context.Context, boardID string, createdBy *string, input ItemInput) (*repository.Item, error) {
	cols, err := s.columns.Schema(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := rejectReadOnly(cols, input.Cells); err != nil {
		return nil, err
	}

	formData := forms.ApplyDefaults(cols, input.Cells)
	result := forms.ValidateForm(cols, formData)
	metrics.Get().RecordValidation(result.IsValid)
	if !result.IsValid {
		return nil, &ValidationError{Errors: result.Errors}
	}

	cells := forms.BuildCells(cols, formData)
	if err := s.assignAutoNumbers(ctx, cols, cells); err != nil {
		return nil, err
	}

	item := &repository.Item{
		BoardID:   boardID,
		Name:      strings.TrimSpace(input.Name),
		Status:    input.Status,
		Group:     input.Group,
		State:     types.ItemActive,
		Cells:     dropNil(cells),
		CreatedBy: createdBy,
	}
	if input.Position != nil {
		item.Position = *input.Position
	} else if item.Position, err = s.itemRepo.NextPosition(ctx, boardID); err != nil {
		return nil, fmt.Errorf("failed to compute item position: %w", err)
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	exclude := ""
	if createdBy != nil {
		exclude = *createdBy
	}
	s.broadcaster.BroadcastItemCreated(boardID, itemPayload(item), exclude)
	return item, nil
}

func (s *itemService) Update(ctx context.Context, itemID, userID string, upd ItemUpdate) (*repository.Item, error) {
	item, err := s.Get(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, invalid("Item name is required")
		}
		item.Name = name
	}
	if upd.Status != nil {
		item.Status = upd.Status
	}
	if upd.Group != nil {
		item.Group = upd.Group
	}
	if upd.Position != nil {
		item.Position = *upd.Position
	}
	if upd.State != nil {
		if *upd.State != types.ItemActive && *upd.State != types.ItemArchived {
			return nil, invalid(fmt.Sprintf("Unknown item state %q", *upd.State))
		}
		item.State = *upd.State
	}

	changed := []string{}
	if len(upd.Cells) > 0 {
		cols, err := s.columns.Schema(ctx, item.BoardID)
		if err != nil {
			return nil, err
		}
		if err := rejectReadOnly(cols, upd.Cells); err != nil {
			return nil, err
		}

		formData := forms.FormValues(cols, item.Cells)
		for k, v := range upd.Cells {
			formData[k] = v
		}
		if res := forms.ValidateChanged(cols, formData, upd.Cells); !res.IsValid {
			metrics.Get().RecordValidation(false)
			return nil, &ValidationError{Errors: res.Errors}
		}
		metrics.Get().RecordValidation(true)

		update := forms.BuildCells(cols, upd.Cells)
		item.Cells = forms.MergeCells(item.Cells, update)
		for k := range update {
			changed = append(changed, k)
		}
		sort.Strings(changed)
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	s.broadcaster.BroadcastItemUpdated(item.BoardID, itemPayload(item), changed, userID)
	return item, nil
}

func (s *itemService) Delete(ctx context.Context, itemID, userID string) error {
	item, err := s.Get(ctx, itemID, userID)
	if err != nil {
		return err
	}
	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	s.broadcaster.BroadcastItemDeleted(item.BoardID, itemID, userID)
	return nil
}

func rejectReadOnly(cols []*columns.Column, cells map[string]any) error {
	for _, col := range cols {
		if _, ok := cells[col.ID]; ok && !col.Editable() {
			return fmt.Errorf("%w: %s", ErrReadOnlyColumn, col.Name)
		}
	}
	return nil
}

func (s *itemService) assignAutoNumbers(ctx context.Context, cols []*columns.Column, cells map[string]any) error {
	now := s.now()
	for _, col := range cols {
		if col.Type != types.ColumnAutoNumber {
			continue
		}
		settings, ok := col.TypedSettings().(*columns.AutoNumberSettings)
		if !ok {
			continue
		}
		n, err := s.counterRepo.Next(ctx, col.ID, int64(settings.StartNumber), columns.PeriodStart(settings.ResetOn, now))
		if err != nil {
			return fmt.Errorf("failed to assign number for %s: %w", col.Name, err)
		}
		cells[col.ID] = columns.FormatAutoNumber(settings, n, now)
		log.Printf("🔢 [Items] %s -> %s", col.Name, cells[col.ID])
	}
	return nil
}

func dropNil(cells map[string]any) map[string]any {
	for k, v := range cells {
		if v == nil {
			delete(cells, k)
		}
	}
	return cells
}

func itemPayload(item *repository.Item) map[string]interface{} {
	return map[string]interface{}{
		"id":       item.ID,
		"name":     item.Name,
		"status":   item.Status,
		"group":    item.Group,
		"position": item.Position,
		"state":    item.State,
		"cells":    item.Cells,
	}
}
