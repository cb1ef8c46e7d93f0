package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/automation"
	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/google/uuid"
)

// NewRepositories creates in-memory repositories for development and tests.
func NewRepositories() *Repositories {
	return &Repositories{
		BoardRepo:      newInMemoryBoardRepository(),
		ColumnRepo:     newInMemoryColumnRepository(),
		ItemRepo:       newInMemoryItemRepository(),
		AutomationRepo: newInMemoryAutomationRepository(),
		ViewRepo:       newInMemoryViewRepository(),
		CounterRepo:    newInMemoryCounterRepository(),
	}
}

// ============================================
// Boards
// ============================================

type inMemoryBoardRepository struct {
	mu     sync.RWMutex
	boards map[string]*Board
}

func newInMemoryBoardRepository() *inMemoryBoardRepository {
	return &inMemoryBoardRepository{boards: make(map[string]*Board)}
}

func (r *inMemoryBoardRepository) Create(ctx context.Context, board *Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	board.ID = uuid.New().String()
	board.CreatedAt = time.Now()
	board.UpdatedAt = board.CreatedAt
	b := *board
	r.boards[board.ID] = &b
	return nil
}

func (r *inMemoryBoardRepository) FindByID(ctx context.Context, id string) (*Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.boards[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *inMemoryBoardRepository) FindByOwner(ctx context.Context, ownerID string) ([]*Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	boards := []*Board{}
	for _, b := range r.boards {
		if b.OwnerID == ownerID {
			cp := *b
			boards = append(boards, &cp)
		}
	}
	sort.Slice(boards, func(i, j int) bool { return boards[i].CreatedAt.After(boards[j].CreatedAt) })
	return boards, nil
}

func (r *inMemoryBoardRepository) Update(ctx context.Context, board *Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.boards[board.ID]; !ok {
		return nil
	}
	board.UpdatedAt = time.Now()
	b := *board
	r.boards[board.ID] = &b
	return nil
}

func (r *inMemoryBoardRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.boards, id)
	return nil
}

// ============================================
// Columns
// ============================================

type inMemoryColumnRepository struct {
	mu   sync.RWMutex
	cols map[string]*columns.Column
}

func newInMemoryColumnRepository() *inMemoryColumnRepository {
	return &inMemoryColumnRepository{cols: make(map[string]*columns.Column)}
}

func (r *inMemoryColumnRepository) Create(ctx context.Context, c *columns.Column) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.New().String()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.cols[c.ID] = &cp
	return nil
}

func (r *inMemoryColumnRepository) FindByID(ctx context.Context, id string) (*columns.Column, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.cols[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *inMemoryColumnRepository) FindByBoardID(ctx context.Context, boardID string) ([]*columns.Column, error) {
	return r.filter(func(c *columns.Column) bool { return c.BoardID == boardID }), nil
}

func (r *inMemoryColumnRepository) FindByType(ctx context.Context, columnType string) ([]*columns.Column, error) {
	return r.filter(func(c *columns.Column) bool { return string(c.Type) == columnType }), nil
}

func (r *inMemoryColumnRepository) filter(keep func(*columns.Column) bool) []*columns.Column {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*columns.Column{}
	for _, c := range r.cols {
		if keep(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *inMemoryColumnRepository) Update(ctx context.Context, c *columns.Column) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cols[c.ID]; !ok {
		return nil
	}
	c.UpdatedAt = time.Now()
	cp := *c
	r.cols[c.ID] = &cp
	return nil
}

func (r *inMemoryColumnRepository) Reorder(ctx context.Context, boardID string, columnIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, id := range columnIDs {
		if c, ok := r.cols[id]; ok && c.BoardID == boardID {
			c.Position = i
			c.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *inMemoryColumnRepository) NextPosition(ctx context.Context, boardID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	next := 0
	for _, c := range r.cols {
		if c.BoardID == boardID && c.Position >= next {
			next = c.Position + 1
		}
	}
	return next, nil
}

func (r *inMemoryColumnRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cols, id)
	return nil
}

// ============================================
// Items
// ============================================

type inMemoryItemRepository struct {
	mu    sync.RWMutex
	items map[string]*Item
}

func newInMemoryItemRepository() *inMemoryItemRepository {
	return &inMemoryItemRepository{items: make(map[string]*Item)}
}

func cloneItem(it *Item) *Item {
	cp := *it
	cp.Cells = make(map[string]any, len(it.Cells))
	for k, v := range it.Cells {
		cp.Cells[k] = v
	}
	return &cp
}

func (r *inMemoryItemRepository) Create(ctx context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = uuid.New().String()
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	if item.State == "" {
		item.State = "active"
	}
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *inMemoryItemRepository) FindByID(ctx context.Context, id string) (*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if it, ok := r.items[id]; ok {
		return cloneItem(it), nil
	}
	return nil, nil
}

func (r *inMemoryItemRepository) FindByBoardID(ctx context.Context, boardID string, includeArchived bool) ([]*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := []*Item{}
	for _, it := range r.items {
		if it.BoardID != boardID || (!includeArchived && it.State != "active") {
			continue
		}
		items = append(items, cloneItem(it))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (r *inMemoryItemRepository) Update(ctx context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return nil
	}
	item.UpdatedAt = time.Now()
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *inMemoryItemRepository) NextPosition(ctx context.Context, boardID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	next := 0
	for _, it := range r.items {
		if it.BoardID == boardID && it.Position >= next {
			next = it.Position + 1
		}
	}
	return next, nil
}

func (r *inMemoryItemRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

// ============================================
// Automations
// ============================================

type inMemoryAutomationRepository struct {
	mu          sync.RWMutex
	automations map[string]*automation.Automation
}

func newInMemoryAutomationRepository() *inMemoryAutomationRepository {
	return &inMemoryAutomationRepository{automations: make(map[string]*automation.Automation)}
}

func (r *inMemoryAutomationRepository) Create(ctx context.Context, a *automation.Automation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.New().String()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.automations[a.ID] = &cp
	return nil
}

func (r *inMemoryAutomationRepository) FindByID(ctx context.Context, id string) (*automation.Automation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.automations[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *inMemoryAutomationRepository) FindByBoardID(ctx context.Context, boardID string) ([]*automation.Automation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := []*automation.Automation{}
	for _, a := range r.automations {
		if a.BoardID == boardID {
			cp := *a
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *inMemoryAutomationRepository) Update(ctx context.Context, a *automation.Automation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.automations[a.ID]; !ok {
		return nil
	}
	a.UpdatedAt = time.Now()
	cp := *a
	r.automations[a.ID] = &cp
	return nil
}

func (r *inMemoryAutomationRepository) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.automations[id]; ok {
		a.IsActive = active
		a.UpdatedAt = time.Now()
	}
	return nil
}

func (r *inMemoryAutomationRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.automations, id)
	return nil
}

// ============================================
// Saved views
// ============================================

type inMemoryViewRepository struct {
	mu    sync.RWMutex
	views map[string]*SavedView
}

func newInMemoryViewRepository() *inMemoryViewRepository {
	return &inMemoryViewRepository{views: make(map[string]*SavedView)}
}

func (r *inMemoryViewRepository) Create(ctx context.Context, v *SavedView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.ID = uuid.New().String()
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	v.Settings = v.Settings.normalized()
	cp := *v
	r.views[v.ID] = &cp
	return nil
}

func (r *inMemoryViewRepository) FindByID(ctx context.Context, id string) (*SavedView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v, ok := r.views[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (r *inMemoryViewRepository) FindByBoardID(ctx context.Context, boardID string) ([]*SavedView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	views := []*SavedView{}
	for _, v := range r.views {
		if v.BoardID == boardID {
			cp := *v
			views = append(views, &cp)
		}
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].IsDefault != views[j].IsDefault {
			return views[i].IsDefault
		}
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})
	return views, nil
}

func (r *inMemoryViewRepository) Update(ctx context.Context, v *SavedView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.views[v.ID]; !ok {
		return nil
	}
	v.UpdatedAt = time.Now()
	v.Settings = v.Settings.normalized()
	cp := *v
	r.views[v.ID] = &cp
	return nil
}

func (r *inMemoryViewRepository) ClearDefault(ctx context.Context, boardID, keepID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, v := range r.views {
		if v.BoardID == boardID && id != keepID {
			v.IsDefault = false
		}
	}
	return nil
}

func (r *inMemoryViewRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.views, id)
	return nil
}

// ============================================
// Auto-number counters
// ============================================

type counter struct {
	current     int64
	periodStart time.Time
}

type inMemoryCounterRepository struct {
	mu       sync.Mutex
	counters map[string]*counter
}

func newInMemoryCounterRepository() *inMemoryCounterRepository {
	return &inMemoryCounterRepository{counters: make(map[string]*counter)}
}

func (r *inMemoryCounterRepository) Next(ctx context.Context, columnID string, start int64, periodStart time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.counters[columnID]
	if !ok || !c.periodStart.Equal(periodStart) {
		r.counters[columnID] = &counter{current: start, periodStart: periodStart}
		return start, nil
	}
	c.current++
	return c.current, nil
}

func (r *inMemoryCounterRepository) ResetBefore(ctx context.Context, columnIDs []string, periodStart time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range columnIDs {
		c, ok := r.counters[id]
		if ok && (c.periodStart.IsZero() || c.periodStart.Before(periodStart)) {
			delete(r.counters, id)
			n++
		}
	}
	return n, nil
}
