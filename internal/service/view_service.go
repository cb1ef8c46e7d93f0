package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
	"github.com/Marga-Ghale/ora-boards-backend/internal/socket"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
	"github.com/Marga-Ghale/ora-boards-backend/internal/viewprefs"
)

// ============================================
// View Service
// ============================================

// ViewEntry is a saved view with the caller's favorite flag.
type ViewEntry struct {
	*repository.SavedView
	IsFavorite bool
}

type ViewInput struct {
	Name      string
	Type      string
	Settings  repository.ViewSettings
	IsDefault bool
}

type ViewUpdate struct {
	Name      *string
	Type      *string
	Settings  *repository.ViewSettings
	IsDefault *bool
}

type ViewService interface {
	List(ctx context.Context, boardID, userID string) ([]ViewEntry, error)
	Get(ctx context.Context, viewID, userID string) (*repository.SavedView, error)
	Create(ctx context.Context, boardID, userID string, input ViewInput) (*repository.SavedView, error)
	Update(ctx context.Context, viewID, userID string, upd ViewUpdate) (*repository.SavedView, error)
	Delete(ctx context.Context, viewID, userID string) error
	// Open records the view as the user's most recent one on its board.
	Open(ctx context.Context, viewID, userID string) (*repository.SavedView, error)
	ToggleFavorite(ctx context.Context, viewID, userID string) (bool, error)
	Recent(ctx context.Context, boardID, userID string) ([]*repository.SavedView, error)
	Favorites(ctx context.Context, boardID, userID string) ([]*repository.SavedView, error)
}

type viewService struct {
	viewRepo    repository.ViewRepository
	boards      BoardService
	prefs       *viewprefs.Prefs
	broadcaster *socket.Broadcaster
}

func NewViewService(viewRepo repository.ViewRepository, boards BoardService, prefs *viewprefs.Prefs, broadcaster *socket.Broadcaster) ViewService {
	if prefs == nil {
		prefs = viewprefs.New(viewprefs.NewMemoryStore(), viewprefs.DefaultRecentLimit)
	}
	return &viewService{viewRepo: viewRepo, boards: boards, prefs: prefs, broadcaster: broadcaster}
}

func (s *viewService) List(ctx context.Context, boardID, userID string) ([]ViewEntry, error) {
	if _, err := s.boards.Get(ctx, boardID, userID); err != nil {
		return nil, err
	}
	views, err := s.viewRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	favs, err := s.prefs.Favorites(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	isFav := make(map[string]bool, len(favs))
	for _, id := range favs {
		isFav[id] = true
	}

	entries := make([]ViewEntry, 0, len(views))
	for _, v := range views {
		entries = append(entries, ViewEntry{SavedView: v, IsFavorite: isFav[v.ID]})
	}
	return entries, nil
}

func (s *viewService) Get(ctx context.Context, viewID, userID string) (*repository.SavedView, error) {
	if !validID(viewID) {
		return nil, ErrNotFound
	}
	view, err := s.viewRepo.FindByID(ctx, viewID)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, ErrNotFound
	}
	if _, err := s.boards.Get(ctx, view.BoardID, userID); err != nil {
		return nil, err
	}
	return view, nil
}

func checkViewType(viewType string) (string, error) {
	if viewType == "" {
		return types.ViewTable, nil
	}
	if !types.IsValidViewType(viewType) {
		return "", invalid(fmt.Sprintf("Unknown view type %q", viewType))
	}
	return viewType, nil
}

func (s *viewService) Create(ctx context.Context, boardID, userID string, input ViewInput) (*repository.SavedView, error) {
	if _, err := s.boards.Get(ctx, boardID, userID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("View name is required")
	}
	viewType, err := checkViewType(input.Type)
	if err != nil {
		return nil, err
	}

	view := &repository.SavedView{
		BoardID:   boardID,
		OwnerID:   userID,
		Name:      name,
		Type:      viewType,
		Settings:  input.Settings,
		IsDefault: input.IsDefault,
	}
	if err := s.viewRepo.Create(ctx, view); err != nil {
		return nil, fmt.Errorf("failed to create view: %w", err)
	}
	if view.IsDefault {
		if err := s.viewRepo.ClearDefault(ctx, boardID, view.ID); err != nil {
			return nil, fmt.Errorf("failed to reset default view: %w", err)
		}
	}
	s.broadcaster.BroadcastViewChanged(boardID, view.ID, "created", userID)
	return view, nil
}

func (s *viewService) Update(ctx context.Context, viewID, userID string, upd ViewUpdate) (*repository.SavedView, error) {
	view, err := s.Get(ctx, viewID, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, invalid("View name is required")
		}
		view.Name = name
	}
	if upd.Type != nil {
		if view.Type, err = checkViewType(*upd.Type); err != nil {
			return nil, err
		}
	}
	if upd.Settings != nil {
		view.Settings = *upd.Settings
	}
	becameDefault := false
	if upd.IsDefault != nil {
		becameDefault = *upd.IsDefault && !view.IsDefault
		view.IsDefault = *upd.IsDefault
	}

	if err := s.viewRepo.Update(ctx, view); err != nil {
		return nil, fmt.Errorf("failed to update view: %w", err)
	}
	if becameDefault {
		if err := s.viewRepo.ClearDefault(ctx, view.BoardID, view.ID); err != nil {
			return nil, fmt.Errorf("failed to reset default view: %w", err)
		}
	}
	s.broadcaster.BroadcastViewChanged(view.BoardID, view.ID, "updated", userID)
	return view, nil
}

func (s *viewService) Delete(ctx context.Context, viewID, userID string) error {
	view, err := s.Get(ctx, viewID, userID)
	if err != nil {
		return err
	}
	if err := s.viewRepo.Delete(ctx, viewID); err != nil {
		return fmt.Errorf("failed to delete view: %w", err)
	}
	if err := s.prefs.Forget(ctx, userID, view.BoardID, viewID); err != nil {
		return err
	}
	s.broadcaster.BroadcastViewChanged(view.BoardID, viewID, "deleted", userID)
	return nil
}

func (s *viewService) Open(ctx context.Context, viewID, userID string) (*repository.SavedView, error) {
	view, err := s.Get(ctx, viewID, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.prefs.TouchRecent(ctx, userID, view.BoardID, view.ID); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *viewService) ToggleFavorite(ctx context.Context, viewID, userID string) (bool, error) {
	view, err := s.Get(ctx, viewID, userID)
	if err != nil {
		return false, err
	}
	return s.prefs.ToggleFavorite(ctx, userID, view.BoardID, view.ID)
}

func (s *viewService) Recent(ctx context.Context, boardID, userID string) ([]*repository.SavedView, error) {
	if _, err := s.boards.Get(ctx, boardID, userID); err != nil {
		return nil, err
	}
	ids, err := s.prefs.Recent(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, boardID, ids)
}

func (s *viewService) Favorites(ctx context.Context, boardID, userID string) ([]*repository.SavedView, error) {
	if _, err := s.boards.Get(ctx, boardID, userID); err != nil {
		return nil, err
	}
	ids, err := s.prefs.Favorites(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, boardID, ids)
}

// resolve keeps the order of ids and skips views that no longer exist.
func (s *viewService) resolve(ctx context.Context, boardID string, ids []string) ([]*repository.SavedView, error) {
	views, err := s.viewRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*repository.SavedView, len(views))
	for _, v := range views {
		byID[v.ID] = v
	}
	out := make([]*repository.SavedView, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}
