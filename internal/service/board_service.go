package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
	"github.com/Marga-Ghale/ora-boards-backend/internal/socket"
)

// ============================================
// Board Service
// ============================================

type BoardUpdate struct {
	Name            *string
	Description     *string
	FormPublic      *bool
	FormTitle       *string
	FormDescription *string
}

type BoardService interface {
	Create(ctx context.Context, ownerID, name string, description *string) (*repository.Board, error)
	Get(ctx context.Context, boardID, userID string) (*repository.Board, error)
	List(ctx context.Context, userID string) ([]*repository.Board, error)
	Update(ctx context.Context, boardID, userID string, upd BoardUpdate) (*repository.Board, error)
	Delete(ctx context.Context, boardID, userID string) error
	// CanJoinRoom admits users to the websocket rooms of boards they own.
	CanJoinRoom(ctx context.Context, userID, room string) bool
}

type boardService struct {
	boardRepo   repository.BoardRepository
	broadcaster *socket.Broadcaster
}

func NewBoardService(boardRepo repository.BoardRepository, broadcaster *socket.Broadcaster) BoardService {
	return &boardService{boardRepo: boardRepo, broadcaster: broadcaster}
}

func (s *boardService) Create(ctx context.Context, ownerID, name string, description *string) (*repository.Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("Board name is required")
	}
	board := &repository.Board{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}
	if err := s.boardRepo.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	log.Printf("📋 [Boards] Created board %s (%s) for %s", board.ID, board.Name, ownerID)
	return board, nil
}

// Get loads a board the user owns. Boards of other users read as not found.
func (s *boardService) Get(ctx context.Context, boardID, userID string) (*repository.Board, error) {
	board, err := s.find(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.OwnerID != userID {
		return nil, ErrNotFound
	}
	return board, nil
}

func (s *boardService) find(ctx context.Context, boardID string) (*repository.Board, error) {
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
	return board, nil
}

func (s *boardService) List(ctx context.Context, userID string) ([]*repository.Board, error) {
	return s.boardRepo.FindByOwner(ctx, userID)
}

func (s *boardService) Update(ctx context.Context, boardID, userID string, upd BoardUpdate) (*repository.Board, error) {
	board, err := s.Get(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, invalid("Board name is required")
		}
		board.Name = name
	}
	if upd.Description != nil {
		board.Description = upd.Description
	}
	if upd.FormPublic != nil {
		board.FormPublic = *upd.FormPublic
	}
	if upd.FormTitle != nil {
		board.FormTitle = upd.FormTitle
	}
	if upd.FormDescription != nil {
		board.FormDescription = upd.FormDescription
	}

	if err := s.boardRepo.Update(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}
	s.broadcaster.BroadcastBoardUpdated(board.ID, map[string]interface{}{
		"id":         board.ID,
		"name":       board.Name,
		"formPublic": board.FormPublic,
	}, userID)
	return board, nil
}

func (s *boardService) Delete(ctx context.Context, boardID, userID string) error {
	if _, err := s.Get(ctx, boardID, userID); err != nil {
		return err
	}
	if err := s.boardRepo.Delete(ctx, boardID); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	s.broadcaster.BroadcastBoardDeleted(boardID, userID)
	log.Printf("🗑️ [Boards] Deleted board %s", boardID)
	return nil
}

func (s *boardService) CanJoinRoom(ctx context.Context, userID, room string) bool {
	if strings.HasPrefix(room, "user:") {
		return room == "user:"+userID
	}
	boardID, ok := strings.CutPrefix(room, "board:")
	if !ok {
		return false
	}
	_, err := s.Get(ctx, boardID, userID)
	return err == nil
}
