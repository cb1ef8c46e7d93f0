package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Marga-Ghale/ora-boards-backend/internal/automation"
	"github.com/Marga-Ghale/ora-boards-backend/internal/metrics"
	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
	"github.com/Marga-Ghale/ora-boards-backend/internal/socket"
)

// ============================================
// Automation Service
// ============================================

type AutomationService interface {
	List(ctx context.Context, boardID, userID string) ([]*automation.Automation, error)
	Get(ctx context.Context, automationID, userID string) (*automation.Automation, error)
	Create(ctx context.Context, boardID, userID string, a *automation.Automation) (*automation.Automation, error)
	Update(ctx context.Context, automationID, userID string, a *automation.Automation) (*automation.Automation, error)
	Toggle(ctx context.Context, automationID, userID string) (*automation.Automation, error)
	Delete(ctx context.Context, automationID, userID string) error
	// Test is a dry run: nothing is saved and no action runs.
	Test(ctx context.Context, boardID, userID string, a *automation.Automation, sample map[string]any) (automation.TestResult, error)
}

type automationService struct {
	automationRepo repository.AutomationRepository
	boards         BoardService
	columns        ColumnService
	tester         *automation.Tester
	broadcaster    *socket.Broadcaster
}

func NewAutomationService(
	automationRepo repository.AutomationRepository,
	boards BoardService,
	columns ColumnService,
	tester *automation.Tester,
	broadcaster *socket.Broadcaster,
) AutomationService {
	return &automationService{
		automationRepo: automationRepo,
		boards:         boards,
		columns:        columns,
		tester:         tester,
		broadcaster:    broadcaster,
	}
}

func (s *automationService) List(ctx context.Context, boardID, userID string) ([]*automation.Automation, error) {
	if _, err := s.boards.Get(ctx, boardID, userID); err != nil {
		return nil, err
	}
	return s.automationRepo.FindByBoardID(ctx, boardID)
}

func (s *automationService) Get(ctx context.Context, automationID, userID string) (*automation.Automation, error) {
	if !validID(automationID) {
		return nil, ErrNotFound
	}
	a, err := s.automationRepo.FindByID(ctx, automationID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	if _, err := s.boards.Get(ctx, a.BoardID, userID); err != nil {
		return nil, err
	}
	return a, nil
}

// check runs the structural part of the dry run; a rule that would fail
// "Test Rule" cannot be saved.
func (s *automationService) check(ctx context.Context, a *automation.Automation) error {
	cols, err := s.columns.Schema(ctx, a.BoardID)
	if err != nil {
		return err
	}
	res := automation.TestRule(a, cols, nil)
	if !res.Success {
		return &InputError{Messages: res.Errors}
	}
	return nil
}

func (s *automationService) Create(ctx context.Context, boardID, userID string, a *automation.Automation) (*automation.Automation, error) {
	if _, err := s.boards.Get(ctx, boardID, userID); err != nil {
		return nil, err
	}
	a.BoardID = boardID
	a.CreatedBy = userID
	a.Name = strings.TrimSpace(a.Name)
	if err := s.check(ctx, a); err != nil {
		return nil, err
	}

	if err := s.automationRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create automation: %w", err)
	}
	s.broadcaster.BroadcastAutomationChanged(boardID, a.ID, "created", userID)
	log.Printf("⚙️ [Automations] Created %q (%s) on board %s", a.Name, a.Trigger.Type, boardID)
	return a, nil
}

func (s *automationService) Update(ctx context.Context, automationID, userID string, a *automation.Automation) (*automation.Automation, error) {
	existing, err := s.Get(ctx, automationID, userID)
	if err != nil {
		return nil, err
	}

	existing.Name = strings.TrimSpace(a.Name)
	existing.Description = a.Description
	existing.Trigger = a.Trigger
	existing.Actions = a.Actions
	existing.Conditions = a.Conditions
	existing.IsActive = a.IsActive
	if err := s.check(ctx, existing); err != nil {
		return nil, err
	}

	if err := s.automationRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update automation: %w", err)
	}
	s.broadcaster.BroadcastAutomationChanged(existing.BoardID, existing.ID, "updated", userID)
	return existing, nil
}

func (s *automationService) Toggle(ctx context.Context, automationID, userID string) (*automation.Automation, error) {
	a, err := s.Get(ctx, automationID, userID)
	if err != nil {
		return nil, err
	}
	a.IsActive = !a.IsActive
	if err := s.automationRepo.SetActive(ctx, a.ID, a.IsActive); err != nil {
		return nil, fmt.Errorf("failed to toggle automation: %w", err)
	}
	s.broadcaster.BroadcastAutomationChanged(a.BoardID, a.ID, "toggled", userID)
	return a, nil
}

func (s *automationService) Delete(ctx context.Context, automationID, userID string) error {
	a, err := s.Get(ctx, automationID, userID)
	if err != nil {
		return err
	}
	if err := s.automationRepo.Delete(ctx, automationID); err != nil {
		return fmt.Errorf("failed to delete automation: %w", err)
	}
	s.broadcaster.BroadcastAutomationChanged(a.BoardID, a.ID, "deleted", userID)
	return nil
}

func (s *automationService) Test(ctx context.Context, boardID, userID string, a *automation.Automation, sample map[string]any) (automation.TestResult, error) {
	cols, err := s.columns.List(ctx, boardID, userID)
	if err != nil {
		return automation.TestResult{}, err
	}
	a.BoardID = boardID
	res := s.tester.Test(ctx, a, cols, sample)
	metrics.Get().RecordAutomationTest(res.Success)
	return res, nil
}
