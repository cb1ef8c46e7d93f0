package service

import (
	"errors"
	"strings"

	"github.com/Marga-Ghale/ora-boards-backend/internal/automation"
	"github.com/Marga-Ghale/ora-boards-backend/internal/cache"
	"github.com/Marga-Ghale/ora-boards-backend/internal/config"
	"github.com/Marga-Ghale/ora-boards-backend/internal/forms"
	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
	"github.com/Marga-Ghale/ora-boards-backend/internal/socket"
	"github.com/Marga-Ghale/ora-boards-backend/internal/viewprefs"
	"github.com/google/uuid"
)

var (
	ErrNotFound               = errors.New("resource not found")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidToken           = errors.New("invalid token")
	ErrValidation             = errors.New("validation failed")
	ErrTypeChangeNeedsConfirm = errors.New("column type change needs confirmation")
	ErrReadOnlyColumn         = errors.New("column is read-only")
	ErrFormNotPublic          = errors.New("form is not public")
)

// ValidationError carries the field errors of a rejected submission.
type ValidationError struct {
	Errors []forms.FieldError
}

func (e *ValidationError) Error() string { return ErrValidation.Error() }
func (e *ValidationError) Unwrap() error { return ErrValidation }

// InputError lists what is wrong with a request body.
type InputError struct {
	Messages []string
}

func (e *InputError) Error() string { return strings.Join(e.Messages, "; ") }
func (e *InputError) Unwrap() error { return ErrInvalidInput }

// TypeChangeError is returned when a lossy type change was not confirmed.
type TypeChangeError struct {
	Change forms.TypeChange
}

func (e *TypeChangeError) Error() string { return e.Change.Warning }
func (e *TypeChangeError) Unwrap() error { return ErrTypeChangeNeedsConfirm }

func invalid(messages ...string) error {
	return &InputError{Messages: messages}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth       AuthService
	Board      BoardService
	Column     ColumnService
	Item       ItemService
	Form       FormService
	Automation AutomationService
	View       ViewService

	Broadcaster *socket.Broadcaster
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	Schema      *cache.SchemaCache
	Prefs       *viewprefs.Prefs
	Previewer   automation.Previewer
	Broadcaster *socket.Broadcaster
}

func NewServices(deps *ServiceDeps) *Services {
	boards := NewBoardService(deps.Repos.BoardRepo, deps.Broadcaster)
	columnSvc := NewColumnService(deps.Repos.ColumnRepo, boards, deps.Schema, deps.Broadcaster)
	itemSvc := NewItemService(deps.Repos.ItemRepo, deps.Repos.CounterRepo, boards, columnSvc, deps.Broadcaster)

	return &Services{
		Auth:       NewAuthService(deps.Config),
		Board:      boards,
		Column:     columnSvc,
		Item:       itemSvc,
		Form:       NewFormService(deps.Repos.BoardRepo, boards, columnSvc, itemSvc),
		Automation: NewAutomationService(deps.Repos.AutomationRepo, boards, columnSvc, automation.NewTester(deps.Previewer), deps.Broadcaster),
		View:       NewViewService(deps.Repos.ViewRepo, boards, deps.Prefs, deps.Broadcaster),

		Broadcaster: deps.Broadcaster,
	}
}
