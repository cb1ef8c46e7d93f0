package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Marga-Ghale/ora-boards-backend/internal/models"
	"github.com/Marga-Ghale/ora-boards-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Board      *BoardHandler
	Column     *ColumnHandler
	Item       *ItemHandler
	Form       *FormHandler
	Automation *AutomationHandler
	View       *ViewHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Board:      &BoardHandler{boardService: services.Board, columnService: services.Column, itemService: services.Item},
		Column:     &ColumnHandler{columnService: services.Column},
		Item:       &ItemHandler{itemService: services.Item},
		Form:       &FormHandler{formService: services.Form},
		Automation: &AutomationHandler{automationService: services.Automation},
		View:       &ViewHandler{viewService: services.View},
	}
}

// ============================================
// Responses
// ============================================

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, models.APIResponse{Success: true, Data: data})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: err.Error()})
}

// fail maps service errors to status codes. Anything unrecognized is logged
// and reported as a 500 with fallback as the message.
func fail(c *gin.Context, err error, fallback string) {
	var (
		verr  *service.ValidationError
		tcErr *service.TypeChangeError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, models.APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  verr.Errors,
		})
	case errors.As(err, &tcErr):
		c.JSON(http.StatusConflict, models.APIResponse{
			Success: false,
			Message: tcErr.Change.Warning,
			Data:    tcErr.Change,
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, models.APIResponse{Success: false, Message: "Not found"})
	case errors.Is(err, service.ErrFormNotPublic):
		c.JSON(http.StatusNotFound, models.APIResponse{Success: false, Message: "This form is not public"})
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrReadOnlyColumn):
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: err.Error()})
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, models.APIResponse{Success: false, Message: "Unauthorized"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, models.APIResponse{Success: false, Message: "Forbidden"})
	default:
		log.Printf("❌ [API] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, models.APIResponse{Success: false, Message: fallback})
	}
}
