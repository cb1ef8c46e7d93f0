package handlers

import (
	"net/http"

	"github.com/Marga-Ghale/ora-boards-backend/internal/api/middleware"
	"github.com/Marga-Ghale/ora-boards-backend/internal/models"
	"github.com/Marga-Ghale/ora-boards-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Form Handler
// ============================================

type FormHandler struct {
	formService service.FormService
}

// Evaluate returns per-field visibility and required-ness for the current
// form data.
func (h *FormHandler) Evaluate(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.FormDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	fields, err := h.formService.Evaluate(c.Request.Context(), c.Param("id"), userID, req.FormData)
	if err != nil {
		fail(c, err, "Failed to evaluate form")
		return
	}
	respond(c, http.StatusOK, fields)
}

// Validate returns the validation result as data, with 200 either way.
func (h *FormHandler) Validate(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.FormDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.formService.Validate(c.Request.Context(), c.Param("id"), userID, req.FormData)
	if err != nil {
		fail(c, err, "Failed to validate form")
		return
	}
	respond(c, http.StatusOK, result)
}

func (h *FormHandler) GetPublic(c *gin.Context) {
	form, err := h.formService.PublicForm(c.Request.Context(), c.Param("boardId"))
	if err != nil {
		fail(c, err, "Failed to load form")
		return
	}
	respond(c, http.StatusOK, models.PublicFormResponse{
		BoardID:     form.BoardID,
		Title:       form.Title,
		Description: form.Description,
		Columns:     form.Columns,
		Fields:      form.Fields,
	})
}

func (h *FormHandler) SubmitPublic(c *gin.Context) {
	var req models.FormDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.formService.SubmitPublic(c.Request.Context(), c.Param("boardId"), req.FormData)
	if err != nil {
		fail(c, err, "Failed to submit form")
		return
	}
	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    models.ToItemResponse(item),
		Message: "Thanks! Your response has been recorded.",
	})
}
