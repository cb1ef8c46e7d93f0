package handlers

import (
	"net/http"

	"github.com/Marga-Ghale/ora-boards-backend/internal/api/middleware"
	"github.com/Marga-Ghale/ora-boards-backend/internal/models"
	"github.com/Marga-Ghale/ora-boards-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Automation Handler
// ============================================

type AutomationHandler struct {
	automationService service.AutomationService
}

func (h *AutomationHandler) ListByBoard(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	list, err := h.automationService.List(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err, "Failed to fetch automations")
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *AutomationHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateAutomationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	a, err := h.automationService.Create(c.Request.Context(), req.BoardID, userID, req.ToAutomation())
	if err != nil {
		fail(c, err, "Failed to create automation")
		return
	}
	respond(c, http.StatusCreated, a)
}

func (h *AutomationHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	a, err := h.automationService.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err, "Failed to fetch automation")
		return
	}
	respond(c, http.StatusOK, a)
}

func (h *AutomationHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.AutomationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	a, err := h.automationService.Update(c.Request.Context(), c.Param("id"), userID, req.ToAutomation())
	if err != nil {
		fail(c, err, "Failed to update automation")
		return
	}
	respond(c, http.StatusOK, a)
}

func (h *AutomationHandler) Toggle(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	a, err := h.automationService.Toggle(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err, "Failed to toggle automation")
		return
	}
	respond(c, http.StatusOK, a)
}

func (h *AutomationHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.automationService.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		fail(c, err, "Failed to delete automation")
		return
	}
	c.Status(http.StatusNoContent)
}

// Test runs "Test Rule". An incomplete rule is a 200 with success=false in
// the result; nothing is saved or executed.
func (h *AutomationHandler) Test(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.TestAutomationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.automationService.Test(c.Request.Context(), req.BoardID, userID, req.Automation.ToAutomation(), req.SampleItem)
	if err != nil {
		fail(c, err, "Failed to test automation")
		return
	}
	respond(c, http.StatusOK, result)
}
