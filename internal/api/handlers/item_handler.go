package handlers

import (
	"net/http"

	"github.com/Marga-Ghale/ora-boards-backend/internal/api/middleware"
	"github.com/Marga-Ghale/ora-boards-backend/internal/models"
	"github.com/Marga-Ghale/ora-boards-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Item Handler
// ============================================

type ItemHandler struct {
	itemService service.ItemService
}

func (h *ItemHandler) ListByBoard(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	items, err := h.itemService.List(c.Request.Context(), c.Param("id"), userID, c.Query("archived") == "true")
	if err != nil {
		fail(c, err, "Failed to fetch items")
		return
	}

	response := make([]models.ItemResponse, len(items))
	for i, it := range items {
		response[i] = models.ToItemResponse(it)
	}
	respond(c, http.StatusOK, response)
}

func (h *ItemHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), c.Param("id"), userID, service.ItemInput{
		Name:     req.Name,
		Status:   req.Status,
		Group:    req.Group,
		Position: req.Position,
		Cells:    req.Cells,
	})
	if err != nil {
		fail(c, err, "Failed to create item")
		return
	}
	respond(c, http.StatusCreated, models.ToItemResponse(item))
}

func (h *ItemHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	item, err := h.itemService.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err, "Failed to fetch item")
		return
	}
	respond(c, http.StatusOK, models.ToItemResponse(item))
}

func (h *ItemHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), c.Param("id"), userID, service.ItemUpdate{
		Name:     req.Name,
		Status:   req.Status,
		Group:    req.Group,
		Position: req.Position,
		State:    req.State,
		Cells:    req.Cells,
	})
	if err != nil {
		fail(c, err, "Failed to update item")
		return
	}
	respond(c, http.StatusOK, models.ToItemResponse(item))
}

func (h *ItemHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		fail(c, err, "Failed to delete item")
		return
	}
	c.Status(http.StatusNoContent)
}
