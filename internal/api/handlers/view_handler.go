package handlers

import (
	"context"
	"net/http"

	"github.com/Marga-Ghale/ora-boards-backend/internal/api/middleware"
	"github.com/Marga-Ghale/ora-boards-backend/internal/models"
	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
	"github.com/Marga-Ghale/ora-boards-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// View Handler
// ============================================

type ViewHandler struct {
	viewService service.ViewService
}

func (h *ViewHandler) ListByBoard(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	entries, err := h.viewService.List(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err, "Failed to fetch views")
		return
	}

	response := make([]models.ViewResponse, len(entries))
	for i, e := range entries {
		response[i] = models.ToViewResponse(e.SavedView, e.IsFavorite)
	}
	respond(c, http.StatusOK, response)
}

func (h *ViewHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	view, err := h.viewService.Create(c.Request.Context(), c.Param("id"), userID, service.ViewInput{
		Name:      req.Name,
		Type:      req.Type,
		Settings:  req.Settings,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		fail(c, err, "Failed to create view")
		return
	}
	respond(c, http.StatusCreated, models.ToViewResponse(view, false))
}

func (h *ViewHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	view, err := h.viewService.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err, "Failed to fetch view")
		return
	}
	respond(c, http.StatusOK, models.ToViewResponse(view, false))
}

func (h *ViewHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	view, err := h.viewService.Update(c.Request.Context(), c.Param("id"), userID, service.ViewUpdate{
		Name:      req.Name,
		Type:      req.Type,
		Settings:  req.Settings,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		fail(c, err, "Failed to update view")
		return
	}
	respond(c, http.StatusOK, models.ToViewResponse(view, false))
}

func (h *ViewHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.viewService.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		fail(c, err, "Failed to delete view")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ViewHandler) Open(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	view, err := h.viewService.Open(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err, "Failed to open view")
		return
	}
	respond(c, http.StatusOK, models.ToViewResponse(view, false))
}

func (h *ViewHandler) ToggleFavorite(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	viewID := c.Param("id")
	favorite, err := h.viewService.ToggleFavorite(c.Request.Context(), viewID, userID)
	if err != nil {
		fail(c, err, "Failed to update favorites")
		return
	}
	respond(c, http.StatusOK, models.FavoriteResponse{ViewID: viewID, IsFavorite: favorite})
}

func (h *ViewHandler) Recent(c *gin.Context) {
	h.listPrefs(c, h.viewService.Recent, false, "Failed to fetch recent views")
}

func (h *ViewHandler) Favorites(c *gin.Context) {
	h.listPrefs(c, h.viewService.Favorites, true, "Failed to fetch favorite views")
}

func (h *ViewHandler) listPrefs(c *gin.Context, list func(context.Context, string, string) ([]*repository.SavedView, error), favorites bool, fallback string) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	views, err := list(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err, fallback)
		return
	}

	response := make([]models.ViewResponse, len(views))
	for i, v := range views {
		response[i] = models.ToViewResponse(v, favorites)
	}
	respond(c, http.StatusOK, response)
}
