package handlers

import (
	"net/http"

	"github.com/Marga-Ghale/ora-boards-backend/internal/api/middleware"
	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/models"
	"github.com/Marga-Ghale/ora-boards-backend/internal/service"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
	"github.com/gin-gonic/gin"
)

// ============================================
// Column Handler
// ============================================

type ColumnHandler struct {
	columnService service.ColumnService
}

// Types lists the column type picker entries.
func (h *ColumnHandler) Types(c *gin.Context) {
	respond(c, http.StatusOK, columns.Registry())
}

func (h *ColumnHandler) ListByBoard(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	cols, err := h.columnService.List(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err, "Failed to fetch columns")
		return
	}
	respond(c, http.StatusOK, cols)
}

func (h *ColumnHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	col, err := h.columnService.Create(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		fail(c, err, "Failed to create column")
		return
	}
	respond(c, http.StatusCreated, col)
}

func (h *ColumnHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	col, err := h.columnService.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err, "Failed to fetch column")
		return
	}
	respond(c, http.StatusOK, col)
}

// FormValues returns the column loaded into the edit dialog's shape.
func (h *ColumnHandler) FormValues(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	values, err := h.columnService.FormValues(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err, "Failed to fetch column")
		return
	}
	respond(c, http.StatusOK, values)
}

func (h *ColumnHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	col, err := h.columnService.Update(c.Request.Context(), c.Param("id"), userID, req.ColumnFormValues, req.ConfirmTypeChange)
	if err != nil {
		fail(c, err, "Failed to update column")
		return
	}
	respond(c, http.StatusOK, col)
}

// PreviewTypeChange reports the warning for changing a column to ?to=TYPE.
func (h *ColumnHandler) PreviewTypeChange(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	change, err := h.columnService.PreviewTypeChange(c.Request.Context(), c.Param("id"), userID, types.ColumnType(c.Query("to")))
	if err != nil {
		fail(c, err, "Failed to preview type change")
		return
	}
	respond(c, http.StatusOK, change)
}

func (h *ColumnHandler) Reorder(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.ReorderColumnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cols, err := h.columnService.Reorder(c.Request.Context(), c.Param("id"), userID, req.ColumnIDs)
	if err != nil {
		fail(c, err, "Failed to reorder columns")
		return
	}
	respond(c, http.StatusOK, cols)
}

func (h *ColumnHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.columnService.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		fail(c, err, "Failed to delete column")
		return
	}
	c.Status(http.StatusNoContent)
}
