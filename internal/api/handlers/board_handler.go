package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/Marga-Ghale/ora-boards-backend/internal/api/middleware"
	"github.com/Marga-Ghale/ora-boards-backend/internal/export"
	"github.com/Marga-Ghale/ora-boards-backend/internal/models"
	"github.com/Marga-Ghale/ora-boards-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Board Handler
// ============================================

type BoardHandler struct {
	boardService  service.BoardService
	columnService service.ColumnService
	itemService   service.ItemService
}

func (h *BoardHandler) List(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	boards, err := h.boardService.List(c.Request.Context(), userID)
	if err != nil {
		fail(c, err, "Failed to fetch boards")
		return
	}

	response := make([]models.BoardResponse, len(boards))
	for i, b := range boards {
		response[i] = models.ToBoardResponse(b)
	}
	respond(c, http.StatusOK, response)
}

func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	board, err := h.boardService.Create(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		fail(c, err, "Failed to create board")
		return
	}
	respond(c, http.StatusCreated, models.ToBoardResponse(board))
}

func (h *BoardHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	board, err := h.boardService.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err, "Failed to fetch board")
		return
	}
	respond(c, http.StatusOK, models.ToBoardResponse(board))
}

func (h *BoardHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	board, err := h.boardService.Update(c.Request.Context(), c.Param("id"), userID, service.BoardUpdate{
		Name:            req.Name,
		Description:     req.Description,
		FormPublic:      req.FormPublic,
		FormTitle:       req.FormTitle,
		FormDescription: req.FormDescription,
	})
	if err != nil {
		fail(c, err, "Failed to update board")
		return
	}
	respond(c, http.StatusOK, models.ToBoardResponse(board))
}

func (h *BoardHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.boardService.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		fail(c, err, "Failed to delete board")
		return
	}
	c.Status(http.StatusNoContent)
}

// Export streams the board's active items as an XLSX workbook.
func (h *BoardHandler) Export(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	boardID := c.Param("id")

	board, err := h.boardService.Get(ctx, boardID, userID)
	if err != nil {
		fail(c, err, "Failed to export board")
		return
	}
	cols, err := h.columnService.Schema(ctx, boardID)
	if err != nil {
		fail(c, err, "Failed to export board")
		return
	}
	items, err := h.itemService.List(ctx, boardID, userID, c.Query("archived") == "true")
	if err != nil {
		fail(c, err, "Failed to export board")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteBoard(&buf, board, cols, items); err != nil {
		fail(c, err, "Failed to export board")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.SheetName(board.Name)+".xlsx"))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
