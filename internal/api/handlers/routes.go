package handlers

import (
	"github.com/Marga-Ghale/ora-boards-backend/internal/api/middleware"
	"github.com/Marga-Ghale/ora-boards-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts /metrics and the /api tree. ws may be nil when the
// realtime hub is not running.
func RegisterRoutes(r *gin.Engine, h *Handlers, authService service.AuthService, ws gin.HandlerFunc) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// ============================================
		// Public routes (no auth required)
		// ============================================
		public := api.Group("/public/forms")
		{
			public.GET("/:boardId", h.Form.GetPublic)
			public.POST("/:boardId/submit", h.Form.SubmitPublic)
		}

		// The websocket authenticates itself from the token query param.
		if ws != nil {
			api.GET("/ws", ws)
		}

		// ============================================
		// Protected routes
		// ============================================
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(authService))
		{
			protected.GET("/column-types", h.Column.Types)

			boards := protected.Group("/boards")
			{
				boards.GET("", h.Board.List)
				boards.POST("", h.Board.Create)
				boards.GET("/:id", h.Board.Get)
				boards.PUT("/:id", h.Board.Update)
				boards.DELETE("/:id", h.Board.Delete)
				boards.GET("/:id/export", h.Board.Export)

				boards.GET("/:id/columns", h.Column.ListByBoard)
				boards.POST("/:id/columns", h.Column.Create)
				boards.PUT("/:id/columns/order", h.Column.Reorder)

				boards.GET("/:id/items", h.Item.ListByBoard)
				boards.POST("/:id/items", h.Item.Create)

				boards.POST("/:id/form/evaluate", h.Form.Evaluate)
				boards.POST("/:id/form/validate", h.Form.Validate)

				boards.GET("/:id/automations", h.Automation.ListByBoard)

				boards.GET("/:id/views", h.View.ListByBoard)
				boards.POST("/:id/views", h.View.Create)
				boards.GET("/:id/views/recent", h.View.Recent)
				boards.GET("/:id/views/favorites", h.View.Favorites)
			}

			columns := protected.Group("/columns")
			{
				columns.GET("/:id", h.Column.Get)
				columns.GET("/:id/form", h.Column.FormValues)
				columns.GET("/:id/type-change", h.Column.PreviewTypeChange)
				columns.PUT("/:id", h.Column.Update)
				columns.DELETE("/:id", h.Column.Delete)
			}

			items := protected.Group("/items")
			{
				items.GET("/:id", h.Item.Get)
				items.PUT("/:id", h.Item.Update)
				items.DELETE("/:id", h.Item.Delete)
			}

			automations := protected.Group("/automations")
			{
				automations.POST("", h.Automation.Create)
				automations.POST("/test", h.Automation.Test)
				automations.GET("/:id", h.Automation.Get)
				automations.PUT("/:id", h.Automation.Update)
				automations.PATCH("/:id/toggle", h.Automation.Toggle)
				automations.DELETE("/:id", h.Automation.Delete)
			}

			views := protected.Group("/views")
			{
				views.GET("/:id", h.View.Get)
				views.PUT("/:id", h.View.Update)
				views.DELETE("/:id", h.View.Delete)
				views.POST("/:id/open", h.View.Open)
				views.POST("/:id/favorite", h.View.ToggleFavorite)
			}
		}
	}
}
