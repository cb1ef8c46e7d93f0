// internal/socket/handler.go
package socket

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// TokenValidator resolves a bearer token to a user id.
type TokenValidator func(token string) (string, error)

// Handler handles WebSocket connections
type Handler struct {
	Hub      *Hub
	validate TokenValidator
	upgrader websocket.Upgrader
	ctx      context.Context
}

// NewHandler creates a WebSocket handler. Connections are bound to ctx and
// stop processing room joins once it is cancelled. An empty allowedOrigins
// admits any origin.
func NewHandler(ctx context.Context, hub *Hub, validate TokenValidator, allowedOrigins []string) *Handler {
	return &Handler{
		Hub:      hub,
		validate: validate,
		ctx:      ctx,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// HandleWebSocket upgrades the request. Browsers cannot set headers on a
// WebSocket handshake, so the token may also come from the query string.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		if scheme, rest, ok := strings.Cut(c.GetHeader("Authorization"), " "); ok && strings.EqualFold(scheme, "Bearer") {
			token = strings.TrimSpace(rest)
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "No token provided"})
		return
	}

	userID, err := h.validate(token)
	if err != nil {
		log.Printf("[WebSocket] Token rejected: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WebSocket] Upgrade error: %v", err)
		return
	}

	client := NewClient(h.Hub, userID, conn)
	if !h.Hub.Register(client) {
		conn.Close()
		return
	}
	h.Hub.JoinRoom(h.ctx, client, UserRoom(userID))

	go client.WritePump()
	go client.ReadPump(h.ctx)
}
