// internal/socket/hub.go
package socket

import (
	"context"
	"log"
	"sync"

	"github.com/Marga-Ghale/ora-boards-backend/internal/metrics"
)

// RoomAuthorizer decides whether a user may join a room.
type RoomAuthorizer func(ctx context.Context, userID, room string) bool

type roomMessage struct {
	room    string
	data    []byte
	exclude string
}

// Hub owns every connection and which rooms each one has joined. Removal
// and fan-out run on the Run goroutine.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]map[string]struct{} // client -> joined rooms
	rooms   map[string]map[*Client]struct{}

	unregister chan *Client
	outbound   chan roomMessage

	authorize RoomAuthorizer
	done      chan struct{}
}

// NewHub creates a hub. A nil authorizer admits every join.
func NewHub(authorize RoomAuthorizer) *Hub {
	return &Hub{
		clients:    make(map[*Client]map[string]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		unregister: make(chan *Client),
		outbound:   make(chan roomMessage, 256),
		authorize:  authorize,
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	log.Println("[Hub] WebSocket hub started")
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.disconnectAll()
			log.Println("[Hub] WebSocket hub stopped")
			return
		case c := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(c)
			h.mu.Unlock()
		case msg := <-h.outbound:
			h.fanOut(msg)
		}
	}
}

// Register adds c to the hub. It returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	select {
	case <-h.done:
		h.mu.Unlock()
		return false
	default:
	}
	h.clients[c] = make(map[string]struct{})
	total := len(h.clients)
	h.mu.Unlock()

	metrics.Get().RecordWebSocketConnect()
	log.Printf("[Hub] ✅ Client registered: user=%s, id=%s, total_clients=%d", c.UserID, c.ID, total)
	return true
}

func (h *Hub) removeLocked(c *Client) {
	joined, ok := h.clients[c]
	if !ok {
		return
	}
	for room := range joined {
		h.leaveLocked(c, room)
	}
	delete(h.clients, c)
	close(c.Send)

	metrics.Get().RecordWebSocketDisconnect()
	log.Printf("[Hub] ❌ Client disconnected: user=%s, id=%s, total_clients=%d", c.UserID, c.ID, len(h.clients))
}

func (h *Hub) leaveLocked(c *Client, room string) {
	delete(h.clients[c], room)
	members := h.rooms[room]
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

func (h *Hub) disconnectAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// disconnect hands c to the run loop, or gives up once the hub has stopped.
func (h *Hub) disconnect(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) fanOut(msg roomMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for c := range h.rooms[msg.room] {
		if msg.exclude != "" && c.UserID == msg.exclude {
			continue
		}
		select {
		case c.Send <- msg.data:
			sent++
		default:
			// Slow consumer: drop it once the read lock is released.
			go h.disconnect(c)
		}
	}
	if sent > 0 {
		log.Printf("[Hub] Broadcast to room %s: sent to %d clients", msg.room, sent)
	}
}

// deliver queues data for c unless c is gone or its buffer is full. Send is
// only closed under the write lock, so the read lock keeps it open here.
func (h *Hub) deliver(c *Client, data []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// ============================================
// Room Management
// ============================================

// JoinRoom adds c to room when the authorizer admits it.
func (h *Hub) JoinRoom(ctx context.Context, c *Client, room string) bool {
	if h.authorize != nil && !h.authorize(ctx, c.UserID, room) {
		log.Printf("[Hub] ⛔ Join refused: user=%s, room=%s", c.UserID, room)
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	joined, ok := h.clients[c]
	if !ok {
		return false
	}
	joined[room] = struct{}{}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}

	log.Printf("[Hub] 👥 Client joined room: user=%s, room=%s", c.UserID, room)
	return true
}

func (h *Hub) LeaveRoom(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		h.leaveLocked(c, room)
	}
}

// InRoom reports whether c has joined room.
func (h *Hub) InRoom(c *Client, room string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[c][room]
	return ok
}

// SendToRoom queues an event for every member of room except excludeUserID.
func (h *Hub) SendToRoom(room string, msgType MessageType, payload map[string]interface{}, excludeUserID string) {
	data, err := encode(msgType, payload)
	if err != nil {
		log.Printf("[Hub] Error marshaling %s: %v", msgType, err)
		return
	}

	metrics.Get().RecordWebSocketMessage(string(msgType))
	select {
	case h.outbound <- roomMessage{room: room, data: data, exclude: excludeUserID}:
	case <-h.done:
	}
}

func (h *Hub) GetRoomClients(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) GetConnectedClientsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
