// internal/socket/client.go
package socket

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10 // must stay below pongWait

	maxMessageSize int64 = 4096
	sendBuffer           = 256
)

// Client is one websocket connection. Send is closed by the hub when the
// client is removed.
type Client struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan []byte
}

// NewClient wraps conn; conn may be nil in tests that only read Send.
func NewClient(hub *Hub, userID string, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan []byte, sendBuffer),
	}
}

// ReadPump reads client frames until the connection fails.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.disconnect(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	extend := func() error { return c.Conn.SetReadDeadline(time.Now().Add(pongWait)) }
	_ = extend()
	c.Conn.SetPongHandler(func(string) error { return extend() })

	for {
		_, frame, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Client] WebSocket error for user %s: %v", c.UserID, err)
			}
			return
		}
		c.handle(ctx, frame)
	}
}

// WritePump writes queued events, one frame each, and pings on an interval.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handle(ctx context.Context, frame []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		c.reply(MessageError, map[string]interface{}{"message": "Malformed message"})
		return
	}

	switch msg.Action {
	case "join":
		if msg.Room == "" {
			c.reply(MessageError, map[string]interface{}{"action": "join", "message": "Room is required"})
		} else if c.Hub.JoinRoom(ctx, c, msg.Room) {
			c.reply(MessageAck, map[string]interface{}{"action": "joined", "room": msg.Room})
		} else {
			c.reply(MessageError, map[string]interface{}{"action": "join", "room": msg.Room, "message": "Access denied"})
		}
	case "leave":
		c.Hub.LeaveRoom(c, msg.Room)
		c.reply(MessageAck, map[string]interface{}{"action": "left", "room": msg.Room})
	case "typing":
		// Typing indicators are only relayed to rooms the sender has joined.
		if c.Hub.InRoom(c, msg.Room) {
			c.Hub.SendToRoom(msg.Room, MessageUserTyping, map[string]interface{}{
				"userId": c.UserID,
				"room":   msg.Room,
				"itemId": msg.Payload["itemId"],
			}, c.UserID)
		}
	case "ping":
		c.reply(MessagePong, map[string]interface{}{"time": time.Now().Unix()})
	default:
		log.Printf("[Client] Unknown action %q from user %s", msg.Action, c.UserID)
	}
}

func (c *Client) reply(msgType MessageType, payload map[string]interface{}) {
	data, err := encode(msgType, payload)
	if err != nil {
		return
	}
	if !c.Hub.deliver(c, data) {
		log.Printf("[Client] Dropped %s for user %s", msgType, c.UserID)
	}
}
