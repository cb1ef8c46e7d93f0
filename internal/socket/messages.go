package socket

import (
	"encoding/json"
	"time"
)

// MessageType names an event pushed to board rooms.
type MessageType string

const (
	MessageBoardUpdated MessageType = "board_updated"
	MessageBoardDeleted MessageType = "board_deleted"

	MessageColumnCreated    MessageType = "column_created"
	MessageColumnUpdated    MessageType = "column_updated"
	MessageColumnDeleted    MessageType = "column_deleted"
	MessageColumnsReordered MessageType = "columns_reordered"

	MessageItemCreated MessageType = "item_created"
	MessageItemUpdated MessageType = "item_updated"
	MessageItemDeleted MessageType = "item_deleted"

	MessageAutomationChanged MessageType = "automation_changed"
	MessageViewChanged       MessageType = "view_changed"

	MessageUserTyping MessageType = "user_typing"

	MessagePong  MessageType = "pong"
	MessageAck   MessageType = "ack"
	MessageError MessageType = "error"
)

// Message is the envelope of every frame sent to clients.
type Message struct {
	Type      MessageType            `json:"type"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func encode(msgType MessageType, payload map[string]interface{}) ([]byte, error) {
	return json.Marshal(Message{Type: msgType, Payload: payload, Timestamp: time.Now()})
}

// ClientMessage is a frame received from a client.
type ClientMessage struct {
	Action  string                 `json:"action"`
	Room    string                 `json:"room,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// BoardRoom is the room that receives a board's change events.
func BoardRoom(boardID string) string {
	return "board:" + boardID
}

// UserRoom is the personal room every connection joins.
func UserRoom(userID string) string {
	return "user:" + userID
}
