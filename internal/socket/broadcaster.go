package socket

// Broadcaster provides high-level methods for broadcasting board events.
// A nil Broadcaster drops every event.
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

func (b *Broadcaster) toBoard(boardID string, msgType MessageType, payload map[string]interface{}, excludeUserID string) {
	if b == nil || b.hub == nil {
		return
	}
	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["boardId"] = boardID
	b.hub.SendToRoom(BoardRoom(boardID), msgType, payload, excludeUserID)
}

// ============================================
// Board Broadcasting
// ============================================

func (b *Broadcaster) BroadcastBoardUpdated(boardID string, board interface{}, excludeUserID string) {
	b.toBoard(boardID, MessageBoardUpdated, map[string]interface{}{"board": board}, excludeUserID)
}

func (b *Broadcaster) BroadcastBoardDeleted(boardID, excludeUserID string) {
	b.toBoard(boardID, MessageBoardDeleted, nil, excludeUserID)
}

// ============================================
// Column Broadcasting
// ============================================

func (b *Broadcaster) BroadcastColumnCreated(boardID string, column interface{}, excludeUserID string) {
	b.toBoard(boardID, MessageColumnCreated, map[string]interface{}{"column": column}, excludeUserID)
}

func (b *Broadcaster) BroadcastColumnUpdated(boardID string, column interface{}, typeChanged bool, excludeUserID string) {
	b.toBoard(boardID, MessageColumnUpdated, map[string]interface{}{
		"column":      column,
		"typeChanged": typeChanged,
	}, excludeUserID)
}

func (b *Broadcaster) BroadcastColumnDeleted(boardID, columnID, excludeUserID string) {
	b.toBoard(boardID, MessageColumnDeleted, map[string]interface{}{"columnId": columnID}, excludeUserID)
}

func (b *Broadcaster) BroadcastColumnsReordered(boardID string, columnIDs []string, excludeUserID string) {
	b.toBoard(boardID, MessageColumnsReordered, map[string]interface{}{"columnIds": columnIDs}, excludeUserID)
}

// ============================================
// Item Broadcasting
// ============================================

func (b *Broadcaster) BroadcastItemCreated(boardID string, item interface{}, excludeUserID string) {
	b.toBoard(boardID, MessageItemCreated, map[string]interface{}{"item": item}, excludeUserID)
}

// BroadcastItemUpdated carries the ids of the cells that changed
func (b *Broadcaster) BroadcastItemUpdated(boardID string, item interface{}, changedCells []string, excludeUserID string) {
	b.toBoard(boardID, MessageItemUpdated, map[string]interface{}{
		"item":          item,
		"changedCells":  changedCells,
		"changedByUser": excludeUserID,
	}, excludeUserID)
}

func (b *Broadcaster) BroadcastItemDeleted(boardID, itemID, excludeUserID string) {
	b.toBoard(boardID, MessageItemDeleted, map[string]interface{}{"itemId": itemID}, excludeUserID)
}

// ============================================
// Automations & Views
// ============================================

// BroadcastAutomationChanged covers create, update, toggle and delete
func (b *Broadcaster) BroadcastAutomationChanged(boardID, automationID, change string, excludeUserID string) {
	b.toBoard(boardID, MessageAutomationChanged, map[string]interface{}{
		"automationId": automationID,
		"change":       change,
	}, excludeUserID)
}

func (b *Broadcaster) BroadcastViewChanged(boardID, viewID, change string, excludeUserID string) {
	b.toBoard(boardID, MessageViewChanged, map[string]interface{}{
		"viewId": viewID,
		"change": change,
	}, excludeUserID)
}
