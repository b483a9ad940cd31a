// File: internal/models/chat.go
package models

import "time"

type RoomKind string

const (
	RoomDirect RoomKind = "direct"
	RoomTrade  RoomKind = "trade"
)

type ChatRoom struct {
	ID            string     `json:"id"`
	Kind          RoomKind   `json:"kind"`
	DirectKey     *string    `json:"-"`
	TradeID       *string    `json:"trade_id,omitempty"`
	MemberIDs     []string   `json:"member_ids"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

// HasMember reports whether userID belongs to the room.
func (r *ChatRoom) HasMember(userID string) bool {
	for _, id := range r.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// RoomSummary is a row of the room list screen.
type RoomSummary struct {
	ChatRoom
	LastMessage *Message `json:"last_message,omitempty"`
	UnreadCount int      `json:"unread_count"`
}

type MessageKind string

const (
	MessageText   MessageKind = "text"
	MessageImage  MessageKind = "image"
	MessageSystem MessageKind = "system"
)

const (
	MaxMessageLength    = 2000
	DefaultMessageLimit = 50
)

// MessageCursor points at the last message of a page. Messages sharing a
// timestamp are ordered by id, so the pair is unique.
type MessageCursor struct {
	CreatedAt time.Time
	ID        string
}

type Message struct {
	ID        string      `json:"id"`
	RoomID    string      `json:"room_id"`
	SenderID  *string     `json:"sender_id,omitempty"`
	Kind      MessageKind `json:"kind"`
	Content   string      `json:"content"`
	ImageURL  string      `json:"image_url,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type SendMessageRequest struct {
	Kind     MessageKind `json:"kind" validate:"omitempty,oneof=text image"`
	Content  string      `json:"content" validate:"max=2000"`
	ImageURL string      `json:"image_url" validate:"omitempty,url,max=500"`
}

// Realtime event types pushed over the websocket.
const (
	EventMessageCreated = "message.created"
	EventRoomCreated    = "room.created"
	EventFriendRequest  = "friend.request"
	EventTradeUpdated   = "trade.updated"
)

// RealtimeEvent is the payload pushed to connected clients.
type RealtimeEvent struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id,omitempty"`
	Data   any    `json:"data,omitempty"`
}
