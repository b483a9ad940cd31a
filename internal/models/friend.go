// File: internal/models/friend.go
package models

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
	FriendRequestCanceled FriendRequestStatus = "canceled"
)

type FriendRequest struct {
	ID          string              `json:"id"`
	RequesterID string              `json:"requester_id"`
	AddresseeID string              `json:"addressee_id"`
	Status      FriendRequestStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	RespondedAt *time.Time          `json:"responded_at,omitempty"`
}

// Friend is one entry of a user's friend list.
type Friend struct {
	PublicUser
	Since time.Time `json:"since"`
}

type Friendship struct {
	UserID    string    `json:"user_id"`
	FriendID  string    `json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AcceptFriendResult is returned when a request is accepted.
type AcceptFriendResult struct {
	Request    FriendRequest `json:"request"`
	Friendship Friendship    `json:"friendship"`
	Room       *ChatRoom     `json:"room"`
}

type SendFriendRequest struct {
	AddresseeID string `json:"addressee_id" validate:"required,uuid"`
}
