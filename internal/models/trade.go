// File: internal/models/trade.go
package models

import (
	"fmt"
	"time"

	"pocaswap-api/internal/errs"
)

type TradeStatus string

const (
	TradeDraft     TradeStatus = "draft"
	TradeProposed  TradeStatus = "proposed"
	TradeAccepted  TradeStatus = "accepted"
	TradeRejected  TradeStatus = "rejected"
	TradeCanceled  TradeStatus = "canceled"
	TradeCompleted TradeStatus = "completed"
)

// IsTerminal reports whether no further transition is possible.
func (s TradeStatus) IsTerminal() bool {
	return s == TradeRejected || s == TradeCanceled || s == TradeCompleted
}

type TradeAction string

const (
	TradePropose  TradeAction = "propose"
	TradeAccept   TradeAction = "accept"
	TradeReject   TradeAction = "reject"
	TradeCancel   TradeAction = "cancel"
	TradeComplete TradeAction = "complete"
)

const MaxTradeCards = 20

type Trade struct {
	ID               string      `json:"id"`
	ProposerID       string      `json:"proposer_id"`
	RecipientID      string      `json:"recipient_id"`
	PostID           *string     `json:"post_id,omitempty"`
	OfferedCardIDs   []string    `json:"offered_card_ids"`
	RequestedCardIDs []string    `json:"requested_card_ids"`
	Message          string      `json:"message"`
	Status           TradeStatus `json:"status"`
	ChatRoomID       *string     `json:"chat_room_id,omitempty"`
	ProposedAt       *time.Time  `json:"proposed_at,omitempty"`
	RespondedAt      *time.Time  `json:"responded_at,omitempty"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// IsParticipant reports whether userID is one of the two parties.
func (t *Trade) IsParticipant(userID string) bool {
	return t.ProposerID == userID || t.RecipientID == userID
}

// Counterparty returns the other party of the trade.
func (t *Trade) Counterparty(userID string) string {
	if t.ProposerID == userID {
		return t.RecipientID
	}
	return t.ProposerID
}

// CardIDs returns every card involved in the trade.
func (t *Trade) CardIDs() []string {
	ids := make([]string, 0, len(t.OfferedCardIDs)+len(t.RequestedCardIDs))
	ids = append(ids, t.OfferedCardIDs...)
	return append(ids, t.RequestedCardIDs...)
}

// NextStatus resolves the status an action by actorID leads to.
//
//	draft    -> proposed  (proposer)
//	proposed -> accepted  (recipient) | rejected (recipient)
//	draft|proposed -> canceled (proposer)
//	accepted -> canceled | completed (either party)
func (t *Trade) NextStatus(action TradeAction, actorID string) (TradeStatus, error) {
	if !t.IsParticipant(actorID) {
		return "", errs.ErrForbidden
	}
	isProposer := actorID == t.ProposerID

	switch action {
	case TradePropose:
		if t.Status == TradeDraft {
			if !isProposer {
				return "", errs.ErrForbidden
			}
			return TradeProposed, nil
		}
	case TradeAccept, TradeReject:
		if t.Status == TradeProposed {
			if isProposer {
				return "", errs.ErrForbidden
			}
			if action == TradeAccept {
				return TradeAccepted, nil
			}
			return TradeRejected, nil
		}
	case TradeCancel:
		switch t.Status {
		case TradeDraft, TradeProposed:
			if !isProposer {
				return "", errs.ErrForbidden
			}
			return TradeCanceled, nil
		case TradeAccepted:
			return TradeCanceled, nil
		}
	case TradeComplete:
		if t.Status == TradeAccepted {
			return TradeCompleted, nil
		}
	default:
		return "", fmt.Errorf("%w: unknown action %q", errs.ErrInvalidInput, action)
	}
	return "", fmt.Errorf("%w: cannot %s a %s trade", errs.ErrInvalidTransition, action, t.Status)
}

type CreateTradeRequest struct {
	RecipientID      string   `json:"recipient_id" validate:"required,uuid"`
	PostID           *string  `json:"post_id,omitempty" validate:"omitempty,uuid"`
	OfferedCardIDs   []string `json:"offered_card_ids" validate:"max=20,dive,uuid"`
	RequestedCardIDs []string `json:"requested_card_ids" validate:"max=20,dive,uuid"`
	Message          string   `json:"message" validate:"max=500"`
	Propose          bool     `json:"propose"`
}

// TradeFilter narrows trade listings for one user.
type TradeFilter struct {
	UserID string
	Role   string // "proposer", "recipient" or empty for both
	Status TradeStatus
	Page   int
	Limit  int
}
