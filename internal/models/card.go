// File: internal/models/card.go
package models

import "time"

type CardCondition string

const (
	ConditionMint     CardCondition = "mint"
	ConditionNearMint CardCondition = "near_mint"
	ConditionGood     CardCondition = "good"
	ConditionFair     CardCondition = "fair"
	ConditionPoor     CardCondition = "poor"
)

type CardStatus string

const (
	CardOwned    CardStatus = "owned"
	CardForTrade CardStatus = "for_trade"
	CardForSale  CardStatus = "for_sale"
	CardTraded   CardStatus = "traded"
)

// Card is a photocard in a user's collection.
type Card struct {
	ID         string        `json:"id"`
	OwnerID    string        `json:"owner_id"`
	GroupName  string        `json:"group_name"`
	MemberName string        `json:"member_name"`
	Album      string        `json:"album"`
	Version    string        `json:"version"`
	ImageURL   string        `json:"image_url"`
	Condition  CardCondition `json:"condition"`
	Status     CardStatus    `json:"status"`
	Note       string        `json:"note"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type CreateCardRequest struct {
	GroupName  string        `json:"group_name" validate:"required,max=50"`
	MemberName string        `json:"member_name" validate:"required,max=50"`
	Album      string        `json:"album" validate:"max=100"`
	Version    string        `json:"version" validate:"max=100"`
	ImageURL   string        `json:"image_url" validate:"omitempty,url,max=500"`
	Condition  CardCondition `json:"condition" validate:"required,oneof=mint near_mint good fair poor"`
	Status     CardStatus    `json:"status" validate:"omitempty,oneof=owned for_trade for_sale"`
	Note       string        `json:"note" validate:"max=300"`
}

type UpdateCardRequest struct {
	GroupName  *string        `json:"group_name,omitempty" validate:"omitempty,min=1,max=50"`
	MemberName *string        `json:"member_name,omitempty" validate:"omitempty,min=1,max=50"`
	Album      *string        `json:"album,omitempty" validate:"omitempty,max=100"`
	Version    *string        `json:"version,omitempty" validate:"omitempty,max=100"`
	ImageURL   *string        `json:"image_url,omitempty" validate:"omitempty,url,max=500"`
	Condition  *CardCondition `json:"condition,omitempty" validate:"omitempty,oneof=mint near_mint good fair poor"`
	Status     *CardStatus    `json:"status,omitempty" validate:"omitempty,oneof=owned for_trade for_sale"`
	Note       *string        `json:"note,omitempty" validate:"omitempty,max=300"`
}

// CardFilter narrows card listings. Empty fields are ignored.
type CardFilter struct {
	OwnerID    string
	GroupName  string
	MemberName string
	Status     CardStatus
	Page       int
	Limit      int
}
