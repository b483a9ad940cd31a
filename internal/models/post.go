// File: internal/models/post.go
package models

import "time"

type PostKind string

const (
	PostSocial PostKind = "social"
	PostSell   PostKind = "sell"
	PostBuy    PostKind = "buy"
	PostTrade  PostKind = "trade"
)

// IsListing reports whether the post is a marketplace listing.
func (k PostKind) IsListing() bool {
	return k == PostSell || k == PostBuy || k == PostTrade
}

// HasPrice reports whether the kind carries a price.
func (k PostKind) HasPrice() bool {
	return k == PostSell || k == PostBuy
}

type PostStatus string

const (
	PostActive   PostStatus = "active"
	PostReserved PostStatus = "reserved"
	PostSold     PostStatus = "sold"
	PostClosed   PostStatus = "closed"
)

const MaxPostImages = 10

type Post struct {
	ID           string     `json:"id"`
	AuthorID     string     `json:"author_id"`
	Kind         PostKind   `json:"kind"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Price        *int64     `json:"price,omitempty"`
	CardID       *string    `json:"card_id,omitempty"`
	ImageURLs    []string   `json:"image_urls"`
	GroupName    string     `json:"group_name"`
	Status       PostStatus `json:"status"`
	LikeCount    int        `json:"like_count"`
	CommentCount int        `json:"comment_count"`
	ViewCount    int        `json:"view_count"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CanTransitionTo reports whether the post may move to next.
// Social posts only open and close; listings can be reserved and sold.
func (p *Post) CanTransitionTo(next PostStatus) bool {
	if p.Status == next || p.Status == PostClosed {
		return false
	}
	if !p.Kind.IsListing() {
		return p.Status == PostActive && next == PostClosed
	}
	switch p.Status {
	case PostActive:
		return next == PostReserved || next == PostSold || next == PostClosed
	case PostReserved:
		return next == PostActive || next == PostSold || next == PostClosed
	case PostSold:
		return next == PostClosed
	}
	return false
}

type NearbyPost struct {
	Post
	DistanceKm float64 `json:"distance_km"`
}

type CreatePostRequest struct {
	Kind      PostKind `json:"kind" validate:"required,oneof=social sell buy trade"`
	Title     string   `json:"title" validate:"required,min=1,max=100"`
	Content   string   `json:"content" validate:"max=5000"`
	Price     *int64   `json:"price,omitempty" validate:"omitempty,min=0"`
	CardID    *string  `json:"card_id,omitempty" validate:"omitempty,uuid"`
	ImageURLs []string `json:"image_urls" validate:"max=10,dive,url,max=500"`
	GroupName string   `json:"group_name" validate:"max=50"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
}

type UpdatePostRequest struct {
	Title     *string  `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	Content   *string  `json:"content,omitempty" validate:"omitempty,max=5000"`
	Price     *int64   `json:"price,omitempty" validate:"omitempty,min=0"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,max=10,dive,url,max=500"`
	GroupName *string  `json:"group_name,omitempty" validate:"omitempty,max=50"`
}

type UpdatePostStatusRequest struct {
	Status PostStatus `json:"status" validate:"required,oneof=active reserved sold closed"`
}

// PostFilter narrows post listings. Empty fields are ignored.
type PostFilter struct {
	AuthorID  string
	Kind      PostKind
	Status    PostStatus
	GroupName string
	Query     string
	Page      int
	Limit     int
}

type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
