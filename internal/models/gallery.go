// File: internal/models/gallery.go
package models

import "time"

type GalleryItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ImageURL  string    `json:"image_url"`
	Caption   string    `json:"caption"`
	CardID    *string   `json:"card_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateGalleryItemRequest struct {
	ImageURL string  `json:"image_url" validate:"required,url,max=500"`
	Caption  string  `json:"caption" validate:"max=200"`
	CardID   *string `json:"card_id,omitempty" validate:"omitempty,uuid"`
}
