// File: internal/models/media.go
package models

import (
	"fmt"
	"time"
)

type MediaPurpose string

const (
	MediaAvatar  MediaPurpose = "avatar"
	MediaPost    MediaPurpose = "post"
	MediaGallery MediaPurpose = "gallery"
	MediaChat    MediaPurpose = "chat"
	MediaCard    MediaPurpose = "card"
)

// ContentLengthRangeHeader makes Cloud Storage reject uploads outside the signed size range.
const ContentLengthRangeHeader = "x-goog-content-length-range"

// ContentLengthRange is the header value allowing bodies of up to maxBytes.
func ContentLengthRange(maxBytes int64) string {
	return fmt.Sprintf("0,%d", maxBytes)
}

// ImageExtensions maps accepted upload content types to file extensions.
var ImageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

type UploadURLRequest struct {
	Purpose     MediaPurpose `json:"purpose" validate:"required,oneof=avatar post gallery chat card"`
	ContentType string       `json:"content_type" validate:"required,oneof=image/jpeg image/png image/webp image/gif"`
	Size        int64        `json:"size" validate:"required,min=1"`
}

type UploadURLResponse struct {
	UploadURL  string            `json:"upload_url"`
	Method     string            `json:"method"`
	Headers    map[string]string `json:"headers"`
	ObjectName string            `json:"object_name"`
	PublicURL  string            `json:"public_url"`
	ExpiresAt  time.Time         `json:"expires_at"`
}
