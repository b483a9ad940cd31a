// File: internal/models/common.go
package models

import (
	"strings"
	"time"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PaginationMetadata is returned in the envelope meta for list endpoints.
type PaginationMetadata struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalCount int  `json:"total_count"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NormalizePage clamps page and limit to sane values.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// Offset returns the row offset for a normalized page.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// NewPagination builds pagination metadata from a total row count.
func NewPagination(page, limit, totalCount int) *PaginationMetadata {
	page, limit = NormalizePage(page, limit)
	totalPages := (totalCount + limit - 1) / limit
	return &PaginationMetadata{
		Page:       page,
		Limit:      limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// QuotaStatus describes a daily usage counter.
type QuotaStatus struct {
	Limit     int       `json:"limit"`
	Used      int       `json:"used"`
	Remaining int       `json:"remaining"`
	ResetsAt  time.Time `json:"resets_at"`
}

// NearbyQuery is a radius search around a point.
type NearbyQuery struct {
	Latitude  float64 `validate:"min=-90,max=90"`
	Longitude float64 `validate:"min=-180,max=180"`
	RadiusKm  float64 `validate:"gt=0"`
	Limit     int
}

// OrderedPair returns a and b sorted so that pair keys are stable.
func OrderedPair(a, b string) (string, string) {
	if strings.Compare(a, b) <= 0 {
		return a, b
	}
	return b, a
}

// DirectKey identifies the single direct chat room shared by two users.
func DirectKey(a, b string) string {
	low, high := OrderedPair(a, b)
	return low + ":" + high
}

// Envelope is the body of every API response.
type Envelope struct {
	Data  any       `json:"data"`
	Meta  any       `json:"meta"`
	Error *APIError `json:"error"`
}

// APIError is the error member of the envelope.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
