// File: internal/models/user.go
package models

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an account. App users sign in with Google; admins use a password.
type User struct {
	ID                string     `json:"id"`
	GoogleSub         *string    `json:"-"`
	Email             string     `json:"email,omitempty"`
	Username          *string    `json:"username,omitempty"`
	Nickname          string     `json:"nickname"`
	PasswordHash      string     `json:"-"` // Never serialize to JSON
	Role              Role       `json:"role"`
	Bio               string     `json:"bio"`
	AvatarURL         string     `json:"avatar_url"`
	FavoriteGroups    []string   `json:"favorite_groups"`
	Latitude          *float64   `json:"latitude,omitempty"`
	Longitude         *float64   `json:"longitude,omitempty"`
	LocationUpdatedAt *time.Time `json:"location_updated_at,omitempty"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	LastLogin         *time.Time `json:"last_login,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicUser is the subset of a user other people can see.
type PublicUser struct {
	ID             string    `json:"id"`
	Nickname       string    `json:"nickname"`
	Bio            string    `json:"bio"`
	AvatarURL      string    `json:"avatar_url"`
	FavoriteGroups []string  `json:"favorite_groups"`
	CreatedAt      time.Time `json:"created_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Nickname:       u.Nickname,
		Bio:            u.Bio,
		AvatarURL:      u.AvatarURL,
		FavoriteGroups: u.FavoriteGroups,
		CreatedAt:      u.CreatedAt,
	}
}

// PublicProfile aggregates what a profile screen shows.
type PublicProfile struct {
	User      PublicUser    `json:"user"`
	Rating    RatingSummary `json:"rating"`
	PostCount int           `json:"post_count"`
	CardCount int           `json:"card_count"`
	IsPremium bool          `json:"is_premium"`
}

// NearbyUser is a user found by a radius search.
type NearbyUser struct {
	PublicUser
	DistanceKm float64 `json:"distance_km"`
}

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	Nickname       *string  `json:"nickname,omitempty" validate:"omitempty,min=2,max=30"`
	Bio            *string  `json:"bio,omitempty" validate:"omitempty,max=300"`
	AvatarURL      *string  `json:"avatar_url,omitempty" validate:"omitempty,url,max=500"`
	FavoriteGroups []string `json:"favorite_groups,omitempty" validate:"omitempty,max=10,dive,min=1,max=50"`
}

// UpdateLocationRequest represents a location update
type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
}
