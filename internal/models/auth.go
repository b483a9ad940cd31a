// File: internal/models/auth.go
package models

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims are the claims carried by access and refresh tokens.
type TokenClaims struct {
	jwt.RegisteredClaims
	Role Role   `json:"role"`
	Type string `json:"typ"`
}

// GoogleIdentity is the verified content of a Google ID token.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// GoogleLoginRequest represents a Google sign-in request from the app
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required,max=4096"`
}

// AdminLoginRequest represents an admin password login request
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// RefreshRequest carries a refresh token for rotation or logout
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserSummary is the user shape embedded in login responses.
type UserSummary struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role"`
}

// LoginResponse is returned by every login and refresh flow.
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    int64       `json:"expires_at"`
	User         UserSummary `json:"user"`
	IsNewUser    bool        `json:"is_new_user"`
}
