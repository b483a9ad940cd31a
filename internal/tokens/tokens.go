// Package tokens issues and validates the API's own HS256 access and refresh tokens.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "pocaswap-api"

var ErrExpired = errors.New("token expired")

type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

// IssueAccess returns a signed access token and its expiry.
func (i *Issuer) IssueAccess(userID string, role models.Role) (string, time.Time, error) {
	signed, _, exp, err := i.issue(userID, role, models.TokenTypeAccess, i.accessTTL)
	return signed, exp, err
}

// IssueRefresh returns a signed refresh token and its jti.
func (i *Issuer) IssueRefresh(userID string, role models.Role) (string, string, error) {
	signed, jti, _, err := i.issue(userID, role, models.TokenTypeRefresh, i.refreshTTL)
	return signed, jti, err
}

func (i *Issuer) issue(userID string, role models.Role, typ string, ttl time.Duration) (string, string, time.Time, error) {
	now := i.now()
	exp := now.Add(ttl)
	jti := uuid.New().String()

	claims := models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: role,
		Type: typ,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", typ, err)
	}
	return signed, jti, exp, nil
}

// Parse validates the signature, expiry and token type.
// Expired tokens return ErrExpired; anything else invalid returns errs.ErrUnauthorized.
func (i *Issuer) Parse(tokenString, expectedType string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(i.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrUnauthorized, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errs.ErrUnauthorized
	}
	if claims.Type != expectedType {
		return nil, fmt.Errorf("%w: expected %s token", errs.ErrUnauthorized, expectedType)
	}
	return claims, nil
}
