// Package googleauth validates Google Sign-In ID tokens offline against
// Google's published JWKS.
package googleauth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

var validIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// Default configuration values.
const (
	DefaultLeeway          = 30 * time.Second
	DefaultRefreshInterval = time.Hour
)

type Config struct {
	JWKSURL         string
	ClientIDs       []string // accepted audiences
	Leeway          time.Duration
	RefreshInterval time.Duration
}

// Verifier implements core.GoogleTokenVerifier with a cached, auto-refreshing key set.
type Verifier struct {
	jwks      keyfunc.Keyfunc
	clientIDs []string
	leeway    time.Duration
	logger    zerolog.Logger
	cancel    context.CancelFunc
}

var _ core.GoogleTokenVerifier = (*Verifier)(nil)

func NewVerifier(cfg Config, logger zerolog.Logger) (*Verifier, error) {
	if cfg.JWKSURL == "" {
		return nil, errors.New("google JWKS URL is required")
	}
	if cfg.Leeway == 0 {
		cfg.Leeway = DefaultLeeway
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	storage, err := jwkset.NewStorageFromHTTP(cfg.JWKSURL, jwkset.HTTPClientStorageOptions{
		Ctx:             ctx,
		RefreshInterval: cfg.RefreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error().Err(err).Str("jwks_url", cfg.JWKSURL).Msg("Failed to refresh Google JWKS")
		},
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to fetch Google JWKS: %w", err)
	}

	jwks, err := keyfunc.New(keyfunc.Options{Ctx: ctx, Storage: storage})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to build Google keyfunc: %w", err)
	}

	logger.Info().
		Str("jwks_url", cfg.JWKSURL).
		Int("client_ids", len(cfg.ClientIDs)).
		Dur("refresh_interval", cfg.RefreshInterval).
		Msg("Google ID token verifier initialized")

	return &Verifier{
		jwks:      jwks,
		clientIDs: cfg.ClientIDs,
		leeway:    cfg.Leeway,
		logger:    logger,
		cancel:    cancel,
	}, nil
}

// Verify checks signature, expiry, issuer, audience and email verification.
func (v *Verifier) Verify(_ context.Context, idToken string) (*models.GoogleIdentity, error) {
	if idToken == "" {
		return nil, fmt.Errorf("%w: empty id token", errs.ErrUnauthorized)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, v.jwks.Keyfunc,
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{"RS256"}),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: google id token: %v", errs.ErrUnauthorized, err)
	}

	iss, _ := claims.GetIssuer()
	if !slices.Contains(validIssuers, iss) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", errs.ErrUnauthorized, iss)
	}

	aud, _ := claims.GetAudience()
	if !v.audienceAllowed(aud) {
		return nil, fmt.Errorf("%w: unexpected audience", errs.ErrUnauthorized)
	}

	identity := &models.GoogleIdentity{}
	identity.Subject, _ = claims.GetSubject()
	identity.Email, _ = claims["email"].(string)
	identity.Name, _ = claims["name"].(string)
	identity.Picture, _ = claims["picture"].(string)

	switch ev := claims["email_verified"].(type) {
	case bool:
		identity.EmailVerified = ev
	case string:
		identity.EmailVerified = ev == "true"
	}

	if identity.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", errs.ErrUnauthorized)
	}
	if !identity.EmailVerified {
		return nil, fmt.Errorf("%w: email not verified", errs.ErrUnauthorized)
	}
	return identity, nil
}

func (v *Verifier) audienceAllowed(aud jwt.ClaimStrings) bool {
	for _, a := range aud {
		if slices.Contains(v.clientIDs, a) {
			return true
		}
	}
	return false
}

// Close stops background JWKS refresh.
func (v *Verifier) Close() error {
	if v.cancel != nil {
		v.cancel()
	}
	return nil
}
