package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"
	"pocaswap-api/internal/tokens"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxNicknameAttempts = 5
	nicknameBaseRunes   = 24
)

type AuthService struct {
	users   core.UserRepository
	google  core.GoogleTokenVerifier
	refresh core.RefreshTokenStore
	issuer  *tokens.Issuer
	logger  zerolog.Logger
	now     clock
	suffix  func() string
}

func NewAuthService(users core.UserRepository, google core.GoogleTokenVerifier, refresh core.RefreshTokenStore, issuer *tokens.Issuer, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:   users,
		google:  google,
		refresh: refresh,
		issuer:  issuer,
		logger:  logger.With().Str("component", "auth").Logger(),
		now:     utcNow,
		suffix:  func() string { return newID()[:4] },
	}
}

// LoginWithGoogle signs in with a Google ID token, creating the account on first use.
func (s *AuthService) LoginWithGoogle(ctx context.Context, req models.GoogleLoginRequest) (*models.LoginResponse, error) {
	identity, err := s.google.Verify(ctx, req.IDToken)
	if err != nil {
		return nil, err
	}

	isNew := false
	user, err := s.users.GetByGoogleSub(ctx, identity.Subject)
	if errors.Is(err, errs.ErrNotFound) {
		user, isNew, err = s.createGoogleUser(ctx, identity)
	}
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		s.logger.Warn().Str("user_id", user.ID).Msg("Login attempt by deactivated user")
		return nil, fmt.Errorf("%w: account is deactivated", errs.ErrForbidden)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to update last login")
	}

	s.logger.Info().Str("user_id", user.ID).Bool("new_user", isNew).Msg("Google login")
	return s.issueSession(ctx, user, isNew)
}

func (s *AuthService) createGoogleUser(ctx context.Context, identity *models.GoogleIdentity) (*models.User, bool, error) {
	base := nicknameBase(identity.Name, identity.Email)
	sub := identity.Subject

	for attempt := 0; attempt < maxNicknameAttempts; attempt++ {
		nickname := base
		if attempt > 0 {
			nickname = base + "_" + s.suffix()
		}

		exists, err := s.users.NicknameExists(ctx, nickname)
		if err != nil {
			return nil, false, err
		}
		if exists {
			continue
		}

		now := s.now()
		user := &models.User{
			ID:             newID(),
			GoogleSub:      &sub,
			Email:          identity.Email,
			Nickname:       nickname,
			Role:           models.RoleUser,
			AvatarURL:      identity.Picture,
			FavoriteGroups: []string{},
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		err = s.users.Create(ctx, user)
		if err == nil {
			return user, true, nil
		}
		if !errors.Is(err, errs.ErrConflict) {
			return nil, false, err
		}

		// Either the nickname was taken meanwhile or a concurrent first login
		// created this Google account.
		existing, lookupErr := s.users.GetByGoogleSub(ctx, sub)
		if lookupErr == nil {
			return existing, false, nil
		}
		if !errors.Is(lookupErr, errs.ErrNotFound) {
			return nil, false, lookupErr
		}
	}
	return nil, false, fmt.Errorf("%w: could not allocate a unique nickname", errs.ErrConflict)
}

// nicknameBase derives a nickname from the Google profile: the display name if
// usable, otherwise the local part of the email.
func nicknameBase(name, email string) string {
	for _, candidate := range []string{name, strings.SplitN(email, "@", 2)[0]} {
		var b strings.Builder
		for _, r := range candidate {
			switch {
			case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.':
				b.WriteRune(r)
			case unicode.IsSpace(r) || r == '-':
				b.WriteRune('_')
			}
		}
		nick := strings.Trim(b.String(), "_.")
		if utf8.RuneCountInString(nick) >= 2 {
			if runes := []rune(nick); len(runes) > nicknameBaseRunes {
				nick = string(runes[:nicknameBaseRunes])
			}
			return nick
		}
	}
	return "pocaswapper"
}

// AdminLogin checks username and password of an admin account.
func (s *AuthService) AdminLogin(ctx context.Context, req models.AdminLoginRequest) (*models.LoginResponse, error) {
	invalid := fmt.Errorf("%w: invalid credentials", errs.ErrUnauthorized)

	user, err := s.users.GetByUsername(ctx, req.Username)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() || user.PasswordHash == "" {
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("username", req.Username).Msg("Failed admin login")
		return nil, invalid
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", errs.ErrForbidden)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to update last login")
	}
	return s.issueSession(ctx, user, false)
}

// Refresh rotates a refresh token. Each refresh token works once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.LoginResponse, error) {
	claims, err := s.issuer.Parse(refreshToken, models.TokenTypeRefresh)
	if err != nil {
		if errors.Is(err, tokens.ErrExpired) {
			return nil, fmt.Errorf("%w: refresh token expired", errs.ErrUnauthorized)
		}
		return nil, err
	}

	owner, err := s.refresh.Consume(ctx, claims.ID)
	if errors.Is(err, errs.ErrNotFound) {
		s.logger.Warn().Str("user_id", claims.Subject).Msg("Reused or revoked refresh token")
		return nil, fmt.Errorf("%w: refresh token is no longer valid", errs.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if owner != claims.Subject {
		return nil, fmt.Errorf("%w: refresh token is no longer valid", errs.ErrUnauthorized)
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("%w: account no longer exists", errs.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", errs.ErrForbidden)
	}
	return s.issueSession(ctx, user, false)
}

// Logout revokes the refresh token. Unknown, expired or malformed tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.issuer.Parse(refreshToken, models.TokenTypeRefresh)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Logout with unusable refresh token")
		return nil
	}
	return s.refresh.Revoke(ctx, claims.ID)
}

func (s *AuthService) issueSession(ctx context.Context, user *models.User, isNew bool) (*models.LoginResponse, error) {
	access, exp, err := s.issuer.IssueAccess(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, jti, err := s.issuer.IssueRefresh(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	if err := s.refresh.Save(ctx, jti, user.ID, s.issuer.RefreshTTL()); err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    exp.Unix(),
		User: models.UserSummary{
			ID:       user.ID,
			Nickname: user.Nickname,
			Email:    user.Email,
			Role:     user.Role,
		},
		IsNewUser: isNew,
	}, nil
}
