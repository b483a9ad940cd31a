package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"pocaswap-api/internal/config"
	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"
	"pocaswap-api/internal/validation"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type UserService struct {
	repo    core.UserRepository
	posts   core.PostRepository
	cards   core.CardRepository
	ratings core.RatingRepository
	quota   core.QuotaService
	premium core.PremiumChecker
	config  *config.Config
	logger  zerolog.Logger
}

func NewUserService(
	repo core.UserRepository,
	posts core.PostRepository,
	cards core.CardRepository,
	ratings core.RatingRepository,
	quota core.QuotaService,
	premium core.PremiumChecker,
	cfg *config.Config,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		repo:    repo,
		posts:   posts,
		cards:   cards,
		ratings: ratings,
		quota:   quota,
		premium: premium,
		config:  cfg,
		logger:  logger,
	}
}

func (s *UserService) GetMe(ctx context.Context, userID string) (*models.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Apply updates
	if req.Nickname != nil {
		nickname := validation.SanitizeString(*req.Nickname)
		if !validation.IsValidNickname(nickname) {
			return nil, fmt.Errorf("%w: nickname must be 2-30 letters, numbers, '_' or '.'", errs.ErrInvalidInput)
		}
		if nickname != user.Nickname {
			taken, err := s.repo.NicknameExists(ctx, nickname)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, fmt.Errorf("%w: nickname %q is taken", errs.ErrConflict, nickname)
			}
			user.Nickname = nickname
		}
	}
	if req.Bio != nil {
		bio := validation.SanitizeString(*req.Bio)
		if utf8.RuneCountInString(bio) > 300 {
			return nil, fmt.Errorf("%w: bio must not exceed 300 characters", errs.ErrInvalidInput)
		}
		user.Bio = bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.FavoriteGroups != nil {
		user.FavoriteGroups = validation.SanitizeAll(req.FavoriteGroups)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateLocation(ctx context.Context, userID string, req models.UpdateLocationRequest) error {
	if req.Latitude == nil || req.Longitude == nil {
		return fmt.Errorf("%w: latitude and longitude are required", errs.ErrInvalidInput)
	}
	lat, lng := *req.Latitude, *req.Longitude
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return fmt.Errorf("%w: coordinates out of range", errs.ErrInvalidInput)
	}
	return s.repo.UpdateLocation(ctx, userID, lat, lng)
}

// GetPublicProfile loads the profile aggregates concurrently.
func (s *UserService) GetPublicProfile(ctx context.Context, userID string) (*models.PublicProfile, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, errs.ErrNotFound
	}

	profile := &models.PublicProfile{User: user.Public()}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := s.ratings.Summary(gctx, user.ID)
		if err != nil {
			return err
		}
		profile.Rating = *summary
		return nil
	})
	g.Go(func() error {
		n, err := s.posts.CountByAuthor(gctx, user.ID)
		profile.PostCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.cards.CountByOwner(gctx, user.ID)
		profile.CardCount = n
		return err
	})
	g.Go(func() error {
		premium, err := s.premium.IsPremium(gctx, user.ID)
		profile.IsPremium = premium
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profile, nil
}

// SearchNearby consumes one unit of the daily quota before querying.
func (s *UserService) SearchNearby(ctx context.Context, userID string, q models.NearbyQuery) ([]models.NearbyUser, *models.QuotaStatus, error) {
	q, err := validateNearby(q, s.config.NearbyMaxRadiusKm)
	if err != nil {
		return nil, nil, err
	}

	status, err := s.quota.Consume(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	users, err := s.repo.FindNearby(ctx, q, userID)
	if err != nil {
		return nil, nil, err
	}
	return users, status, nil
}

func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	if err := s.repo.SetActive(ctx, userID, false); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("User deactivated")
	return nil
}

func (s *UserService) ListUsers(ctx context.Context, page, limit int) ([]models.User, *models.PaginationMetadata, error) {
	page, limit = models.NormalizePage(page, limit)

	users, err := s.repo.List(ctx, limit, models.Offset(page, limit))
	if err != nil {
		return nil, nil, err
	}

	totalCount, err := s.repo.Count(ctx)
	if err != nil {
		return nil, nil, err
	}

	return users, models.NewPagination(page, limit, totalCount), nil
}
