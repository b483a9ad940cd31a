package service

import (
	"context"
	"fmt"
	"time"

	"pocaswap-api/internal/config"
	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/metrics"
	"pocaswap-api/internal/models"

	"github.com/rs/zerolog"
)

// QuotaService meters nearby searches per user and UTC day.
type QuotaService struct {
	store   core.QuotaStore
	premium core.PremiumChecker
	config  *config.Config
	metrics *metrics.Recorder
	logger  zerolog.Logger
	now     clock
}

func NewQuotaService(store core.QuotaStore, premium core.PremiumChecker, cfg *config.Config, rec *metrics.Recorder, logger zerolog.Logger) *QuotaService {
	return &QuotaService{store: store, premium: premium, config: cfg, metrics: rec, logger: logger, now: utcNow}
}

func quotaKey(userID string, day time.Time) string {
	return fmt.Sprintf("nearby_quota:%s:%s", userID, day.Format("20060102"))
}

// window returns the start of the UTC day containing now and when it resets.
func window(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

func (s *QuotaService) limitFor(ctx context.Context, userID string) (int, error) {
	premium, err := s.premium.IsPremium(ctx, userID)
	if err != nil {
		return 0, err
	}
	if premium {
		return s.config.NearbyPremiumDailyLimit, nil
	}
	return s.config.NearbyFreeDailyLimit, nil
}

func newQuotaStatus(limit int, used int64, resetsAt time.Time) *models.QuotaStatus {
	u := int(used)
	if u > limit {
		u = limit
	}
	return &models.QuotaStatus{Limit: limit, Used: u, Remaining: limit - u, ResetsAt: resetsAt}
}

// Consume takes one unit of today's quota. The counter is rolled back when
// the limit is already used up.
func (s *QuotaService) Consume(ctx context.Context, userID string) (*models.QuotaStatus, error) {
	limit, err := s.limitFor(ctx, userID)
	if err != nil {
		s.metrics.NearbySearch(metrics.ResultError)
		return nil, err
	}

	day, resetsAt := window(s.now())
	key := quotaKey(userID, day)

	used, err := s.store.Increment(ctx, key, resetsAt.Add(time.Hour))
	if err != nil {
		s.metrics.NearbySearch(metrics.ResultError)
		return nil, err
	}

	if used > int64(limit) {
		if err := s.store.Decrement(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to roll back nearby quota")
		}
		s.metrics.NearbySearch(metrics.ResultExceeded)
		return nil, fmt.Errorf("%w: %d nearby searches per day, resets at %s",
			errs.ErrQuotaExceeded, limit, resetsAt.Format(time.RFC3339))
	}

	s.metrics.NearbySearch(metrics.ResultOK)
	return newQuotaStatus(limit, used, resetsAt), nil
}

// Status reports today's usage without consuming.
func (s *QuotaService) Status(ctx context.Context, userID string) (*models.QuotaStatus, error) {
	limit, err := s.limitFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	day, resetsAt := window(s.now())
	used, err := s.store.Get(ctx, quotaKey(userID, day))
	if err != nil {
		return nil, err
	}
	return newQuotaStatus(limit, used, resetsAt), nil
}
