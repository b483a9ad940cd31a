package repository

import (
	"context"
	"time"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/database"
	"pocaswap-api/internal/models"

	"github.com/jackc/pgx/v5"
)

const subscriptionColumns = `id, user_id, platform, product_id, purchase_token, order_id, status, auto_renewing,
	acknowledged, linked_purchase_token, started_at, expires_at, created_at, updated_at`

type PostgresSubscriptionRepository struct {
	db database.DBTX
}

func NewSubscriptionRepository(db database.DBTX) core.SubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

func scanSubscription(row pgx.Row) (*models.Subscription, error) {
	var s models.Subscription
	err := row.Scan(&s.ID, &s.UserID, &s.Platform, &s.ProductID, &s.PurchaseToken, &s.OrderID, &s.Status,
		&s.AutoRenewing, &s.Acknowledged, &s.LinkedPurchaseToken, &s.StartedAt, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &s, nil
}

func (r *PostgresSubscriptionRepository) GetByPurchaseToken(ctx context.Context, token string) (*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM app_data.subscriptions WHERE purchase_token = $1`
	return scanSubscription(database.Conn(ctx, r.db).QueryRow(ctx, query, token))
}

// Create fails with ErrConflict when the purchase token is already stored.
func (r *PostgresSubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx, `
		INSERT INTO app_data.subscriptions (id, user_id, platform, product_id, purchase_token, order_id, status,
			auto_renewing, acknowledged, linked_purchase_token, started_at, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		sub.ID, sub.UserID, sub.Platform, sub.ProductID, sub.PurchaseToken, sub.OrderID, sub.Status,
		sub.AutoRenewing, sub.Acknowledged, sub.LinkedPurchaseToken, sub.StartedAt, sub.ExpiresAt, sub.CreatedAt, sub.UpdatedAt)
	return mapError(err)
}

// Update refreshes store state. user_id and purchase_token never change.
func (r *PostgresSubscriptionRepository) Update(ctx context.Context, sub *models.Subscription) error {
	return requireAffected(database.Conn(ctx, r.db).Exec(ctx, `
		UPDATE app_data.subscriptions
		SET product_id = $1, order_id = $2, status = $3, auto_renewing = $4, acknowledged = $5,
			linked_purchase_token = $6, started_at = $7, expires_at = $8, updated_at = $9
		WHERE id = $10`,
		sub.ProductID, sub.OrderID, sub.Status, sub.AutoRenewing, sub.Acknowledged,
		sub.LinkedPurchaseToken, sub.StartedAt, sub.ExpiresAt, sub.UpdatedAt, sub.ID))
}

// ActiveForUser returns the premium-granting subscription that runs the longest.
func (r *PostgresSubscriptionRepository) ActiveForUser(ctx context.Context, userID string, now time.Time) (*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + ` FROM app_data.subscriptions
		WHERE user_id = $1 AND status IN ('active', 'grace_period', 'canceled') AND expires_at > $2
		ORDER BY expires_at DESC
		LIMIT 1`
	return scanSubscription(database.Conn(ctx, r.db).QueryRow(ctx, query, userID, now))
}

func (r *PostgresSubscriptionRepository) MarkReplaced(ctx context.Context, token string) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx, `
		UPDATE app_data.subscriptions SET status = 'replaced', auto_renewing = false, updated_at = NOW()
		WHERE purchase_token = $1 AND status <> 'replaced'`, token)
	return mapError(err)
}

func (r *PostgresSubscriptionRepository) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	tag, err := database.Conn(ctx, r.db).Exec(ctx, `
		UPDATE app_data.subscriptions SET status = 'expired', auto_renewing = false, updated_at = $1
		WHERE status IN ('active', 'grace_period', 'canceled', 'on_hold', 'paused') AND expires_at <= $1`, now)
	if err != nil {
		return 0, mapError(err)
	}
	return tag.RowsAffected(), nil
}
