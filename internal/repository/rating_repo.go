package repository

import (
	"context"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/database"
	"pocaswap-api/internal/models"
)

type PostgresRatingRepository struct {
	db database.DBTX
}

func NewRatingRepository(db database.DBTX) core.RatingRepository {
	return &PostgresRatingRepository{db: db}
}

func (r *PostgresRatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx, `
		INSERT INTO app_data.ratings (id, trade_id, rater_id, ratee_id, score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rating.ID, rating.TradeID, rating.RaterID, rating.RateeID, rating.Score, rating.Comment, rating.CreatedAt)
	return mapError(err)
}

func (r *PostgresRatingRepository) ListByRatee(ctx context.Context, rateeID string, limit, offset int) ([]models.Rating, int, error) {
	conn := database.Conn(ctx, r.db)

	var total int
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM app_data.ratings WHERE ratee_id = $1", rateeID).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	rows, err := conn.Query(ctx, `
		SELECT id, trade_id, rater_id, ratee_id, score, comment, created_at
		FROM app_data.ratings WHERE ratee_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, rateeID, limit, offset)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	ratings := []models.Rating{}
	for rows.Next() {
		var rt models.Rating
		if err := rows.Scan(&rt.ID, &rt.TradeID, &rt.RaterID, &rt.RateeID, &rt.Score, &rt.Comment, &rt.CreatedAt); err != nil {
			return nil, 0, mapError(err)
		}
		ratings = append(ratings, rt)
	}
	return ratings, total, mapError(rows.Err())
}

func (r *PostgresRatingRepository) Summary(ctx context.Context, rateeID string) (*models.RatingSummary, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx,
		"SELECT score, COUNT(*) FROM app_data.ratings WHERE ratee_id = $1 GROUP BY score", rateeID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	distribution := map[int]int{}
	for rows.Next() {
		var score, count int
		if err := rows.Scan(&score, &count); err != nil {
			return nil, mapError(err)
		}
		distribution[score] = count
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	summary := models.NewRatingSummary(distribution)
	return &summary, nil
}
