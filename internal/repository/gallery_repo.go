package repository

import (
	"context"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/database"
	"pocaswap-api/internal/models"
)

type PostgresGalleryRepository struct {
	db database.DBTX
}

func NewGalleryRepository(db database.DBTX) core.GalleryRepository {
	return &PostgresGalleryRepository{db: db}
}

func (r *PostgresGalleryRepository) Create(ctx context.Context, item *models.GalleryItem) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx, `
		INSERT INTO app_data.gallery_items (id, user_id, image_url, caption, card_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.UserID, item.ImageURL, item.Caption, item.CardID, item.CreatedAt)
	return mapError(err)
}

func (r *PostgresGalleryRepository) GetByID(ctx context.Context, id string) (*models.GalleryItem, error) {
	var item models.GalleryItem
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		"SELECT id, user_id, image_url, caption, card_id, created_at FROM app_data.gallery_items WHERE id = $1", id).
		Scan(&item.ID, &item.UserID, &item.ImageURL, &item.Caption, &item.CardID, &item.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &item, nil
}

func (r *PostgresGalleryRepository) Delete(ctx context.Context, id string) error {
	return requireAffected(database.Conn(ctx, r.db).Exec(ctx, "DELETE FROM app_data.gallery_items WHERE id = $1", id))
}

func (r *PostgresGalleryRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.GalleryItem, int, error) {
	total, err := r.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := database.Conn(ctx, r.db).Query(ctx, `
		SELECT id, user_id, image_url, caption, card_id, created_at
		FROM app_data.gallery_items WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	items := []models.GalleryItem{}
	for rows.Next() {
		var item models.GalleryItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.ImageURL, &item.Caption, &item.CardID, &item.CreatedAt); err != nil {
			return nil, 0, mapError(err)
		}
		items = append(items, item)
	}
	return items, total, mapError(rows.Err())
}

func (r *PostgresGalleryRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		"SELECT COUNT(*) FROM app_data.gallery_items WHERE user_id = $1", userID).Scan(&count)
	return count, mapError(err)
}
