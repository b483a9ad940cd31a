package repository

import (
	"context"
	"fmt"
	"strings"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/database"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"

	"github.com/jackc/pgx/v5"
)

const cardColumns = `id, owner_id, group_name, member_name, album, version, image_url, condition, status, note, created_at, updated_at`

type PostgresCardRepository struct {
	db database.DBTX
}

func NewCardRepository(db database.DBTX) core.CardRepository {
	return &PostgresCardRepository{db: db}
}

func scanCard(row pgx.Row) (*models.Card, error) {
	var c models.Card
	err := row.Scan(&c.ID, &c.OwnerID, &c.GroupName, &c.MemberName, &c.Album, &c.Version,
		&c.ImageURL, &c.Condition, &c.Status, &c.Note, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func collectCards(rows pgx.Rows) ([]models.Card, error) {
	defer rows.Close()
	cards := []models.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *c)
	}
	return cards, mapError(rows.Err())
}

func (r *PostgresCardRepository) Create(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO app_data.cards (id, owner_id, group_name, member_name, album, version, image_url,
			condition, status, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		card.ID, card.OwnerID, card.GroupName, card.MemberName, card.Album, card.Version, card.ImageURL,
		card.Condition, card.Status, card.Note, card.CreatedAt, card.UpdatedAt)
	return mapError(err)
}

func (r *PostgresCardRepository) GetByID(ctx context.Context, id string) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM app_data.cards WHERE id = $1`
	return scanCard(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
}

func (r *PostgresCardRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Card, error) {
	if len(ids) == 0 {
		return []models.Card{}, nil
	}
	query := `SELECT ` + cardColumns + ` FROM app_data.cards WHERE id = ANY($1)`
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, ids)
	if err != nil {
		return nil, mapError(err)
	}
	return collectCards(rows)
}

func (r *PostgresCardRepository) Update(ctx context.Context, card *models.Card) error {
	query := `
		UPDATE app_data.cards
		SET group_name = $1, member_name = $2, album = $3, version = $4, image_url = $5,
			condition = $6, status = $7, note = $8, updated_at = $9
		WHERE id = $10`
	return requireAffected(database.Conn(ctx, r.db).Exec(ctx, query,
		card.GroupName, card.MemberName, card.Album, card.Version, card.ImageURL,
		card.Condition, card.Status, card.Note, card.UpdatedAt, card.ID))
}

func (r *PostgresCardRepository) Delete(ctx context.Context, id string) error {
	return requireAffected(database.Conn(ctx, r.db).Exec(ctx, "DELETE FROM app_data.cards WHERE id = $1", id))
}

func (r *PostgresCardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, int, error) {
	args := []any{}
	conditions := []string{}
	argCounter := 1

	if filter.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", argCounter))
		args = append(args, filter.OwnerID)
		argCounter++
	}
	if filter.GroupName != "" {
		conditions = append(conditions, fmt.Sprintf("group_name ILIKE $%d", argCounter))
		args = append(args, filter.GroupName)
		argCounter++
	}
	if filter.MemberName != "" {
		conditions = append(conditions, fmt.Sprintf("member_name ILIKE $%d", argCounter))
		args = append(args, filter.MemberName)
		argCounter++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCounter))
		args = append(args, filter.Status)
		argCounter++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	conn := database.Conn(ctx, r.db)
	var total int
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM app_data.cards"+where, args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	page, limit := models.NormalizePage(filter.Page, filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM app_data.cards%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		cardColumns, where, argCounter, argCounter+1)
	args = append(args, limit, models.Offset(page, limit))

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	cards, err := collectCards(rows)
	return cards, total, err
}

func (r *PostgresCardRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		"SELECT COUNT(*) FROM app_data.cards WHERE owner_id = $1", ownerID).Scan(&count)
	return count, mapError(err)
}

// MarkTraded flips every card to traded. If any of them was traded already it returns
// ErrConflict and the caller's transaction must roll back.
func (r *PostgresCardRepository) MarkTraded(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tag, err := database.Conn(ctx, r.db).Exec(ctx, `
		UPDATE app_data.cards SET status = $1, updated_at = NOW()
		WHERE id = ANY($2) AND status <> $1`, models.CardTraded, ids)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return fmt.Errorf("%w: some cards were already traded", errs.ErrConflict)
	}
	return nil
}
