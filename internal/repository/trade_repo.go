package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/database"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"

	"github.com/jackc/pgx/v5"
)

const tradeColumns = `id, proposer_id, recipient_id, post_id, offered_card_ids, requested_card_ids, message, status,
	chat_room_id, proposed_at, responded_at, completed_at, created_at, updated_at`

type PostgresTradeRepository struct {
	db database.DBTX
}

func NewTradeRepository(db database.DBTX) core.TradeRepository {
	return &PostgresTradeRepository{db: db}
}

func scanTrade(row pgx.Row) (*models.Trade, error) {
	var t models.Trade
	err := row.Scan(&t.ID, &t.ProposerID, &t.RecipientID, &t.PostID, &t.OfferedCardIDs, &t.RequestedCardIDs,
		&t.Message, &t.Status, &t.ChatRoomID, &t.ProposedAt, &t.RespondedAt, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	if t.OfferedCardIDs == nil {
		t.OfferedCardIDs = []string{}
	}
	if t.RequestedCardIDs == nil {
		t.RequestedCardIDs = []string{}
	}
	return &t, nil
}

func (r *PostgresTradeRepository) Create(ctx context.Context, trade *models.Trade) error {
	query := `
		INSERT INTO app_data.trades (id, proposer_id, recipient_id, post_id, offered_card_ids, requested_card_ids,
			message, status, proposed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		trade.ID, trade.ProposerID, trade.RecipientID, trade.PostID, trade.OfferedCardIDs, trade.RequestedCardIDs,
		trade.Message, trade.Status, trade.ProposedAt, trade.CreatedAt, trade.UpdatedAt)
	return mapError(err)
}

func (r *PostgresTradeRepository) GetByID(ctx context.Context, id string) (*models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM app_data.trades WHERE id = $1`
	return scanTrade(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
}

func (r *PostgresTradeRepository) List(ctx context.Context, filter models.TradeFilter) ([]models.Trade, int, error) {
	args := []any{filter.UserID}
	conditions := []string{}
	argCounter := 2

	switch filter.Role {
	case "proposer":
		conditions = append(conditions, "proposer_id = $1")
	case "recipient":
		conditions = append(conditions, "recipient_id = $1")
	default:
		conditions = append(conditions, "(proposer_id = $1 OR recipient_id = $1)")
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCounter))
		args = append(args, filter.Status)
		argCounter++
	}

	where := " WHERE " + strings.Join(conditions, " AND ")
	conn := database.Conn(ctx, r.db)

	var total int
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM app_data.trades"+where, args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	page, limit := models.NormalizePage(filter.Page, filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM app_data.trades%s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`,
		tradeColumns, where, argCounter, argCounter+1)
	args = append(args, limit, models.Offset(page, limit))

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	trades := []models.Trade{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, 0, err
		}
		trades = append(trades, *t)
	}
	return trades, total, mapError(rows.Err())
}

// Transition is a compare-and-set on status. The timestamp matching the new
// status is stamped in the same statement.
func (r *PostgresTradeRepository) Transition(ctx context.Context, id string, from, to models.TradeStatus, at time.Time) error {
	query := `
		UPDATE app_data.trades
		SET status = $1::text,
			updated_at = $2::timestamptz,
			proposed_at = CASE WHEN $1::text = 'proposed' THEN $2::timestamptz ELSE proposed_at END,
			responded_at = CASE WHEN $1::text IN ('accepted', 'rejected') THEN $2::timestamptz ELSE responded_at END,
			completed_at = CASE WHEN $1::text = 'completed' THEN $2::timestamptz ELSE completed_at END
		WHERE id = $3 AND status = $4`
	tag, err := database.Conn(ctx, r.db).Exec(ctx, query, string(to), at, id, string(from))
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: trade is no longer %s", errs.ErrInvalidTransition, from)
	}
	return nil
}

func (r *PostgresTradeRepository) SetChatRoom(ctx context.Context, id, roomID string) error {
	return requireAffected(database.Conn(ctx, r.db).Exec(ctx,
		"UPDATE app_data.trades SET chat_room_id = $1 WHERE id = $2", roomID, id))
}

func (r *PostgresTradeRepository) HasOpenTradeForCard(ctx context.Context, cardID string) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.db).QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM app_data.trades
			WHERE status IN ('proposed', 'accepted')
				AND ($1::text = ANY(offered_card_ids) OR $1::text = ANY(requested_card_ids))
		)`, cardID).Scan(&exists)
	return exists, mapError(err)
}
