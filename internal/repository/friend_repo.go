package repository

import (
	"context"
	"fmt"
	"time"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/database"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"

	"github.com/jackc/pgx/v5"
)

const friendRequestColumns = `id, requester_id, addressee_id, status, created_at, responded_at`

type PostgresFriendRepository struct {
	db database.DBTX
}

func NewFriendRepository(db database.DBTX) core.FriendRepository {
	return &PostgresFriendRepository{db: db}
}

func scanFriendRequest(row pgx.Row) (*models.FriendRequest, error) {
	var fr models.FriendRequest
	if err := row.Scan(&fr.ID, &fr.RequesterID, &fr.AddresseeID, &fr.Status, &fr.CreatedAt, &fr.RespondedAt); err != nil {
		return nil, mapError(err)
	}
	return &fr, nil
}

// --- Requests ---

func (r *PostgresFriendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx, `
		INSERT INTO app_data.friend_requests (id, requester_id, addressee_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		req.ID, req.RequesterID, req.AddresseeID, req.Status, req.CreatedAt)
	return mapError(err)
}

func (r *PostgresFriendRepository) GetRequest(ctx context.Context, id string) (*models.FriendRequest, error) {
	query := `SELECT ` + friendRequestColumns + ` FROM app_data.friend_requests WHERE id = $1`
	return scanFriendRequest(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
}

func (r *PostgresFriendRepository) PendingBetween(ctx context.Context, a, b string) (*models.FriendRequest, error) {
	query := `
		SELECT ` + friendRequestColumns + ` FROM app_data.friend_requests
		WHERE status = 'pending'
			AND ((requester_id = $1 AND addressee_id = $2) OR (requester_id = $2 AND addressee_id = $1))
		LIMIT 1`
	return scanFriendRequest(database.Conn(ctx, r.db).QueryRow(ctx, query, a, b))
}

func (r *PostgresFriendRepository) ListPending(ctx context.Context, userID string, incoming bool) ([]models.FriendRequest, error) {
	column := "requester_id"
	if incoming {
		column = "addressee_id"
	}
	query := fmt.Sprintf(`
		SELECT %s FROM app_data.friend_requests
		WHERE %s = $1 AND status = 'pending'
		ORDER BY created_at DESC`, friendRequestColumns, column)

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	requests := []models.FriendRequest{}
	for rows.Next() {
		fr, err := scanFriendRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *fr)
	}
	return requests, mapError(rows.Err())
}

// UpdateRequestStatus moves a request from one status to another. It fails with
// ErrInvalidTransition when the request is no longer in from.
func (r *PostgresFriendRepository) UpdateRequestStatus(ctx context.Context, id string, from, to models.FriendRequestStatus, at time.Time) error {
	tag, err := database.Conn(ctx, r.db).Exec(ctx, `
		UPDATE app_data.friend_requests SET status = $1, responded_at = $2
		WHERE id = $3 AND status = $4`, to, at, id, from)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: friend request is no longer %s", errs.ErrInvalidTransition, from)
	}
	return nil
}

// --- Friendships ---

func (r *PostgresFriendRepository) CreateFriendship(ctx context.Context, a, b string, at time.Time) error {
	low, high := models.OrderedPair(a, b)
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		"INSERT INTO app_data.friendships (user_low, user_high, created_at) VALUES ($1, $2, $3)", low, high, at)
	return mapError(err)
}

func (r *PostgresFriendRepository) AreFriends(ctx context.Context, a, b string) (bool, error) {
	low, high := models.OrderedPair(a, b)
	var exists bool
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM app_data.friendships WHERE user_low = $1 AND user_high = $2)", low, high).Scan(&exists)
	return exists, mapError(err)
}

func (r *PostgresFriendRepository) ListFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	query := `
		SELECT u.id, u.nickname, u.bio, u.avatar_url, u.favorite_groups, u.created_at, f.created_at
		FROM app_data.friendships f
		JOIN auth.users u ON u.id = CASE WHEN f.user_low = $1 THEN f.user_high ELSE f.user_low END
		WHERE (f.user_low = $1 OR f.user_high = $1) AND u.is_active = true
		ORDER BY u.nickname ASC`
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	friends := []models.Friend{}
	for rows.Next() {
		var f models.Friend
		if err := rows.Scan(&f.ID, &f.Nickname, &f.Bio, &f.AvatarURL, &f.FavoriteGroups, &f.CreatedAt, &f.Since); err != nil {
			return nil, mapError(err)
		}
		friends = append(friends, f)
	}
	return friends, mapError(rows.Err())
}

func (r *PostgresFriendRepository) DeleteFriendship(ctx context.Context, a, b string) error {
	low, high := models.OrderedPair(a, b)
	return requireAffected(database.Conn(ctx, r.db).Exec(ctx,
		"DELETE FROM app_data.friendships WHERE user_low = $1 AND user_high = $2", low, high))
}
