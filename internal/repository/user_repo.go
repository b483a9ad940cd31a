package repository

import (
	"context"
	"time"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/database"
	"pocaswap-api/internal/models"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, google_sub, email, username, nickname, password_hash, role, bio, avatar_url,
	favorite_groups, latitude, longitude, location_updated_at, is_active, created_at, updated_at, last_login`

type PostgresUserRepository struct {
	db database.DBTX
}

func NewUserRepository(db database.DBTX) core.UserRepository {
	return &PostgresUserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.GoogleSub, &user.Email, &user.Username, &user.Nickname, &user.PasswordHash,
		&user.Role, &user.Bio, &user.AvatarURL, &user.FavoriteGroups, &user.Latitude, &user.Longitude,
		&user.LocationUpdatedAt, &user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.LastLogin)
	if err != nil {
		return nil, mapError(err)
	}
	if user.FavoriteGroups == nil {
		user.FavoriteGroups = []string{}
	}
	return &user, nil
}

// --- Auth & Basic ---

func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.FavoriteGroups == nil {
		user.FavoriteGroups = []string{}
	}
	query := `
		INSERT INTO auth.users (id, google_sub, email, username, nickname, password_hash, role, bio,
			avatar_url, favorite_groups, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		user.ID, user.GoogleSub, user.Email, user.Username, user.Nickname, user.PasswordHash, user.Role,
		user.Bio, user.AvatarURL, user.FavoriteGroups, user.IsActive, user.CreatedAt, user.UpdatedAt)
	return mapError(err)
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM auth.users WHERE id = $1`
	return scanUser(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
}

func (r *PostgresUserRepository) GetByGoogleSub(ctx context.Context, sub string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM auth.users WHERE google_sub = $1`
	return scanUser(database.Conn(ctx, r.db).QueryRow(ctx, query, sub))
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM auth.users WHERE username = $1`
	return scanUser(database.Conn(ctx, r.db).QueryRow(ctx, query, username))
}

func (r *PostgresUserRepository) NicknameExists(ctx context.Context, nickname string) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM auth.users WHERE nickname = $1)", nickname).Scan(&exists)
	return exists, mapError(err)
}

// --- User Management ---

func (r *PostgresUserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE auth.users
		SET nickname = $1, bio = $2, avatar_url = $3, favorite_groups = $4, email = $5
		WHERE id = $6`
	return requireAffected(database.Conn(ctx, r.db).Exec(ctx, query,
		user.Nickname, user.Bio, user.AvatarURL, user.FavoriteGroups, user.Email, user.ID))
}

func (r *PostgresUserRepository) UpdateLocation(ctx context.Context, userID string, lat, lng float64) error {
	query := `
		UPDATE auth.users
		SET latitude = $1, longitude = $2, location_updated_at = $3
		WHERE id = $4 AND is_active = true`
	return requireAffected(database.Conn(ctx, r.db).Exec(ctx, query, lat, lng, time.Now().UTC(), userID))
}

func (r *PostgresUserRepository) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx, "UPDATE auth.users SET last_login = $1 WHERE id = $2", time.Now().UTC(), userID)
	return mapError(err)
}

func (r *PostgresUserRepository) SetActive(ctx context.Context, userID string, active bool) error {
	return requireAffected(database.Conn(ctx, r.db).Exec(ctx,
		"UPDATE auth.users SET is_active = $1 WHERE id = $2", active, userID))
}

func (r *PostgresUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM auth.users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, limit, offset)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, mapError(rows.Err())
}

func (r *PostgresUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := database.Conn(ctx, r.db).QueryRow(ctx, "SELECT COUNT(*) FROM auth.users").Scan(&count)
	return count, mapError(err)
}

// --- Location ---

func (r *PostgresUserRepository) FindNearby(ctx context.Context, q models.NearbyQuery, excludeUserID string) ([]models.NearbyUser, error) {
	b := boundingBox(q)
	query := `
		SELECT id, nickname, bio, avatar_url, favorite_groups, created_at, distance_km FROM (
			SELECT id, nickname, bio, avatar_url, favorite_groups, created_at, ` + distanceSQL + ` AS distance_km
			FROM auth.users
			WHERE is_active = true AND role = 'user' AND id <> $3
				AND latitude IS NOT NULL AND longitude IS NOT NULL
				AND latitude BETWEEN $4 AND $5 AND longitude BETWEEN $6 AND $7
		) nearby
		WHERE distance_km <= $8
		ORDER BY distance_km ASC
		LIMIT $9`
	rows, err := database.Conn(ctx, r.db).Query(ctx, query,
		q.Latitude, q.Longitude, excludeUserID, b.minLat, b.maxLat, b.minLng, b.maxLng, q.RadiusKm, nearbyLimit(q.Limit))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	users := []models.NearbyUser{}
	for rows.Next() {
		var u models.NearbyUser
		if err := rows.Scan(&u.ID, &u.Nickname, &u.Bio, &u.AvatarURL, &u.FavoriteGroups, &u.CreatedAt, &u.DistanceKm); err != nil {
			return nil, mapError(err)
		}
		users = append(users, u)
	}
	return users, mapError(rows.Err())
}
