package repository

import (
	"context"
	"fmt"
	"strings"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/database"
	"pocaswap-api/internal/models"

	"github.com/jackc/pgx/v5"
)

const postColumns = `id, author_id, kind, title, content, price, card_id, image_urls, group_name, status,
	like_count, comment_count, view_count, latitude, longitude, created_at, updated_at`

type PostgresPostRepository struct {
	db database.DBTX
}

func NewPostRepository(db database.DBTX) core.PostRepository {
	return &PostgresPostRepository{db: db}
}

func scanPost(row pgx.Row, extra ...any) (*models.Post, error) {
	var p models.Post
	dest := []any{&p.ID, &p.AuthorID, &p.Kind, &p.Title, &p.Content, &p.Price, &p.CardID, &p.ImageURLs,
		&p.GroupName, &p.Status, &p.LikeCount, &p.CommentCount, &p.ViewCount, &p.Latitude, &p.Longitude,
		&p.CreatedAt, &p.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, mapError(err)
	}
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
	return &p, nil
}

// likePattern escapes LIKE wildcards in user input and wraps it for a substring match.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func (r *PostgresPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ImageURLs == nil {
		post.ImageURLs = []string{}
	}
	query := `
		INSERT INTO app_data.posts (id, author_id, kind, title, content, price, card_id, image_urls,
			group_name, status, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		post.ID, post.AuthorID, post.Kind, post.Title, post.Content, post.Price, post.CardID, post.ImageURLs,
		post.GroupName, post.Status, post.Latitude, post.Longitude, post.CreatedAt, post.UpdatedAt)
	return mapError(err)
}

func (r *PostgresPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM app_data.posts WHERE id = $1 AND deleted_at IS NULL`
	return scanPost(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
}

func (r *PostgresPostRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE app_data.posts
		SET title = $1, content = $2, price = $3, image_urls = $4, group_name = $5, updated_at = $6
		WHERE id = $7 AND deleted_at IS NULL`
	return requireAffected(database.Conn(ctx, r.db).Exec(ctx, query,
		post.Title, post.Content, post.Price, post.ImageURLs, post.GroupName, post.UpdatedAt, post.ID))
}

func (r *PostgresPostRepository) UpdateStatus(ctx context.Context, id string, status models.PostStatus) error {
	return requireAffected(database.Conn(ctx, r.db).Exec(ctx,
		"UPDATE app_data.posts SET status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL", status, id))
}

// Delete soft-deletes the post.
func (r *PostgresPostRepository) Delete(ctx context.Context, id string) error {
	return requireAffected(database.Conn(ctx, r.db).Exec(ctx,
		"UPDATE app_data.posts SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id))
}

func (r *PostgresPostRepository) List(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	args := []any{}
	conditions := []string{"deleted_at IS NULL"}
	argCounter := 1

	if filter.AuthorID != "" {
		conditions = append(conditions, fmt.Sprintf("author_id = $%d", argCounter))
		args = append(args, filter.AuthorID)
		argCounter++
	}
	if filter.Kind != "" {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", argCounter))
		args = append(args, filter.Kind)
		argCounter++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCounter))
		args = append(args, filter.Status)
		argCounter++
	}
	if filter.GroupName != "" {
		conditions = append(conditions, fmt.Sprintf("group_name ILIKE $%d", argCounter))
		args = append(args, filter.GroupName)
		argCounter++
	}
	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", argCounter, argCounter))
		args = append(args, likePattern(filter.Query))
		argCounter++
	}

	where := " WHERE " + strings.Join(conditions, " AND ")
	conn := database.Conn(ctx, r.db)

	var total int
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM app_data.posts"+where, args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	page, limit := models.NormalizePage(filter.Page, filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM app_data.posts%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		postColumns, where, argCounter, argCounter+1)
	args = append(args, limit, models.Offset(page, limit))

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, *p)
	}
	return posts, total, mapError(rows.Err())
}

func (r *PostgresPostRepository) FindNearby(ctx context.Context, q models.NearbyQuery) ([]models.NearbyPost, error) {
	b := boundingBox(q)
	query := `
		SELECT ` + postColumns + `, distance_km FROM (
			SELECT *, ` + distanceSQL + ` AS distance_km
			FROM app_data.posts
			WHERE deleted_at IS NULL AND status IN ('active', 'reserved')
				AND latitude IS NOT NULL AND longitude IS NOT NULL
				AND latitude BETWEEN $3 AND $4 AND longitude BETWEEN $5 AND $6
		) nearby
		WHERE distance_km <= $7
		ORDER BY distance_km ASC, created_at DESC
		LIMIT $8`
	rows, err := database.Conn(ctx, r.db).Query(ctx, query,
		q.Latitude, q.Longitude, b.minLat, b.maxLat, b.minLng, b.maxLng, q.RadiusKm, nearbyLimit(q.Limit))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	posts := []models.NearbyPost{}
	for rows.Next() {
		var distance float64
		p, err := scanPost(rows, &distance)
		if err != nil {
			return nil, err
		}
		posts = append(posts, models.NearbyPost{Post: *p, DistanceKm: distance})
	}
	return posts, mapError(rows.Err())
}

func (r *PostgresPostRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		"UPDATE app_data.posts SET view_count = view_count + 1 WHERE id = $1", id)
	return mapError(err)
}

func (r *PostgresPostRepository) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	var count int
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		"SELECT COUNT(*) FROM app_data.posts WHERE author_id = $1 AND deleted_at IS NULL", authorID).Scan(&count)
	return count, mapError(err)
}

// ToggleLike adds the like if absent and removes it otherwise, keeping like_count in step.
// It runs as one statement so the row and the counter cannot drift.
func (r *PostgresPostRepository) ToggleLike(ctx context.Context, postID, userID string) (*models.LikeResult, error) {
	query := `
		WITH removed AS (
			DELETE FROM app_data.post_likes WHERE post_id = $1 AND user_id = $2 RETURNING 1
		), added AS (
			INSERT INTO app_data.post_likes (post_id, user_id)
			SELECT $1, $2 WHERE NOT EXISTS (SELECT 1 FROM removed)
			ON CONFLICT DO NOTHING
			RETURNING 1
		)
		UPDATE app_data.posts
		SET like_count = GREATEST(0, like_count + (SELECT COUNT(*) FROM added) - (SELECT COUNT(*) FROM removed))
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING like_count, EXISTS (SELECT 1 FROM added)`

	var result models.LikeResult
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, postID, userID).Scan(&result.LikeCount, &result.Liked)
	if err != nil {
		return nil, mapError(err)
	}
	return &result, nil
}

// --- Comments ---

func (r *PostgresPostRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `
		WITH inserted AS (
			INSERT INTO app_data.post_comments (id, post_id, author_id, content, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING post_id
		)
		UPDATE app_data.posts SET comment_count = comment_count + 1
		WHERE id = (SELECT post_id FROM inserted)`
	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		comment.ID, comment.PostID, comment.AuthorID, comment.Content, comment.CreatedAt)
	return mapError(err)
}

func (r *PostgresPostRepository) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		"SELECT id, post_id, author_id, content, created_at FROM app_data.post_comments WHERE id = $1", id).
		Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *PostgresPostRepository) ListComments(ctx context.Context, postID string, limit, offset int) ([]models.Comment, int, error) {
	conn := database.Conn(ctx, r.db)

	var total int
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM app_data.post_comments WHERE post_id = $1", postID).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	rows, err := conn.Query(ctx, `
		SELECT id, post_id, author_id, content, created_at
		FROM app_data.post_comments WHERE post_id = $1
		ORDER BY created_at ASC LIMIT $2 OFFSET $3`, postID, limit, offset)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			return nil, 0, mapError(err)
		}
		comments = append(comments, c)
	}
	return comments, total, mapError(rows.Err())
}

func (r *PostgresPostRepository) DeleteComment(ctx context.Context, comment *models.Comment) error {
	query := `
		WITH removed AS (
			DELETE FROM app_data.post_comments WHERE id = $1 RETURNING post_id
		)
		UPDATE app_data.posts SET comment_count = GREATEST(0, comment_count - 1)
		WHERE id = (SELECT post_id FROM removed)`
	return requireAffected(database.Conn(ctx, r.db).Exec(ctx, query, comment.ID))
}
