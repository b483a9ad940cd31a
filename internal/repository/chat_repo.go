package repository

import (
	"context"
	"errors"
	"time"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/database"
	"pocaswap-api/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const roomSelect = `
	SELECT r.id, r.kind, r.direct_key, r.trade_id, r.created_at, r.last_message_at,
		ARRAY(SELECT m.user_id::text FROM app_data.chat_room_members m WHERE m.room_id = r.id ORDER BY m.user_id)
	FROM app_data.chat_rooms r`

const messageColumns = `id, room_id, sender_id, kind, content, image_url, created_at`

type PostgresChatRepository struct {
	db database.DBTX
}

func NewChatRepository(db database.DBTX) core.ChatRepository {
	return &PostgresChatRepository{db: db}
}

func scanRoom(row pgx.Row) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := row.Scan(&room.ID, &room.Kind, &room.DirectKey, &room.TradeID, &room.CreatedAt, &room.LastMessageAt, &room.MemberIDs)
	if err != nil {
		return nil, mapError(err)
	}
	return &room, nil
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	if err := row.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.Kind, &m.Content, &m.ImageURL, &m.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &m, nil
}

// --- Rooms ---

// GetOrCreateDirectRoom relies on the unique direct_key so concurrent callers
// end up with the same room.
func (r *PostgresChatRepository) GetOrCreateDirectRoom(ctx context.Context, a, b string) (*models.ChatRoom, bool, error) {
	conn := database.Conn(ctx, r.db)
	key := models.DirectKey(a, b)

	var roomID string
	created := true
	err := conn.QueryRow(ctx, `
		INSERT INTO app_data.chat_rooms (id, kind, direct_key, created_at)
		VALUES ($1, 'direct', $2, NOW())
		ON CONFLICT (direct_key) DO NOTHING
		RETURNING id`, uuid.New().String(), key).Scan(&roomID)
	if errors.Is(err, pgx.ErrNoRows) {
		created = false
		err = conn.QueryRow(ctx, "SELECT id FROM app_data.chat_rooms WHERE direct_key = $1", key).Scan(&roomID)
	}
	if err != nil {
		return nil, false, mapError(err)
	}

	if created {
		_, err = conn.Exec(ctx, `
			INSERT INTO app_data.chat_room_members (room_id, user_id, joined_at)
			VALUES ($1, $2, NOW()), ($1, $3, NOW())
			ON CONFLICT DO NOTHING`, roomID, a, b)
		if err != nil {
			return nil, false, mapError(err)
		}
	}

	room, err := r.GetRoom(ctx, roomID)
	if err != nil {
		return nil, false, err
	}
	return room, created, nil
}

func (r *PostgresChatRepository) GetRoom(ctx context.Context, id string) (*models.ChatRoom, error) {
	return scanRoom(database.Conn(ctx, r.db).QueryRow(ctx, roomSelect+` WHERE r.id = $1`, id))
}

func (r *PostgresChatRepository) ListRooms(ctx context.Context, userID string) ([]models.RoomSummary, error) {
	query := `
		SELECT r.id, r.kind, r.direct_key, r.trade_id, r.created_at, r.last_message_at,
			ARRAY(SELECT m.user_id::text FROM app_data.chat_room_members m WHERE m.room_id = r.id ORDER BY m.user_id),
			lm.id, lm.sender_id, lm.kind, lm.content, lm.image_url, lm.created_at,
			(SELECT COUNT(*) FROM app_data.chat_messages cm
				WHERE cm.room_id = r.id
					AND cm.created_at > COALESCE(me.last_read_at, 'epoch'::timestamptz)
					AND (cm.sender_id IS NULL OR cm.sender_id <> $1))
		FROM app_data.chat_room_members me
		JOIN app_data.chat_rooms r ON r.id = me.room_id
		LEFT JOIN LATERAL (
			SELECT id, sender_id, kind, content, image_url, created_at
			FROM app_data.chat_messages
			WHERE room_id = r.id
			ORDER BY created_at DESC
			LIMIT 1
		) lm ON true
		WHERE me.user_id = $1
		ORDER BY COALESCE(r.last_message_at, r.created_at) DESC`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	rooms := []models.RoomSummary{}
	for rows.Next() {
		var (
			s         models.RoomSummary
			msgID     *string
			sender    *string
			kind      *models.MessageKind
			content   *string
			imageURL  *string
			createdAt *time.Time
		)
		err := rows.Scan(&s.ID, &s.Kind, &s.DirectKey, &s.TradeID, &s.CreatedAt, &s.LastMessageAt, &s.MemberIDs,
			&msgID, &sender, &kind, &content, &imageURL, &createdAt, &s.UnreadCount)
		if err != nil {
			return nil, mapError(err)
		}
		if msgID != nil {
			s.LastMessage = &models.Message{
				ID:        *msgID,
				RoomID:    s.ID,
				SenderID:  sender,
				Kind:      *kind,
				Content:   *content,
				ImageURL:  *imageURL,
				CreatedAt: *createdAt,
			}
		}
		rooms = append(rooms, s)
	}
	return rooms, mapError(rows.Err())
}

// --- Messages ---

func (r *PostgresChatRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	query := `
		WITH inserted AS (
			INSERT INTO app_data.chat_messages (id, room_id, sender_id, kind, content, image_url, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING room_id, created_at
		)
		UPDATE app_data.chat_rooms SET last_message_at = (SELECT created_at FROM inserted)
		WHERE id = (SELECT room_id FROM inserted)`
	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		msg.ID, msg.RoomID, msg.SenderID, msg.Kind, msg.Content, msg.ImageURL, msg.CreatedAt)
	return mapError(err)
}

func (r *PostgresChatRepository) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM app_data.chat_messages WHERE id = $1`
	return scanMessage(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
}

// ListMessages returns messages newest first, ordered by (created_at, id) and
// strictly after before in that order when set. A cursor without an id only
// compares timestamps.
func (r *PostgresChatRepository) ListMessages(ctx context.Context, roomID string, before *models.MessageCursor, limit int) ([]models.Message, error) {
	var (
		beforeAt *time.Time
		beforeID *string
	)
	if before != nil {
		beforeAt = &before.CreatedAt
		if before.ID != "" {
			beforeID = &before.ID
		}
	}
	query := `
		SELECT ` + messageColumns + ` FROM app_data.chat_messages
		WHERE room_id = $1
			AND ($2::timestamptz IS NULL
				OR created_at < $2
				OR (created_at = $2 AND $3::uuid IS NOT NULL AND id < $3::uuid))
		ORDER BY created_at DESC, id DESC
		LIMIT $4`
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, roomID, beforeAt, beforeID, limit)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, mapError(rows.Err())
}

func (r *PostgresChatRepository) MarkRead(ctx context.Context, roomID, userID string, at time.Time) error {
	return requireAffected(database.Conn(ctx, r.db).Exec(ctx, `
		UPDATE app_data.chat_room_members
		SET last_read_at = GREATEST(COALESCE(last_read_at, $3), $3)
		WHERE room_id = $1 AND user_id = $2`, roomID, userID, at))
}
