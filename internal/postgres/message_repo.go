package postgres

import (
	"context"

	"github.com/silentchat/relay-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Save assigns a fresh id, lets the database stamp created_at, and returns
// the stored row. Messages are immutable after this point.
func (r *MessageRepository) Save(ctx context.Context, roomID, senderID string, receiverID *string, msgType, iv, ciphertext string) (*domain.Message, error) {
	m := domain.Message{
		ID:         uuid.New().String(),
		RoomID:     roomID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		MsgType:    msgType,
		IV:         iv,
		Ciphertext: ciphertext,
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO messages (id, room_id, sender_id, receiver_id, msg_type, iv_b64, ciphertext_b64)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, m.ID, m.RoomID, m.SenderID, m.ReceiverID, m.MsgType, m.IV, m.Ciphertext)

	if err := row.Scan(&m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// History returns the most recent messages in a room that the client may see:
// room-wide ones (receiver IS NULL) and any the client sent or received.
// Rows come back newest-first; the service layer restores arrival order.
func (r *MessageRepository) History(ctx context.Context, roomID, userID string, limit int) ([]domain.Message, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, room_id, sender_id, receiver_id, msg_type, iv_b64, ciphertext_b64, created_at
		FROM messages
		WHERE room_id = $1
		  AND (
		    receiver_id IS NULL
		    OR receiver_id = $2
		    OR sender_id = $2
		  )
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, roomID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.ReceiverID, &m.MsgType, &m.IV, &m.Ciphertext, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
