package domain

import "time"

// Message is a stored end-to-end-encrypted payload. The server never
// interprets IV or Ciphertext; both arrive and leave as encoded text.
type Message struct {
	ID         string    `db:"id"`
	RoomID     string    `db:"room_id"`
	SenderID   string    `db:"sender_id"`
	ReceiverID *string   `db:"receiver_id"` // nil = visible to the whole room
	MsgType    string    `db:"msg_type"`
	IV         string    `db:"iv_b64"`
	Ciphertext string    `db:"ciphertext_b64"`
	CreatedAt  time.Time `db:"created_at"`
}
