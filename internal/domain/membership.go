package domain

import "time"

// Membership records that a client has ever joined a room. Durable and
// idempotent: re-joining the same room does not add a second row.
type Membership struct {
	RoomID   string    `db:"room_id"`
	UserID   string    `db:"user_id"`
	JoinedAt time.Time `db:"joined_at"`
}
