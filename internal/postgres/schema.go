package postgres

import "context"

// Bootstrap creates the tables the relay records into. Every statement is
// idempotent so restarts against an already-populated database are safe.
func (db *DB) Bootstrap(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS rooms (
			id TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS room_members (
			room_id   TEXT NOT NULL,
			user_id   TEXT NOT NULL,
			joined_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (room_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id             UUID PRIMARY KEY,
			room_id        TEXT NOT NULL,
			sender_id      TEXT NOT NULL,
			receiver_id    TEXT,
			msg_type       TEXT NOT NULL,
			iv_b64         TEXT NOT NULL,
			ciphertext_b64 TEXT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_room_created
			ON messages (room_id, created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
