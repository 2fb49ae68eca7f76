package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MembershipRepository struct {
	db *pgxpool.Pool
}

func NewMembershipRepository(db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Ensure upserts the user, the room, and the membership row in one
// transaction. Re-joining an already-recorded room is a no-op.
func (r *MembershipRepository) Ensure(ctx context.Context, roomID, userID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO users (id) VALUES ($1) ON CONFLICT DO NOTHING`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO rooms (id) VALUES ($1) ON CONFLICT DO NOTHING`, roomID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO room_members (room_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, roomID, userID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
