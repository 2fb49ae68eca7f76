package service

import (
	"context"

	"github.com/silentchat/relay-service/internal/domain"
)

type MembershipRepo interface {
	Ensure(ctx context.Context, roomID, userID string) error
}

// MemberService records durable room membership. Live presence is the hub's
// business, not this service's.
type MemberService struct {
	memberships MembershipRepo
}

func NewMemberService(memberships MembershipRepo) *MemberService {
	return &MemberService{memberships: memberships}
}

func (s *MemberService) EnsureMembership(ctx context.Context, roomID, userID string) error {
	if roomID == "" {
		return domain.ErrEmptyRoom
	}
	if userID == "" {
		return domain.ErrEmptyClient
	}
	return s.memberships.Ensure(ctx, roomID, userID)
}
