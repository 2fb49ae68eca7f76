package service

import (
	"context"

	"github.com/silentchat/relay-service/internal/domain"
)

type MessageRepo interface {
	Save(ctx context.Context, roomID, senderID string, receiverID *string, msgType, iv, ciphertext string) (*domain.Message, error)
	History(ctx context.Context, roomID, userID string, limit int) ([]domain.Message, error)
}

// ChatService is the persistence facade the session layer talks to for
// message records. It never inspects payloads; iv and ciphertext pass
// through as opaque encoded text.
type ChatService struct {
	messages MessageRepo
}

func NewChatService(messages MessageRepo) *ChatService {
	return &ChatService{messages: messages}
}

func (s *ChatService) Save(ctx context.Context, roomID, senderID string, receiverID *string, msgType, iv, ciphertext string) (*domain.Message, error) {
	if roomID == "" {
		return nil, domain.ErrEmptyRoom
	}
	if msgType == "" {
		msgType = "unknown"
	}
	return s.messages.Save(ctx, roomID, senderID, receiverID, msgType, iv, ciphertext)
}

// History returns up to limit messages visible to userID in roomID, oldest
// first, so a joining client can replay them in arrival order.
func (s *ChatService) History(ctx context.Context, roomID, userID string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	msgs, err := s.messages.History(ctx, roomID, userID, limit)
	if err != nil {
		return nil, err
	}

	// repository returns newest-first
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
