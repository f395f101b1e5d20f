package message

import (
	"context"

	"github.com/nexify/go-nexify/internal/domain"
)

// MessageRepository handles message data operations.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	FindByChatID(ctx context.Context, chatID string) ([]domain.Message, error)
	FindEarliestByChatID(ctx context.Context, chatID string, limit int) ([]domain.Message, error)
}
