package chat

import (
	"context"
	"time"

	"github.com/nexify/go-nexify/internal/domain"
)

// ChatRepository handles chat data operations.
type ChatRepository interface {
	GetOrCreate(ctx context.Context, id string) (*domain.Chat, bool, error)
	Save(ctx context.Context, chat *domain.Chat) error
	FindByID(ctx context.Context, id string) (*domain.Chat, error)
	FindByCreatedDate(ctx context.Context, day time.Time, limit int) ([]domain.Chat, error)
	FindByCreatedRange(ctx context.Context, start, end time.Time, limit int) ([]domain.Chat, error)
}
