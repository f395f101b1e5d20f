// File: internal/repository/chat/chat_repository.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/nexify/go-nexify/internal/domain"
)

var ErrChatNotFound = errors.New("chat not found")

type gormChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

// GetOrCreate fetches the chat with the given client-supplied ID, creating
// it on first use. The returned bool reports whether a new row was created.
// FirstOrCreate runs against the primary key, so concurrent prompts for the
// same ID resolve to a single row.
func (r *gormChatRepository) GetOrCreate(ctx context.Context, id string) (*domain.Chat, bool, error) {
	if err := r.validateChatID(id); err != nil {
		log.Printf("[ChatRepository] Validation failed: %v", err)
		return nil, false, fmt.Errorf("validation failed: %w", err)
	}

	var chat domain.Chat
	result := r.db.WithContext(ctx).Where(domain.Chat{ID: id}).FirstOrCreate(&chat)
	if result.Error != nil {
		log.Printf("[ChatRepository] Database error during get-or-create for chat ID %s: %v", id, result.Error)
		return nil, false, errors.New("database error fetching or creating chat")
	}

	created := result.RowsAffected > 0
	if created {
		log.Printf("[ChatRepository] Chat created with ID: %s", chat.ID)
	}
	return &chat, created, nil
}

// Save persists mutable chat fields (the title is rewritten on every prompt).
func (r *gormChatRepository) Save(ctx context.Context, chat *domain.Chat) error {
	if chat == nil {
		return errors.New("chat cannot be nil")
	}
	if err := r.validateChatID(chat.ID); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := r.validateChatTitle(chat.Title); err != nil {
		return fmt.Errorf("title validation: %w", err)
	}

	if err := r.db.WithContext(ctx).Save(chat).Error; err != nil {
		log.Printf("[ChatRepository] Database error saving chat ID %s: %v", chat.ID, err)
		return errors.New("database error saving chat")
	}
	return nil
}

func (r *gormChatRepository) FindByID(ctx context.Context, id string) (*domain.Chat, error) {
	if err := r.validateChatID(id); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).First(&chat, "id = ?", id).Error
	return r.handleFindError(err, &chat, "FindByID")
}

// FindByCreatedDate returns chats created on the given calendar day,
// newest first, capped at limit. The day is taken in the location of the
// passed timestamp; the range is half-open [midnight, midnight+24h) so a
// chat created exactly at midnight lands in exactly one day.
func (r *gormChatRepository) FindByCreatedDate(ctx context.Context, day time.Time, limit int) ([]domain.Chat, error) {
	start := startOfDay(day)
	return r.FindByCreatedRange(ctx, start, start.AddDate(0, 0, 1), limit)
}

// FindByCreatedRange returns chats with created_at in [start, end),
// newest first, capped at limit.
func (r *gormChatRepository) FindByCreatedRange(ctx context.Context, start, end time.Time, limit int) ([]domain.Chat, error) {
	if !start.Before(end) {
		return nil, errors.New("start must be before end")
	}
	if limit <= 0 || limit > 100 {
		limit = 10 // Safe default
	}

	var chats []domain.Chat
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC").
		Limit(limit).
		Find(&chats).Error

	if err != nil {
		log.Printf("[ChatRepository] Database error finding chats in range [%v, %v): %v", start, end, err)
		return nil, errors.New("database error finding chats by date range")
	}

	return chats, nil
}

// ===== VALIDATION HELPERS =====

func (r *gormChatRepository) validateChatID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("chat ID is required")
	}
	if len(id) > 100 {
		return errors.New("chat ID must be 100 characters or less")
	}
	return nil
}

func (r *gormChatRepository) validateChatTitle(title string) error {
	if utf8.RuneCountInString(title) > 200 {
		return errors.New("title must be 200 characters or less")
	}
	return nil
}

// ===== ERROR HANDLING HELPERS =====

// handleFindError maps gorm's not-found to the repository sentinel and hides
// driver details behind a generic error.
func (r *gormChatRepository) handleFindError(err error, chat *domain.Chat, operation string) (*domain.Chat, error) {
	if err == nil {
		return chat, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}

	log.Printf("[ChatRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
