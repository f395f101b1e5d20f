// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/nexify/go-nexify/internal/domain"
)

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// Create appends a message to its chat. Messages are never created without
// an owning chat ID.
func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := r.db.WithContext(ctx).Create(message).Error
	if err != nil {
		// No message content in logs
		log.Printf("[MessageRepository] Database error during message creation for chat ID %s: %v", message.ChatID, err)
		return nil, errors.New("database error creating message")
	}

	return message, nil
}

// FindByChatID returns every message of a chat in storage order:
// created_at ascending, insertion order (id) as the tiebreak.
func (r *gormMessageRepository) FindByChatID(ctx context.Context, chatID string) ([]domain.Message, error) {
	if strings.TrimSpace(chatID) == "" {
		return nil, errors.New("invalid chat ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at asc, id asc").
		Find(&messages).Error

	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for chat ID %s: %v", chatID, err)
		return nil, errors.New("database error fetching messages")
	}

	return messages, nil
}

// FindEarliestByChatID returns up to limit messages from the start of the
// conversation, oldest first. This is the completion context window query:
// a fixed window over the opening turns, not a sliding window over the most
// recent ones.
func (r *gormMessageRepository) FindEarliestByChatID(ctx context.Context, chatID string, limit int) ([]domain.Message, error) {
	if strings.TrimSpace(chatID) == "" {
		return nil, errors.New("invalid chat ID")
	}
	if limit <= 0 || limit > 100 {
		limit = 10 // Safe default
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at asc, id asc").
		Limit(limit).
		Find(&messages).Error

	if err != nil {
		log.Printf("[MessageRepository] Database error finding earliest messages for chat ID %s: %v", chatID, err)
		return nil, errors.New("database error fetching earliest messages")
	}

	return messages, nil
}

// ===== VALIDATION HELPERS =====

func (r *gormMessageRepository) validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}

	if strings.TrimSpace(message.ChatID) == "" {
		return errors.New("chat ID is required")
	}

	if err := r.validateMessageRole(message.Role); err != nil {
		return fmt.Errorf("role validation: %w", err)
	}

	if strings.TrimSpace(message.Content) == "" {
		return errors.New("message content cannot be empty")
	}

	return nil
}

func (r *gormMessageRepository) validateMessageRole(role string) error {
	allowedRoles := map[string]bool{
		domain.RoleSystem:    true,
		domain.RoleUser:      true,
		domain.RoleAssistant: true,
	}

	if !allowedRoles[role] {
		return errors.New("invalid message role")
	}

	return nil
}
