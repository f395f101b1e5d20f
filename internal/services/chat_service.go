// File: internal/services/chat_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nexify/go-nexify/internal/domain"
	"github.com/nexify/go-nexify/internal/repository/chat"
	"github.com/nexify/go-nexify/internal/repository/message"
	"github.com/nexify/go-nexify/internal/services/ai"
	chatservice "github.com/nexify/go-nexify/internal/services/chat"
)

// Result caps for the day-bucket listings.
const recentChatsLimit = 10

// Chat IDs are client-supplied; the store bounds them at 100 characters,
// so the orchestrator rejects longer ones up front as caller error.
const maxChatIDLen = 100

type ChatService struct {
	config         *chatservice.Config
	chatRepo       chat.ChatRepository
	messageRepo    message.MessageRepository
	provider       ai.CompletionProvider
	titleService   *chatservice.TitleService
	contextBuilder *chatservice.ContextBuilder
	logger         Logger
}

func NewChatService(
	chatRepo chat.ChatRepository,
	messageRepo message.MessageRepository,
	provider ai.CompletionProvider,
	config *chatservice.Config,
	logger Logger,
) (*ChatService, error) {
	// Validate dependencies
	if chatRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "chat repository is required")
	}
	if messageRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "message repository is required")
	}
	if provider == nil {
		return nil, chatservice.NewValidationError("constructor", "completion provider is required")
	}

	if config == nil {
		config = chatservice.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, chatservice.NewValidationError("config", err.Error())
	}

	if logger == nil {
		logger = &NoOpLogger{}
	}

	// Create modular components
	titleService := chatservice.NewTitleService(config, provider, logger)
	contextBuilder := chatservice.NewContextBuilder(config, logger)

	return &ChatService{
		config:         config,
		chatRepo:       chatRepo,
		messageRepo:    messageRepo,
		provider:       provider,
		titleService:   titleService,
		contextBuilder: contextBuilder,
		logger:         logger,
	}, nil
}

// Prompt runs one full prompt cycle: upsert the chat, re-title it, persist
// the user turn, submit the context window to the provider and persist the
// reply. The user turn is committed before the completion call; a provider
// failure leaves it in place and records no assistant turn.
func (s *ChatService) Prompt(ctx context.Context, chatID, content string) (string, error) {
	if strings.TrimSpace(chatID) == "" {
		return "", chatservice.NewValidationError("prompt", "Chat ID was not provided.")
	}
	if len(chatID) > maxChatIDLen {
		return "", chatservice.NewValidationError("prompt", "Chat ID must be 100 characters or less.")
	}
	if strings.TrimSpace(content) == "" {
		return "", chatservice.NewValidationError("prompt", "There was no prompt passed.")
	}

	chatRecord, created, err := s.chatRepo.GetOrCreate(ctx, chatID)
	if err != nil {
		return "", chatservice.NewStorageError("prompt", "could not fetch or create chat", err)
	}
	if created {
		s.logger.Info("chat created", "chat_id", chatID)
	}

	// Re-title on every prompt; title generation never fails hard.
	chatRecord.Title = s.titleService.GenerateTitle(ctx, content)
	if err := s.chatRepo.Save(ctx, chatRecord); err != nil {
		return "", chatservice.NewStorageError("prompt", "could not save chat", err)
	}

	userMessage := &domain.Message{
		ChatID:  chatRecord.ID,
		Role:    domain.RoleUser,
		Content: content,
	}
	if _, err := s.messageRepo.Create(ctx, userMessage); err != nil {
		return "", chatservice.NewStorageError("prompt", "could not save user message", err)
	}

	// The window is read back after the insert above, so it includes the
	// user turn just recorded.
	window, err := s.messageRepo.FindEarliestByChatID(ctx, chatRecord.ID, s.config.ContextWindowSize)
	if err != nil {
		return "", chatservice.NewStorageError("prompt", "could not load chat history", err)
	}
	completionContext := s.contextBuilder.Build(window)

	completionCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()
	reply, err := s.provider.GetCompletion(completionCtx, s.config.ChatModel, completionContext)
	if err != nil {
		// The user message stays persisted; there is no compensating
		// rollback for a failed completion.
		s.logger.Error("completion failed", "chat_id", chatID, "error", err.Error())
		return "", chatservice.NewUpstreamError("prompt", "completion service failed", err)
	}

	assistantMessage := &domain.Message{
		ChatID:  chatRecord.ID,
		Role:    domain.RoleAssistant,
		Content: reply,
	}
	if _, err := s.messageRepo.Create(ctx, assistantMessage); err != nil {
		return "", chatservice.NewStorageError("prompt", "could not save assistant message", err)
	}

	return reply, nil
}

// GetChatMessages returns every message of a chat in storage order.
func (s *ChatService) GetChatMessages(ctx context.Context, chatID string) ([]domain.Message, error) {
	if strings.TrimSpace(chatID) == "" {
		return nil, chatservice.NewValidationError("get_messages", "Chat ID was not provided.")
	}
	if len(chatID) > maxChatIDLen {
		return nil, chatservice.NewValidationError("get_messages", "Chat ID must be 100 characters or less.")
	}

	if _, err := s.chatRepo.FindByID(ctx, chatID); err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return nil, chatservice.NewNotFoundError(chatID)
		}
		return nil, chatservice.NewStorageError("get_messages", "could not fetch chat", err)
	}

	return s.messageRepo.FindByChatID(ctx, chatID)
}

// Day-bucket listings. Anchors derive from the caller-supplied now, fresh
// per request, so a long-running process never serves stale buckets.

// TodaysChats lists chats created on the calendar day of now.
func (s *ChatService) TodaysChats(ctx context.Context, now time.Time) ([]domain.Chat, error) {
	return s.chatRepo.FindByCreatedDate(ctx, now, recentChatsLimit)
}

// YesterdaysChats lists chats created on the calendar day before now.
func (s *ChatService) YesterdaysChats(ctx context.Context, now time.Time) ([]domain.Chat, error) {
	return s.chatRepo.FindByCreatedDate(ctx, now.AddDate(0, 0, -1), recentChatsLimit)
}

// LastSevenDaysChats lists chats created two to seven days back: the range
// [now-7d, now-1d) by calendar day, which excludes yesterday and today.
func (s *ChatService) LastSevenDaysChats(ctx context.Context, now time.Time) ([]domain.Chat, error) {
	dayStart := startOfDay(now)
	return s.chatRepo.FindByCreatedRange(ctx, dayStart.AddDate(0, 0, -7), dayStart.AddDate(0, 0, -1), recentChatsLimit)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
