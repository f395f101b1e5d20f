// File: internal/dtos/chat.go
package dtos

import (
	"time"

	"github.com/nexify/go-nexify/internal/domain"
)

// PromptRequestDTO represents the expected payload for a prompt request.
type PromptRequestDTO struct {
	ChatID  string `json:"chat_id"`
	Content string `json:"content"`
}

// PromptResponseDTO represents the generated reply.
type PromptResponseDTO struct {
	Reply string `json:"reply"`
}

// ChatResponseDTO defines what chat fields the listing endpoints expose.
type ChatResponseDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

// MessageResponseDTO defines what message fields the history endpoint exposes.
type MessageResponseDTO struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// Mapping Functions

// FromChat maps a domain.Chat to ChatResponseDTO.
func FromChat(chat domain.Chat) ChatResponseDTO {
	return ChatResponseDTO{
		ID:        chat.ID,
		Title:     chat.Title,
		CreatedAt: chat.CreatedAt.Format(time.RFC3339),
	}
}

// FromChatSlice maps a slice of domain.Chat to []ChatResponseDTO.
func FromChatSlice(chats []domain.Chat) []ChatResponseDTO {
	dtos := make([]ChatResponseDTO, len(chats))
	for i, chat := range chats {
		dtos[i] = FromChat(chat)
	}
	return dtos
}

// FromMessage maps a domain.Message to MessageResponseDTO.
func FromMessage(message domain.Message) MessageResponseDTO {
	return MessageResponseDTO{
		Role:      message.Role,
		Content:   message.Content,
		CreatedAt: message.CreatedAt.Format(time.RFC3339),
	}
}

// FromMessageSlice maps a slice of domain.Message to []MessageResponseDTO.
func FromMessageSlice(messages []domain.Message) []MessageResponseDTO {
	dtos := make([]MessageResponseDTO, len(messages))
	for i, message := range messages {
		dtos[i] = FromMessage(message)
	}
	return dtos
}
