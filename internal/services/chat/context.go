// File: internal/services/chat/context.go
package chat

import (
	"strings"
	"unicode/utf8"

	"github.com/nexify/go-nexify/internal/domain"
	"github.com/nexify/go-nexify/internal/services/ai"
)

// ContextBuilder turns persisted chat history into the bounded, ordered
// message list submitted to the completion provider.
type ContextBuilder struct {
	config *Config
	logger Logger
}

func NewContextBuilder(config *Config, logger Logger) *ContextBuilder {
	return &ContextBuilder{
		config: config,
		logger: logger,
	}
}

// Build maps stored messages to provider turns, capped at the configured
// window size. The window covers the start of the conversation, oldest
// first. While no assistant turn exists in the window, the system preamble
// is prepended; once the model has answered, the preamble is dropped.
func (b *ContextBuilder) Build(messages []domain.Message) []ai.Message {
	if len(messages) > b.config.ContextWindowSize {
		messages = messages[:b.config.ContextWindowSize]
	}

	context := make([]ai.Message, 0, len(messages)+1)
	for _, msg := range messages {
		context = append(context, ai.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	hasAssistant := false
	for _, msg := range context {
		if msg.Role == domain.RoleAssistant {
			hasAssistant = true
			break
		}
	}

	if !hasAssistant {
		context = append([]ai.Message{{
			Role:    domain.RoleSystem,
			Content: b.config.SystemPrompt,
		}}, context...)
	}

	b.logger.Debug(
		"built completion context",
		"messages", len(context),
		"preamble_injected", !hasAssistant,
	)

	return context
}

// ---------------- Package-level utility functions ----------------

// TruncateText truncates a UTF-8 string to maxLen runes, preserving
// character integrity.
func TruncateText(input string, maxLen int) string {
	if input == "" || maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(input) <= maxLen {
		return input
	}

	var b strings.Builder
	count := 0

	for _, r := range input {
		if count >= maxLen {
			break
		}
		b.WriteRune(r)
		count++
	}

	return b.String()
}
