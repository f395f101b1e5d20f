// File: internal/services/chat/title.go
package chat

import (
	"context"
	"strings"

	"github.com/nexify/go-nexify/internal/domain"
	"github.com/nexify/go-nexify/internal/services/ai"
)

// The chat store caps titles at 200 characters; completions past that
// bound are clamped rather than failing the prompt cycle.
const maxTitleLen = 200

// TitleService derives a short human-readable chat label from the first
// user message of a prompt cycle.
type TitleService struct {
	config   *Config
	provider ai.CompletionProvider
	logger   Logger
}

func NewTitleService(config *Config, provider ai.CompletionProvider, logger Logger) *TitleService {
	return &TitleService{
		config:   config,
		provider: provider,
		logger:   logger,
	}
}

// GenerateTitle asks the title-tier model for a label seeded with the user
// message. Failures never propagate: any provider error falls back to a
// truncation of the seed, so a prompt cycle always gets a title.
func (s *TitleService) GenerateTitle(ctx context.Context, seed string) string {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	title, err := s.provider.GetCompletion(ctx, s.config.TitleModel, []ai.Message{
		{Role: domain.RoleSystem, Content: s.config.TitlePrompt},
		{Role: domain.RoleUser, Content: seed},
	})
	if err != nil {
		s.logger.Warn("title generation failed, falling back to truncated seed", "error", err.Error())
		return TruncateText(seed, s.config.TitleFallbackLen)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return TruncateText(seed, s.config.TitleFallbackLen)
	}

	return TruncateText(title, maxTitleLen)
}
