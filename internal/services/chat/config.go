// File: internal/services/chat/config.go
package chat

import (
	"fmt"
	"time"
)

type Config struct {
	// Model Configuration
	ChatModel  string // Model for conversation replies
	TitleModel string // Fast/cheap model tier for title generation

	// Context Configuration
	ContextWindowSize int // Messages submitted per completion, taken from the start of the chat

	// Title Configuration
	TitlePrompt      string // System instruction for the title model
	TitleFallbackLen int    // Characters of the seed kept when title generation fails

	// Prompt Configuration
	SystemPrompt string // Preamble injected while the chat has no assistant turn

	// Performance Configuration
	Timeout time.Duration // Bound on each provider call (chat and title)
}

func (c *Config) Validate() error {
	if c.ChatModel == "" {
		return fmt.Errorf("chat_model is required")
	}
	if c.TitleModel == "" {
		return fmt.Errorf("title_model is required")
	}
	if c.ContextWindowSize <= 0 {
		return fmt.Errorf("context_window_size must be positive")
	}
	if c.ContextWindowSize > 100 {
		return fmt.Errorf("context_window_size cannot exceed 100")
	}
	if c.TitleFallbackLen <= 0 {
		return fmt.Errorf("title_fallback_len must be positive")
	}
	if c.SystemPrompt == "" {
		return fmt.Errorf("system_prompt is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		ChatModel:         "llama-3.1-8b-instant",
		TitleModel:        "llama-3.1-8b-instant",
		ContextWindowSize: 10,
		TitlePrompt:       "Generate a short, descriptive title (max 5 words).",
		TitleFallbackLen:  50,
		SystemPrompt:      "You are a helpful assistant.",
		Timeout:           60 * time.Second,
	}
}
