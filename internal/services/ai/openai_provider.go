// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider talks to any OpenAI-compatible completion endpoint.
// Groq exposes the same wire protocol, so the provider only needs a
// base URL and key.
type OpenAIProvider struct {
	config    *Config
	llmClient *openai.Client
}

func NewOpenAIProvider(config *Config) *OpenAIProvider {
	llmConfig := openai.DefaultConfig(config.APIKey)
	llmConfig.BaseURL = config.BaseURL
	llmConfig.HTTPClient = &http.Client{Timeout: config.Timeout}
	llmClient := openai.NewClientWithConfig(llmConfig)

	return &OpenAIProvider{
		config:    config,
		llmClient: llmClient,
	}
}

func (p *OpenAIProvider) GetCompletion(ctx context.Context, model string, messages []Message) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := p.llmClient.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       model,
			Messages:    chatMessages,
			Temperature: p.config.Temperature,
			TopP:        p.config.TopP,
		},
	)

	if err != nil {
		return "", NewProviderError("completion", "failed to create completion", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{
			Type:      ErrTypeProvider,
			Operation: "completion",
			Message:   "empty completion response",
			Model:     model,
		}
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	return nil
}
