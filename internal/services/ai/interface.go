// File: internal/services/ai/interface.go
package ai

import "context"

// Message is one role/content turn submitted to the completion provider.
type Message struct {
	Role    string
	Content string
}

// CompletionProvider is the narrow boundary around the external LLM
// service: an ordered message list in, a single best completion out.
// Orchestration code depends only on this interface so tests can
// substitute a fake.
type CompletionProvider interface {
	GetCompletion(ctx context.Context, model string, messages []Message) (string, error)
	HealthCheck(ctx context.Context) error
}
