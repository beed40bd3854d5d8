package service

import (
	"stem-buddy/internal/domain"
	"stem-buddy/internal/llm"
)

// DefaultContextWindow bounds how many recent messages each turn carries to
// the provider. Older context is silently dropped, not summarized; that is
// the cost/precision tradeoff, not a bug.
const DefaultContextWindow = 10

// ContextBuilder turns a session's full history into the bounded prompt for
// the completion provider.
type ContextBuilder struct {
	window int
}

func NewContextBuilder(window int) *ContextBuilder {
	if window <= 0 {
		window = DefaultContextWindow
	}
	return &ContextBuilder{window: window}
}

// Build emits the preamble as the leading system entry followed by the last
// `window` history messages in their original order.
func (b *ContextBuilder) Build(history []domain.ChatMessage, preamble string) []llm.Message {
	if len(history) > b.window {
		history = history[len(history)-b.window:]
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: domain.RoleSystem, Content: preamble})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	return messages
}
