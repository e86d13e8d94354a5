// Package conversations assembles per-conversation context for the query
// loop. Memory is TTL-scoped session state, never durable catalog data.
package conversations

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/storefront-agent-poc/server/internal/agent/model"
)

type Manager struct {
	conversationRepo model.ConversationRepository
	maxTurns         int
}

func NewManager(conversationRepo model.ConversationRepository, config model.ReActConfig) *Manager {
	return &Manager{
		conversationRepo: conversationRepo,
		maxTurns:         config.HistoryMaxTurns,
	}
}

// ProcessQuery records the incoming user query and returns the prior
// conversation turns, most recent last, trimmed to the configured window.
// An empty conversation id means a stateless request with no history.
func (m *Manager) ProcessQuery(ctx context.Context, conversationID string, query string) ([]*schema.Message, error) {
	if conversationID == "" {
		return nil, nil
	}

	history, err := m.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if err := m.conversationRepo.AddMessage(ctx, conversationID, schema.UserMessage(query)); err != nil {
		return nil, err
	}

	// two messages per turn: user query plus assistant answer
	return trimTail(history.Messages, m.maxTurns*2), nil
}

// SaveAnswer records the final assistant answer for follow-up questions.
func (m *Manager) SaveAnswer(ctx context.Context, conversationID string, content string) error {
	if conversationID == "" || content == "" {
		return nil
	}
	return m.conversationRepo.AddMessage(ctx, conversationID, schema.AssistantMessage(content, nil))
}

// ====================== Helper function ======================
func trimTail(messages []*schema.Message, max int) []*schema.Message {
	if len(messages) <= max {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-max:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
