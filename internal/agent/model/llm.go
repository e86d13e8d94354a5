package model

import (
	"context"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModel is the gateway surface the loops depend on: one prompt in, one
// message out, single attempt, no internal retries. Any retry or fallback
// policy belongs to the caller. The production implementation is an Eino
// Gemini chat model; tests substitute fakes.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// QueryInput represents the input for processing user queries.
type QueryInput struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
}

// SEOInput represents the input for a description-improvement run.
type SEOInput struct {
	ProductID   string   `json:"product_id"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords"`
	Audience    string   `json:"audience,omitempty"`
}
