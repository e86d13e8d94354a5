// Package llm constructs the Gemini chat models behind the agent loops. The
// provider credential arrives through an explicit config object and is never
// read ambiently inside loop logic, logged, or echoed in responses.
package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	logx "github.com/storefront-agent-poc/server/pkg/logger"

	"github.com/storefront-agent-poc/server/internal/agent/model"
)

// ChatModelConfig holds the configuration for chat model creation.
type ChatModelConfig struct {
	APIKey      string
	BaseURL     string
	ReActConfig *model.ReActModelConfig
	SEOConfig   *model.SEOModelConfig
}

// ChatModels holds the query-loop model and the shared SEO-loop model.
type ChatModels struct {
	ReAct          *gemini.ChatModel
	SEO            *gemini.ChatModel
	ReActModelName string
	SEOModelName   string
}

// NewChatModels creates both chat models with the given configuration.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModelReAct, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.ReActConfig.Model,
		Temperature: &config.ReActConfig.Temperature,
		MaxTokens:   &config.ReActConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating ReAct model")
		return nil, fmt.Errorf("error creating ReAct model: %w", err)
	}

	chatModelSEO, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.SEOConfig.Model,
		Temperature: &config.SEOConfig.Temperature,
		MaxTokens:   &config.SEOConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating SEO model")
		return nil, fmt.Errorf("error creating SEO model: %w", err)
	}

	return &ChatModels{
		ReAct:          chatModelReAct,
		SEO:            chatModelSEO,
		ReActModelName: config.ReActConfig.Model,
		SEOModelName:   config.SEOConfig.Model,
	}, nil
}

// BindCatalogTools binds the catalog tools to the query-loop model.
func (cm *ChatModels) BindCatalogTools(ctx context.Context, tools []*schema.ToolInfo) error {
	if err := cm.ReAct.BindTools(tools); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return fmt.Errorf("failed to bind tools: %w", err)
	}
	logx.Debug().Msg("Successfully bound catalog tools to query model")
	return nil
}
