package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/storefront-agent-poc/server/internal/core"
	logx "github.com/storefront-agent-poc/server/pkg/logger"
	pkgredis "github.com/storefront-agent-poc/server/pkg/redis"

	"github.com/storefront-agent-poc/server/internal/agent/conversations"
	"github.com/storefront-agent-poc/server/internal/agent/llm"
	"github.com/storefront-agent-poc/server/internal/agent/model"
	"github.com/storefront-agent-poc/server/internal/agent/react"
	"github.com/storefront-agent-poc/server/internal/agent/repo"
	"github.com/storefront-agent-poc/server/internal/agent/seo"
	"github.com/storefront-agent-poc/server/internal/agent/tools"
	"github.com/storefront-agent-poc/server/internal/catalog"
	"github.com/storefront-agent-poc/server/internal/server"
)

// AppConfig defines all configurable parameters for the service, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure. An empty REDIS_URL keeps conversation memory
	// in-process.
	Redis pkgredis.Config
	HTTP  server.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	ReActModel   model.ReActModelConfig
	SEOModel     model.SEOModelConfig
	ReAct        model.ReActConfig
	SEO          model.SEOConfig
	Prompt       model.PromptConfig
	Conversation model.ConversationConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	// Conversation memory: Redis when configured, in-process otherwise.
	var conversationRepo model.ConversationRepository
	if cfg.Redis.URL != "" {
		rdb, err := cfg.Redis.New()
		if err != nil {
			logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
		}
		defer rdb.Close()
		ttl, err := cfg.Conversation.ParseTTL()
		if err != nil {
			logx.Fatal().Err(err).Str("ttl", cfg.Conversation.TTL).Msg("Invalid CONVERSATION_TTL")
		}
		conversationRepo = repo.NewRedisConversationRepository(rdb, ttl)
		logx.Info().Msg("Conversation memory backed by Redis")
	} else {
		conversationRepo = repo.NewMemoryConversationRepository()
		logx.Info().Msg("Conversation memory kept in-process")
	}

	cat := catalog.Default()
	logx.Info().Int("products", cat.Len()).Msg("Catalog seeded")

	queryTools := tools.QueryTools(cat)
	toolInfos, err := tools.ToolInfos(ctx, queryTools)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to describe catalog tools")
	}
	toolMap, err := tools.Map(ctx, queryTools)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to index catalog tools")
	}

	models, err := llm.NewChatModels(ctx, llm.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		ReActConfig: &cfg.ReActModel,
		SEOConfig:   &cfg.SEOModel,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create chat models")
	}
	if err := models.BindCatalogTools(ctx, toolInfos); err != nil {
		logx.Fatal().Err(err).Msg("Failed to bind catalog tools")
	}

	queryEngine := react.New(react.Config{
		ChatModel:     models.ReAct,
		Tools:         toolMap,
		Conversations: conversations.NewManager(conversationRepo, cfg.ReAct),
		Prompt:        cfg.Prompt,
		MaxSteps:      cfg.ReAct.MaxSteps,
		ModelName:     models.ReActModelName,
	})

	seoEngine := seo.New(seo.Config{
		ChatModel: models.SEO,
		Catalog:   cat,
		SEO:       cfg.SEO,
		ModelName: models.SEOModelName,
	})

	srv := server.New(cfg.HTTP, cat, queryEngine, seoEngine)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logx.Fatal().Err(err).Msg("HTTP server failed")
		}
	case sig := <-stop:
		logx.Info().Str("signal", sig.String()).Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.HTTP.ParseShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logx.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}
}
