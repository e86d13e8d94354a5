package model

import "time"

// ================ Config ================

// ReActModelConfig configures the chat model that drives the query loop.
type ReActModelConfig struct {
	Model       string  `envconfig:"REACT_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"REACT_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"REACT_TEMPERATURE" default:"0.0"`
}

// SEOModelConfig configures the chat model shared by the actor, evaluator
// and reflector roles of the description-improvement loop.
type SEOModelConfig struct {
	Model       string  `envconfig:"SEO_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"SEO_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"SEO_TEMPERATURE" default:"0.1"`
}

// ReActConfig bounds a single query-loop run.
type ReActConfig struct {
	MaxSteps        int `envconfig:"REACT_MAX_STEPS" default:"5"`
	HistoryMaxTurns int `envconfig:"REACT_HISTORY_MAX_TURNS" default:"5"`
}

// SEOConfig bounds a single description-improvement run.
type SEOConfig struct {
	ScoreThreshold float64 `envconfig:"SEO_SCORE_THRESHOLD" default:"90"`
	MaxCycles      int     `envconfig:"SEO_MAX_CYCLES" default:"5"`
	MemoryCapacity int     `envconfig:"SEO_MEMORY_CAPACITY" default:"3"`
}

// ConversationConfig controls follow-up conversation memory.
type ConversationConfig struct {
	TTL string `envconfig:"CONVERSATION_TTL" default:"15m"`
}

// ParseTTL parses the configured retention window.
func (c ConversationConfig) ParseTTL() (time.Duration, error) {
	return time.ParseDuration(c.TTL)
}

// PromptConfig carries the storefront identity rendered into system prompts.
type PromptConfig struct {
	BusinessType string `envconfig:"PROMPT_BUSINESS_TYPE" default:"electronics store"`
	BusinessName string `envconfig:"PROMPT_BUSINESS_NAME" default:"TechHub"`
}
