package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/storefront-agent-poc/server/internal/agent/parsers"
)

//go:embed template/seo_actor.txt
var seoActorPrompt string

//go:embed template/seo_evaluator.txt
var seoEvaluatorPrompt string

//go:embed template/seo_reflector.txt
var seoReflectorPrompt string

// renderStatic pushes a fixed system prompt through the Eino prompt
// component so prompt callbacks fire, after substituting the delimiter
// tokens. Known tokens only, to avoid interfering with braces in templates.
func renderStatic(ctx context.Context, raw string) (string, error) {
	content := strings.NewReplacer(
		"{TD}", parsers.TupDelim,
		"{RD}", parsers.RecDelim,
		"{CD}", parsers.EndDelim,
	).Replace(raw)

	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("seo prompt callbacks: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("seo prompt callbacks: empty result")
	}
	return msgs[0].Content, nil
}

// RenderActorSystem renders the description-writer system prompt.
func RenderActorSystem(ctx context.Context) (string, error) {
	return renderStatic(ctx, seoActorPrompt)
}

// RenderEvaluatorSystem renders the scoring system prompt, including the
// delimiter-framed output contract.
func RenderEvaluatorSystem(ctx context.Context) (string, error) {
	return renderStatic(ctx, seoEvaluatorPrompt)
}

// RenderReflectorSystem renders the lesson-extraction system prompt.
func RenderReflectorSystem(ctx context.Context) (string, error) {
	return renderStatic(ctx, seoReflectorPrompt)
}
