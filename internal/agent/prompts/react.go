package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/storefront-agent-poc/server/internal/agent/model"
	"github.com/storefront-agent-poc/server/internal/agent/tools"
)

//go:embed template/react_system.txt
var reactSystemPrompt string

// RenderReActSystem renders the query-loop system prompt via the Eino prompt
// component (Go template) so prompt callbacks fire.
func RenderReActSystem(ctx context.Context, config model.PromptConfig) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(reactSystemPrompt),
	)
	vars := map[string]any{
		"BusinessType": config.BusinessType,
		"BusinessName": config.BusinessName,
		"SearchTool":   tools.ToolSearchProducts,
		"DetailsTool":  tools.ToolGetProductDetails,
		"StockTool":    tools.ToolCheckStock,
		"PriceTool":    tools.ToolGetPriceHistory,
		"CategoryTool": tools.ToolGetCategoryProducts,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("react prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("react prompt render: empty result")
	}
	return msgs[0].Content, nil
}
