package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/storefront-agent-poc/server/internal/catalog"
)

type GetPriceHistoryInput struct {
	ProductID string `json:"product_id"`
	Days      int    `json:"days,omitempty"`
}

type GetPriceHistoryOutput struct {
	History catalog.PriceHistory `json:"history"`
}

func createGetPriceHistoryTool(c *catalog.Catalog) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGetPriceHistory,
			Desc: "Get the recent price history of one product, including current, lowest and highest price over the period. Use when the customer asks about price trends or whether now is a good time to buy.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": {
					Type:     "string",
					Desc:     "Exact product ID, e.g. LAPTOP001.",
					Required: true,
				},
				"days": {
					Type: "number",
					Desc: "Number of past days to cover (default: 30, max: 90)",
				},
			}),
		},
		func(ctx context.Context, in *GetPriceHistoryInput) (*GetPriceHistoryOutput, error) {
			if in.ProductID == "" {
				return nil, fmt.Errorf("product_id is required")
			}
			if in.Days <= 0 || in.Days > 90 {
				in.Days = 30
			}
			h, err := c.History(in.ProductID, in.Days)
			if err != nil {
				return nil, err
			}
			return &GetPriceHistoryOutput{History: h}, nil
		},
	)
}
