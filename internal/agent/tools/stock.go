package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/storefront-agent-poc/server/internal/catalog"
)

type CheckStockInput struct {
	ProductID string `json:"product_id"`
}

type CheckStockOutput struct {
	Stock catalog.StockInfo `json:"stock"`
}

func createCheckStockTool(c *catalog.Catalog) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolCheckStock,
			Desc: "Check current stock availability for one product. Use when the customer asks whether something is in stock or how many units are left.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": {
					Type:     "string",
					Desc:     "Exact product ID, e.g. LAPTOP001.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *CheckStockInput) (*CheckStockOutput, error) {
			if in.ProductID == "" {
				return nil, fmt.Errorf("product_id is required")
			}
			s, err := c.Stock(in.ProductID)
			if err != nil {
				return nil, err
			}
			return &CheckStockOutput{Stock: s}, nil
		},
	)
}
