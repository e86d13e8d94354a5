package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/storefront-agent-poc/server/internal/catalog"
)

type GetCategoryProductsInput struct {
	Category   string `json:"category"`
	MaxResults int    `json:"max_results,omitempty"`
}

type GetCategoryProductsOutput struct {
	Products []catalog.Product `json:"products"`
	Total    int               `json:"total"`
	Category string            `json:"category"`
}

func createGetCategoryProductsTool(c *catalog.Catalog) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGetCategoryProducts,
			Desc: "List products within one category. Use when the customer asks to browse a category rather than a specific product.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"category": {
					Type:     "string",
					Desc:     "Category name, e.g. Electronics or Accessories.",
					Required: true,
				},
				"max_results": {
					Type: "number",
					Desc: "Maximum number of products to return (default: 10, max: 20)",
				},
			}),
		},
		func(ctx context.Context, in *GetCategoryProductsInput) (*GetCategoryProductsOutput, error) {
			if in.Category == "" {
				return nil, fmt.Errorf("category is required")
			}
			if in.MaxResults <= 0 || in.MaxResults > 20 {
				in.MaxResults = 10
			}
			matched := c.ByCategory(in.Category, in.MaxResults)
			return &GetCategoryProductsOutput{
				Products: matched,
				Total:    len(matched),
				Category: in.Category,
			}, nil
		},
	)
}
