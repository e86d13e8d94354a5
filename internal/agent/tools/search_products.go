package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/storefront-agent-poc/server/internal/catalog"
)

type SearchProductsInput struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

type SearchProductsOutput struct {
	Products []catalog.Product `json:"products"`
	Total    int               `json:"total"`
	Query    string            `json:"query"`
}

func createSearchProductsTool(c *catalog.Catalog) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSearchProducts,
			Desc: "Search the product catalog by keyword. Matches product names, descriptions, categories and brands. Always returns structured product data with ID, name, price and stock. Use this whenever the customer mentions any product.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Search keywords. Can include brand names, product types or model names, e.g. laptop, iPhone, HP.",
					Required: true,
				},
				"max_results": {
					Type: "number",
					Desc: "Maximum number of products to return (default: 10, max: 20)",
				},
			}),
		},
		func(ctx context.Context, in *SearchProductsInput) (*SearchProductsOutput, error) {
			if in.Query == "" {
				return nil, fmt.Errorf("query is required")
			}
			if in.MaxResults <= 0 || in.MaxResults > 20 {
				in.MaxResults = 10
			}

			matched := c.Search(in.Query, in.MaxResults)
			return &SearchProductsOutput{
				Products: matched,
				Total:    len(matched),
				Query:    in.Query,
			}, nil
		},
	)
}
