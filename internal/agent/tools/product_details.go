package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/storefront-agent-poc/server/internal/catalog"
)

type GetProductDetailsInput struct {
	ProductID string `json:"product_id"`
}

type GetProductDetailsOutput struct {
	Product catalog.Product `json:"product"`
}

func createGetProductDetailsTool(c *catalog.Catalog) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGetProductDetails,
			Desc: "Get full specifications and details for one product. Returns description, price, brand, rating, stock and the technical specification table. Use after search_products when the customer needs detail or a comparison.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": {
					Type:     "string",
					Desc:     "Product ID obtained from search_products results (e.g. LAPTOP001). Must be an exact ID.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *GetProductDetailsInput) (*GetProductDetailsOutput, error) {
			if in.ProductID == "" {
				return nil, fmt.Errorf("product_id is required")
			}
			p, err := c.Details(in.ProductID)
			if err != nil {
				return nil, err
			}
			return &GetProductDetailsOutput{Product: p}, nil
		},
	)
}
