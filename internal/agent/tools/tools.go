// Package tools defines the catalog-backed Eino tools the query loop can
// invoke. All tools are pure reads over the immutable catalog; a missing
// product id is reported inside the tool result, never as a loop failure.
package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/storefront-agent-poc/server/internal/catalog"
)

const (
	ToolSearchProducts      = "search_products"
	ToolGetProductDetails   = "get_product_details"
	ToolCheckStock          = "check_stock"
	ToolGetPriceHistory     = "get_price_history"
	ToolGetCategoryProducts = "get_category_products"
)

// QueryTools returns every tool available to the query loop, bound to the
// given catalog.
func QueryTools(c *catalog.Catalog) []tool.BaseTool {
	return []tool.BaseTool{
		createSearchProductsTool(c),
		createGetProductDetailsTool(c),
		createCheckStockTool(c),
		createGetPriceHistoryTool(c),
		createGetCategoryProductsTool(c),
	}
}

// ToolInfos collects the schema descriptions for binding to a chat model.
func ToolInfos(ctx context.Context, ts []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("get tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Map indexes invokable tools by name for dispatch.
func Map(ctx context.Context, ts []tool.BaseTool) (map[string]tool.InvokableTool, error) {
	m := make(map[string]tool.InvokableTool, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("get tool info: %w", err)
		}
		it, ok := t.(tool.InvokableTool)
		if !ok {
			return nil, fmt.Errorf("tool %s is not invokable", info.Name)
		}
		m[info.Name] = it
	}
	return m, nil
}
