package search_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/customsearch/v1"

	"github.com/teemow/workspace-mcp/internal/clients"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

func handleCustomSearch(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return common.ErrorResult("query parameter is required"), nil
	}
	engineID, ok := args["engineId"].(string)
	if !ok || engineID == "" {
		return common.ErrorResult("engineId parameter is required"), nil
	}

	// the Custom Search API serves at most 10 results per request
	maxResults := int64(10)
	if mr, ok := args["maxResults"].(float64); ok && mr > 0 && mr < 10 {
		maxResults = int64(mr)
	}

	resp, err := h.CustomSearch().Cse.List().
		Q(query).
		Cx(engineID).
		Num(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	if len(resp.Items) == 0 {
		return common.TextResult("No results found for: %s", query), nil
	}

	return common.TextResult("%s", formatSearchResults(query, resp.Items)), nil
}

func formatSearchResults(query string, items []*customsearch.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d result(s) for %q:\n\n", len(items), query)
	for i, item := range items {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, item.Title)
		fmt.Fprintf(&sb, "   %s\n", item.Link)
		if item.Snippet != "" {
			fmt.Fprintf(&sb, "   %s\n", item.Snippet)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
