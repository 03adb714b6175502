package search_tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterSearchTools registers the Programmable Search tools that
// pass the active tool gate.
func RegisterSearchTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	active := sc.Active()

	if active.Enabled("search_custom") {
		tool := mcp.NewTool("search_custom",
			mcp.WithDescription("Search the web through a Programmable Search Engine"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Search query"),
			),
			mcp.WithString("engineId",
				mcp.Required(),
				mcp.Description("Programmable Search Engine ID (cx)"),
			),
			mcp.WithNumber("maxResults",
				mcp.Description("Maximum number of results to return (default: 10, max: 10)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("search_custom", "search", "search", sc,
			common.RequireServices(sc, "search_custom", handleCustomSearch, catalog.ServiceSearch)))
	}

	return nil
}
