package slides_tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterSlidesTools registers the Slides tools that pass the active
// tool gate.
func RegisterSlidesTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	active := sc.Active()

	if active.Enabled("slides_get_presentation") {
		tool := mcp.NewTool("slides_get_presentation",
			mcp.WithDescription("Get the structure and text content of a Google Slides presentation"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("presentationId",
				mcp.Required(),
				mcp.Description("The ID of the presentation to read"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("slides_get_presentation", "slides", "get", sc,
			common.RequireServices(sc, "slides_get_presentation", handleGetPresentation, catalog.ServiceSlides)))
	}

	if active.Enabled("slides_create_presentation") {
		tool := mcp.NewTool("slides_create_presentation",
			mcp.WithDescription("Create a new Google Slides presentation"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Title of the presentation"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("slides_create_presentation", "slides", "create", sc,
			common.RequireServices(sc, "slides_create_presentation", handleCreatePresentation, catalog.ServiceSlides)))
	}

	return nil
}
