package script_tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterScriptTools registers the Apps Script tools that pass the
// active tool gate.
func RegisterScriptTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	active := sc.Active()

	if active.Enabled("script_list_projects") {
		tool := mcp.NewTool("script_list_projects",
			mcp.WithDescription("List Apps Script projects accessible to the account"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithNumber("maxResults",
				mcp.Description("Maximum number of projects to return (default: 25, max: 100)"),
			),
		)
		// the Apps Script API has no list endpoint; projects are found
		// through Drive, so both clients are required
		s.AddTool(tool, common.InstrumentedWithService("script_list_projects", "script", "list", sc,
			common.RequireServices(sc, "script_list_projects", handleListProjects,
				catalog.ServiceScript, catalog.ServiceDrive)))
	}

	if active.Enabled("script_get_project_content") {
		tool := mcp.NewTool("script_get_project_content",
			mcp.WithDescription("Get the source files of an Apps Script project"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("scriptId",
				mcp.Required(),
				mcp.Description("The ID of the script project"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("script_get_project_content", "script", "get", sc,
			common.RequireServices(sc, "script_get_project_content", handleGetProjectContent, catalog.ServiceScript)))
	}

	if active.Enabled("script_create_project") {
		tool := mcp.NewTool("script_create_project",
			mcp.WithDescription("Create a new Apps Script project"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Title of the project"),
			),
			mcp.WithString("parentId",
				mcp.Description("Drive ID of a parent document to bind the script to"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("script_create_project", "script", "create", sc,
			common.RequireServices(sc, "script_create_project", handleCreateProject, catalog.ServiceScript)))
	}

	return nil
}
