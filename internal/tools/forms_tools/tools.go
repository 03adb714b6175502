package forms_tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterFormsTools registers the Forms tools that pass the active
// tool gate.
func RegisterFormsTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	active := sc.Active()

	if active.Enabled("forms_get_form") {
		tool := mcp.NewTool("forms_get_form",
			mcp.WithDescription("Get the structure and questions of a Google Form"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("formId",
				mcp.Required(),
				mcp.Description("The ID of the form to read"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("forms_get_form", "forms", "get", sc,
			common.RequireServices(sc, "forms_get_form", handleGetForm, catalog.ServiceForms)))
	}

	if active.Enabled("forms_create_form") {
		tool := mcp.NewTool("forms_create_form",
			mcp.WithDescription("Create a new Google Form"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Title of the form"),
			),
			mcp.WithString("description",
				mcp.Description("Form description"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("forms_create_form", "forms", "create", sc,
			common.RequireServices(sc, "forms_create_form", handleCreateForm, catalog.ServiceForms)))
	}

	if active.Enabled("forms_list_responses") {
		tool := mcp.NewTool("forms_list_responses",
			mcp.WithDescription("List responses submitted to a Google Form"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("formId",
				mcp.Required(),
				mcp.Description("The ID of the form"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("forms_list_responses", "forms", "list", sc,
			common.RequireServices(sc, "forms_list_responses", handleListResponses, catalog.ServiceForms)))
	}

	return nil
}
