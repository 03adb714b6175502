package sheets_tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterSheetsTools registers the Sheets tools that pass the active
// tool gate.
func RegisterSheetsTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	active := sc.Active()

	if active.Enabled("sheets_read_range") {
		tool := mcp.NewTool("sheets_read_range",
			mcp.WithDescription("Read a range of cells from a Google Sheet"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("spreadsheetId",
				mcp.Required(),
				mcp.Description("The ID of the spreadsheet"),
			),
			mcp.WithString("range",
				mcp.Required(),
				mcp.Description("A1-notation range to read (e.g., 'Sheet1!A1:C10')"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("sheets_read_range", "sheets", "read", sc,
			common.RequireServices(sc, "sheets_read_range", handleReadRange, catalog.ServiceSheets)))
	}

	if active.Enabled("sheets_modify_values") {
		tool := mcp.NewTool("sheets_modify_values",
			mcp.WithDescription("Write values into a range of a Google Sheet"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("spreadsheetId",
				mcp.Required(),
				mcp.Description("The ID of the spreadsheet"),
			),
			mcp.WithString("range",
				mcp.Required(),
				mcp.Description("A1-notation range to write (e.g., 'Sheet1!A1')"),
			),
			mcp.WithString("values",
				mcp.Required(),
				mcp.Description("Rows to write as a JSON array of arrays (e.g., '[[\"a\",\"b\"],[\"c\",\"d\"]]')"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("sheets_modify_values", "sheets", "modify", sc,
			common.RequireServices(sc, "sheets_modify_values", handleModifyValues, catalog.ServiceSheets)))
	}

	if active.Enabled("sheets_create_spreadsheet") {
		tool := mcp.NewTool("sheets_create_spreadsheet",
			mcp.WithDescription("Create a new Google Sheet"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Title of the spreadsheet"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("sheets_create_spreadsheet", "sheets", "create", sc,
			common.RequireServices(sc, "sheets_create_spreadsheet", handleCreateSpreadsheet, catalog.ServiceSheets)))
	}

	return nil
}
