package drive_tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterDriveTools registers the Drive tools that pass the active
// tool gate.
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	active := sc.Active()

	if active.Enabled("drive_search_files") {
		tool := mcp.NewTool("drive_search_files",
			mcp.WithDescription("Search for files in Google Drive"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Drive search query (e.g., \"name contains 'report'\", \"mimeType='application/pdf'\")"),
			),
			mcp.WithNumber("maxResults",
				mcp.Description("Maximum number of results to return (default: 10, max: 100)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("drive_search_files", "drive", "search", sc,
			common.RequireServices(sc, "drive_search_files", handleSearchFiles, catalog.ServiceDrive)))
	}

	if active.Enabled("drive_get_file_content") {
		tool := mcp.NewTool("drive_get_file_content",
			mcp.WithDescription("Get the content of a file from Google Drive, exporting Workspace documents as text"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("fileId",
				mcp.Required(),
				mcp.Description("The ID of the file to read"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("drive_get_file_content", "drive", "get", sc,
			common.RequireServices(sc, "drive_get_file_content", handleGetFileContent, catalog.ServiceDrive)))
	}

	if active.Enabled("drive_create_file") {
		tool := mcp.NewTool("drive_create_file",
			mcp.WithDescription("Create a new file in Google Drive"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Name of the file to create"),
			),
			mcp.WithString("content",
				mcp.Description("Text content of the file"),
			),
			mcp.WithString("mimeType",
				mcp.Description("MIME type of the file (default: text/plain)"),
			),
			mcp.WithString("folderId",
				mcp.Description("ID of the parent folder (default: My Drive root)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("drive_create_file", "drive", "create", sc,
			common.RequireServices(sc, "drive_create_file", handleCreateFile, catalog.ServiceDrive)))
	}

	if active.Enabled("drive_list_shared_drives") {
		tool := mcp.NewTool("drive_list_shared_drives",
			mcp.WithDescription("List shared drives accessible to the account"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("drive_list_shared_drives", "drive", "list", sc,
			common.RequireServices(sc, "drive_list_shared_drives", handleListSharedDrives, catalog.ServiceDrive)))
	}

	return nil
}
