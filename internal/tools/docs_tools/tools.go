package docs_tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterDocsTools registers the Docs tools that pass the active
// tool gate.
func RegisterDocsTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	active := sc.Active()

	if active.Enabled("docs_get_content") {
		tool := mcp.NewTool("docs_get_content",
			mcp.WithDescription("Get the text content of a Google Doc"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("documentId",
				mcp.Required(),
				mcp.Description("The ID of the document to read"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("docs_get_content", "docs", "get", sc,
			common.RequireServices(sc, "docs_get_content", handleGetContent, catalog.ServiceDocs)))
	}

	if active.Enabled("docs_create_document") {
		tool := mcp.NewTool("docs_create_document",
			mcp.WithDescription("Create a new Google Doc"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Title of the document"),
			),
			mcp.WithString("content",
				mcp.Description("Initial text content of the document"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("docs_create_document", "docs", "create", sc,
			common.RequireServices(sc, "docs_create_document", handleCreateDocument, catalog.ServiceDocs)))
	}

	if active.Enabled("docs_insert_text") {
		tool := mcp.NewTool("docs_insert_text",
			mcp.WithDescription("Insert text into an existing Google Doc"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("documentId",
				mcp.Required(),
				mcp.Description("The ID of the document to modify"),
			),
			mcp.WithString("text",
				mcp.Required(),
				mcp.Description("Text to insert"),
			),
			mcp.WithNumber("index",
				mcp.Description("Body index to insert at (default: 1, the start of the body)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("docs_insert_text", "docs", "insert", sc,
			common.RequireServices(sc, "docs_insert_text", handleInsertText, catalog.ServiceDocs)))
	}

	return nil
}
