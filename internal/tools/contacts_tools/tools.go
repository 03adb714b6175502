package contacts_tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterContactsTools registers the Contacts tools that pass the
// active tool gate.
func RegisterContactsTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	active := sc.Active()

	if active.Enabled("contacts_search") {
		tool := mcp.NewTool("contacts_search",
			mcp.WithDescription("Search the account's contacts by name, email, or phone number"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Search text to match against contact names, emails, and phone numbers"),
			),
			mcp.WithNumber("maxResults",
				mcp.Description("Maximum number of results to return (default: 10, max: 30)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("contacts_search", "contacts", "search", sc,
			common.RequireServices(sc, "contacts_search", handleSearchContacts, catalog.ServiceContacts)))
	}

	if active.Enabled("contacts_get") {
		tool := mcp.NewTool("contacts_get",
			mcp.WithDescription("Get a contact by its resource name"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("resourceName",
				mcp.Required(),
				mcp.Description("Contact resource name (e.g., 'people/c123456789')"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("contacts_get", "contacts", "get", sc,
			common.RequireServices(sc, "contacts_get", handleGetContact, catalog.ServiceContacts)))
	}

	return nil
}
