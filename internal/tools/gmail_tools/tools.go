package gmail_tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterGmailTools registers the Gmail tools that pass the active
// tool gate.
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	active := sc.Active()

	if active.Enabled("gmail_search_messages") {
		tool := mcp.NewTool("gmail_search_messages",
			mcp.WithDescription("Search Gmail messages matching a query"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Gmail search query (e.g., 'in:inbox', 'from:user@example.com')"),
			),
			mcp.WithNumber("maxResults",
				mcp.Description("Maximum number of results to return (default: 10, max: 100)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("gmail_search_messages", "gmail", "search", sc,
			common.RequireServices(sc, "gmail_search_messages", handleSearchMessages, catalog.ServiceGmail)))
	}

	if active.Enabled("gmail_get_message") {
		tool := mcp.NewTool("gmail_get_message",
			mcp.WithDescription("Get a Gmail message by ID, including headers and body text"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("messageId",
				mcp.Required(),
				mcp.Description("The ID of the message to retrieve"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("gmail_get_message", "gmail", "get", sc,
			common.RequireServices(sc, "gmail_get_message", handleGetMessage, catalog.ServiceGmail)))
	}

	if active.Enabled("gmail_send_message") {
		tool := mcp.NewTool("gmail_send_message",
			mcp.WithDescription("Send an email through Gmail"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("to",
				mcp.Required(),
				mcp.Description("Recipient email address(es), comma-separated for multiple recipients"),
			),
			mcp.WithString("subject",
				mcp.Required(),
				mcp.Description("Email subject"),
			),
			mcp.WithString("body",
				mcp.Required(),
				mcp.Description("Email body content"),
			),
			mcp.WithString("cc",
				mcp.Description("CC email address(es), comma-separated"),
			),
			mcp.WithString("bcc",
				mcp.Description("BCC email address(es), comma-separated"),
			),
			mcp.WithBoolean("isHTML",
				mcp.Description("Whether the body is HTML (default: false for plain text)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("gmail_send_message", "gmail", "send", sc,
			common.RequireServices(sc, "gmail_send_message", handleSendMessage, catalog.ServiceGmail)))
	}

	if active.Enabled("gmail_list_labels") {
		tool := mcp.NewTool("gmail_list_labels",
			mcp.WithDescription("List all Gmail labels for the account"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("gmail_list_labels", "gmail", "list", sc,
			common.RequireServices(sc, "gmail_list_labels", handleListLabels, catalog.ServiceGmail)))
	}

	if active.Enabled("gmail_modify_labels") {
		tool := mcp.NewTool("gmail_modify_labels",
			mcp.WithDescription("Add or remove labels on one or more Gmail messages"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("messageIds",
				mcp.Required(),
				mcp.Description("Message ID (string) or array of message IDs to modify"),
			),
			mcp.WithString("addLabelIds",
				mcp.Description("Label ID (string) or array of label IDs to add"),
			),
			mcp.WithString("removeLabelIds",
				mcp.Description("Label ID (string) or array of label IDs to remove"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("gmail_modify_labels", "gmail", "modify", sc,
			common.RequireServices(sc, "gmail_modify_labels", handleModifyLabels, catalog.ServiceGmail)))
	}

	return nil
}
