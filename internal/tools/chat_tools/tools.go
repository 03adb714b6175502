package chat_tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterChatTools registers the Chat tools that pass the active
// tool gate.
func RegisterChatTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	active := sc.Active()

	if active.Enabled("chat_list_spaces") {
		tool := mcp.NewTool("chat_list_spaces",
			mcp.WithDescription("List Google Chat spaces the account is a member of"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("chat_list_spaces", "chat", "list", sc,
			common.RequireServices(sc, "chat_list_spaces", handleListSpaces, catalog.ServiceChat)))
	}

	if active.Enabled("chat_list_messages") {
		tool := mcp.NewTool("chat_list_messages",
			mcp.WithDescription("List recent messages in a Google Chat space"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("spaceName",
				mcp.Required(),
				mcp.Description("Space resource name (e.g., 'spaces/AAAA1234')"),
			),
			mcp.WithNumber("maxResults",
				mcp.Description("Maximum number of messages to return (default: 25, max: 100)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("chat_list_messages", "chat", "list", sc,
			common.RequireServices(sc, "chat_list_messages", handleListMessages, catalog.ServiceChat)))
	}

	if active.Enabled("chat_send_message") {
		tool := mcp.NewTool("chat_send_message",
			mcp.WithDescription("Send a message to a Google Chat space"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("spaceName",
				mcp.Required(),
				mcp.Description("Space resource name (e.g., 'spaces/AAAA1234')"),
			),
			mcp.WithString("text",
				mcp.Required(),
				mcp.Description("Message text"),
			),
			mcp.WithString("threadName",
				mcp.Description("Thread resource name to reply in (default: new thread)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("chat_send_message", "chat", "send", sc,
			common.RequireServices(sc, "chat_send_message", handleSendMessage, catalog.ServiceChat)))
	}

	return nil
}
