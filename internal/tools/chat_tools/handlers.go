package chat_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/chat/v1"

	"github.com/teemow/workspace-mcp/internal/clients"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

const defaultMaxMessages = 25

func handleListSpaces(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	resp, err := h.Chat().Spaces.List().PageSize(100).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list spaces: %w", err)
	}

	if len(resp.Spaces) == 0 {
		return common.TextResult("No chat spaces found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d space(s):\n\n", len(resp.Spaces))
	for i, space := range resp.Spaces {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, spaceLabel(space))
		fmt.Fprintf(&sb, "   Name: %s\n", space.Name)
		fmt.Fprintf(&sb, "   Type: %s\n\n", space.SpaceType)
	}

	return common.TextResult("%s", sb.String()), nil
}

func handleListMessages(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	spaceName, ok := args["spaceName"].(string)
	if !ok || spaceName == "" {
		return common.ErrorResult("spaceName parameter is required"), nil
	}
	if !strings.HasPrefix(spaceName, "spaces/") {
		return common.ErrorResult("spaceName must look like 'spaces/AAAA1234'"), nil
	}

	maxResults := int64(defaultMaxMessages)
	if mr, ok := args["maxResults"].(float64); ok && mr > 0 {
		maxResults = int64(mr)
		if maxResults > 100 {
			maxResults = 100
		}
	}

	resp, err := h.Chat().Spaces.Messages.List(spaceName).
		PageSize(maxResults).
		OrderBy("createTime desc").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages in %s: %w", spaceName, err)
	}

	if len(resp.Messages) == 0 {
		return common.TextResult("No messages found in space %s.", spaceName), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d message(s) in %s:\n\n", len(resp.Messages), spaceName)
	for i, msg := range resp.Messages {
		sender := "(unknown sender)"
		if msg.Sender != nil {
			sender = msg.Sender.Name
		}
		fmt.Fprintf(&sb, "%d. %s at %s:\n", i+1, sender, msg.CreateTime)
		fmt.Fprintf(&sb, "   %s\n\n", msg.Text)
	}

	return common.TextResult("%s", sb.String()), nil
}

func handleSendMessage(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	spaceName, ok := args["spaceName"].(string)
	if !ok || spaceName == "" {
		return common.ErrorResult("spaceName parameter is required"), nil
	}
	if !strings.HasPrefix(spaceName, "spaces/") {
		return common.ErrorResult("spaceName must look like 'spaces/AAAA1234'"), nil
	}
	text, ok := args["text"].(string)
	if !ok || text == "" {
		return common.ErrorResult("text parameter is required"), nil
	}

	msg := &chat.Message{Text: text}
	call := h.Chat().Spaces.Messages.Create(spaceName, msg).Context(ctx)
	if threadName, ok := args["threadName"].(string); ok && threadName != "" {
		msg.Thread = &chat.Thread{Name: threadName}
		call = call.MessageReplyOption("REPLY_MESSAGE_FALLBACK_TO_NEW_THREAD")
	}

	sent, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send message to %s: %w", spaceName, err)
	}

	return common.TextResult("Message sent to %s.\nMessage name: %s", spaceName, sent.Name), nil
}

func spaceLabel(space *chat.Space) string {
	if space.DisplayName != "" {
		return space.DisplayName
	}
	if space.SpaceType == "DIRECT_MESSAGE" {
		return "(direct message)"
	}
	return "(unnamed space)"
}
