package chat_tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/chat/v1"

	"github.com/teemow/workspace-mcp/internal/clients"
)

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func TestSpaceLabel(t *testing.T) {
	if got := spaceLabel(&chat.Space{DisplayName: "Platform Team"}); got != "Platform Team" {
		t.Errorf("spaceLabel = %q", got)
	}
	if got := spaceLabel(&chat.Space{SpaceType: "DIRECT_MESSAGE"}); got != "(direct message)" {
		t.Errorf("spaceLabel DM = %q", got)
	}
	if got := spaceLabel(&chat.Space{SpaceType: "SPACE"}); got != "(unnamed space)" {
		t.Errorf("spaceLabel unnamed = %q", got)
	}
}

func TestSendMessageRejectsBadSpaceName(t *testing.T) {
	var h *clients.Handle
	result, err := handleSendMessage(context.Background(), callRequest(map[string]interface{}{
		"spaceName": "AAAA1234",
		"text":      "hello",
	}), h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok || !strings.Contains(text.Text, "spaces/") {
		t.Errorf("expected space-name hint, got %v", result.Content[0])
	}
}
