package drive_tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/workspace-mcp/internal/clients"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected tool result content")
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

// The handlers validate arguments before touching any API client, so
// missing-argument paths are safe to exercise without a handle.
func TestHandlersRejectMissingArguments(t *testing.T) {
	ctx := context.Background()
	var h *clients.Handle

	tests := []struct {
		name    string
		handler common.Handler
		args    map[string]interface{}
		wantErr string
	}{
		{"search without query", handleSearchFiles, map[string]interface{}{}, "query parameter is required"},
		{"get without fileId", handleGetFileContent, map[string]interface{}{}, "fileId parameter is required"},
		{"create without name", handleCreateFile, map[string]interface{}{"content": "x"}, "name parameter is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.handler(ctx, callRequest(tt.args), h)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.IsError {
				t.Fatal("expected error result")
			}
			if got := resultText(t, result); !strings.Contains(got, tt.wantErr) {
				t.Errorf("result = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestExportMimeTypes(t *testing.T) {
	if got := exportMimeTypes["application/vnd.google-apps.document"]; got != "text/plain" {
		t.Errorf("document export = %q, want text/plain", got)
	}
	if got := exportMimeTypes["application/vnd.google-apps.spreadsheet"]; got != "text/csv" {
		t.Errorf("spreadsheet export = %q, want text/csv", got)
	}
	if _, ok := exportMimeTypes["application/pdf"]; ok {
		t.Error("binary types must not use the export endpoint")
	}
}
