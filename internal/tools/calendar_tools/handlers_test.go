package calendar_tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/calendar/v3"

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

func TestCreateEventValidation(t *testing.T) {
	ctx := context.Background()
	var h *clients.Handle

	tests := []struct {
		name    string
		handler common.Handler
		args    map[string]interface{}
		wantErr string
	}{
		{"missing summary", handleCreateEvent,
			map[string]interface{}{"start": "2026-09-01T10:00:00Z", "end": "2026-09-01T11:00:00Z"},
			"summary parameter is required"},
		{"missing start", handleCreateEvent,
			map[string]interface{}{"summary": "standup", "end": "2026-09-01T11:00:00Z"},
			"start parameter is required"},
		{"malformed start", handleCreateEvent,
			map[string]interface{}{"summary": "standup", "start": "tomorrow", "end": "2026-09-01T11:00:00Z"},
			"start must be RFC3339"},
		{"missing eventId", handleDeleteEvent,
			map[string]interface{}{},
			"eventId parameter is required"},
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

func TestEventTime(t *testing.T) {
	if got := eventTime(&calendar.EventDateTime{DateTime: "2026-09-01T10:00:00Z"}); got != "2026-09-01T10:00:00Z" {
		t.Errorf("eventTime dateTime = %q", got)
	}
	if got := eventTime(&calendar.EventDateTime{Date: "2026-09-01"}); got != "2026-09-01 (all day)" {
		t.Errorf("eventTime all-day = %q", got)
	}
	if got := eventTime(nil); got != "" {
		t.Errorf("eventTime(nil) = %q, want empty", got)
	}
}
