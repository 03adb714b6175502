package common

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/googleapi"

	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/clients"
	"github.com/teemow/workspace-mcp/internal/config"
	"github.com/teemow/workspace-mcp/internal/credentials"
	"github.com/teemow/workspace-mcp/internal/server"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	cfg := config.Default()
	cfg.Backend = config.StorageMemory
	cfg.DefaultUserEmail = "default-user@example.com"
	cfg.GoogleClientID = "client-id"
	cfg.GoogleClientSecret = "client-secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sc, err := server.NewServerContext(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { sc.Shutdown() })
	return sc
}

func seedCredential(t *testing.T, sc *server.ServerContext, email string) {
	t.Helper()
	err := sc.Store().Put(context.Background(), &credentials.Credential{
		Email:       email,
		AccessToken: "valid-access-token",
		Expiry:      time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = "test_tool"
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("content is %T, not text", result.Content[0])
	}
	return text.Text
}

func TestResolveAccountExplicitArgument(t *testing.T) {
	sc := newTestServerContext(t)
	ctx := context.Background()

	got := ResolveAccount(ctx, map[string]interface{}{"account": "alice@example.com"}, sc)
	if got != "alice@example.com" {
		t.Errorf("ResolveAccount() = %q, want alice@example.com", got)
	}
}

func TestResolveAccountFallsBackToDefault(t *testing.T) {
	sc := newTestServerContext(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"no args", nil},
		{"empty account", map[string]interface{}{"account": ""}},
		{"non-string account", map[string]interface{}{"account": 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveAccount(ctx, tt.args, sc); got != "default-user@example.com" {
				t.Errorf("ResolveAccount() = %q, want configured default", got)
			}
		})
	}
}

func TestRequireServicesRunsHandler(t *testing.T) {
	sc := newTestServerContext(t)
	seedCredential(t, sc, "alice@example.com")

	var gotHandle *clients.Handle
	wrapped := RequireServices(sc, "test_tool", func(_ context.Context, _ mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
		gotHandle = h
		return TextResult("ok"), nil
	}, catalog.ServiceGmail, catalog.ServiceDrive)

	result, err := wrapped(context.Background(), callRequest(map[string]interface{}{"account": "alice@example.com"}))
	if err != nil {
		t.Fatalf("wrapped() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("wrapped() returned error result: %s", resultText(t, result))
	}
	if gotHandle == nil {
		t.Fatal("handler did not run")
	}
	if !gotHandle.Has(catalog.ServiceGmail) || !gotHandle.Has(catalog.ServiceDrive) {
		t.Error("handle is missing a declared service")
	}
	if gotHandle.Email() != "alice@example.com" {
		t.Errorf("handle email = %q", gotHandle.Email())
	}
}

func TestRequireServicesUnknownUser(t *testing.T) {
	sc := newTestServerContext(t)

	handlerRan := false
	wrapped := RequireServices(sc, "test_tool", func(context.Context, mcp.CallToolRequest, *clients.Handle) (*mcp.CallToolResult, error) {
		handlerRan = true
		return TextResult("ok"), nil
	}, catalog.ServiceGmail)

	result, err := wrapped(context.Background(), callRequest(map[string]interface{}{"account": "stranger@example.com"}))
	if err != nil {
		t.Fatalf("wrapped() error = %v", err)
	}
	if handlerRan {
		t.Error("handler ran without a credential")
	}
	if !result.IsError {
		t.Fatal("expected an error result")
	}
	text := resultText(t, result)
	if !strings.Contains(text, "auth_required") {
		t.Errorf("result %q does not carry auth_required", text)
	}
	if !strings.Contains(text, "authorization_url") {
		t.Errorf("result %q does not carry an authorization URL", text)
	}
}

func TestRequireServicesUpstream401EvictsClients(t *testing.T) {
	sc := newTestServerContext(t)
	seedCredential(t, sc, "alice@example.com")

	wrapped := RequireServices(sc, "test_tool", func(context.Context, mcp.CallToolRequest, *clients.Handle) (*mcp.CallToolResult, error) {
		return nil, &googleapi.Error{Code: 401, Message: "Invalid Credentials"}
	}, catalog.ServiceGmail)

	result, err := wrapped(context.Background(), callRequest(map[string]interface{}{"account": "alice@example.com"}))
	if err != nil {
		t.Fatalf("wrapped() error = %v", err)
	}
	if !strings.Contains(resultText(t, result), "auth_required") {
		t.Error("401 did not produce an auth_required result")
	}
	if sc.Cache().Len() != 0 {
		t.Errorf("cache Len() = %d after 401, want 0", sc.Cache().Len())
	}
}

func TestRequireServicesUpstream403SurfacesMessage(t *testing.T) {
	sc := newTestServerContext(t)
	seedCredential(t, sc, "alice@example.com")

	wrapped := RequireServices(sc, "test_tool", func(context.Context, mcp.CallToolRequest, *clients.Handle) (*mcp.CallToolResult, error) {
		return nil, &googleapi.Error{Code: 403, Message: "Request had insufficient authentication scopes."}
	}, catalog.ServiceGmail)

	result, err := wrapped(context.Background(), callRequest(map[string]interface{}{"account": "alice@example.com"}))
	if err != nil {
		t.Fatalf("wrapped() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("expected an error result")
	}
	if !strings.Contains(resultText(t, result), "permission denied") {
		t.Errorf("result %q does not surface the permission failure", resultText(t, result))
	}
}

func TestRequireServicesPlainErrorBecomesToolError(t *testing.T) {
	sc := newTestServerContext(t)
	seedCredential(t, sc, "alice@example.com")

	wrapped := RequireServices(sc, "test_tool", func(context.Context, mcp.CallToolRequest, *clients.Handle) (*mcp.CallToolResult, error) {
		return nil, errors.New("connection reset")
	}, catalog.ServiceGmail)

	result, err := wrapped(context.Background(), callRequest(map[string]interface{}{"account": "alice@example.com"}))
	if err != nil {
		t.Fatalf("wrapped() error = %v, want tool error result instead", err)
	}
	if !result.IsError {
		t.Fatal("expected an error result")
	}
}
