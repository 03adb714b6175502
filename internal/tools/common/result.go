package common

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/workspace-mcp/internal/auth"
)

// JSONResult renders v as pretty-printed JSON tool output.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// TextResult renders plain text tool output.
func TextResult(format string, args ...any) *mcp.CallToolResult {
	return mcp.NewToolResultText(fmt.Sprintf(format, args...))
}

// ErrorResult renders a tool-level error. The MCP session stays alive;
// the model sees the message and can react to it.
func ErrorResult(format string, args ...any) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf(format, args...))
}

// authRequiredPayload is the structured body of an auth-required
// result, so clients can drive the OAuth flow programmatically instead
// of parsing prose.
type authRequiredPayload struct {
	Error            string   `json:"error"`
	User             string   `json:"user,omitempty"`
	MissingScopes    []string `json:"missing_scopes,omitempty"`
	AuthorizationURL string   `json:"authorization_url,omitempty"`
	Message          string   `json:"message"`
}

// AuthRequiredResult renders an AuthRequiredError as a structured
// error result carrying the authorization URL.
func AuthRequiredResult(authErr *auth.AuthRequiredError) *mcp.CallToolResult {
	payload := authRequiredPayload{
		Error:            "auth_required",
		User:             authErr.Email,
		MissingScopes:    authErr.MissingScopes,
		AuthorizationURL: authErr.AuthURL,
		Message:          authErr.Error(),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(authErr.Error())
	}
	return mcp.NewToolResultError(string(data))
}
