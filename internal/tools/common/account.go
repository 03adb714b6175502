package common

import (
	"context"

	"github.com/teemow/workspace-mcp/internal/server"
)

// ResolveAccount determines which Google account a tool call runs as.
//
// Priority order:
//  1. Authenticated bearer identity (set by the OAuth middleware);
//     callers cannot override who they are by passing an argument.
//  2. Explicit "account" argument in the request.
//  3. The configured default user.
//
// Returns an empty string when none of the three yields an identity,
// which the middleware turns into an auth-required result.
func ResolveAccount(ctx context.Context, args map[string]interface{}, sc *server.ServerContext) string {
	if email := server.UserEmailFromContext(ctx); email != "" {
		return email
	}
	if account, ok := args["account"].(string); ok && account != "" {
		return account
	}
	return sc.Config().DefaultUserEmail
}
