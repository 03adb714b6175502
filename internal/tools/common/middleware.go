package common

import (
	"context"
	"errors"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"google.golang.org/api/googleapi"

	"github.com/teemow/workspace-mcp/internal/auth"
	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/clients"
	"github.com/teemow/workspace-mcp/internal/logging"
	"github.com/teemow/workspace-mcp/internal/server"
)

// Handler is a tool handler that receives ready-to-use API clients for
// every service it declared.
type Handler func(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error)

// RequireServices wraps a tool handler with the authentication
// pipeline: resolve the account, acquire a valid credential, verify
// the grant covers the tool's scopes, and build clients for every
// required service. The handler only runs when all of that succeeded,
// so it never observes a partially authenticated call.
func RequireServices(sc *server.ServerContext, toolName string, handler Handler, services ...catalog.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := sc.Logger()
		args := request.GetArguments()

		account := ResolveAccount(ctx, args, sc)
		if account == "" {
			return AuthRequiredResult(&auth.AuthRequiredError{
				Reason:  "no account resolved: authenticate or pass an account argument",
				AuthURL: sc.Manager().AuthURL(""),
			}), nil
		}

		cred, err := sc.Manager().AcquireValid(ctx, account)
		if err != nil {
			if authErr, ok := auth.AsAuthRequired(err); ok {
				logger.Info("tool call requires authentication",
					logging.Tool(toolName), logging.UserHash(account))
				return AuthRequiredResult(authErr), nil
			}
			return nil, err
		}

		if required := requiredScopes(sc, toolName, services); len(required) > 0 {
			if err := sc.Manager().RequireScopes(cred, required, catalog.HasRequiredScopes); err != nil {
				if authErr, ok := auth.AsAuthRequired(err); ok {
					return AuthRequiredResult(authErr), nil
				}
				return nil, err
			}
		}

		handle, err := clients.NewHandle(ctx, sc.Cache(), cred, services...)
		if err != nil {
			return nil, err
		}

		result, err := handler(ctx, request, handle)
		if err != nil {
			return apiErrorResult(ctx, sc, toolName, account, services, err)
		}
		return result, nil
	}
}

// requiredScopes picks the scopes to verify for a tool: its registry
// descriptor when the tool is registered, otherwise the scope groups
// of its declared services.
func requiredScopes(sc *server.ServerContext, toolName string, services []catalog.Service) []string {
	if td, ok := sc.Active().Descriptor(toolName); ok {
		return td.Scopes
	}
	var scopes []string
	readOnly := sc.Config().ReadOnly
	for _, svc := range services {
		scopes = append(scopes, catalog.ScopesForService(svc, readOnly)...)
	}
	return scopes
}

// apiErrorResult translates an upstream Google API error into a tool
// result. Authorization failures also evict the user's cached clients
// so the next call rebuilds them from a fresh credential.
func apiErrorResult(ctx context.Context, sc *server.ServerContext, toolName, account string, services []catalog.Service, err error) (*mcp.CallToolResult, error) {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return ErrorResult("%s failed: %v", toolName, err), nil
	}

	logger := sc.Logger()
	switch apiErr.Code {
	case http.StatusUnauthorized:
		// The token was rejected even though it looked valid locally.
		// Drop every cached client built from it and make the caller
		// re-authenticate.
		sc.Cache().InvalidateUser(account)
		logger.Warn("upstream rejected access token",
			logging.Tool(toolName), logging.UserHash(account))
		return AuthRequiredResult(&auth.AuthRequiredError{
			Email:   account,
			Reason:  "Google rejected the access token",
			AuthURL: sc.Manager().AuthURL(account),
		}), nil
	case http.StatusForbidden:
		// Could be a missing scope or a policy restriction; evict the
		// affected service clients but surface the upstream message.
		for _, svc := range services {
			sc.Cache().Invalidate(account, svc)
		}
		return ErrorResult("%s failed: permission denied: %v", toolName, apiErr.Message), nil
	default:
		return ErrorResult("%s failed: google api error (status %d): %v", toolName, apiErr.Code, apiErr.Message), nil
	}
}
