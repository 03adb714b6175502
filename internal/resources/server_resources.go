package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/server"
)

// RegisterServerResources registers resources describing the server's
// state: which accounts hold stored credentials and which tools are
// active under the current selection.
func RegisterServerResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	accountsResource := mcp.NewResource(
		"workspace://accounts",
		"Authorized Accounts",
		mcp.WithResourceDescription("Google accounts with stored credentials and their token state"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(accountsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleAccounts(ctx, request, sc)
	})

	toolsResource := mcp.NewResource(
		"workspace://tools",
		"Active Tool Catalog",
		mcp.WithResourceDescription("Tools registered under the current tier, service, and read-only selection"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(toolsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleTools(ctx, request, sc)
	})

	return nil
}

// handleAccounts returns the stored accounts with their token expiry.
// Token values themselves are never exposed.
func handleAccounts(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	users, err := sc.Store().Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accounts := make([]map[string]interface{}, 0, len(users))
	for _, email := range users {
		entry := map[string]interface{}{
			"email": email,
		}
		if cred, err := sc.Store().Get(ctx, email); err == nil {
			entry["valid"] = cred.Valid(0)
			entry["refreshable"] = cred.RefreshToken != ""
			entry["scopes"] = len(cred.Scopes)
			if !cred.Expiry.IsZero() {
				entry["expiry"] = cred.Expiry.Format(time.RFC3339)
			}
		}
		accounts = append(accounts, entry)
	}

	jsonData, err := json.MarshalIndent(map[string]interface{}{
		"accounts": accounts,
		"count":    len(accounts),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal accounts: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleTools returns the active tool catalog.
func handleTools(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	descriptors := sc.Active().Tools()
	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Name < descriptors[j].Name
	})

	tools := make([]map[string]interface{}, 0, len(descriptors))
	for _, td := range descriptors {
		tools = append(tools, map[string]interface{}{
			"name":     td.Name,
			"service":  string(td.Service),
			"tier":     td.Tier.String(),
			"readOnly": td.ReadOnly,
		})
	}

	selection := sc.Active().Selection()
	jsonData, err := json.MarshalIndent(map[string]interface{}{
		"tier":     selection.Tier.String(),
		"readOnly": selection.ReadOnly,
		"tools":    tools,
		"count":    len(tools),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool catalog: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
