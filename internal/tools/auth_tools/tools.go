package auth_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/credentials"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterAuthTools registers the OAuth management tools. These are
// always available regardless of tier, since nothing else works
// without a credential.
func RegisterAuthTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getAuthURLTool := mcp.NewTool("workspace_get_auth_url",
		mcp.WithDescription("Get the OAuth URL to authorize Google Workspace access for an account"),
		mcp.WithString("account",
			mcp.Description("Google account email to authorize (used as a login hint)"),
		),
	)
	s.AddTool(getAuthURLTool, common.Instrumented("workspace_get_auth_url", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetAuthURL(ctx, request, sc)
		}))

	saveAuthCodeTool := mcp.NewTool("workspace_save_auth_code",
		mcp.WithDescription("Exchange an OAuth authorization code and store the resulting credential"),
		mcp.WithString("authCode",
			mcp.Required(),
			mcp.Description("The authorization code from Google OAuth"),
		),
		mcp.WithString("account",
			mcp.Description("Google account email the code belongs to (default: discovered from the token)"),
		),
	)
	s.AddTool(saveAuthCodeTool, common.Instrumented("workspace_save_auth_code", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSaveAuthCode(ctx, request, sc)
		}))

	listAccountsTool := mcp.NewTool("workspace_list_accounts",
		mcp.WithDescription("List the Google accounts with stored credentials"),
	)
	s.AddTool(listAccountsTool, common.Instrumented("workspace_list_accounts", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListAccounts(ctx, request, sc)
		}))

	removeAccountTool := mcp.NewTool("workspace_remove_account",
		mcp.WithDescription("Remove the stored credential for a Google account"),
		mcp.WithString("account",
			mcp.Required(),
			mcp.Description("Google account email to remove"),
		),
	)
	s.AddTool(removeAccountTool, common.Instrumented("workspace_remove_account", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRemoveAccount(ctx, request, sc)
		}))

	return nil
}

func handleGetAuthURL(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	account := ""
	if a, ok := args["account"].(string); ok {
		account = credentials.NormalizeEmail(a)
	}

	authURL := sc.Manager().AuthURL(account)

	var sb strings.Builder
	sb.WriteString("To authorize Google Workspace access")
	if account != "" {
		fmt.Fprintf(&sb, " for %s", account)
	}
	sb.WriteString(":\n\n")
	fmt.Fprintf(&sb, "1. Visit this URL in your browser:\n   %s\n\n", authURL)
	sb.WriteString("2. Sign in and approve the requested access.\n")
	sb.WriteString("3. Copy the authorization code and call workspace_save_auth_code with it.\n")

	return common.TextResult("%s", sb.String()), nil
}

func handleSaveAuthCode(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	authCode, ok := args["authCode"].(string)
	if !ok || authCode == "" {
		return common.ErrorResult("authCode parameter is required"), nil
	}

	account := ""
	if a, ok := args["account"].(string); ok {
		account = credentials.NormalizeEmail(a)
	}

	flow := sc.Manager().Flow()
	tok, err := flow.ExchangeToken(ctx, authCode)
	if err != nil {
		return common.ErrorResult("failed to exchange authorization code: %v", err), nil
	}

	// when no account was named, ask Google whose token this is
	if account == "" {
		info, err := sc.Introspector().Introspect(ctx, tok.AccessToken)
		if err != nil {
			return common.ErrorResult("authorization succeeded but the account could not be determined: %v (retry with an explicit account)", err), nil
		}
		if info.Email == "" {
			return common.ErrorResult("authorization succeeded but Google returned no email for the token (retry with an explicit account)"), nil
		}
		account = credentials.NormalizeEmail(info.Email)
	}

	cred := credentials.FromToken(account, tok, flow.Scopes())
	if err := sc.Store().Put(ctx, cred); err != nil {
		return nil, fmt.Errorf("failed to store credential for %s: %w", account, err)
	}
	sc.Cache().InvalidateUser(account)

	return common.TextResult("Google Workspace access authorized for %s. All Workspace tools are now available for this account.", account), nil
}

func handleListAccounts(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	users, err := sc.Store().Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	if len(users) == 0 {
		return common.TextResult("No accounts are authorized yet. Use workspace_get_auth_url to start."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Authorized account(s): %d\n\n", len(users))
	for _, u := range users {
		fmt.Fprintf(&sb, "  %s\n", u)
	}

	return common.TextResult("%s", sb.String()), nil
}

func handleRemoveAccount(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	account, ok := args["account"].(string)
	if !ok || account == "" {
		return common.ErrorResult("account parameter is required"), nil
	}
	account = credentials.NormalizeEmail(account)

	if err := sc.Store().Delete(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to remove credential for %s: %w", account, err)
	}
	sc.Cache().InvalidateUser(account)
	sc.Sessions().UnbindAccount(account)

	return common.TextResult("Credential for %s removed.", account), nil
}
