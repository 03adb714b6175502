// Package auth_tools provides MCP tools for Google OAuth
// authentication.
//
// The flow for an unauthenticated account:
//  1. Call workspace_get_auth_url to get the authorization URL
//  2. The user visits the URL and authorizes access
//  3. Call workspace_save_auth_code with the returned code
//
// Once a credential is stored, every Workspace tool works with it and
// the access token is refreshed automatically. workspace_list_accounts
// and workspace_remove_account manage the stored credentials.
package auth_tools
