// Package server provides the MCP server context and the
// OAuth-enabled HTTP server for the workspace-mcp application.
//
// # Key Components
//
// ServerContext assembles the long-lived subsystems: the credential
// store, the token lifecycle manager, the Google service client
// cache, the bearer session store, and the active tool set resolved
// from the configured tier.
//
// OAuthHTTPServer wraps the MCP handler with OAuth 2.1 authentication:
//   - Authorization Server Metadata (RFC 8414)
//   - Protected Resource Metadata (RFC 9728)
//   - Dynamic Client Registration (RFC 7591)
//   - Token Revocation (RFC 7009)
//   - Token Introspection (RFC 7662)
//
// The identity middleware behind the token validation binds each
// bearer token to the authenticated Google account and mirrors the
// Google token into the credential store, so the Workspace tools see
// the same credential lifecycle regardless of transport.
//
// # Security Features
//
// The OAuth server includes security-focused defaults:
//   - HTTPS required for production (localhost exempt for development)
//   - PKCE required (OAuth 2.1 compliance)
//   - Rate limiting per IP and per authenticated user
//   - Optional token encryption at rest (AES-256-GCM)
//   - Audit logging for authentication events
package server
