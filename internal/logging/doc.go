// Package logging provides shared slog helpers for the workspace-mcp server.
//
// It centralizes attribute key names so log output stays consistent across
// packages, and offers helpers for logging user identifiers and tokens
// without exposing PII or credential material.
package logging
