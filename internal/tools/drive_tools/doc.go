// Package drive_tools exposes Google Drive operations as MCP tools:
// file search, content retrieval, file creation, and shared drive
// listing.
package drive_tools
