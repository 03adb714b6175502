// Package docs_tools exposes Google Docs operations as MCP tools:
// document content retrieval, document creation, and text insertion.
package docs_tools
