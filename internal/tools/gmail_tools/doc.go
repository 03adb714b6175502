// Package gmail_tools exposes Gmail operations as MCP tools: message
// search and retrieval, sending, and label management.
package gmail_tools
