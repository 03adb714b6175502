// Package chat_tools exposes Google Chat operations as MCP tools:
// space and message listing, and message sending.
package chat_tools
