// Package search_tools exposes Google Programmable Search as an MCP
// tool.
package search_tools
