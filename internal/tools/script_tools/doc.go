// Package script_tools exposes Google Apps Script operations as MCP
// tools: project listing, source retrieval, and project creation.
package script_tools
