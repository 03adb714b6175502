// Package slides_tools exposes Google Slides operations as MCP tools:
// presentation retrieval and creation.
package slides_tools
