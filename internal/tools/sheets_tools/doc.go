// Package sheets_tools exposes Google Sheets operations as MCP tools:
// range reads, value updates, and spreadsheet creation.
package sheets_tools
