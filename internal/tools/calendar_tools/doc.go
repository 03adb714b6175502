// Package calendar_tools exposes Google Calendar operations as MCP
// tools: calendar and event listing, event creation, and event
// deletion.
package calendar_tools
