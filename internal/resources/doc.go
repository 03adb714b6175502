// Package resources provides MCP resources for exposing server state.
// Resources are read-only data sources that MCP clients can fetch, such
// as the authorized accounts and the active tool catalog.
package resources
