// Package contacts_tools exposes Google Contacts (People API)
// operations as MCP tools: contact search and retrieval.
package contacts_tools
