// Package forms_tools exposes Google Forms operations as MCP tools:
// form retrieval, form creation, and response listing.
package forms_tools
