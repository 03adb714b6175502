// Package cmd implements the workspace-mcp command line interface.
//
// The root command defaults to starting the MCP server; auth and
// accounts subcommands manage stored Google credentials from the
// terminal.
package cmd
