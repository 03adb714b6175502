// Package tasks_tools exposes Google Tasks operations as MCP tools:
// task list enumeration, task listing, and task creation.
package tasks_tools
