package tasks_tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterTasksTools registers the Tasks tools that pass the active
// tool gate.
func RegisterTasksTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	active := sc.Active()

	if active.Enabled("tasks_list_tasklists") {
		tool := mcp.NewTool("tasks_list_tasklists",
			mcp.WithDescription("List all task lists for the account"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("tasks_list_tasklists", "tasks", "list", sc,
			common.RequireServices(sc, "tasks_list_tasklists", handleListTasklists, catalog.ServiceTasks)))
	}

	if active.Enabled("tasks_list_tasks") {
		tool := mcp.NewTool("tasks_list_tasks",
			mcp.WithDescription("List tasks in a task list"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("tasklistId",
				mcp.Description("Task list ID (default: @default)"),
			),
			mcp.WithBoolean("showCompleted",
				mcp.Description("Include completed tasks (default: false)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("tasks_list_tasks", "tasks", "list", sc,
			common.RequireServices(sc, "tasks_list_tasks", handleListTasks, catalog.ServiceTasks)))
	}

	if active.Enabled("tasks_create_task") {
		tool := mcp.NewTool("tasks_create_task",
			mcp.WithDescription("Create a new task in a task list"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Title of the task"),
			),
			mcp.WithString("tasklistId",
				mcp.Description("Task list ID (default: @default)"),
			),
			mcp.WithString("notes",
				mcp.Description("Task notes"),
			),
			mcp.WithString("due",
				mcp.Description("Due date, RFC3339 (e.g., 2026-09-01T00:00:00Z)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("tasks_create_task", "tasks", "create", sc,
			common.RequireServices(sc, "tasks_create_task", handleCreateTask, catalog.ServiceTasks)))
	}

	return nil
}
