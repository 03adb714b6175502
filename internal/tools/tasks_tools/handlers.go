package tasks_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/tasks/v1"

	"github.com/teemow/workspace-mcp/internal/clients"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

const defaultTasklist = "@default"

func handleListTasklists(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	resp, err := h.Tasks().Tasklists.List().MaxResults(100).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list task lists: %w", err)
	}

	if len(resp.Items) == 0 {
		return common.TextResult("No task lists found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d task list(s):\n\n", len(resp.Items))
	for i, tl := range resp.Items {
		fmt.Fprintf(&sb, "%d. %s (ID: %s)\n", i+1, tl.Title, tl.Id)
	}

	return common.TextResult("%s", sb.String()), nil
}

func handleListTasks(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	tasklistID := defaultTasklist
	if tl, ok := args["tasklistId"].(string); ok && tl != "" {
		tasklistID = tl
	}
	showCompleted := false
	if sc, ok := args["showCompleted"].(bool); ok {
		showCompleted = sc
	}

	call := h.Tasks().Tasks.List(tasklistID).MaxResults(100).Context(ctx)
	if showCompleted {
		call = call.ShowCompleted(true).ShowHidden(true)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(resp.Items) == 0 {
		return common.TextResult("No tasks found in list %s.", tasklistID), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d task(s) in %s:\n\n", len(resp.Items), tasklistID)
	for i, task := range resp.Items {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, formatTask(task))
	}

	return common.TextResult("%s", sb.String()), nil
}

func handleCreateTask(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return common.ErrorResult("title parameter is required"), nil
	}

	tasklistID := defaultTasklist
	if tl, ok := args["tasklistId"].(string); ok && tl != "" {
		tasklistID = tl
	}

	task := &tasks.Task{Title: title}
	if notes, ok := args["notes"].(string); ok {
		task.Notes = notes
	}
	if due, ok := args["due"].(string); ok && due != "" {
		task.Due = due
	}

	created, err := h.Tasks().Tasks.Insert(tasklistID, task).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return common.TextResult("Task created successfully.\nTitle: %s\nID: %s\nList: %s",
		created.Title, created.Id, tasklistID), nil
}

func formatTask(task *tasks.Task) string {
	var sb strings.Builder
	sb.WriteString(task.Title)
	fmt.Fprintf(&sb, " (ID: %s)", task.Id)
	if task.Status == "completed" {
		sb.WriteString(" [completed]")
	}
	if task.Due != "" {
		fmt.Fprintf(&sb, " due %s", task.Due)
	}
	if task.Notes != "" {
		fmt.Fprintf(&sb, "\n   %s", task.Notes)
	}
	return sb.String()
}
