package script_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/script/v1"

	"github.com/teemow/workspace-mcp/internal/clients"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

const (
	defaultMaxResults = 25
	scriptMimeType    = "application/vnd.google-apps.script"
)

func handleListProjects(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	maxResults := int64(defaultMaxResults)
	if mr, ok := args["maxResults"].(float64); ok && mr > 0 {
		maxResults = int64(mr)
		if maxResults > 100 {
			maxResults = 100
		}
	}

	resp, err := h.Drive().Files.List().
		Q(fmt.Sprintf("mimeType='%s' and trashed=false", scriptMimeType)).
		PageSize(maxResults).
		Fields("files(id, name, modifiedTime)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list script projects: %w", err)
	}

	if len(resp.Files) == 0 {
		return common.TextResult("No Apps Script projects found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d project(s):\n\n", len(resp.Files))
	for i, f := range resp.Files {
		fmt.Fprintf(&sb, "%d. %s (ID: %s)", i+1, f.Name, f.Id)
		if f.ModifiedTime != "" {
			fmt.Fprintf(&sb, " modified %s", f.ModifiedTime)
		}
		sb.WriteString("\n")
	}

	return common.TextResult("%s", sb.String()), nil
}

func handleGetProjectContent(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	scriptID, ok := args["scriptId"].(string)
	if !ok || scriptID == "" {
		return common.ErrorResult("scriptId parameter is required"), nil
	}

	content, err := h.Script().Projects.GetContent(scriptID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get project content %s: %w", scriptID, err)
	}

	if len(content.Files) == 0 {
		return common.TextResult("Project %s has no files.", scriptID), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Project %s (%d file(s)):\n\n", content.ScriptId, len(content.Files))
	for _, f := range content.Files {
		fmt.Fprintf(&sb, "--- %s (%s) ---\n%s\n\n", scriptFileName(f), f.Type, f.Source)
	}

	return common.TextResult("%s", sb.String()), nil
}

func handleCreateProject(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return common.ErrorResult("title parameter is required"), nil
	}

	createReq := &script.CreateProjectRequest{Title: title}
	if parentID, ok := args["parentId"].(string); ok && parentID != "" {
		createReq.ParentId = parentID
	}

	created, err := h.Script().Projects.Create(createReq).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create script project: %w", err)
	}

	return common.TextResult("Script project created successfully.\nTitle: %s\nScript ID: %s\nLink: https://script.google.com/d/%s/edit",
		created.Title, created.ScriptId, created.ScriptId), nil
}

// scriptFileName restores the extension the API strips from file
// names.
func scriptFileName(f *script.File) string {
	switch f.Type {
	case "SERVER_JS":
		return f.Name + ".gs"
	case "HTML":
		return f.Name + ".html"
	case "JSON":
		return f.Name + ".json"
	default:
		return f.Name
	}
}
