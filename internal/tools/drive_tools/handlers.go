package drive_tools

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/drive/v3"

	"github.com/teemow/workspace-mcp/internal/clients"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

const defaultMaxResults = 10

// exportMimeTypes maps Google Workspace document types to the plain
// export format the content tool returns.
var exportMimeTypes = map[string]string{
	"application/vnd.google-apps.document":     "text/plain",
	"application/vnd.google-apps.spreadsheet":  "text/csv",
	"application/vnd.google-apps.presentation": "text/plain",
}

func handleSearchFiles(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return common.ErrorResult("query parameter is required"), nil
	}

	maxResults := int64(defaultMaxResults)
	if mr, ok := args["maxResults"].(float64); ok && mr > 0 {
		maxResults = int64(mr)
		if maxResults > 100 {
			maxResults = 100
		}
	}

	resp, err := h.Drive().Files.List().
		Q(query).
		PageSize(maxResults).
		Fields("files(id, name, mimeType, size, modifiedTime, webViewLink)").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search files: %w", err)
	}

	if len(resp.Files) == 0 {
		return common.TextResult("No files found matching query: %s", query), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d file(s):\n\n", len(resp.Files))
	for i, f := range resp.Files {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, f.Name)
		fmt.Fprintf(&sb, "   ID: %s\n", f.Id)
		fmt.Fprintf(&sb, "   Type: %s\n", f.MimeType)
		if f.ModifiedTime != "" {
			fmt.Fprintf(&sb, "   Modified: %s\n", f.ModifiedTime)
		}
		if f.WebViewLink != "" {
			fmt.Fprintf(&sb, "   Link: %s\n", f.WebViewLink)
		}
		sb.WriteString("\n")
	}

	return common.TextResult("%s", sb.String()), nil
}

func handleGetFileContent(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	fileID, ok := args["fileId"].(string)
	if !ok || fileID == "" {
		return common.ErrorResult("fileId parameter is required"), nil
	}

	meta, err := h.Drive().Files.Get(fileID).
		Fields("id, name, mimeType").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}

	content, err := downloadContent(ctx, h.Drive(), meta)
	if err != nil {
		return nil, err
	}

	return common.TextResult("File: %s (%s)\n\n%s", meta.Name, meta.MimeType, content), nil
}

// downloadContent fetches the file body, using the export endpoint
// for native Workspace documents since those have no direct download.
func downloadContent(ctx context.Context, svc *drive.Service, meta *drive.File) (string, error) {
	if exportType, ok := exportMimeTypes[meta.MimeType]; ok {
		resp, err := svc.Files.Export(meta.Id, exportType).Context(ctx).Download()
		if err != nil {
			return "", fmt.Errorf("failed to export file %s: %w", meta.Id, err)
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to read exported content: %w", err)
		}
		return string(data), nil
	}

	resp, err := svc.Files.Get(meta.Id).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("failed to download file %s: %w", meta.Id, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read file content: %w", err)
	}
	return string(data), nil
}

func handleCreateFile(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return common.ErrorResult("name parameter is required"), nil
	}

	mimeType := "text/plain"
	if mt, ok := args["mimeType"].(string); ok && mt != "" {
		mimeType = mt
	}

	file := &drive.File{
		Name:     name,
		MimeType: mimeType,
	}
	if folderID, ok := args["folderId"].(string); ok && folderID != "" {
		file.Parents = []string{folderID}
	}

	call := h.Drive().Files.Create(file).
		Fields("id, name, webViewLink").
		SupportsAllDrives(true).
		Context(ctx)
	if content, ok := args["content"].(string); ok && content != "" {
		call = call.Media(strings.NewReader(content))
	}

	created, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return common.TextResult("File created successfully.\nName: %s\nID: %s\nLink: %s",
		created.Name, created.Id, created.WebViewLink), nil
}

func handleListSharedDrives(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	resp, err := h.Drive().Drives.List().PageSize(100).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list shared drives: %w", err)
	}

	if len(resp.Drives) == 0 {
		return common.TextResult("No shared drives found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d shared drive(s):\n\n", len(resp.Drives))
	for i, d := range resp.Drives {
		fmt.Fprintf(&sb, "%d. %s (ID: %s)\n", i+1, d.Name, d.Id)
	}

	return common.TextResult("%s", sb.String()), nil
}
