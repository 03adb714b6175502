package docs_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/docs/v1"

	"github.com/teemow/workspace-mcp/internal/clients"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

func handleGetContent(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return common.ErrorResult("documentId parameter is required"), nil
	}

	doc, err := h.Docs().Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	return common.TextResult("Document: %s (ID: %s)\n\n%s", doc.Title, doc.DocumentId, documentText(doc)), nil
}

func handleCreateDocument(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return common.ErrorResult("title parameter is required"), nil
	}

	doc, err := h.Docs().Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	if content, ok := args["content"].(string); ok && content != "" {
		req := &docs.BatchUpdateDocumentRequest{
			Requests: []*docs.Request{
				{
					InsertText: &docs.InsertTextRequest{
						Text:     content,
						Location: &docs.Location{Index: 1},
					},
				},
			},
		}
		if _, err := h.Docs().Documents.BatchUpdate(doc.DocumentId, req).Context(ctx).Do(); err != nil {
			return nil, fmt.Errorf("document created but writing content failed: %w", err)
		}
	}

	return common.TextResult("Document created successfully.\nTitle: %s\nID: %s\nLink: https://docs.google.com/document/d/%s/edit",
		doc.Title, doc.DocumentId, doc.DocumentId), nil
}

func handleInsertText(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return common.ErrorResult("documentId parameter is required"), nil
	}
	text, ok := args["text"].(string)
	if !ok || text == "" {
		return common.ErrorResult("text parameter is required"), nil
	}

	index := int64(1)
	if idx, ok := args["index"].(float64); ok && idx >= 1 {
		index = int64(idx)
	}

	req := &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{
			{
				InsertText: &docs.InsertTextRequest{
					Text:     text,
					Location: &docs.Location{Index: index},
				},
			},
		},
	}
	if _, err := h.Docs().Documents.BatchUpdate(documentID, req).Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("failed to insert text into document %s: %w", documentID, err)
	}

	return common.TextResult("Inserted %d character(s) into document %s at index %d.", len(text), documentID, index), nil
}

// documentText flattens the structural elements of a document body
// into plain text. Tables and other non-paragraph elements are
// skipped.
func documentText(doc *docs.Document) string {
	if doc.Body == nil {
		return ""
	}
	var sb strings.Builder
	for _, elem := range doc.Body.Content {
		if elem.Paragraph == nil {
			continue
		}
		for _, pe := range elem.Paragraph.Elements {
			if pe.TextRun != nil {
				sb.WriteString(pe.TextRun.Content)
			}
		}
	}
	return sb.String()
}
