package slides_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/slides/v1"

	"github.com/teemow/workspace-mcp/internal/clients"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

func handleGetPresentation(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	presentationID, ok := args["presentationId"].(string)
	if !ok || presentationID == "" {
		return common.ErrorResult("presentationId parameter is required"), nil
	}

	pres, err := h.Slides().Presentations.Get(presentationID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get presentation %s: %w", presentationID, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Presentation: %s (ID: %s)\n", pres.Title, pres.PresentationId)
	fmt.Fprintf(&sb, "Slides: %d\n\n", len(pres.Slides))
	for i, slide := range pres.Slides {
		fmt.Fprintf(&sb, "Slide %d (ID: %s):\n", i+1, slide.ObjectId)
		text := slideText(slide)
		if text == "" {
			sb.WriteString("   (no text)\n")
		} else {
			for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
				fmt.Fprintf(&sb, "   %s\n", line)
			}
		}
		sb.WriteString("\n")
	}

	return common.TextResult("%s", sb.String()), nil
}

func handleCreatePresentation(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return common.ErrorResult("title parameter is required"), nil
	}

	created, err := h.Slides().Presentations.Create(&slides.Presentation{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create presentation: %w", err)
	}

	return common.TextResult("Presentation created successfully.\nTitle: %s\nID: %s\nLink: https://docs.google.com/presentation/d/%s/edit",
		created.Title, created.PresentationId, created.PresentationId), nil
}

// slideText collects the text runs of every shape on a slide.
func slideText(slide *slides.Page) string {
	var sb strings.Builder
	for _, elem := range slide.PageElements {
		if elem.Shape == nil || elem.Shape.Text == nil {
			continue
		}
		for _, te := range elem.Shape.Text.TextElements {
			if te.TextRun != nil {
				sb.WriteString(te.TextRun.Content)
			}
		}
	}
	return sb.String()
}
