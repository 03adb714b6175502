package forms_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/forms/v1"

	"github.com/teemow/workspace-mcp/internal/clients"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

func handleGetForm(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	formID, ok := args["formId"].(string)
	if !ok || formID == "" {
		return common.ErrorResult("formId parameter is required"), nil
	}

	form, err := h.Forms().Forms.Get(formID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get form %s: %w", formID, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Form: %s (ID: %s)\n", formTitle(form), form.FormId)
	if form.Info != nil && form.Info.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", form.Info.Description)
	}
	fmt.Fprintf(&sb, "Responder link: %s\n", form.ResponderUri)
	fmt.Fprintf(&sb, "Items: %d\n\n", len(form.Items))
	for i, item := range form.Items {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, formatItem(item))
	}

	return common.TextResult("%s", sb.String()), nil
}

func handleCreateForm(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return common.ErrorResult("title parameter is required"), nil
	}

	// the create call only accepts the title; the description goes in
	// through a follow-up batchUpdate
	created, err := h.Forms().Forms.Create(&forms.Form{
		Info: &forms.Info{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	if desc, ok := args["description"].(string); ok && desc != "" {
		req := &forms.BatchUpdateFormRequest{
			Requests: []*forms.Request{
				{
					UpdateFormInfo: &forms.UpdateFormInfoRequest{
						Info:       &forms.Info{Description: desc},
						UpdateMask: "description",
					},
				},
			},
		}
		if _, err := h.Forms().Forms.BatchUpdate(created.FormId, req).Context(ctx).Do(); err != nil {
			return nil, fmt.Errorf("form created but setting description failed: %w", err)
		}
	}

	return common.TextResult("Form created successfully.\nTitle: %s\nID: %s\nResponder link: %s",
		title, created.FormId, created.ResponderUri), nil
}

func handleListResponses(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	formID, ok := args["formId"].(string)
	if !ok || formID == "" {
		return common.ErrorResult("formId parameter is required"), nil
	}

	resp, err := h.Forms().Forms.Responses.List(formID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list responses for form %s: %w", formID, err)
	}

	if len(resp.Responses) == 0 {
		return common.TextResult("No responses submitted to form %s yet.", formID), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d response(s):\n\n", len(resp.Responses))
	for i, r := range resp.Responses {
		fmt.Fprintf(&sb, "%d. Response %s\n", i+1, r.ResponseId)
		if r.LastSubmittedTime != "" {
			fmt.Fprintf(&sb, "   Submitted: %s\n", r.LastSubmittedTime)
		}
		if r.RespondentEmail != "" {
			fmt.Fprintf(&sb, "   Respondent: %s\n", r.RespondentEmail)
		}
		for questionID, answer := range r.Answers {
			fmt.Fprintf(&sb, "   %s: %s\n", questionID, answerText(&answer))
		}
		sb.WriteString("\n")
	}

	return common.TextResult("%s", sb.String()), nil
}

func formTitle(form *forms.Form) string {
	if form.Info == nil || form.Info.Title == "" {
		return "(untitled)"
	}
	return form.Info.Title
}

func formatItem(item *forms.Item) string {
	title := item.Title
	if title == "" {
		title = "(untitled item)"
	}
	switch {
	case item.QuestionItem != nil:
		return title + " [question]"
	case item.QuestionGroupItem != nil:
		return title + " [question group]"
	case item.PageBreakItem != nil:
		return title + " [page break]"
	case item.TextItem != nil:
		return title + " [text]"
	case item.ImageItem != nil:
		return title + " [image]"
	case item.VideoItem != nil:
		return title + " [video]"
	default:
		return title
	}
}

func answerText(answer *forms.Answer) string {
	if answer == nil || answer.TextAnswers == nil {
		return "(no text answer)"
	}
	parts := make([]string, 0, len(answer.TextAnswers.Answers))
	for _, a := range answer.TextAnswers.Answers {
		parts = append(parts, a.Value)
	}
	return strings.Join(parts, ", ")
}
