package gmail_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/gmail/v1"

	"github.com/teemow/workspace-mcp/internal/clients"
	"github.com/teemow/workspace-mcp/internal/tools/batch"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

const defaultMaxResults = 10

func handleSearchMessages(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
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

	listResp, err := h.Gmail().Users.Messages.List("me").
		Q(query).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}

	if len(listResp.Messages) == 0 {
		return common.TextResult("No messages found matching query: %s", query), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d message(s):\n\n", len(listResp.Messages))
	for i, ref := range listResp.Messages {
		msg, err := h.Gmail().Users.Messages.Get("me", ref.Id).
			Format("metadata").
			MetadataHeaders("From", "Subject", "Date").
			Context(ctx).
			Do()
		if err != nil {
			fmt.Fprintf(&sb, "%d. %s (failed to load: %v)\n", i+1, ref.Id, err)
			continue
		}
		fmt.Fprintf(&sb, "%d. ID: %s\n", i+1, msg.Id)
		fmt.Fprintf(&sb, "   From: %s\n", headerValue(msg.Payload, "From"))
		fmt.Fprintf(&sb, "   Subject: %s\n", headerValue(msg.Payload, "Subject"))
		fmt.Fprintf(&sb, "   Date: %s\n", headerValue(msg.Payload, "Date"))
		if msg.Snippet != "" {
			fmt.Fprintf(&sb, "   Snippet: %s\n", msg.Snippet)
		}
		sb.WriteString("\n")
	}

	return common.TextResult("%s", sb.String()), nil
}

func handleGetMessage(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	messageID, ok := args["messageId"].(string)
	if !ok || messageID == "" {
		return common.ErrorResult("messageId parameter is required"), nil
	}

	msg, err := h.Gmail().Users.Messages.Get("me", messageID).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Message ID: %s\n", msg.Id)
	fmt.Fprintf(&sb, "Thread ID: %s\n", msg.ThreadId)
	fmt.Fprintf(&sb, "From: %s\n", headerValue(msg.Payload, "From"))
	fmt.Fprintf(&sb, "To: %s\n", headerValue(msg.Payload, "To"))
	fmt.Fprintf(&sb, "Subject: %s\n", headerValue(msg.Payload, "Subject"))
	fmt.Fprintf(&sb, "Date: %s\n", headerValue(msg.Payload, "Date"))
	if len(msg.LabelIds) > 0 {
		fmt.Fprintf(&sb, "Labels: %s\n", strings.Join(msg.LabelIds, ", "))
	}

	body := extractPlainText(msg.Payload)
	if body == "" {
		body = msg.Snippet
	}
	fmt.Fprintf(&sb, "\n%s", body)

	return common.TextResult("%s", sb.String()), nil
}

func handleSendMessage(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	to, ok := args["to"].(string)
	if !ok || to == "" {
		return common.ErrorResult("to parameter is required"), nil
	}
	subject, ok := args["subject"].(string)
	if !ok || subject == "" {
		return common.ErrorResult("subject parameter is required"), nil
	}
	body, ok := args["body"].(string)
	if !ok {
		return common.ErrorResult("body parameter is required"), nil
	}

	opts := messageOptions{
		To:      to,
		Subject: subject,
		Body:    body,
	}
	if cc, ok := args["cc"].(string); ok {
		opts.CC = cc
	}
	if bcc, ok := args["bcc"].(string); ok {
		opts.BCC = bcc
	}
	if isHTML, ok := args["isHTML"].(bool); ok {
		opts.HTML = isHTML
	}

	sent, err := h.Gmail().Users.Messages.Send("me", &gmail.Message{
		Raw: buildRawMessage(opts),
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	return common.TextResult("Message sent successfully.\nMessage ID: %s\nTo: %s\nSubject: %s", sent.Id, to, subject), nil
}

func handleListLabels(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	resp, err := h.Gmail().Users.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}

	if len(resp.Labels) == 0 {
		return common.TextResult("No labels found."), nil
	}

	var system, user []*gmail.Label
	for _, l := range resp.Labels {
		if l.Type == "system" {
			system = append(system, l)
		} else {
			user = append(user, l)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d label(s):\n\n", len(resp.Labels))
	if len(system) > 0 {
		sb.WriteString("System labels:\n")
		for _, l := range system {
			fmt.Fprintf(&sb, "  %s (ID: %s)\n", l.Name, l.Id)
		}
	}
	if len(user) > 0 {
		sb.WriteString("User labels:\n")
		for _, l := range user {
			fmt.Fprintf(&sb, "  %s (ID: %s)\n", l.Name, l.Id)
		}
	}

	return common.TextResult("%s", sb.String()), nil
}

func handleModifyLabels(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	messageIDs, err := batch.ParseStringOrArray(args["messageIds"], "messageIds")
	if err != nil {
		return common.ErrorResult("%v", err), nil
	}

	var addLabels, removeLabels []string
	if raw, ok := args["addLabelIds"]; ok && raw != nil {
		addLabels, err = batch.ParseStringOrArray(raw, "addLabelIds")
		if err != nil {
			return common.ErrorResult("%v", err), nil
		}
	}
	if raw, ok := args["removeLabelIds"]; ok && raw != nil {
		removeLabels, err = batch.ParseStringOrArray(raw, "removeLabelIds")
		if err != nil {
			return common.ErrorResult("%v", err), nil
		}
	}
	if len(addLabels) == 0 && len(removeLabels) == 0 {
		return common.ErrorResult("at least one of addLabelIds or removeLabelIds is required"), nil
	}

	modifyReq := &gmail.ModifyMessageRequest{
		AddLabelIds:    addLabels,
		RemoveLabelIds: removeLabels,
	}

	results := batch.ProcessBatch(messageIDs, func(id string) (string, error) {
		if _, err := h.Gmail().Users.Messages.Modify("me", id, modifyReq).Context(ctx).Do(); err != nil {
			return "", err
		}
		return "labels updated", nil
	})

	return common.TextResult("%s", batch.FormatResults(results)), nil
}

func headerValue(payload *gmail.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, h := range payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
