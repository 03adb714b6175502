package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/calendar/v3"

	"github.com/teemow/workspace-mcp/internal/clients"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

const defaultMaxResults = 10

func handleListCalendars(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	resp, err := h.Calendar().CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	if len(resp.Items) == 0 {
		return common.TextResult("No calendars found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d calendar(s):\n\n", len(resp.Items))
	for i, c := range resp.Items {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, c.Summary)
		fmt.Fprintf(&sb, "   ID: %s\n", c.Id)
		fmt.Fprintf(&sb, "   Role: %s\n", c.AccessRole)
		if c.Primary {
			sb.WriteString("   Primary: yes\n")
		}
		sb.WriteString("\n")
	}

	return common.TextResult("%s", sb.String()), nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	calendarID := "primary"
	if cid, ok := args["calendarId"].(string); ok && cid != "" {
		calendarID = cid
	}

	maxResults := int64(defaultMaxResults)
	if mr, ok := args["maxResults"].(float64); ok && mr > 0 {
		maxResults = int64(mr)
		if maxResults > 100 {
			maxResults = 100
		}
	}

	call := h.Calendar().Events.List(calendarID).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)

	timeMin := time.Now().Format(time.RFC3339)
	if tm, ok := args["timeMin"].(string); ok && tm != "" {
		timeMin = tm
	}
	call = call.TimeMin(timeMin)
	if tm, ok := args["timeMax"].(string); ok && tm != "" {
		call = call.TimeMax(tm)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	if len(resp.Items) == 0 {
		return common.TextResult("No events found in calendar %s.", calendarID), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d event(s) in %s:\n\n", len(resp.Items), calendarID)
	for i, e := range resp.Items {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, e.Summary)
		fmt.Fprintf(&sb, "   ID: %s\n", e.Id)
		fmt.Fprintf(&sb, "   Start: %s\n", eventTime(e.Start))
		fmt.Fprintf(&sb, "   End: %s\n", eventTime(e.End))
		if e.Location != "" {
			fmt.Fprintf(&sb, "   Location: %s\n", e.Location)
		}
		if len(e.Attendees) > 0 {
			fmt.Fprintf(&sb, "   Attendees: %d\n", len(e.Attendees))
		}
		sb.WriteString("\n")
	}

	return common.TextResult("%s", sb.String()), nil
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	summary, ok := args["summary"].(string)
	if !ok || summary == "" {
		return common.ErrorResult("summary parameter is required"), nil
	}
	start, ok := args["start"].(string)
	if !ok || start == "" {
		return common.ErrorResult("start parameter is required"), nil
	}
	end, ok := args["end"].(string)
	if !ok || end == "" {
		return common.ErrorResult("end parameter is required"), nil
	}
	if _, err := time.Parse(time.RFC3339, start); err != nil {
		return common.ErrorResult("start must be RFC3339 (e.g., 2026-09-01T10:00:00+02:00): %v", err), nil
	}
	if _, err := time.Parse(time.RFC3339, end); err != nil {
		return common.ErrorResult("end must be RFC3339 (e.g., 2026-09-01T11:00:00+02:00): %v", err), nil
	}

	calendarID := "primary"
	if cid, ok := args["calendarId"].(string); ok && cid != "" {
		calendarID = cid
	}

	event := &calendar.Event{
		Summary: summary,
		Start:   &calendar.EventDateTime{DateTime: start},
		End:     &calendar.EventDateTime{DateTime: end},
	}
	if desc, ok := args["description"].(string); ok {
		event.Description = desc
	}
	if loc, ok := args["location"].(string); ok {
		event.Location = loc
	}
	if attendees, ok := args["attendees"].(string); ok && attendees != "" {
		for _, email := range strings.Split(attendees, ",") {
			email = strings.TrimSpace(email)
			if email != "" {
				event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
			}
		}
	}

	created, err := h.Calendar().Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return common.TextResult("Event created successfully.\nSummary: %s\nID: %s\nLink: %s",
		created.Summary, created.Id, created.HtmlLink), nil
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, ok := args["eventId"].(string)
	if !ok || eventID == "" {
		return common.ErrorResult("eventId parameter is required"), nil
	}

	calendarID := "primary"
	if cid, ok := args["calendarId"].(string); ok && cid != "" {
		calendarID = cid
	}

	if err := h.Calendar().Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}

	return common.TextResult("Event %s deleted from calendar %s.", eventID, calendarID), nil
}

// eventTime renders either the dateTime or the all-day date of an
// event boundary.
func eventTime(dt *calendar.EventDateTime) string {
	if dt == nil {
		return ""
	}
	if dt.DateTime != "" {
		return dt.DateTime
	}
	return dt.Date + " (all day)"
}
