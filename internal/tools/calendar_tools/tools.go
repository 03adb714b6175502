package calendar_tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterCalendarTools registers the Calendar tools that pass the
// active tool gate.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	active := sc.Active()

	if active.Enabled("calendar_list_calendars") {
		tool := mcp.NewTool("calendar_list_calendars",
			mcp.WithDescription("List all calendars accessible to the account"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("calendar_list_calendars", "calendar", "list", sc,
			common.RequireServices(sc, "calendar_list_calendars", handleListCalendars, catalog.ServiceCalendar)))
	}

	if active.Enabled("calendar_list_events") {
		tool := mcp.NewTool("calendar_list_events",
			mcp.WithDescription("List upcoming events from a calendar"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("calendarId",
				mcp.Description("Calendar ID (default: primary)"),
			),
			mcp.WithString("timeMin",
				mcp.Description("Earliest event time, RFC3339 (default: now)"),
			),
			mcp.WithString("timeMax",
				mcp.Description("Latest event time, RFC3339"),
			),
			mcp.WithNumber("maxResults",
				mcp.Description("Maximum number of events to return (default: 10, max: 100)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("calendar_list_events", "calendar", "list", sc,
			common.RequireServices(sc, "calendar_list_events", handleListEvents, catalog.ServiceCalendar)))
	}

	if active.Enabled("calendar_create_event") {
		tool := mcp.NewTool("calendar_create_event",
			mcp.WithDescription("Create a new calendar event"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("summary",
				mcp.Required(),
				mcp.Description("Event title"),
			),
			mcp.WithString("start",
				mcp.Required(),
				mcp.Description("Event start time, RFC3339 (e.g., 2026-09-01T10:00:00+02:00)"),
			),
			mcp.WithString("end",
				mcp.Required(),
				mcp.Description("Event end time, RFC3339"),
			),
			mcp.WithString("calendarId",
				mcp.Description("Calendar ID (default: primary)"),
			),
			mcp.WithString("description",
				mcp.Description("Event description"),
			),
			mcp.WithString("location",
				mcp.Description("Event location"),
			),
			mcp.WithString("attendees",
				mcp.Description("Attendee email addresses, comma-separated"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("calendar_create_event", "calendar", "create", sc,
			common.RequireServices(sc, "calendar_create_event", handleCreateEvent, catalog.ServiceCalendar)))
	}

	if active.Enabled("calendar_delete_event") {
		tool := mcp.NewTool("calendar_delete_event",
			mcp.WithDescription("Delete a calendar event"),
			mcp.WithString("account",
				mcp.Description("Google account email (default: the configured default account)"),
			),
			mcp.WithString("eventId",
				mcp.Required(),
				mcp.Description("The ID of the event to delete"),
			),
			mcp.WithString("calendarId",
				mcp.Description("Calendar ID (default: primary)"),
			),
		)
		s.AddTool(tool, common.InstrumentedWithService("calendar_delete_event", "calendar", "delete", sc,
			common.RequireServices(sc, "calendar_delete_event", handleDeleteEvent, catalog.ServiceCalendar)))
	}

	return nil
}
