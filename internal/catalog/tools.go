package catalog

// DefaultRegistry returns the registry of all tools this server can
// expose. The descriptors here are the single source of truth for tool
// tiers, read-only safety and per-tool scope requirements; the tool
// packages register handlers for the subset the gate activates.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(defaultTools)
	if err != nil {
		// The descriptor table is static; an invalid entry is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return r
}

var defaultTools = []ToolDescriptor{
	// Gmail
	{Name: "gmail_search_messages", Service: ServiceGmail, Tier: TierCore, ReadOnly: true, Scopes: []string{ScopeGmailReadonly}},
	{Name: "gmail_get_message", Service: ServiceGmail, Tier: TierCore, ReadOnly: true, Scopes: []string{ScopeGmailReadonly}},
	{Name: "gmail_send_message", Service: ServiceGmail, Tier: TierCore, ReadOnly: false, Scopes: []string{ScopeGmailSend}},
	{Name: "gmail_list_labels", Service: ServiceGmail, Tier: TierExtended, ReadOnly: true, Scopes: []string{ScopeGmailReadonly}},
	{Name: "gmail_modify_labels", Service: ServiceGmail, Tier: TierExtended, ReadOnly: false, Scopes: []string{ScopeGmailModify}},

	// Drive
	{Name: "drive_search_files", Service: ServiceDrive, Tier: TierCore, ReadOnly: true, Scopes: []string{ScopeDriveReadonly}},
	{Name: "drive_get_file_content", Service: ServiceDrive, Tier: TierCore, ReadOnly: true, Scopes: []string{ScopeDriveReadonly}},
	{Name: "drive_create_file", Service: ServiceDrive, Tier: TierCore, ReadOnly: false, Scopes: []string{ScopeDriveFile}},
	{Name: "drive_list_shared_drives", Service: ServiceDrive, Tier: TierExtended, ReadOnly: true, Scopes: []string{ScopeDriveReadonly}},

	// Calendar
	{Name: "calendar_list_calendars", Service: ServiceCalendar, Tier: TierCore, ReadOnly: true, Scopes: []string{ScopeCalendarReadonly}},
	{Name: "calendar_list_events", Service: ServiceCalendar, Tier: TierCore, ReadOnly: true, Scopes: []string{ScopeCalendarReadonly}},
	{Name: "calendar_create_event", Service: ServiceCalendar, Tier: TierCore, ReadOnly: false, Scopes: []string{ScopeCalendarEvents}},
	{Name: "calendar_delete_event", Service: ServiceCalendar, Tier: TierExtended, ReadOnly: false, Scopes: []string{ScopeCalendarEvents}},

	// Docs
	{Name: "docs_get_content", Service: ServiceDocs, Tier: TierCore, ReadOnly: true, Scopes: []string{ScopeDocsReadonly}},
	{Name: "docs_create_document", Service: ServiceDocs, Tier: TierCore, ReadOnly: false, Scopes: []string{ScopeDocsWrite}},
	{Name: "docs_insert_text", Service: ServiceDocs, Tier: TierExtended, ReadOnly: false, Scopes: []string{ScopeDocsWrite}},

	// Sheets
	{Name: "sheets_read_range", Service: ServiceSheets, Tier: TierCore, ReadOnly: true, Scopes: []string{ScopeSheetsReadonly}},
	{Name: "sheets_modify_values", Service: ServiceSheets, Tier: TierCore, ReadOnly: false, Scopes: []string{ScopeSheetsWrite}},
	{Name: "sheets_create_spreadsheet", Service: ServiceSheets, Tier: TierExtended, ReadOnly: false, Scopes: []string{ScopeSheetsWrite}},

	// Tasks
	{Name: "tasks_list_tasklists", Service: ServiceTasks, Tier: TierExtended, ReadOnly: true, Scopes: []string{ScopeTasksReadonly}},
	{Name: "tasks_list_tasks", Service: ServiceTasks, Tier: TierExtended, ReadOnly: true, Scopes: []string{ScopeTasksReadonly}},
	{Name: "tasks_create_task", Service: ServiceTasks, Tier: TierExtended, ReadOnly: false, Scopes: []string{ScopeTasks}},

	// Contacts
	{Name: "contacts_search", Service: ServiceContacts, Tier: TierExtended, ReadOnly: true, Scopes: []string{ScopeContactsReadonly}},
	{Name: "contacts_get", Service: ServiceContacts, Tier: TierExtended, ReadOnly: true, Scopes: []string{ScopeContactsReadonly}},

	// Custom Search
	{Name: "search_custom", Service: ServiceSearch, Tier: TierExtended, ReadOnly: true, Scopes: []string{ScopeCustomSearch}},

	// Slides
	{Name: "slides_get_presentation", Service: ServiceSlides, Tier: TierComplete, ReadOnly: true, Scopes: []string{ScopeSlidesReadonly}},
	{Name: "slides_create_presentation", Service: ServiceSlides, Tier: TierComplete, ReadOnly: false, Scopes: []string{ScopeSlides}},

	// Forms
	{Name: "forms_get_form", Service: ServiceForms, Tier: TierComplete, ReadOnly: true, Scopes: []string{ScopeFormsBodyReadonly}},
	{Name: "forms_create_form", Service: ServiceForms, Tier: TierComplete, ReadOnly: false, Scopes: []string{ScopeFormsBody}},
	{Name: "forms_list_responses", Service: ServiceForms, Tier: TierComplete, ReadOnly: true, Scopes: []string{ScopeFormsResponsesReadonly}},

	// Chat
	{Name: "chat_list_spaces", Service: ServiceChat, Tier: TierComplete, ReadOnly: true, Scopes: []string{ScopeChatSpacesReadonly}},
	{Name: "chat_list_messages", Service: ServiceChat, Tier: TierComplete, ReadOnly: true, Scopes: []string{ScopeChatMessagesReadonly}},
	{Name: "chat_send_message", Service: ServiceChat, Tier: TierComplete, ReadOnly: false, Scopes: []string{ScopeChatMessages}},

	// Apps Script
	{Name: "script_list_projects", Service: ServiceScript, Tier: TierComplete, ReadOnly: true, Scopes: []string{ScopeScriptProjectsReadonly, ScopeDriveReadonly}},
	{Name: "script_get_project_content", Service: ServiceScript, Tier: TierComplete, ReadOnly: true, Scopes: []string{ScopeScriptProjectsReadonly}},
	{Name: "script_create_project", Service: ServiceScript, Tier: TierComplete, ReadOnly: false, Scopes: []string{ScopeScriptProjects}},
}
