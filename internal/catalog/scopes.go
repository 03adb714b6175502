package catalog

import "sort"

// OAuth scope URLs for the supported Google Workspace APIs.
const (
	ScopeOpenID          = "openid"
	ScopeUserinfoEmail   = "https://www.googleapis.com/auth/userinfo.email"
	ScopeUserinfoProfile = "https://www.googleapis.com/auth/userinfo.profile"

	ScopeGmailReadonly      = "https://www.googleapis.com/auth/gmail.readonly"
	ScopeGmailSend          = "https://www.googleapis.com/auth/gmail.send"
	ScopeGmailCompose       = "https://www.googleapis.com/auth/gmail.compose"
	ScopeGmailModify        = "https://www.googleapis.com/auth/gmail.modify"
	ScopeGmailLabels        = "https://www.googleapis.com/auth/gmail.labels"
	ScopeGmailSettingsBasic = "https://www.googleapis.com/auth/gmail.settings.basic"

	ScopeDrive         = "https://www.googleapis.com/auth/drive"
	ScopeDriveReadonly = "https://www.googleapis.com/auth/drive.readonly"
	ScopeDriveFile     = "https://www.googleapis.com/auth/drive.file"

	ScopeCalendar         = "https://www.googleapis.com/auth/calendar"
	ScopeCalendarReadonly = "https://www.googleapis.com/auth/calendar.readonly"
	ScopeCalendarEvents   = "https://www.googleapis.com/auth/calendar.events"

	ScopeDocsReadonly = "https://www.googleapis.com/auth/documents.readonly"
	ScopeDocsWrite    = "https://www.googleapis.com/auth/documents"

	ScopeSheetsReadonly = "https://www.googleapis.com/auth/spreadsheets.readonly"
	ScopeSheetsWrite    = "https://www.googleapis.com/auth/spreadsheets"

	ScopeSlides         = "https://www.googleapis.com/auth/presentations"
	ScopeSlidesReadonly = "https://www.googleapis.com/auth/presentations.readonly"

	ScopeFormsBody              = "https://www.googleapis.com/auth/forms.body"
	ScopeFormsBodyReadonly      = "https://www.googleapis.com/auth/forms.body.readonly"
	ScopeFormsResponsesReadonly = "https://www.googleapis.com/auth/forms.responses.readonly"

	ScopeTasks         = "https://www.googleapis.com/auth/tasks"
	ScopeTasksReadonly = "https://www.googleapis.com/auth/tasks.readonly"

	ScopeContacts         = "https://www.googleapis.com/auth/contacts"
	ScopeContactsReadonly = "https://www.googleapis.com/auth/contacts.readonly"

	ScopeChatMessages        = "https://www.googleapis.com/auth/chat.messages"
	ScopeChatMessagesReadonly = "https://www.googleapis.com/auth/chat.messages.readonly"
	ScopeChatSpaces          = "https://www.googleapis.com/auth/chat.spaces"
	ScopeChatSpacesReadonly  = "https://www.googleapis.com/auth/chat.spaces.readonly"

	ScopeCustomSearch = "https://www.googleapis.com/auth/cse"

	ScopeScriptProjects            = "https://www.googleapis.com/auth/script.projects"
	ScopeScriptProjectsReadonly    = "https://www.googleapis.com/auth/script.projects.readonly"
	ScopeScriptDeployments         = "https://www.googleapis.com/auth/script.deployments"
	ScopeScriptDeploymentsReadonly = "https://www.googleapis.com/auth/script.deployments.readonly"
	ScopeScriptProcesses           = "https://www.googleapis.com/auth/script.processes"
	ScopeScriptMetrics             = "https://www.googleapis.com/auth/script.metrics"
)

// BaseScopes are always requested; the server needs them to identify the
// authenticated user.
var BaseScopes = []string{ScopeOpenID, ScopeUserinfoEmail, ScopeUserinfoProfile}

// scopeHierarchy maps broad Google scopes to the narrower scopes they
// implicitly cover. See the per-API auth guides, e.g.
// https://developers.google.com/gmail/api/auth/scopes.
var scopeHierarchy = map[string][]string{
	ScopeGmailModify:       {ScopeGmailReadonly, ScopeGmailSend, ScopeGmailCompose, ScopeGmailLabels},
	ScopeDrive:             {ScopeDriveReadonly, ScopeDriveFile},
	ScopeCalendar:          {ScopeCalendarReadonly, ScopeCalendarEvents},
	ScopeDocsWrite:         {ScopeDocsReadonly},
	ScopeSheetsWrite:       {ScopeSheetsReadonly},
	ScopeSlides:            {ScopeSlidesReadonly},
	ScopeTasks:             {ScopeTasksReadonly},
	ScopeContacts:          {ScopeContactsReadonly},
	ScopeChatMessages:      {ScopeChatMessagesReadonly},
	ScopeChatSpaces:        {ScopeChatSpacesReadonly},
	ScopeFormsBody:         {ScopeFormsBodyReadonly},
	ScopeScriptProjects:    {ScopeScriptProjectsReadonly},
	ScopeScriptDeployments: {ScopeScriptDeploymentsReadonly},
}

// HasRequiredScopes reports whether the granted scopes satisfy every
// required scope, taking the Google scope hierarchy into account (for
// example gmail.modify covers gmail.readonly).
func HasRequiredScopes(granted, required []string) bool {
	expanded := make(map[string]bool, len(granted)*2)
	for _, s := range granted {
		expanded[s] = true
		for _, covered := range scopeHierarchy[s] {
			expanded[covered] = true
		}
	}
	for _, s := range required {
		if !expanded[s] {
			return false
		}
	}
	return true
}

// MissingScopes returns the required scopes not satisfied by the granted
// set, hierarchy-aware. The result is sorted for stable messages.
func MissingScopes(granted, required []string) []string {
	expanded := make(map[string]bool, len(granted)*2)
	for _, s := range granted {
		expanded[s] = true
		for _, covered := range scopeHierarchy[s] {
			expanded[covered] = true
		}
	}
	var missing []string
	seen := make(map[string]bool)
	for _, s := range required {
		if !expanded[s] && !seen[s] {
			missing = append(missing, s)
			seen[s] = true
		}
	}
	sort.Strings(missing)
	return missing
}

// serviceScopes maps a service to the full scope group requested when the
// service is active in read-write mode.
var serviceScopes = map[Service][]string{
	ServiceGmail:    {ScopeGmailReadonly, ScopeGmailSend, ScopeGmailCompose, ScopeGmailModify, ScopeGmailLabels, ScopeGmailSettingsBasic},
	ServiceDrive:    {ScopeDrive, ScopeDriveReadonly, ScopeDriveFile},
	ServiceCalendar: {ScopeCalendar, ScopeCalendarReadonly, ScopeCalendarEvents},
	ServiceDocs:     {ScopeDocsReadonly, ScopeDocsWrite, ScopeDriveReadonly, ScopeDriveFile},
	ServiceSheets:   {ScopeSheetsReadonly, ScopeSheetsWrite, ScopeDriveReadonly},
	ServiceSlides:   {ScopeSlides, ScopeSlidesReadonly},
	ServiceForms:    {ScopeFormsBody, ScopeFormsBodyReadonly, ScopeFormsResponsesReadonly},
	ServiceTasks:    {ScopeTasks, ScopeTasksReadonly},
	ServiceContacts: {ScopeContacts, ScopeContactsReadonly},
	ServiceChat:     {ScopeChatMessagesReadonly, ScopeChatMessages, ScopeChatSpaces, ScopeChatSpacesReadonly},
	ServiceSearch:   {ScopeCustomSearch},
	ServiceScript:   {ScopeScriptProjects, ScopeScriptProjectsReadonly, ScopeScriptDeployments, ScopeScriptDeploymentsReadonly, ScopeScriptProcesses, ScopeScriptMetrics, ScopeDriveFile},
}

// serviceReadonlyScopes maps a service to the restricted scope group
// requested when read-only mode is set.
var serviceReadonlyScopes = map[Service][]string{
	ServiceGmail:    {ScopeGmailReadonly},
	ServiceDrive:    {ScopeDriveReadonly},
	ServiceCalendar: {ScopeCalendarReadonly},
	ServiceDocs:     {ScopeDocsReadonly, ScopeDriveReadonly},
	ServiceSheets:   {ScopeSheetsReadonly, ScopeDriveReadonly},
	ServiceSlides:   {ScopeSlidesReadonly},
	ServiceForms:    {ScopeFormsBodyReadonly, ScopeFormsResponsesReadonly},
	ServiceTasks:    {ScopeTasksReadonly},
	ServiceContacts: {ScopeContactsReadonly},
	ServiceChat:     {ScopeChatMessagesReadonly, ScopeChatSpacesReadonly},
	ServiceSearch:   {ScopeCustomSearch},
	ServiceScript:   {ScopeScriptProjectsReadonly, ScopeScriptDeploymentsReadonly, ScopeScriptProcesses, ScopeScriptMetrics, ScopeDriveReadonly},
}

// ScopesForService returns the scope group for a service. Read-only mode
// restricts the group to the readonly variants.
func ScopesForService(svc Service, readOnly bool) []string {
	m := serviceScopes
	if readOnly {
		m = serviceReadonlyScopes
	}
	scopes := m[svc]
	out := make([]string, len(scopes))
	copy(out, scopes)
	return out
}
