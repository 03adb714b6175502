package clients

import (
	"context"
	"fmt"

	calendar "google.golang.org/api/calendar/v3"
	chat "google.golang.org/api/chat/v1"
	customsearch "google.golang.org/api/customsearch/v1"
	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
	forms "google.golang.org/api/forms/v1"
	gmail "google.golang.org/api/gmail/v1"
	people "google.golang.org/api/people/v1"
	script "google.golang.org/api/script/v1"
	sheets "google.golang.org/api/sheets/v4"
	slides "google.golang.org/api/slides/v1"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/credentials"
)

// Handle bundles the API clients a single tool invocation needs, all
// built for the same user from the same credential. Either every
// requested service is present or the Handle was never created.
type Handle struct {
	email   string
	clients map[catalog.Service]any
}

// NewHandle builds a handle covering the given services from the
// cache. It fails as a whole if any service cannot be built, so a tool
// never runs with a partial set.
func NewHandle(ctx context.Context, cache *Cache, cred *credentials.Credential, services ...catalog.Service) (*Handle, error) {
	h := &Handle{
		email:   credentials.NormalizeEmail(cred.Email),
		clients: make(map[catalog.Service]any, len(services)),
	}
	for _, svc := range services {
		client, err := cache.GetOrBuild(ctx, cred, svc)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s client: %w", svc, err)
		}
		h.clients[svc] = client
	}
	return h, nil
}

// Email returns the account this handle authenticates as.
func (h *Handle) Email() string {
	return h.email
}

// Has reports whether the handle carries a client for svc.
func (h *Handle) Has(svc catalog.Service) bool {
	_, ok := h.clients[svc]
	return ok
}

// The typed accessors panic when the handle does not carry the
// service; tools declare their services up front, so reaching a
// missing one is a programming error, not a runtime condition.

func (h *Handle) Gmail() *gmail.Service {
	return h.clients[catalog.ServiceGmail].(*gmail.Service)
}

func (h *Handle) Drive() *drive.Service {
	return h.clients[catalog.ServiceDrive].(*drive.Service)
}

func (h *Handle) Calendar() *calendar.Service {
	return h.clients[catalog.ServiceCalendar].(*calendar.Service)
}

func (h *Handle) Docs() *docs.Service {
	return h.clients[catalog.ServiceDocs].(*docs.Service)
}

func (h *Handle) Sheets() *sheets.Service {
	return h.clients[catalog.ServiceSheets].(*sheets.Service)
}

func (h *Handle) Slides() *slides.Service {
	return h.clients[catalog.ServiceSlides].(*slides.Service)
}

func (h *Handle) Forms() *forms.Service {
	return h.clients[catalog.ServiceForms].(*forms.Service)
}

func (h *Handle) Tasks() *tasks.Service {
	return h.clients[catalog.ServiceTasks].(*tasks.Service)
}

func (h *Handle) People() *people.Service {
	return h.clients[catalog.ServiceContacts].(*people.Service)
}

func (h *Handle) Chat() *chat.Service {
	return h.clients[catalog.ServiceChat].(*chat.Service)
}

func (h *Handle) CustomSearch() *customsearch.Service {
	return h.clients[catalog.ServiceSearch].(*customsearch.Service)
}

func (h *Handle) Script() *script.Service {
	return h.clients[catalog.ServiceScript].(*script.Service)
}
