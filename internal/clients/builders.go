package clients

import (
	"context"
	"fmt"
	"net/http"

	calendar "google.golang.org/api/calendar/v3"
	chat "google.golang.org/api/chat/v1"
	customsearch "google.golang.org/api/customsearch/v1"
	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
	forms "google.golang.org/api/forms/v1"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	people "google.golang.org/api/people/v1"
	script "google.golang.org/api/script/v1"
	sheets "google.golang.org/api/sheets/v4"
	slides "google.golang.org/api/slides/v1"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/teemow/workspace-mcp/internal/catalog"
)

// build constructs the API client for one service using an already
// authenticated HTTP client.
func build(ctx context.Context, svc catalog.Service, hc *http.Client) (any, error) {
	switch svc {
	case catalog.ServiceGmail:
		return gmail.NewService(ctx, option.WithHTTPClient(hc))
	case catalog.ServiceDrive:
		return drive.NewService(ctx, option.WithHTTPClient(hc))
	case catalog.ServiceCalendar:
		return calendar.NewService(ctx, option.WithHTTPClient(hc))
	case catalog.ServiceDocs:
		return docs.NewService(ctx, option.WithHTTPClient(hc))
	case catalog.ServiceSheets:
		return sheets.NewService(ctx, option.WithHTTPClient(hc))
	case catalog.ServiceSlides:
		return slides.NewService(ctx, option.WithHTTPClient(hc))
	case catalog.ServiceForms:
		return forms.NewService(ctx, option.WithHTTPClient(hc))
	case catalog.ServiceTasks:
		return tasks.NewService(ctx, option.WithHTTPClient(hc))
	case catalog.ServiceContacts:
		return people.NewService(ctx, option.WithHTTPClient(hc))
	case catalog.ServiceChat:
		return chat.NewService(ctx, option.WithHTTPClient(hc))
	case catalog.ServiceSearch:
		return customsearch.NewService(ctx, option.WithHTTPClient(hc))
	case catalog.ServiceScript:
		return script.NewService(ctx, option.WithHTTPClient(hc))
	default:
		return nil, fmt.Errorf("no client builder for service %q", svc)
	}
}
