package contacts_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/people/v1"

	"github.com/teemow/workspace-mcp/internal/clients"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

const (
	defaultMaxResults = 10
	personFields      = "names,emailAddresses,phoneNumbers,organizations"
)

func handleSearchContacts(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return common.ErrorResult("query parameter is required"), nil
	}

	maxResults := int64(defaultMaxResults)
	if mr, ok := args["maxResults"].(float64); ok && mr > 0 {
		maxResults = int64(mr)
		// the People API caps searchContacts page size at 30
		if maxResults > 30 {
			maxResults = 30
		}
	}

	resp, err := h.People().People.SearchContacts().
		Query(query).
		PageSize(maxResults).
		ReadMask(personFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}

	if len(resp.Results) == 0 {
		return common.TextResult("No contacts found matching: %s", query), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d contact(s):\n\n", len(resp.Results))
	for i, result := range resp.Results {
		fmt.Fprintf(&sb, "%d. %s\n\n", i+1, formatPerson(result.Person))
	}

	return common.TextResult("%s", sb.String()), nil
}

func handleGetContact(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	resourceName, ok := args["resourceName"].(string)
	if !ok || resourceName == "" {
		return common.ErrorResult("resourceName parameter is required"), nil
	}
	if !strings.HasPrefix(resourceName, "people/") {
		return common.ErrorResult("resourceName must look like 'people/c123456789'"), nil
	}

	person, err := h.People().People.Get(resourceName).
		PersonFields(personFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get contact %s: %w", resourceName, err)
	}

	return common.TextResult("%s", formatPerson(person)), nil
}

func formatPerson(p *people.Person) string {
	if p == nil {
		return "(no contact data)"
	}

	var sb strings.Builder
	name := "(no name)"
	if len(p.Names) > 0 && p.Names[0].DisplayName != "" {
		name = p.Names[0].DisplayName
	}
	sb.WriteString(name)
	fmt.Fprintf(&sb, "\n   Resource: %s", p.ResourceName)
	for _, email := range p.EmailAddresses {
		fmt.Fprintf(&sb, "\n   Email: %s", email.Value)
	}
	for _, phone := range p.PhoneNumbers {
		fmt.Fprintf(&sb, "\n   Phone: %s", phone.Value)
	}
	for _, org := range p.Organizations {
		if org.Name != "" {
			fmt.Fprintf(&sb, "\n   Organization: %s", org.Name)
		}
	}
	return sb.String()
}
