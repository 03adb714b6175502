package catalog

import (
	"fmt"
	"sort"
)

// Service identifies one Google Workspace API surface.
type Service string

const (
	ServiceGmail    Service = "gmail"
	ServiceDrive    Service = "drive"
	ServiceCalendar Service = "calendar"
	ServiceDocs     Service = "docs"
	ServiceSheets   Service = "sheets"
	ServiceSlides   Service = "slides"
	ServiceForms    Service = "forms"
	ServiceTasks    Service = "tasks"
	ServiceContacts Service = "contacts"
	ServiceChat     Service = "chat"
	ServiceSearch   Service = "search"
	ServiceScript   Service = "script"
)

// serviceVersions maps a service to the Google API version the client
// builders construct.
var serviceVersions = map[Service]string{
	ServiceGmail:    "v1",
	ServiceDrive:    "v3",
	ServiceCalendar: "v3",
	ServiceDocs:     "v1",
	ServiceSheets:   "v4",
	ServiceSlides:   "v1",
	ServiceForms:    "v1",
	ServiceTasks:    "v1",
	ServiceContacts: "v1",
	ServiceChat:     "v1",
	ServiceSearch:   "v1",
	ServiceScript:   "v1",
}

// AllServices returns every supported service in stable order.
func AllServices() []Service {
	services := make([]Service, 0, len(serviceVersions))
	for svc := range serviceVersions {
		services = append(services, svc)
	}
	sort.Slice(services, func(i, j int) bool { return services[i] < services[j] })
	return services
}

// Version returns the API version used for a service, or an error for an
// unknown service.
func Version(svc Service) (string, error) {
	v, ok := serviceVersions[svc]
	if !ok {
		return "", fmt.Errorf("unknown Google service %q", svc)
	}
	return v, nil
}

// ParseService validates a service name from configuration.
func ParseService(s string) (Service, error) {
	svc := Service(s)
	if _, ok := serviceVersions[svc]; !ok {
		return "", fmt.Errorf("unknown Google service %q", s)
	}
	return svc, nil
}

// ToolDescriptor is the static metadata for one MCP tool. Every tool has
// exactly one tier and one owning service; ReadOnly marks tools that only
// read remote state and therefore survive read-only mode.
type ToolDescriptor struct {
	Name     string
	Service  Service
	Tier     Tier
	ReadOnly bool

	// Scopes are the OAuth scopes the tool's handler requires at call
	// time. They are a subset of the owning service's scope group.
	Scopes []string
}

// Registry is the immutable set of all registered tool descriptors. It is
// built once at startup and shared by reference; nothing mutates it after
// construction.
type Registry struct {
	tools  []ToolDescriptor
	byName map[string]*ToolDescriptor
}

// NewRegistry builds a registry from descriptors. Duplicate tool names and
// descriptors referencing unknown services are rejected.
func NewRegistry(tools []ToolDescriptor) (*Registry, error) {
	r := &Registry{
		tools:  make([]ToolDescriptor, len(tools)),
		byName: make(map[string]*ToolDescriptor, len(tools)),
	}
	copy(r.tools, tools)
	for i := range r.tools {
		td := &r.tools[i]
		if td.Name == "" {
			return nil, fmt.Errorf("tool descriptor at index %d has no name", i)
		}
		if _, ok := serviceVersions[td.Service]; !ok {
			return nil, fmt.Errorf("tool %q references unknown service %q", td.Name, td.Service)
		}
		if td.Tier < TierCore || td.Tier > TierComplete {
			return nil, fmt.Errorf("tool %q has invalid tier %d", td.Name, td.Tier)
		}
		if _, dup := r.byName[td.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", td.Name)
		}
		r.byName[td.Name] = td
	}
	return r, nil
}

// Lookup returns the descriptor for a tool name.
func (r *Registry) Lookup(name string) (ToolDescriptor, bool) {
	td, ok := r.byName[name]
	if !ok {
		return ToolDescriptor{}, false
	}
	return *td, true
}

// Tools returns a copy of all descriptors.
func (r *Registry) Tools() []ToolDescriptor {
	out := make([]ToolDescriptor, len(r.tools))
	copy(out, r.tools)
	return out
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	return len(r.tools)
}
