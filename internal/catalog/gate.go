package catalog

import "sort"

// Selection is the startup configuration the gate evaluates: an optional
// explicit service filter, the maximum tool tier, and the read-only flag.
type Selection struct {
	// Services restricts the active set to these services. Empty means
	// all services.
	Services []Service

	// Tier is the maximum tier to expose. Tools above it are inactive.
	Tier Tier

	// ReadOnly drops every tool that can write remote state and
	// restricts requested scopes to the readonly variants.
	ReadOnly bool
}

// ActiveTools resolves the set of tools active under a selection. A tool
// is active when its tier does not exceed the selected tier, its service
// passes the filter, and, in read-only mode, it is marked read-only.
// Deterministic and free of I/O; a service whose tools are all filtered
// out simply contributes nothing.
func ActiveTools(r *Registry, sel Selection) []ToolDescriptor {
	var filter map[Service]bool
	if len(sel.Services) > 0 {
		filter = make(map[Service]bool, len(sel.Services))
		for _, svc := range sel.Services {
			filter[svc] = true
		}
	}

	var active []ToolDescriptor
	for _, td := range r.Tools() {
		if td.Tier > sel.Tier {
			continue
		}
		if filter != nil && !filter[td.Service] {
			continue
		}
		if sel.ReadOnly && !td.ReadOnly {
			continue
		}
		active = append(active, td)
	}
	return active
}

// RequiredScopes computes the OAuth scopes to request for a set of active
// tools: the base identity scopes plus the union of the scope groups of
// every service that contributes at least one active tool. In read-only
// mode the groups are restricted to their readonly variants. The result is
// sorted and de-duplicated so it can serve as a canonical consent request.
func RequiredScopes(active []ToolDescriptor, readOnly bool) []string {
	seen := make(map[string]bool)
	var scopes []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			scopes = append(scopes, s)
		}
	}

	for _, s := range BaseScopes {
		add(s)
	}

	services := make(map[Service]bool)
	for _, td := range active {
		services[td.Service] = true
	}
	for svc := range services {
		for _, s := range ScopesForService(svc, readOnly) {
			add(s)
		}
	}

	sort.Strings(scopes)
	return scopes
}

// ActiveSet is a resolved selection with constant-time membership checks,
// handed to the tool packages at registration time.
type ActiveSet struct {
	selection Selection
	tools     map[string]ToolDescriptor
}

// NewActiveSet resolves a selection against a registry.
func NewActiveSet(r *Registry, sel Selection) *ActiveSet {
	active := ActiveTools(r, sel)
	set := &ActiveSet{
		selection: sel,
		tools:     make(map[string]ToolDescriptor, len(active)),
	}
	for _, td := range active {
		set.tools[td.Name] = td
	}
	return set
}

// Enabled reports whether a tool is active.
func (s *ActiveSet) Enabled(name string) bool {
	_, ok := s.tools[name]
	return ok
}

// Descriptor returns the active descriptor for a tool name.
func (s *ActiveSet) Descriptor(name string) (ToolDescriptor, bool) {
	td, ok := s.tools[name]
	return td, ok
}

// Tools returns the active descriptors in stable name order.
func (s *ActiveSet) Tools() []ToolDescriptor {
	out := make([]ToolDescriptor, 0, len(s.tools))
	for _, td := range s.tools {
		out = append(out, td)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Selection returns the selection this set was resolved from.
func (s *ActiveSet) Selection() Selection {
	return s.selection
}

// Len returns the number of active tools.
func (s *ActiveSet) Len() int {
	return len(s.tools)
}

// Scopes returns the canonical consent scopes for this active set.
func (s *ActiveSet) Scopes() []string {
	return RequiredScopes(s.Tools(), s.selection.ReadOnly)
}
