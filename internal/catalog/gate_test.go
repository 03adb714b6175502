package catalog

import (
	"strings"
	"testing"
)

func activeNames(tools []ToolDescriptor) map[string]bool {
	names := make(map[string]bool, len(tools))
	for _, td := range tools {
		names[td.Name] = true
	}
	return names
}

func TestActiveToolsTierMonotonicity(t *testing.T) {
	r := DefaultRegistry()

	filters := [][]Service{
		nil,
		{ServiceGmail},
		{ServiceGmail, ServiceDrive, ServiceChat},
	}

	for _, services := range filters {
		for _, readOnly := range []bool{false, true} {
			core := activeNames(ActiveTools(r, Selection{Services: services, Tier: TierCore, ReadOnly: readOnly}))
			extended := activeNames(ActiveTools(r, Selection{Services: services, Tier: TierExtended, ReadOnly: readOnly}))
			complete := activeNames(ActiveTools(r, Selection{Services: services, Tier: TierComplete, ReadOnly: readOnly}))

			for name := range core {
				if !extended[name] {
					t.Errorf("tool %s active under core but not extended (services=%v readOnly=%v)", name, services, readOnly)
				}
			}
			for name := range extended {
				if !complete[name] {
					t.Errorf("tool %s active under extended but not complete (services=%v readOnly=%v)", name, services, readOnly)
				}
			}
		}
	}
}

func TestActiveToolsReadOnlyFiltering(t *testing.T) {
	r := DefaultRegistry()

	for _, tier := range []Tier{TierCore, TierExtended, TierComplete} {
		active := ActiveTools(r, Selection{Tier: tier, ReadOnly: true})
		for _, td := range active {
			if !td.ReadOnly {
				t.Errorf("write-capable tool %s active in read-only mode (tier=%s)", td.Name, tier)
			}
		}
	}
}

func TestActiveToolsServiceFilter(t *testing.T) {
	r := DefaultRegistry()

	active := ActiveTools(r, Selection{Services: []Service{ServiceSheets}, Tier: TierComplete})
	if len(active) == 0 {
		t.Fatal("expected sheets tools to be active")
	}
	for _, td := range active {
		if td.Service != ServiceSheets {
			t.Errorf("tool %s from service %s active despite sheets-only filter", td.Name, td.Service)
		}
	}
}

func TestActiveToolsReadOnlyFiltersOutWholeService(t *testing.T) {
	// A service whose active tools are all write-capable must contribute
	// nothing in read-only mode without erroring.
	reg, err := NewRegistry([]ToolDescriptor{
		{Name: "docs_write_only", Service: ServiceDocs, Tier: TierCore, ReadOnly: false, Scopes: []string{ScopeDocsWrite}},
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	active := ActiveTools(reg, Selection{Services: []Service{ServiceDocs}, Tier: TierComplete, ReadOnly: true})
	if len(active) != 0 {
		t.Errorf("expected empty active set, got %d tools", len(active))
	}
}

func TestRequiredScopesReadOnly(t *testing.T) {
	r := DefaultRegistry()
	active := ActiveTools(r, Selection{Tier: TierComplete, ReadOnly: true})

	scopes := RequiredScopes(active, true)
	for _, s := range scopes {
		switch s {
		case ScopeOpenID, ScopeUserinfoEmail, ScopeUserinfoProfile, ScopeCustomSearch,
			ScopeScriptProcesses, ScopeScriptMetrics, ScopeFormsResponsesReadonly:
			continue
		}
		if !strings.Contains(s, "readonly") {
			t.Errorf("read-only mode requested non-readonly scope %s", s)
		}
	}
}

func TestRequiredScopesIncludesBase(t *testing.T) {
	scopes := RequiredScopes(nil, false)
	want := map[string]bool{ScopeOpenID: false, ScopeUserinfoEmail: false, ScopeUserinfoProfile: false}
	for _, s := range scopes {
		if _, ok := want[s]; ok {
			want[s] = true
		}
	}
	for s, found := range want {
		if !found {
			t.Errorf("base scope %s missing from consent request", s)
		}
	}
}

func TestRequiredScopesUnion(t *testing.T) {
	r := DefaultRegistry()
	active := ActiveTools(r, Selection{Services: []Service{ServiceGmail, ServiceTasks}, Tier: TierComplete})

	scopes := RequiredScopes(active, false)
	got := make(map[string]bool, len(scopes))
	for _, s := range scopes {
		got[s] = true
	}

	for _, s := range []string{ScopeGmailSend, ScopeGmailModify, ScopeTasks} {
		if !got[s] {
			t.Errorf("expected scope %s in union for gmail+tasks", s)
		}
	}
	if got[ScopeDrive] {
		t.Error("drive scope requested although drive has no active tools")
	}
}

func TestActiveSet(t *testing.T) {
	r := DefaultRegistry()
	set := NewActiveSet(r, Selection{Tier: TierCore})

	if !set.Enabled("gmail_search_messages") {
		t.Error("gmail_search_messages should be enabled at core tier")
	}
	if set.Enabled("chat_send_message") {
		t.Error("chat_send_message is complete tier, must not be enabled at core")
	}

	td, ok := set.Descriptor("gmail_send_message")
	if !ok {
		t.Fatal("gmail_send_message descriptor missing at core tier")
	}
	if td.Service != ServiceGmail || td.ReadOnly {
		t.Errorf("unexpected descriptor %+v", td)
	}
}

func TestDefaultRegistrySanity(t *testing.T) {
	r := DefaultRegistry()
	if r.Len() == 0 {
		t.Fatal("default registry is empty")
	}

	covered := make(map[Service]bool)
	for _, td := range r.Tools() {
		covered[td.Service] = true
		if len(td.Scopes) == 0 {
			t.Errorf("tool %s declares no scopes", td.Name)
		}
		group := append(ScopesForService(td.Service, false), ScopesForService(td.Service, true)...)
		for _, s := range td.Scopes {
			if !HasRequiredScopes(group, []string{s}) {
				t.Errorf("tool %s requires scope %s outside its service group", td.Name, s)
			}
		}
	}

	for _, svc := range AllServices() {
		if !covered[svc] {
			t.Errorf("service %s has no registered tools", svc)
		}
	}
}
