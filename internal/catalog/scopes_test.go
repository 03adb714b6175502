package catalog

import (
	"reflect"
	"testing"
)

func TestHasRequiredScopes(t *testing.T) {
	tests := []struct {
		name     string
		granted  []string
		required []string
		want     bool
	}{
		{
			name:     "exact match",
			granted:  []string{ScopeGmailReadonly},
			required: []string{ScopeGmailReadonly},
			want:     true,
		},
		{
			name:     "modify covers readonly and send",
			granted:  []string{ScopeGmailModify},
			required: []string{ScopeGmailReadonly, ScopeGmailSend},
			want:     true,
		},
		{
			name:     "drive covers drive.file",
			granted:  []string{ScopeDrive},
			required: []string{ScopeDriveFile},
			want:     true,
		},
		{
			name:     "readonly does not cover send",
			granted:  []string{ScopeGmailReadonly},
			required: []string{ScopeGmailSend},
			want:     false,
		},
		{
			name:     "narrow does not cover broad",
			granted:  []string{ScopeDriveReadonly},
			required: []string{ScopeDrive},
			want:     false,
		},
		{
			name:     "empty required always satisfied",
			granted:  nil,
			required: nil,
			want:     true,
		},
		{
			name:     "empty granted fails",
			granted:  nil,
			required: []string{ScopeTasksReadonly},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasRequiredScopes(tt.granted, tt.required); got != tt.want {
				t.Errorf("HasRequiredScopes(%v, %v) = %v, want %v", tt.granted, tt.required, got, tt.want)
			}
		})
	}
}

func TestMissingScopes(t *testing.T) {
	missing := MissingScopes(
		[]string{ScopeGmailReadonly},
		[]string{ScopeGmailSend, ScopeGmailReadonly, ScopeCalendarEvents},
	)
	want := []string{ScopeCalendarEvents, ScopeGmailSend}
	if !reflect.DeepEqual(missing, want) {
		t.Errorf("MissingScopes() = %v, want %v", missing, want)
	}

	if got := MissingScopes([]string{ScopeGmailModify}, []string{ScopeGmailSend}); len(got) != 0 {
		t.Errorf("MissingScopes() = %v, want none (hierarchy covers send)", got)
	}
}

func TestScopesForServiceReturnsCopy(t *testing.T) {
	a := ScopesForService(ServiceGmail, false)
	a[0] = "mutated"
	b := ScopesForService(ServiceGmail, false)
	if b[0] == "mutated" {
		t.Error("ScopesForService leaked internal slice")
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		in      string
		want    Tier
		wantErr bool
	}{
		{"", TierCore, false},
		{"core", TierCore, false},
		{"extended", TierExtended, false},
		{"complete", TierComplete, false},
		{"everything", TierCore, true},
	}
	for _, tt := range tests {
		got, err := ParseTier(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTier(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseTier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseService(t *testing.T) {
	if _, err := ParseService("gmail"); err != nil {
		t.Errorf("ParseService(gmail) error = %v", err)
	}
	if _, err := ParseService("fax"); err == nil {
		t.Error("ParseService(fax) expected error")
	}
}
