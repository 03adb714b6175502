package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/giantswarm/mcp-oauth/storage/memory"
)

func TestValidateHTTPSRequirement(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"https", "https://mcp.example.com", false},
		{"http localhost", "http://localhost:8080", false},
		{"http loopback v4", "http://127.0.0.1:8080", false},
		{"http loopback v6", "http://[::1]:8080", false},
		{"http public host", "http://mcp.example.com", true},
		{"no scheme", "mcp.example.com", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateHTTPSRequirement(tt.baseURL)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateHTTPSRequirement(%q) error = %v, wantErr %v", tt.baseURL, err, tt.wantErr)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	r, _ := http.NewRequest(http.MethodPost, "/mcp", nil)
	if got := bearerToken(r); got != "" {
		t.Errorf("bearerToken without header = %q, want empty", got)
	}

	r.Header.Set("Authorization", "Bearer abc123")
	if got := bearerToken(r); got != "abc123" {
		t.Errorf("bearerToken = %q, want abc123", got)
	}

	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	if got := bearerToken(r); got != "" {
		t.Errorf("bearerToken with basic auth = %q, want empty", got)
	}
}

func TestRequestScopesIncludeIdentity(t *testing.T) {
	sc := newTestContext(t)

	scopes := requestScopes(sc)
	joined := strings.Join(scopes, " ")
	if !strings.Contains(joined, "userinfo.email") {
		t.Errorf("expected userinfo.email scope, got %v", scopes)
	}
	if !strings.Contains(joined, "gmail") {
		t.Errorf("expected Workspace scopes from the active tool set, got %v", scopes)
	}
}

func TestIdentityMiddlewareResolvesAccountFromSessionBinding(t *testing.T) {
	sc := newTestContext(t)
	sc.Sessions().Bind("session-token", "alice@example.com")

	s := &OAuthHTTPServer{sc: sc, tokenStore: memory.New()}

	var seen string
	handler := s.identityMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserEmailFromContext(r.Context())
	}))

	// Token validated upstream but no identity claims on the context;
	// the middleware must fall back to the bearer's session binding.
	r := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	r.Header.Set("Authorization", "Bearer session-token")
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if seen != "alice@example.com" {
		t.Errorf("resolved account = %q, want alice@example.com", seen)
	}

	// An unbound bearer yields no identity.
	seen = ""
	r = httptest.NewRequest(http.MethodPost, "/mcp", nil)
	r.Header.Set("Authorization", "Bearer unknown-token")
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if seen != "" {
		t.Errorf("resolved account for unbound bearer = %q, want empty", seen)
	}
}
