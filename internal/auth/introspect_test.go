package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestIntrospect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		if got := r.Form.Get("access_token"); got != "test-token" {
			t.Errorf("access_token = %q, want test-token", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"email": "alice@example.com",
			"email_verified": "true",
			"scope": "scope-a scope-b",
			"aud": "client-id",
			"expires_in": "3599"
		}`))
	}))
	defer srv.Close()

	info, err := NewIntrospectorWithEndpoint(nil, srv.URL).Introspect(context.Background(), "test-token")
	if err != nil {
		t.Fatalf("Introspect() error = %v", err)
	}
	if info.Email != "alice@example.com" || !info.EmailVerified {
		t.Errorf("identity = %q verified=%v", info.Email, info.EmailVerified)
	}
	if !reflect.DeepEqual(info.Scopes, []string{"scope-a", "scope-b"}) {
		t.Errorf("Scopes = %v", info.Scopes)
	}
	if info.Audience != "client-id" {
		t.Errorf("Audience = %q", info.Audience)
	}
	if info.Expiry.IsZero() {
		t.Error("Expiry not set")
	}
}

func TestIntrospectRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_token"}`))
	}))
	defer srv.Close()

	if _, err := NewIntrospectorWithEndpoint(nil, srv.URL).Introspect(context.Background(), "bad"); err == nil {
		t.Error("Introspect() accepted a rejected token")
	}
}
