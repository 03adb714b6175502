package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func probeResponse(t *testing.T, handler http.Handler) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return rec.Code, body
}

func TestLivenessHandler(t *testing.T) {
	h := NewHealthChecker(nil)

	code, body := probeResponse(t, h.LivenessHandler())
	if code != http.StatusOK {
		t.Errorf("status = %d, want 200", code)
	}
	if body.Status != healthStatusOK {
		t.Errorf("body status = %q", body.Status)
	}
}

func TestReadinessHandler(t *testing.T) {
	h := NewHealthChecker(nil)

	code, body := probeResponse(t, h.ReadinessHandler())
	if code != http.StatusOK {
		t.Errorf("status = %d, want 200", code)
	}
	if body.Checks["ready"] != healthStatusOK {
		t.Errorf("ready check = %q", body.Checks["ready"])
	}

	h.SetReady(false)
	code, body = probeResponse(t, h.ReadinessHandler())
	if code != http.StatusServiceUnavailable {
		t.Errorf("status after SetReady(false) = %d, want 503", code)
	}
	if body.Status != healthStatusNotReady {
		t.Errorf("body status = %q", body.Status)
	}
	if body.Checks["ready"] != healthStatusNotReady {
		t.Errorf("ready check = %q", body.Checks["ready"])
	}
}

func TestReadinessHandlerChecksCredentialStore(t *testing.T) {
	sc := newTestContext(t)
	h := NewHealthChecker(sc)

	code, body := probeResponse(t, h.ReadinessHandler())
	if code != http.StatusOK {
		t.Errorf("status = %d, want 200", code)
	}
	if body.Checks["credential_store"] != healthStatusOK {
		t.Errorf("credential_store check = %q", body.Checks["credential_store"])
	}
}

func TestDetailedHealthHandler(t *testing.T) {
	h := NewHealthChecker(nil)

	code, body := probeResponse(t, h.DetailedHealthHandler())
	if code != http.StatusOK {
		t.Errorf("status = %d, want 200", code)
	}
	if body.Uptime == "" {
		t.Error("uptime should be reported")
	}

	h.SetReady(false)
	if code, _ := probeResponse(t, h.DetailedHealthHandler()); code != http.StatusServiceUnavailable {
		t.Errorf("status after SetReady(false) = %d, want 503", code)
	}
}
