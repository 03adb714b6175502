package instrumentation

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

const (
	testAccount   = "jane@example.com"
	testDomain    = "example.com"
	testToolGmail = "gmail_search_messages"
	testToolDrive = "drive_search_files"
)

func TestToolInvocationLifecycle(t *testing.T) {
	ti := NewToolInvocation(testToolGmail).
		WithAccount(testAccount).
		WithService(ServiceGmail, OperationSearch)

	if ti.StartTime.IsZero() {
		t.Error("StartTime should be set")
	}

	ti.CompleteSuccess()

	if !ti.Success {
		t.Error("Success should be true")
	}
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}
	if ti.Error != "" {
		t.Errorf("Error = %q, want empty", ti.Error)
	}
	if ti.Status() != StatusSuccess {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusSuccess)
	}
	if ti.AccountDomain() != testDomain {
		t.Errorf("AccountDomain() = %q, want %q", ti.AccountDomain(), testDomain)
	}
}

func TestToolInvocationCompleteWithError(t *testing.T) {
	ti := NewToolInvocation(testToolDrive)
	ti.CompleteWithError(errors.New("permission denied"))

	if ti.Success {
		t.Error("Success should be false")
	}
	if ti.Error != "permission denied" {
		t.Errorf("Error = %q", ti.Error)
	}
	if ti.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusError)
	}
}

func attrMap(attrs []slog.Attr) map[string]slog.Value {
	m := make(map[string]slog.Value, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value
	}
	return m
}

func TestLogAttrsAnonymizeAccount(t *testing.T) {
	ti := NewToolInvocation(testToolDrive).
		WithAccount(testAccount).
		WithService(ServiceDrive, OperationList)
	ti.CompleteSuccess()

	m := attrMap(ti.LogAttrs())

	if got := m["account_domain"].String(); got != testDomain {
		t.Errorf("account_domain = %q, want %q", got, testDomain)
	}
	if _, ok := m["account"]; ok {
		t.Error("LogAttrs must not expose the account email")
	}
	if got := m["account_hash"].String(); strings.Contains(got, testAccount) {
		t.Errorf("account_hash %q leaks the email", got)
	}
	if got := m["service"].String(); got != ServiceDrive {
		t.Errorf("service = %q, want %q", got, ServiceDrive)
	}
	if got := m["operation"].String(); got != OperationList {
		t.Errorf("operation = %q, want %q", got, OperationList)
	}
}

func TestAuditAttrsIncludeAccount(t *testing.T) {
	ti := NewToolInvocation(testToolGmail).
		WithAccount(testAccount).
		WithService(ServiceGmail, OperationSend)
	ti.CompleteWithError(errors.New("quota exceeded"))

	m := attrMap(ti.AuditAttrs())

	if got := m["account"].String(); got != testAccount {
		t.Errorf("account = %q, want %q", got, testAccount)
	}
	if got := m["error"].String(); got != "quota exceeded" {
		t.Errorf("error = %q", got)
	}
}

func auditLoggerForTest(buf *bytes.Buffer, config AuditLoggingConfig) *AuditLogger {
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	return NewAuditLoggerWithConfig(logger, config)
}

func TestAuditLoggerRespectsPIISetting(t *testing.T) {
	tests := []struct {
		name       string
		includePII bool
		wantEmail  bool
	}{
		{"anonymized by default", false, false},
		{"full email when configured", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			al := auditLoggerForTest(&buf, AuditLoggingConfig{Enabled: true, IncludePII: tt.includePII})

			ti := NewToolInvocation(testToolGmail).WithAccount(testAccount)
			ti.CompleteSuccess()
			al.LogToolInvocation(ti)

			got := strings.Contains(buf.String(), testAccount)
			if got != tt.wantEmail {
				t.Errorf("output contains email = %v, want %v\noutput: %s", got, tt.wantEmail, buf.String())
			}
		})
	}
}

func TestAuditLoggerDisabled(t *testing.T) {
	var buf bytes.Buffer
	al := auditLoggerForTest(&buf, AuditLoggingConfig{Enabled: false})

	ti := NewToolInvocation(testToolGmail).WithAccount(testAccount)
	ti.CompleteSuccess()
	al.LogToolInvocation(ti)

	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote output: %s", buf.String())
	}
}

func TestAuditLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	al := auditLoggerForTest(&buf, AuditLoggingConfig{Enabled: true})

	success := NewToolInvocation(testToolGmail)
	success.CompleteSuccess()
	al.LogToolInvocation(success)

	failure := NewToolInvocation(testToolGmail)
	failure.CompleteWithError(errors.New("boom"))
	al.LogToolInvocation(failure)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2", len(lines))
	}

	var first, second map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first line is not JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("second line is not JSON: %v", err)
	}

	if first["msg"] != "tool_executed" || first["level"] != "INFO" {
		t.Errorf("success record = %v", first)
	}
	if second["msg"] != "tool_failed" || second["level"] != "WARN" {
		t.Errorf("failure record = %v", second)
	}
}

func TestSetEnabledAndSetIncludePII(t *testing.T) {
	var buf bytes.Buffer
	al := auditLoggerForTest(&buf, AuditLoggingConfig{Enabled: true})

	al.SetEnabled(false)
	ti := NewToolInvocation(testToolGmail).WithAccount(testAccount)
	ti.CompleteSuccess()
	al.LogToolInvocation(ti)
	if buf.Len() != 0 {
		t.Fatal("expected no output after SetEnabled(false)")
	}

	al.SetEnabled(true)
	al.SetIncludePII(true)
	al.LogToolInvocation(ti)
	if !strings.Contains(buf.String(), testAccount) {
		t.Error("expected full email after SetIncludePII(true)")
	}
}
