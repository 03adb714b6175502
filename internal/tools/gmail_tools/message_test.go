package gmail_tools

import (
	"encoding/base64"
	"strings"
	"testing"

	"google.golang.org/api/gmail/v1"
)

func TestBuildRawMessage(t *testing.T) {
	raw := buildRawMessage(messageOptions{
		To:      "alice@example.com",
		CC:      "bob@example.com",
		Subject: "Hello",
		Body:    "Hi Alice,\nsee you soon.",
	})

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("raw message is not base64url: %v", err)
	}
	msg := string(decoded)

	for _, want := range []string{
		"To: alice@example.com\r\n",
		"Cc: bob@example.com\r\n",
		"Subject: Hello\r\n",
		"Content-Type: text/plain",
		"\r\n\r\nHi Alice,\nsee you soon.",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "Bcc:") {
		t.Errorf("unexpected Bcc header without bcc option:\n%s", msg)
	}
}

func TestBuildRawMessageHTML(t *testing.T) {
	raw := buildRawMessage(messageOptions{
		To:      "alice@example.com",
		Subject: "Hello",
		Body:    "<p>Hi</p>",
		HTML:    true,
	})

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("raw message is not base64url: %v", err)
	}
	if !strings.Contains(string(decoded), "Content-Type: text/html") {
		t.Errorf("expected html content type:\n%s", decoded)
	}
}

func encodeBody(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestExtractPlainTextSimple(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "text/plain",
		Body:     &gmail.MessagePartBody{Data: encodeBody("plain body")},
	}
	if got := extractPlainText(payload); got != "plain body" {
		t.Errorf("extractPlainText = %q, want %q", got, "plain body")
	}
}

func TestExtractPlainTextMultipart(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmail.MessagePart{
			{
				MimeType: "text/html",
				Body:     &gmail.MessagePartBody{Data: encodeBody("<p>html body</p>")},
			},
			{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: encodeBody("plain body")},
			},
		},
	}
	if got := extractPlainText(payload); got != "plain body" {
		t.Errorf("extractPlainText = %q, want plain part, got %q", got, got)
	}
}

func TestExtractPlainTextFallsBackToHTML(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmail.MessagePart{
			{
				MimeType: "text/html",
				Body:     &gmail.MessagePartBody{Data: encodeBody("<p>only html</p>")},
			},
		},
	}
	if got := extractPlainText(payload); got != "<p>only html</p>" {
		t.Errorf("extractPlainText = %q, want html fallback", got)
	}
}

func TestExtractPlainTextNested(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmail.MessagePart{
			{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{
						MimeType: "text/plain",
						Body:     &gmail.MessagePartBody{Data: encodeBody("nested plain")},
					},
				},
			},
		},
	}
	if got := extractPlainText(payload); got != "nested plain" {
		t.Errorf("extractPlainText = %q, want %q", got, "nested plain")
	}
}

func TestExtractPlainTextNilPayload(t *testing.T) {
	if got := extractPlainText(nil); got != "" {
		t.Errorf("extractPlainText(nil) = %q, want empty", got)
	}
}

func TestHeaderValue(t *testing.T) {
	payload := &gmail.MessagePart{
		Headers: []*gmail.MessagePartHeader{
			{Name: "From", Value: "alice@example.com"},
			{Name: "subject", Value: "hi"},
		},
	}
	if got := headerValue(payload, "From"); got != "alice@example.com" {
		t.Errorf("headerValue(From) = %q", got)
	}
	if got := headerValue(payload, "Subject"); got != "hi" {
		t.Errorf("headerValue is not case-insensitive: %q", got)
	}
	if got := headerValue(payload, "To"); got != "" {
		t.Errorf("headerValue(missing) = %q, want empty", got)
	}
	if got := headerValue(nil, "From"); got != "" {
		t.Errorf("headerValue(nil) = %q, want empty", got)
	}
}
