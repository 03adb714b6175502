package gmail_tools

import (
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/api/gmail/v1"
)

// messageOptions holds the pieces of an outgoing email.
type messageOptions struct {
	To      string
	CC      string
	BCC     string
	Subject string
	Body    string
	HTML    bool
}

// buildRawMessage assembles an RFC 2822 message and encodes it the
// way the Gmail API expects (base64url, no padding).
func buildRawMessage(opts messageOptions) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "To: %s\r\n", opts.To)
	if opts.CC != "" {
		fmt.Fprintf(&sb, "Cc: %s\r\n", opts.CC)
	}
	if opts.BCC != "" {
		fmt.Fprintf(&sb, "Bcc: %s\r\n", opts.BCC)
	}
	fmt.Fprintf(&sb, "Subject: %s\r\n", opts.Subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	if opts.HTML {
		sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	} else {
		sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	}
	sb.WriteString("\r\n")
	sb.WriteString(opts.Body)

	return base64.RawURLEncoding.EncodeToString([]byte(sb.String()))
}

// extractPlainText walks a message payload and returns the first
// text/plain body it finds, falling back to text/html when no plain
// part exists. Multipart containers are searched depth-first.
func extractPlainText(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}
	if text := findPart(payload, "text/plain"); text != "" {
		return text
	}
	return findPart(payload, "text/html")
}

func findPart(part *gmail.MessagePart, mimeType string) string {
	if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
		decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(strings.TrimRight(part.Body.Data, "="))
		if err != nil {
			return ""
		}
		return string(decoded)
	}
	for _, child := range part.Parts {
		if text := findPart(child, mimeType); text != "" {
			return text
		}
	}
	return ""
}
