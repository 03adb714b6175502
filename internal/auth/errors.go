package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

// AuthRequiredError signals that the user has no usable credential and
// must complete (or repeat) the OAuth flow. It carries everything a
// client needs to start that flow.
type AuthRequiredError struct {
	// Email is the affected account, empty when no identity was
	// resolved at all.
	Email string

	// MissingScopes lists scopes the current grant does not cover,
	// when scope insufficiency is the reason.
	MissingScopes []string

	// AuthURL is the authorization URL the user should visit.
	AuthURL string

	// Reason is a short human-readable explanation.
	Reason string
}

func (e *AuthRequiredError) Error() string {
	var b strings.Builder
	b.WriteString("authentication required")
	if e.Email != "" {
		fmt.Fprintf(&b, " for %s", e.Email)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if len(e.MissingScopes) > 0 {
		fmt.Fprintf(&b, " (missing scopes: %s)", strings.Join(e.MissingScopes, ", "))
	}
	return b.String()
}

// IsAuthRequired reports whether err (or anything it wraps) is an
// AuthRequiredError.
func IsAuthRequired(err error) bool {
	var authErr *AuthRequiredError
	return errors.As(err, &authErr)
}

// AsAuthRequired unwraps err to an AuthRequiredError if present.
func AsAuthRequired(err error) (*AuthRequiredError, bool) {
	var authErr *AuthRequiredError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

// IsInvalidGrant reports whether a token endpoint error means the
// refresh token itself is dead (revoked, expired, or the consent was
// withdrawn). Such tokens can never recover and must be discarded.
func IsInvalidGrant(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) {
		return false
	}
	if retrieveErr.ErrorCode == "invalid_grant" {
		return true
	}
	// Older endpoint responses leave ErrorCode unset and only carry
	// the JSON body.
	return strings.Contains(string(retrieveErr.Body), "invalid_grant")
}
