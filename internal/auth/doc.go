// Package auth owns the Google OAuth token lifecycle: building the
// authorization flow, exchanging and refreshing tokens, and deciding
// when a caller has to go back through consent.
//
// The Manager is the entry point. It hands out credentials that are
// guaranteed to stay valid for at least the configured skew, refreshing
// behind a single-flight group so concurrent requests for the same user
// trigger at most one refresh against Google.
package auth
