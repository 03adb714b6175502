package credentials

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no credential exists for a user. Stores
// also return it for records that exist but cannot be decoded, so the
// caller always sees the same signal: re-authentication is required.
var ErrNotFound = errors.New("credential not found")

// Store persists credentials keyed by user email.
//
// Implementations must be safe for concurrent use and must return
// defensive copies: mutating a returned credential never changes
// stored state.
type Store interface {
	// Get returns the credential for email, or ErrNotFound.
	Get(ctx context.Context, email string) (*Credential, error)

	// Put stores the credential, replacing any existing one for the
	// same email.
	Put(ctx context.Context, cred *Credential) error

	// Delete removes the credential for email. Deleting a missing
	// credential is not an error.
	Delete(ctx context.Context, email string) error

	// Users returns the emails of all stored credentials, sorted.
	Users(ctx context.Context) ([]string, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}
