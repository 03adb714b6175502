package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/teemow/workspace-mcp/internal/credentials"
	"github.com/teemow/workspace-mcp/internal/logging"
)

// DefaultExpirySkew is how early a token is treated as expired, so a
// request started just before expiry cannot carry a token that dies
// mid-flight.
const DefaultExpirySkew = 60 * time.Second

// RefreshObserver is notified after each refresh attempt with one of
// "success", "invalid_grant", or "error". Used for metrics.
type RefreshObserver func(result string)

// Manager hands out valid credentials, refreshing them on demand.
type Manager struct {
	store   credentials.Store
	flow    *Flow
	skew    time.Duration
	logger  *slog.Logger
	observe RefreshObserver

	// group collapses concurrent refreshes for the same user into a
	// single call against Google's token endpoint.
	group singleflight.Group
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithExpirySkew overrides the default expiry skew.
func WithExpirySkew(skew time.Duration) ManagerOption {
	return func(m *Manager) { m.skew = skew }
}

// WithRefreshObserver installs a metrics callback.
func WithRefreshObserver(observe RefreshObserver) ManagerOption {
	return func(m *Manager) { m.observe = observe }
}

// SetRefreshObserver installs a metrics callback after construction.
// Call it during startup, before the manager serves refreshes.
func (m *Manager) SetRefreshObserver(observe RefreshObserver) {
	if observe == nil {
		observe = func(string) {}
	}
	m.observe = observe
}

// NewManager creates a token lifecycle manager.
func NewManager(store credentials.Store, flow *Flow, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		store:   store,
		flow:    flow,
		skew:    DefaultExpirySkew,
		logger:  logger,
		observe: func(string) {},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store exposes the underlying credential store.
func (m *Manager) Store() credentials.Store {
	return m.store
}

// Flow exposes the OAuth flow, for the authorize endpoints.
func (m *Manager) Flow() *Flow {
	return m.flow
}

// AuthURL builds the authorization URL for a user, with a fresh random
// state value.
func (m *Manager) AuthURL(email string) string {
	return m.flow.AuthURL(randomState(), email)
}

// AcquireValid returns a credential for email whose access token is
// valid for at least the expiry skew, refreshing and persisting it if
// needed. It fails with *AuthRequiredError when no stored grant can
// produce a valid token.
func (m *Manager) AcquireValid(ctx context.Context, email string) (*credentials.Credential, error) {
	email = credentials.NormalizeEmail(email)
	if email == "" {
		return nil, &AuthRequiredError{
			Reason:  "no user identity available",
			AuthURL: m.flow.AuthURL(randomState(), ""),
		}
	}

	cred, err := m.store.Get(ctx, email)
	if err != nil {
		if errors.Is(err, credentials.ErrNotFound) {
			return nil, m.authRequired(email, "no stored credential")
		}
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	if cred.Valid(m.skew) {
		return cred, nil
	}

	// Expired with no way to refresh: fail without touching the
	// network.
	if cred.RefreshToken == "" {
		return nil, m.authRequired(email, "access token expired and no refresh token stored")
	}

	return m.refresh(ctx, email)
}

// refresh runs the refresh under single-flight. The caller's context
// only governs how long it waits; the refresh itself runs detached so
// one caller cancelling does not fail the others sharing the flight.
func (m *Manager) refresh(ctx context.Context, email string) (*credentials.Credential, error) {
	ch := m.group.DoChan(email, func() (any, error) {
		return m.doRefresh(context.WithoutCancel(ctx), email)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		cred := res.Val.(*credentials.Credential)
		if res.Shared {
			// Each caller gets its own copy.
			cred = cred.Clone()
		}
		return cred, nil
	}
}

func (m *Manager) doRefresh(ctx context.Context, email string) (*credentials.Credential, error) {
	// Re-read under the flight: a refresh that completed while we
	// waited for the flight slot already persisted a fresh token.
	cred, err := m.store.Get(ctx, email)
	if err != nil {
		if errors.Is(err, credentials.ErrNotFound) {
			return nil, m.authRequired(email, "no stored credential")
		}
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	if cred.Valid(m.skew) {
		return cred, nil
	}

	start := time.Now()
	tok, err := m.flow.Refresh(ctx, cred)
	if err != nil {
		if IsInvalidGrant(err) {
			// The grant is dead. Keeping the credential would make
			// every future request repeat this doomed refresh.
			m.observe("invalid_grant")
			m.logger.Warn("refresh token revoked, deleting credential",
				logging.UserHash(email), logging.Err(err))
			if delErr := m.store.Delete(ctx, email); delErr != nil {
				m.logger.Error("failed to delete revoked credential",
					logging.UserHash(email), logging.Err(delErr))
			}
			return nil, m.authRequired(email, "refresh token revoked or expired")
		}
		m.observe("error")
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	merged := cred.Merge(tok)
	if err := m.store.Put(ctx, merged); err != nil {
		// The new token is usable even if persisting it failed; log
		// and serve it so the request succeeds.
		m.logger.Error("failed to persist refreshed credential",
			logging.UserHash(email), logging.Err(err))
	}

	m.observe("success")
	m.logger.Debug("refreshed access token",
		logging.UserHash(email),
		slog.Duration(logging.KeyDuration, time.Since(start)),
		slog.Time("expiry", merged.Expiry))
	return merged, nil
}

// RequireScopes verifies that cred covers the required scopes and
// returns an AuthRequiredError naming the gap otherwise. The
// authorization URL requests the union of the current grant and the
// missing scopes so re-consent widens the grant instead of replacing
// it.
func (m *Manager) RequireScopes(cred *credentials.Credential, required []string, covered func(granted, required []string) bool) error {
	if len(cred.Scopes) == 0 {
		// Grants recorded before scope tracking; assume sufficient and
		// let the API call surface any real gap.
		return nil
	}
	if covered(cred.Scopes, required) {
		return nil
	}
	var missing []string
	for _, scope := range required {
		if !covered(cred.Scopes, []string{scope}) {
			missing = append(missing, scope)
		}
	}
	union := append(append([]string{}, cred.Scopes...), missing...)
	return &AuthRequiredError{
		Email:         cred.Email,
		MissingScopes: missing,
		AuthURL:       m.flow.WithScopes(union).AuthURL(randomState(), cred.Email),
		Reason:        "stored grant does not cover the required scopes",
	}
}

func (m *Manager) authRequired(email, reason string) *AuthRequiredError {
	return &AuthRequiredError{
		Email:   email,
		Reason:  reason,
		AuthURL: m.flow.AuthURL(randomState(), email),
	}
}

func randomState() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process is in serious trouble.
		panic(fmt.Sprintf("failed to generate random state: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
