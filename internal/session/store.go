// Package session maps MCP bearer tokens to the Google account they
// authenticated as. The token itself is never stored; only a sha256
// fingerprint is kept as the binding key.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"
)

type binding struct {
	email      string
	lastAccess time.Time
}

// Store holds bearer-token-to-account bindings with idle expiry. A
// binding that goes unused for the idle timeout is dropped; the caller
// then re-resolves identity from the token.
type Store struct {
	mu       sync.Mutex
	bindings map[string]*binding

	idleTimeout   time.Duration
	cleanupTicker *time.Ticker
	cleanupDone   chan struct{}
	logger        *slog.Logger
	observer      func(delta int)

	now func() time.Time
}

// DefaultIdleTimeout is how long an unused binding survives.
const DefaultIdleTimeout = 24 * time.Hour

// NewStore creates a session store and starts its cleanup loop.
func NewStore(idleTimeout time.Duration, logger *slog.Logger) *Store {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		bindings:      make(map[string]*binding),
		idleTimeout:   idleTimeout,
		cleanupTicker: time.NewTicker(10 * time.Minute),
		cleanupDone:   make(chan struct{}),
		logger:        logger,
		now:           time.Now,
	}
	go s.cleanupLoop()
	return s
}

// Key derives the binding key from a bearer token.
func Key(bearerToken string) string {
	sum := sha256.Sum256([]byte(bearerToken))
	return hex.EncodeToString(sum[:])
}

// SetObserver installs a callback receiving the binding count delta on
// every change, for keeping a session gauge current.
func (s *Store) SetObserver(fn func(delta int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = fn
}

// observe is called with mu held.
func (s *Store) observe(delta int) {
	if s.observer != nil && delta != 0 {
		s.observer(delta)
	}
}

// Bind associates a bearer token with an account email. It reports
// whether the token was previously unbound, i.e. this is a fresh
// session rather than a re-bind.
func (s *Store) Bind(bearerToken, email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(bearerToken)
	_, existed := s.bindings[key]
	s.bindings[key] = &binding{
		email:      email,
		lastAccess: s.now(),
	}
	if !existed {
		s.observe(1)
	}
	return !existed
}

// Lookup returns the account bound to a bearer token and refreshes its
// idle timer. The second return is false when no live binding exists.
func (s *Store) Lookup(bearerToken string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bindings[Key(bearerToken)]
	if !ok {
		return "", false
	}
	if s.now().Sub(b.lastAccess) > s.idleTimeout {
		delete(s.bindings, Key(bearerToken))
		s.observe(-1)
		return "", false
	}
	b.lastAccess = s.now()
	return b.email, true
}

// Unbind removes the binding for a bearer token, used on revocation.
func (s *Store) Unbind(bearerToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bindings[Key(bearerToken)]; ok {
		delete(s.bindings, Key(bearerToken))
		s.observe(-1)
	}
}

// UnbindAccount removes every binding that points at email, used when
// a credential is deleted.
func (s *Store) UnbindAccount(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, b := range s.bindings {
		if b.email == email {
			delete(s.bindings, key)
			removed++
		}
	}
	s.observe(-removed)
}

// Len returns the number of live bindings.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bindings)
}

func (s *Store) cleanupLoop() {
	for {
		select {
		case <-s.cleanupTicker.C:
			s.cleanup()
		case <-s.cleanupDone:
			return
		}
	}
}

func (s *Store) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	expired := 0
	for key, b := range s.bindings {
		if now.Sub(b.lastAccess) > s.idleTimeout {
			delete(s.bindings, key)
			expired++
		}
	}
	if expired > 0 {
		s.observe(-expired)
		s.logger.Info("cleaned up expired sessions", "count", expired)
	}
}

// Stop stops the cleanup loop.
func (s *Store) Stop() {
	s.cleanupTicker.Stop()
	close(s.cleanupDone)
}
