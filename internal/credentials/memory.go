package credentials

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps credentials in process memory. All state is lost
// on restart, which is the point: it backs stateless deployments and
// tests.
type MemoryStore struct {
	mu    sync.RWMutex
	creds map[string]*Credential
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		creds: make(map[string]*Credential),
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, email string) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.creds[NormalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return cred.Clone(), nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cred.Clone()
	stored.Email = NormalizeEmail(cred.Email)
	s.creds[stored.Email] = stored
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.creds, NormalizeEmail(email))
	return nil
}

// Users implements Store.
func (s *MemoryStore) Users(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.creds))
	for email := range s.creds {
		users = append(users, email)
	}
	sort.Strings(users)
	return users, nil
}

// Ping implements Store.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
