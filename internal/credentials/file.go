package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/teemow/workspace-mcp/internal/logging"
)

// FileStore persists one JSON file per user under a directory. The
// directory is created with 0700 and files with 0600 so only the
// server's user can read stored tokens.
type FileStore struct {
	dir    string
	cipher *Cipher
	logger *slog.Logger

	// mu serializes writes so concurrent refreshes of the same user
	// cannot interleave a rename.
	mu sync.Mutex
}

// NewFileStore creates a file-backed store rooted at dir. The cipher
// may be pass-through; the logger is used to warn about unreadable
// records before they are treated as missing.
func NewFileStore(dir string, cipher *Cipher, logger *slog.Logger) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config", "workspace-mcp", "credentials")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{dir: dir, cipher: cipher, logger: logger}, nil
}

// Dir returns the directory backing the store.
func (s *FileStore) Dir() string {
	return s.dir
}

const fileExt = ".json"

// path maps an email to its file. Emails are sanitized so they cannot
// escape the store directory.
func (s *FileStore) path(email string) string {
	name := NormalizeEmail(email)
	name = strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(name)
	return filepath.Join(s.dir, name+fileExt)
}

// Get implements Store. A file that exists but cannot be parsed or
// decrypted is logged and reported as ErrNotFound so the user is sent
// back through the OAuth flow instead of being stuck.
func (s *FileStore) Get(_ context.Context, email string) (*Credential, error) {
	raw, err := os.ReadFile(s.path(email))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	plaintext, err := s.cipher.Open(raw)
	if err != nil {
		s.logger.Warn("credential file cannot be decrypted, treating as missing",
			logging.UserHash(email), logging.Err(err))
		return nil, ErrNotFound
	}

	var cred Credential
	if err := json.Unmarshal(plaintext, &cred); err != nil {
		s.logger.Warn("credential file is corrupted, treating as missing",
			logging.UserHash(email), logging.Err(err))
		return nil, ErrNotFound
	}
	if cred.Email == "" {
		cred.Email = NormalizeEmail(email)
	}
	return &cred, nil
}

// Put implements Store. The record is written to a temp file and
// renamed into place so a crash mid-write never leaves a truncated
// credential behind.
func (s *FileStore) Put(_ context.Context, cred *Credential) error {
	stored := cred.Clone()
	stored.Email = NormalizeEmail(cred.Email)

	plaintext, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	sealed, err := s.cipher.Seal(plaintext)
	if err != nil {
		return fmt.Errorf("failed to encrypt credential: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(stored.Email)
	tmp, err := os.CreateTemp(s.dir, ".cred-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if _, err := tmp.Write(sealed); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close credential file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to store credential file: %w", err)
	}
	return nil
}

// Delete implements Store.
func (s *FileStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(email)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete credential file: %w", err)
	}
	return nil
}

// Users implements Store.
func (s *FileStore) Users(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials directory: %w", err)
	}

	var users []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) || strings.HasPrefix(name, ".") {
			continue
		}
		users = append(users, strings.TrimSuffix(name, fileExt))
	}
	sort.Strings(users)
	return users, nil
}

// Ping implements Store.
func (s *FileStore) Ping(_ context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("credentials directory unavailable: %w", err)
	}
	return nil
}
