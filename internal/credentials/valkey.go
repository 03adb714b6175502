package credentials

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/valkey-io/valkey-go"

	"github.com/teemow/workspace-mcp/internal/logging"
)

// ValkeyConfig holds connection settings for the Valkey store.
type ValkeyConfig struct {
	Address    string
	Password   string
	TLSEnabled bool
	KeyPrefix  string
	DB         int
}

// ValkeyStore persists credentials in Valkey so multiple replicas of
// the server share one credential set.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	cipher *Cipher
	logger *slog.Logger
}

// NewValkeyStore connects to Valkey and verifies the connection.
func NewValkeyStore(ctx context.Context, cfg ValkeyConfig, cipher *Cipher, logger *slog.Logger) (*ValkeyStore, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("valkey address is required")
	}
	option := valkey.ClientOption{
		InitAddress: []string{cfg.Address},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	}
	if cfg.TLSEnabled {
		option.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(option)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to valkey: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "workspace:"
	}
	if logger == nil {
		logger = slog.Default()
	}

	store := &ValkeyStore{
		client: client,
		prefix: prefix + "cred:",
		cipher: cipher,
		logger: logger,
	}
	if err := store.Ping(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return store, nil
}

func (s *ValkeyStore) key(email string) string {
	return s.prefix + NormalizeEmail(email)
}

// Get implements Store. Records that fail to decrypt or parse are
// logged and reported as ErrNotFound.
func (s *ValkeyStore) Get(ctx context.Context, email string) (*Credential, error) {
	raw, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(email)).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read credential from valkey: %w", err)
	}

	plaintext, err := s.cipher.Open(raw)
	if err != nil {
		s.logger.Warn("stored credential cannot be decrypted, treating as missing",
			logging.UserHash(email), logging.Err(err))
		return nil, ErrNotFound
	}

	var cred Credential
	if err := json.Unmarshal(plaintext, &cred); err != nil {
		s.logger.Warn("stored credential is corrupted, treating as missing",
			logging.UserHash(email), logging.Err(err))
		return nil, ErrNotFound
	}
	return &cred, nil
}

// Put implements Store.
func (s *ValkeyStore) Put(ctx context.Context, cred *Credential) error {
	stored := cred.Clone()
	stored.Email = NormalizeEmail(cred.Email)

	plaintext, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	sealed, err := s.cipher.Seal(plaintext)
	if err != nil {
		return fmt.Errorf("failed to encrypt credential: %w", err)
	}

	cmd := s.client.B().Set().Key(s.key(stored.Email)).Value(valkey.BinaryString(sealed)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to store credential in valkey: %w", err)
	}
	return nil
}

// Delete implements Store.
func (s *ValkeyStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Do(ctx, s.client.B().Del().Key(s.key(email)).Build()).Error(); err != nil {
		return fmt.Errorf("failed to delete credential from valkey: %w", err)
	}
	return nil
}

// Users implements Store.
func (s *ValkeyStore) Users(ctx context.Context) ([]string, error) {
	keys, err := s.client.Do(ctx, s.client.B().Keys().Pattern(s.prefix+"*").Build()).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials in valkey: %w", err)
	}

	users := make([]string, 0, len(keys))
	for _, key := range keys {
		users = append(users, strings.TrimPrefix(key, s.prefix))
	}
	sort.Strings(users)
	return users, nil
}

// Ping implements Store.
func (s *ValkeyStore) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("valkey unavailable: %w", err)
	}
	return nil
}

// Close releases the underlying Valkey connection.
func (s *ValkeyStore) Close() {
	s.client.Close()
}
