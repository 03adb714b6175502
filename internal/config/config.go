// Package config holds the server configuration and the startup
// validation rules that reject unusable setting combinations before
// any listener is opened.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/teemow/workspace-mcp/internal/catalog"
)

// OAuthMode selects how callers are mapped to Google credentials.
type OAuthMode string

const (
	// OAuthModeSingleUser serves one pre-authorized account; identity
	// falls back to the configured default user.
	OAuthModeSingleUser OAuthMode = "single-user"

	// OAuthModeMultiUser requires each caller to complete the OAuth
	// flow; identity comes from the bearer token on every request.
	OAuthModeMultiUser OAuthMode = "multi-user"
)

// StorageBackend selects where Google credentials are persisted.
type StorageBackend string

const (
	StorageMemory StorageBackend = "memory"
	StorageFile   StorageBackend = "file"
	StorageValkey StorageBackend = "valkey"
)

// Transport selects the MCP wire transport.
type Transport string

const (
	TransportStdio          Transport = "stdio"
	TransportStreamableHTTP Transport = "streamable-http"
)

// ValkeyConfig holds connection settings for the Valkey credential backend.
type ValkeyConfig struct {
	// Address is the Valkey server address (e.g. "valkey.namespace.svc:6379").
	Address string

	// Password is the optional password for Valkey authentication.
	Password string

	// TLSEnabled enables TLS for Valkey connections.
	TLSEnabled bool

	// KeyPrefix is the prefix for all Valkey keys (default: "workspace:").
	KeyPrefix string

	// DB is the Valkey database number (default: 0).
	DB int
}

// MetricsConfig holds configuration for the metrics server.
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true).
	Enabled bool

	// Addr is the address for the metrics server (e.g. ":9090").
	Addr string
}

// Config is the resolved server configuration after flags and
// environment variables have been merged.
type Config struct {
	// Tool exposure.
	Tier     catalog.Tier
	Services []catalog.Service
	ReadOnly bool

	// Transport and addressing.
	Transport        Transport
	HTTPAddr         string
	BaseURL          string
	DisableStreaming bool

	// Authentication.
	OAuthMode          OAuthMode
	DefaultUserEmail   string
	GoogleClientID     string
	GoogleClientSecret string

	// Credential persistence.
	Backend        StorageBackend
	CredentialsDir string
	Valkey         ValkeyConfig

	// Stateless disables all credential persistence; every session
	// must carry a valid bearer token.
	Stateless bool

	// EncryptionKey encrypts credentials at rest (32 bytes, AES-256).
	// Empty means plaintext storage, which is only acceptable for the
	// memory backend and local development.
	EncryptionKey []byte

	// ClientCacheTTL bounds how long a built Google service client is
	// reused before it is rebuilt.
	ClientCacheTTL time.Duration

	Metrics MetricsConfig

	Debug bool
}

// DefaultClientCacheTTL is how long cached Google service clients stay
// usable before a rebuild.
const DefaultClientCacheTTL = 30 * time.Minute

// Default returns a configuration with sensible development defaults.
func Default() *Config {
	return &Config{
		Tier:           catalog.TierCore,
		Transport:      TransportStdio,
		HTTPAddr:       ":8080",
		OAuthMode:      OAuthModeSingleUser,
		Backend:        StorageFile,
		ClientCacheTTL: DefaultClientCacheTTL,
		Valkey: ValkeyConfig{
			KeyPrefix: "workspace:",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
		},
	}
}

// LoadEnv fills unset fields from environment variables. Flags take
// precedence: a field that already holds a non-zero value is left alone.
func (c *Config) LoadEnv() error {
	if c.GoogleClientID == "" {
		c.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if c.GoogleClientSecret == "" {
		c.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if c.DefaultUserEmail == "" {
		c.DefaultUserEmail = os.Getenv("WORKSPACE_DEFAULT_USER")
	}
	if c.BaseURL == "" {
		c.BaseURL = os.Getenv("WORKSPACE_BASE_URL")
	}
	if c.CredentialsDir == "" {
		c.CredentialsDir = os.Getenv("WORKSPACE_CREDENTIALS_DIR")
	}
	if c.Valkey.Address == "" {
		c.Valkey.Address = os.Getenv("VALKEY_URL")
	}
	if c.Valkey.Password == "" {
		c.Valkey.Password = os.Getenv("VALKEY_PASSWORD")
	}
	if !c.Valkey.TLSEnabled && os.Getenv("VALKEY_TLS_ENABLED") == "true" {
		c.Valkey.TLSEnabled = true
	}
	if prefix := os.Getenv("VALKEY_KEY_PREFIX"); prefix != "" && c.Valkey.KeyPrefix == "workspace:" {
		c.Valkey.KeyPrefix = prefix
	}
	if dbStr := os.Getenv("VALKEY_DB"); dbStr != "" && c.Valkey.DB == 0 {
		if db, err := strconv.Atoi(dbStr); err == nil {
			c.Valkey.DB = db
		}
	}
	if len(c.EncryptionKey) == 0 {
		if encoded := os.Getenv("WORKSPACE_ENCRYPTION_KEY"); encoded != "" {
			key, err := ParseEncryptionKey(encoded)
			if err != nil {
				return fmt.Errorf("WORKSPACE_ENCRYPTION_KEY: %w", err)
			}
			c.EncryptionKey = key
		}
	}
	if addr := os.Getenv("METRICS_ADDR"); addr != "" && c.Metrics.Addr == ":9090" {
		c.Metrics.Addr = addr
	}
	return nil
}

// ParseEncryptionKey decodes a base64-encoded AES-256 key and checks
// its length.
func ParseEncryptionKey(encoded string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key (must be base64 encoded): %w", err)
	}
	if len(decoded) != 32 {
		return nil, fmt.Errorf("encryption key must be exactly 32 bytes (got %d bytes)", len(decoded))
	}
	return decoded, nil
}

// ParseServices parses a comma-separated service list. An empty input
// means all services.
func ParseServices(s string) ([]catalog.Service, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var services []catalog.Service
	seen := make(map[catalog.Service]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		svc, err := catalog.ParseService(part)
		if err != nil {
			return nil, err
		}
		if seen[svc] {
			continue
		}
		seen[svc] = true
		services = append(services, svc)
	}
	return services, nil
}

// Validate rejects configurations that cannot work at runtime. The
// combinations checked here fail loudly at startup rather than
// surfacing as confusing tool errors later.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s)",
			c.Transport, TransportStdio, TransportStreamableHTTP)
	}

	switch c.OAuthMode {
	case OAuthModeSingleUser, OAuthModeMultiUser:
	default:
		return fmt.Errorf("unsupported oauth mode: %s (supported: %s, %s)",
			c.OAuthMode, OAuthModeSingleUser, OAuthModeMultiUser)
	}

	switch c.Backend {
	case StorageMemory, StorageFile, StorageValkey:
	default:
		return fmt.Errorf("unsupported storage backend: %s (supported: %s, %s, %s)",
			c.Backend, StorageMemory, StorageFile, StorageValkey)
	}

	if c.OAuthMode == OAuthModeMultiUser {
		// Multi-user needs per-request identity, which only the HTTP
		// transport's bearer tokens can provide.
		if c.Transport == TransportStdio {
			return fmt.Errorf("multi-user oauth mode requires the %s transport", TransportStreamableHTTP)
		}
		if c.GoogleClientID == "" || c.GoogleClientSecret == "" {
			return fmt.Errorf("multi-user oauth mode requires a Google client ID and secret " +
				"(--google-client-id/--google-client-secret or GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET)")
		}
	}

	if c.Stateless {
		// Stateless forces memory-only credential storage. The file
		// backend is the default, so it is overridden rather than
		// rejected; valkey is an explicit choice of shared
		// persistence and contradicts stateless outright.
		switch c.Backend {
		case StorageFile:
			c.Backend = StorageMemory
		case StorageValkey:
			return fmt.Errorf("stateless mode cannot persist credentials: drop --stateless or the %s backend",
				StorageValkey)
		}
	}

	if c.Backend == StorageValkey && c.Valkey.Address == "" {
		return fmt.Errorf("valkey backend requires an address (--valkey-url or VALKEY_URL)")
	}

	if len(c.EncryptionKey) != 0 && len(c.EncryptionKey) != 32 {
		return fmt.Errorf("encryption key must be exactly 32 bytes (got %d bytes)", len(c.EncryptionKey))
	}

	if c.ClientCacheTTL <= 0 {
		return fmt.Errorf("client cache TTL must be positive (got %s)", c.ClientCacheTTL)
	}

	return nil
}

// Selection returns the tool selection derived from this configuration.
func (c *Config) Selection() catalog.Selection {
	return catalog.Selection{
		Services: c.Services,
		Tier:     c.Tier,
		ReadOnly: c.ReadOnly,
	}
}
