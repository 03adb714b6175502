package config

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/teemow/workspace-mcp/internal/catalog"
)

func validMultiUser() *Config {
	c := Default()
	c.Transport = TransportStreamableHTTP
	c.OAuthMode = OAuthModeMultiUser
	c.GoogleClientID = "client-id"
	c.GoogleClientSecret = "client-secret"
	return c
}

func TestValidateDefaults(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "multi-user over stdio",
			mutate:  func(c *Config) { c.Transport = TransportStdio },
			wantErr: "requires the streamable-http transport",
		},
		{
			name: "multi-user without client credentials",
			mutate: func(c *Config) {
				c.GoogleClientID = ""
				c.GoogleClientSecret = ""
			},
			wantErr: "Google client ID and secret",
		},
		{
			name:    "stateless with valkey backend",
			mutate:  func(c *Config) { c.Stateless = true; c.Backend = StorageValkey },
			wantErr: "stateless mode cannot persist",
		},
		{
			name:    "unknown transport",
			mutate:  func(c *Config) { c.Transport = "websocket" },
			wantErr: "unsupported transport",
		},
		{
			name:    "unknown oauth mode",
			mutate:  func(c *Config) { c.OAuthMode = "shared" },
			wantErr: "unsupported oauth mode",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Backend = "postgres" },
			wantErr: "unsupported storage backend",
		},
		{
			name:    "valkey backend without address",
			mutate:  func(c *Config) { c.Backend = StorageValkey },
			wantErr: "valkey backend requires an address",
		},
		{
			name:    "short encryption key",
			mutate:  func(c *Config) { c.EncryptionKey = []byte("too-short") },
			wantErr: "exactly 32 bytes",
		},
		{
			name:    "zero cache TTL",
			mutate:  func(c *Config) { c.ClientCacheTTL = 0 },
			wantErr: "cache TTL must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validMultiUser()
			tt.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStatelessMemory(t *testing.T) {
	c := validMultiUser()
	c.Stateless = true
	c.Backend = StorageMemory
	if err := c.Validate(); err != nil {
		t.Errorf("stateless with memory backend should validate, got: %v", err)
	}
}

func TestValidateStatelessForcesMemoryBackend(t *testing.T) {
	c := validMultiUser()
	c.Stateless = true
	c.Backend = StorageFile
	if err := c.Validate(); err != nil {
		t.Fatalf("stateless with the default file backend should validate, got: %v", err)
	}
	if c.Backend != StorageMemory {
		t.Errorf("Backend = %q after Validate, want %q forced", c.Backend, StorageMemory)
	}
}

func TestParseEncryptionKey(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(make([]byte, 32))
	decoded, err := ParseEncryptionKey(key)
	if err != nil {
		t.Fatalf("ParseEncryptionKey() error = %v", err)
	}
	if len(decoded) != 32 {
		t.Errorf("key length = %d, want 32", len(decoded))
	}

	if _, err := ParseEncryptionKey("not-base64!!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	short := base64.StdEncoding.EncodeToString([]byte("short"))
	if _, err := ParseEncryptionKey(short); err == nil {
		t.Error("expected error for short key")
	}
}

func TestParseServices(t *testing.T) {
	services, err := ParseServices("gmail, drive,calendar,gmail")
	if err != nil {
		t.Fatalf("ParseServices() error = %v", err)
	}
	want := []catalog.Service{catalog.ServiceGmail, catalog.ServiceDrive, catalog.ServiceCalendar}
	if len(services) != len(want) {
		t.Fatalf("ParseServices() = %v, want %v", services, want)
	}
	for i := range want {
		if services[i] != want[i] {
			t.Errorf("ParseServices()[%d] = %v, want %v", i, services[i], want[i])
		}
	}

	if _, err := ParseServices("gmail,fax"); err == nil {
		t.Error("expected error for unknown service")
	}

	all, err := ParseServices("")
	if err != nil || all != nil {
		t.Errorf("ParseServices(\"\") = %v, %v, want nil, nil", all, err)
	}
}
