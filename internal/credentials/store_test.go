package credentials

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFileStore(t *testing.T, key []byte) *FileStore {
	t.Helper()
	cipher, err := NewCipher(key)
	if err != nil {
		t.Fatalf("NewCipher() error = %v", err)
	}
	store, err := NewFileStore(filepath.Join(t.TempDir(), "credentials"), cipher, discardLogger())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return store
}

// testStoreContract exercises the behavior every backend must share.
func testStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	cred := &Credential{
		Email:        "Alice@Example.COM",
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Truncate(time.Second).UTC(),
		Scopes:       []string{"scope-a", "scope-b"},
	}
	if err := store.Put(ctx, cred); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Lookup is case-insensitive on email.
	got, err := store.Get(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("Email = %q, want normalized alice@example.com", got.Email)
	}
	if got.AccessToken != cred.AccessToken || got.RefreshToken != cred.RefreshToken {
		t.Errorf("tokens round-trip mismatch: got %+v", got)
	}
	if !got.Expiry.Equal(cred.Expiry) {
		t.Errorf("Expiry = %v, want %v", got.Expiry, cred.Expiry)
	}
	if !reflect.DeepEqual(got.Scopes, cred.Scopes) {
		t.Errorf("Scopes = %v, want %v", got.Scopes, cred.Scopes)
	}

	// Returned credential is a copy.
	got.AccessToken = "mutated"
	again, err := store.Get(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if again.AccessToken != "access-token" {
		t.Error("mutating a returned credential changed stored state")
	}

	if err := store.Put(ctx, &Credential{Email: "bob@example.com", AccessToken: "b"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	users, err := store.Users(ctx)
	if err != nil {
		t.Fatalf("Users() error = %v", err)
	}
	want := []string{"alice@example.com", "bob@example.com"}
	if !reflect.DeepEqual(users, want) {
		t.Errorf("Users() = %v, want %v", users, want)
	}

	if err := store.Delete(ctx, "alice@example.com"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "alice@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "alice@example.com"); err != nil {
		t.Errorf("Delete(missing) error = %v, want nil", err)
	}

	if err := store.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	testStoreContract(t, newFileStore(t, nil))
}

func TestFileStoreEncrypted(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	testStoreContract(t, newFileStore(t, key))
}

func TestFileStorePermissions(t *testing.T) {
	store := newFileStore(t, nil)
	ctx := context.Background()

	if err := store.Put(ctx, &Credential{Email: "alice@example.com", AccessToken: "a"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(store.Dir(), "alice@example.com.json"))
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("credential file mode = %o, want 0600", mode)
	}

	dirInfo, err := os.Stat(store.Dir())
	if err != nil {
		t.Fatalf("Stat(dir) error = %v", err)
	}
	if mode := dirInfo.Mode().Perm(); mode != 0700 {
		t.Errorf("credentials dir mode = %o, want 0700", mode)
	}
}

func TestFileStoreCorruptRecord(t *testing.T) {
	store := newFileStore(t, nil)
	ctx := context.Background()

	path := filepath.Join(store.Dir(), "broken@example.com.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := store.Get(ctx, "broken@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(corrupt) error = %v, want ErrNotFound", err)
	}
}

func TestFileStoreTamperedCiphertext(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	store := newFileStore(t, key)
	ctx := context.Background()

	if err := store.Put(ctx, &Credential{Email: "alice@example.com", AccessToken: "secret"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	path := filepath.Join(store.Dir(), "alice@example.com.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	// Flip a byte in the sealed record.
	raw[len(raw)/2] ^= 0xff
	if err := os.WriteFile(path, raw, 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := store.Get(ctx, "alice@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(tampered) error = %v, want ErrNotFound", err)
	}
}

func TestFileStoreSanitizesEmailPath(t *testing.T) {
	store := newFileStore(t, nil)
	ctx := context.Background()

	if err := store.Put(ctx, &Credential{Email: "../../evil@example.com", AccessToken: "a"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file in store dir, got %d", len(entries))
	}
}
