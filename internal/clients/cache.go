package clients

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/credentials"
	"github.com/teemow/workspace-mcp/internal/logging"
)

// DefaultTTL bounds how long a built client stays usable. Kept below
// Google's one hour access token lifetime so a cached client never
// outlives the token it was built with by much.
const DefaultTTL = 30 * time.Minute

// CacheObserver is notified with "hit", "miss", or "eviction" on cache
// activity. Used for metrics.
type CacheObserver func(event string)

// key identifies one cached client. Two grants with different scope
// sets never share a client, so a scope upgrade takes effect
// immediately.
type key struct {
	email     string
	service   catalog.Service
	version   string
	scopeHash string
}

// flight is the single-flight group key for this cache key.
func (k key) flight() string {
	return k.email + "|" + string(k.service) + "|" + k.version + "|" + k.scopeHash
}

type entry struct {
	client  any
	builtAt time.Time
}

// Cache caches built Google API clients. The mutex only guards the
// entry map; client construction runs under per-key single-flight so
// one slow build never blocks lookups for other keys.
type Cache struct {
	mu      sync.RWMutex
	entries map[key]*entry
	group   singleflight.Group

	ttl     time.Duration
	logger  *slog.Logger
	observe CacheObserver

	// now and build are swappable for tests.
	now   func() time.Time
	build func(ctx context.Context, svc catalog.Service, hc *http.Client) (any, error)
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL overrides the default entry TTL.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) { c.ttl = ttl }
}

// WithCacheObserver installs a metrics callback.
func WithCacheObserver(observe CacheObserver) CacheOption {
	return func(c *Cache) { c.observe = observe }
}

// SetObserver installs a metrics callback on a running cache.
func (c *Cache) SetObserver(observe CacheObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if observe == nil {
		observe = func(string) {}
	}
	c.observe = observe
}

// NewCache creates a client cache.
func NewCache(logger *slog.Logger, opts ...CacheOption) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		entries: make(map[key]*entry),
		ttl:     DefaultTTL,
		logger:  logger,
		observe: func(string) {},
		now:     time.Now,
		build:   build,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrBuild returns the cached client for (cred, svc), building and
// caching one if none is live. Unknown services are an error. The
// credential's access token must be valid; the caller acquires it
// through the auth manager first.
func (c *Cache) GetOrBuild(ctx context.Context, cred *credentials.Credential, svc catalog.Service) (any, error) {
	version, err := catalog.Version(svc)
	if err != nil {
		return nil, err
	}
	k := key{
		email:     credentials.NormalizeEmail(cred.Email),
		service:   svc,
		version:   version,
		scopeHash: hashScopes(cred.Scopes),
	}

	if client, ok := c.lookup(k); ok {
		c.observe("hit")
		return client, nil
	}

	// Build under single-flight, never under the map lock:
	// construction may perform a discovery network call and must not
	// stall lookups for other keys. The build runs detached so one
	// caller cancelling does not fail the others sharing the flight.
	ch := c.group.DoChan(k.flight(), func() (any, error) {
		return c.buildAndStore(context.WithoutCancel(ctx), cred, svc, k)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	}
}

// lookup returns the live cached client for k, if any.
func (c *Cache) lookup(k key) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[k]
	if !ok || c.now().Sub(e.builtAt) >= c.ttl {
		return nil, false
	}
	return e.client, true
}

func (c *Cache) buildAndStore(ctx context.Context, cred *credentials.Credential, svc catalog.Service, k key) (any, error) {
	// A flight that completed while we waited for the slot already
	// cached the client.
	if client, ok := c.lookup(k); ok {
		c.observe("hit")
		return client, nil
	}

	c.mu.Lock()
	if e, ok := c.entries[k]; ok && c.now().Sub(e.builtAt) >= c.ttl {
		delete(c.entries, k)
		c.observe("eviction")
	}
	c.mu.Unlock()

	c.observe("miss")
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(cred.Token()))
	client, err := c.build(ctx, svc, hc)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[k] = &entry{client: client, builtAt: c.now()}
	c.mu.Unlock()

	c.logger.Debug("built service client",
		logging.Service(string(svc)),
		slog.String(logging.KeyVersion, k.version),
		logging.UserHash(k.email))
	return client, nil
}

// Invalidate evicts all cached clients for one user and service,
// regardless of scope set.
func (c *Cache) Invalidate(email string, svc catalog.Service) {
	email = credentials.NormalizeEmail(email)
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.email == email && k.service == svc {
			delete(c.entries, k)
			c.observe("eviction")
		}
	}
}

// InvalidateUser evicts every cached client for one user, used when
// their credential is refreshed, revoked, or removed.
func (c *Cache) InvalidateUser(email string) {
	email = credentials.NormalizeEmail(email)
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.email == email {
			delete(c.entries, k)
			c.observe("eviction")
		}
	}
}

// Len returns the number of live entries, counting expired ones that
// have not been collected yet.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// StartSweeper evicts expired entries in the background until ctx is
// done. Lazy expiry on lookup already keeps results correct; the
// sweeper only bounds memory for users that stop calling.
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.builtAt) >= c.ttl {
			delete(c.entries, k)
			c.observe("eviction")
		}
	}
}

// hashScopes canonicalizes a scope set into a short cache key
// component. Order does not matter.
func hashScopes(scopes []string) string {
	sorted := make([]string, len(scopes))
	copy(sorted, scopes)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, " ")))
	return hex.EncodeToString(sum[:8])
}
