package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/teemow/workspace-mcp/internal/auth"
	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/clients"
	"github.com/teemow/workspace-mcp/internal/config"
	"github.com/teemow/workspace-mcp/internal/credentials"
	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/logging"
	"github.com/teemow/workspace-mcp/internal/session"
)

// ServerContext wires the credential store, token lifecycle manager,
// client cache, and session store together and hands them to tool
// handlers. One instance lives for the whole process.
type ServerContext struct {
	cfg    *config.Config
	logger *slog.Logger
	active *catalog.ActiveSet

	store        credentials.Store
	manager      *auth.Manager
	cache        *clients.Cache
	sessions     *session.Store
	introspector *auth.Introspector

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.RWMutex
	isShutdown bool
}

// NewServerContext builds the full runtime from a validated
// configuration. The caller owns shutdown via Shutdown.
func NewServerContext(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ServerContext, error) {
	if logger == nil {
		logger = slog.Default()
	}

	active := catalog.NewActiveSet(catalog.DefaultRegistry(), cfg.Selection())

	cipher, err := credentials.NewCipher(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential encryption: %w", err)
	}

	store, err := buildStore(ctx, cfg, cipher, logger)
	if err != nil {
		return nil, err
	}

	redirectURL := auth.RedirectOOB
	if cfg.BaseURL != "" {
		redirectURL = cfg.BaseURL + "/oauth/callback"
	}
	flow := auth.NewFlow(cfg.GoogleClientID, cfg.GoogleClientSecret, redirectURL, active.Scopes())
	manager := auth.NewManager(store, flow, logger)

	cache := clients.NewCache(logger, clients.WithTTL(cfg.ClientCacheTTL))

	runCtx, cancel := context.WithCancel(ctx)
	cache.StartSweeper(runCtx, 5*time.Minute)

	sc := &ServerContext{
		cfg:          cfg,
		logger:       logger,
		active:       active,
		store:        store,
		manager:      manager,
		cache:        cache,
		sessions:     session.NewStore(session.DefaultIdleTimeout, logger),
		introspector: auth.NewIntrospector(nil),
		ctx:          runCtx,
		cancel:       cancel,
	}

	logger.Info("server context initialized",
		slog.String(logging.KeyTier, active.Selection().Tier.String()),
		slog.String(logging.KeyBackend, string(cfg.Backend)),
		slog.Int("tools", len(active.Tools())),
		slog.Bool("read_only", cfg.ReadOnly),
		slog.Bool("encrypted", cipher.Enabled()))
	return sc, nil
}

func buildStore(ctx context.Context, cfg *config.Config, cipher *credentials.Cipher, logger *slog.Logger) (credentials.Store, error) {
	switch cfg.Backend {
	case config.StorageMemory:
		return credentials.NewMemoryStore(), nil
	case config.StorageFile:
		store, err := credentials.NewFileStore(cfg.CredentialsDir, cipher, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open file credential store: %w", err)
		}
		return store, nil
	case config.StorageValkey:
		store, err := credentials.NewValkeyStore(ctx, credentials.ValkeyConfig{
			Address:    cfg.Valkey.Address,
			Password:   cfg.Valkey.Password,
			TLSEnabled: cfg.Valkey.TLSEnabled,
			KeyPrefix:  cfg.Valkey.KeyPrefix,
			DB:         cfg.Valkey.DB,
		}, cipher, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open valkey credential store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

// Context returns the lifetime context of the server.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the server configuration.
func (sc *ServerContext) Config() *config.Config {
	return sc.cfg
}

// Logger returns the structured logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Active returns the gated tool set this server exposes.
func (sc *ServerContext) Active() *catalog.ActiveSet {
	return sc.active
}

// Store returns the credential store.
func (sc *ServerContext) Store() credentials.Store {
	return sc.store
}

// Manager returns the token lifecycle manager.
func (sc *ServerContext) Manager() *auth.Manager {
	return sc.manager
}

// Cache returns the service client cache.
func (sc *ServerContext) Cache() *clients.Cache {
	return sc.cache
}

// Sessions returns the bearer token session store.
func (sc *ServerContext) Sessions() *session.Store {
	return sc.sessions
}

// Introspector returns the Google token introspector.
func (sc *ServerContext) Introspector() *auth.Introspector {
	return sc.introspector
}

// SetMetrics installs the metrics recorder and points the manager,
// cache, and session observers at it. The instances themselves are
// kept; only their callbacks change.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics

	sc.manager.SetRefreshObserver(func(result string) {
		metrics.RecordOAuthTokenRefresh(context.Background(), result)
	})

	sc.cache.SetObserver(func(event string) {
		metrics.RecordClientCacheEvent(context.Background(), event)
	})

	sc.sessions.SetObserver(func(delta int) {
		metrics.AddActiveSessions(context.Background(), int64(delta))
	})
}

// Metrics returns the metrics recorder, nil when instrumentation is
// disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger installs the audit logger.
func (sc *ServerContext) SetAuditLogger(auditLogger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = auditLogger
}

// AuditLogger returns the audit logger, nil when disabled.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown reports whether Shutdown has run.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.isShutdown
}

// Shutdown stops background loops and releases backend connections.
// Safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.isShutdown {
		return nil
	}
	sc.isShutdown = true

	sc.cancel()
	sc.sessions.Stop()
	if closer, ok := sc.store.(interface{ Close() }); ok {
		closer.Close()
	}
	return nil
}
