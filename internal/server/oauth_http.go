package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	mcpoauth "github.com/giantswarm/mcp-oauth"
	"github.com/giantswarm/mcp-oauth/providers/google"
	"github.com/giantswarm/mcp-oauth/security"
	oauthserver "github.com/giantswarm/mcp-oauth/server"
	"github.com/giantswarm/mcp-oauth/storage"
	"github.com/giantswarm/mcp-oauth/storage/memory"
	valkeystore "github.com/giantswarm/mcp-oauth/storage/valkey"

	"github.com/teemow/workspace-mcp/internal/config"
	"github.com/teemow/workspace-mcp/internal/credentials"
	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/logging"
)

const (
	// DefaultRefreshTokenTTL is the TTL for refresh tokens issued to
	// MCP clients (90 days).
	DefaultRefreshTokenTTL = 90 * 24 * time.Hour

	// DefaultIPRateLimit is the rate limit for requests per IP
	// (requests/second).
	DefaultIPRateLimit = 10
	// DefaultIPBurst is the burst size for IP rate limiting.
	DefaultIPBurst = 20

	// DefaultUserRateLimit is the rate limit for authenticated users
	// (requests/second).
	DefaultUserRateLimit = 100
	// DefaultUserBurst is the burst size for authenticated user rate
	// limiting.
	DefaultUserBurst = 200

	// DefaultMaxClientsPerIP caps dynamic client registrations per IP.
	DefaultMaxClientsPerIP = 10

	// DefaultReadHeaderTimeout is the timeout for reading request
	// headers.
	DefaultReadHeaderTimeout = 10 * time.Second
	// DefaultWriteTimeout is the timeout for writing responses.
	// Streaming responses need generous room.
	DefaultWriteTimeout = 120 * time.Second
	// DefaultIdleTimeout is the idle timeout for keepalive
	// connections.
	DefaultIdleTimeout = 120 * time.Second
)

// identityScopes are always requested in addition to the Workspace
// scopes so the server can tell who a token belongs to.
var identityScopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// OAuthHTTPServer wraps the MCP HTTP handler with OAuth 2.1
// authentication. It acts as an authorization server toward MCP
// clients (dynamic registration, PKCE, token issuance) and delegates
// the actual user authentication to Google.
type OAuthHTTPServer struct {
	sc           *ServerContext
	oauthServer  *mcpoauth.Server
	oauthHandler *mcpoauth.Handler
	tokenStore   storage.TokenStore
	mcpHandler   http.Handler
	health       *HealthChecker
	httpServer   *http.Server
}

// NewOAuthHTTPServer creates an OAuth-enabled HTTP server that
// protects the given MCP handler.
func NewOAuthHTTPServer(sc *ServerContext, mcpHandler http.Handler) (*OAuthHTTPServer, error) {
	cfg := sc.Config()

	if err := validateHTTPSRequirement(cfg.BaseURL); err != nil {
		return nil, err
	}

	oauthSrv, tokenStore, err := buildOAuthServer(sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create OAuth server: %w", err)
	}

	return &OAuthHTTPServer{
		sc:           sc,
		oauthServer:  oauthSrv,
		oauthHandler: mcpoauth.NewHandler(oauthSrv, sc.Logger()),
		tokenStore:   tokenStore,
		mcpHandler:   mcpHandler,
		health:       NewHealthChecker(sc),
	}, nil
}

// Health returns the health checker so callers can flip readiness
// during startup and shutdown.
func (s *OAuthHTTPServer) Health() *HealthChecker {
	return s.health
}

// CreateMux assembles the full route table: health probes, the OAuth
// 2.1 endpoints, and the token-protected MCP endpoint.
func (s *OAuthHTTPServer) CreateMux() http.Handler {
	mux := http.NewServeMux()

	s.health.RegisterHealthEndpoints(mux)

	// Protected Resource Metadata endpoint (RFC 9728)
	mux.HandleFunc("/.well-known/oauth-protected-resource", s.oauthHandler.ServeProtectedResourceMetadata)

	// Authorization Server Metadata endpoint (RFC 8414)
	mux.HandleFunc("/.well-known/oauth-authorization-server", s.oauthHandler.ServeAuthorizationServerMetadata)

	// Dynamic Client Registration endpoint (RFC 7591)
	mux.HandleFunc("/oauth/register", s.oauthHandler.ServeClientRegistration)

	mux.HandleFunc("/oauth/authorize", s.oauthHandler.ServeAuthorization)
	mux.HandleFunc("/oauth/token", s.oauthHandler.ServeToken)
	mux.HandleFunc("/oauth/callback", s.oauthHandler.ServeCallback)

	// Token Revocation endpoint (RFC 7009)
	mux.HandleFunc("/oauth/revoke", s.oauthHandler.ServeTokenRevocation)

	// Token Introspection endpoint (RFC 7662)
	mux.HandleFunc("/oauth/introspect", s.oauthHandler.ServeTokenIntrospection)

	// MCP endpoint, token-validated and identity-bound
	mux.Handle("/mcp", s.oauthHandler.ValidateToken(s.identityMiddleware(s.mcpHandler)))

	s.sc.Logger().Info("registered OAuth 2.1 and MCP endpoints")

	return mux
}

// identityMiddleware runs after ValidateToken. It binds the bearer
// token to the authenticated account, mirrors the Google token into
// the credential store so the Workspace tools can use it, and records
// request metrics.
func (s *OAuthHTTPServer) identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()

		bearer := bearerToken(r)
		var email string
		if userInfo, ok := mcpoauth.UserInfoFromContext(ctx); ok && userInfo != nil && userInfo.Email != "" {
			email = credentials.NormalizeEmail(userInfo.Email)
			if bearer != "" {
				if s.sc.Sessions().Bind(bearer, email) {
					if metrics := s.sc.Metrics(); metrics != nil {
						metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)
					}
				}
			}
		} else if bearer != "" {
			// The token validated but carried no identity claims.
			// Resolve the account from the session binding established
			// on an earlier request with the same bearer.
			email, _ = s.sc.Sessions().Lookup(bearer)
		}

		if email != "" {
			ctx = ContextWithUserEmail(ctx, email)
			r = r.WithContext(ctx)
			s.mirrorCredential(ctx, email)
		}

		next.ServeHTTP(w, r)

		if metrics := s.sc.Metrics(); metrics != nil {
			metrics.RecordHTTPRequest(ctx, r.Method, "/mcp", http.StatusOK, time.Since(start))
		}
	})
}

// mirrorCredential copies the Google token held by the OAuth layer
// into the credential store, keyed by account email. Tool calls then
// go through the regular token lifecycle (refresh, persistence,
// revocation handling).
func (s *OAuthHTTPServer) mirrorCredential(ctx context.Context, email string) {
	tok, err := s.tokenStore.GetToken(ctx, email)
	if err != nil || tok == nil {
		return
	}

	existing, err := s.sc.Store().Get(ctx, email)
	if err == nil && existing.AccessToken == tok.AccessToken {
		return // already mirrored
	}

	cred := credentials.FromToken(email, tok, s.sc.Manager().Flow().Scopes())
	if err == nil && cred.RefreshToken == "" {
		// keep the refresh token we already have when the OAuth layer
		// only handed us an access token
		cred.RefreshToken = existing.RefreshToken
	}

	if err := s.sc.Store().Put(ctx, cred); err != nil {
		s.sc.Logger().Warn("failed to mirror credential",
			logging.UserHash(email), logging.Err(err))
		return
	}
	s.sc.Cache().InvalidateUser(email)
}

// bearerToken extracts the bearer token from the Authorization
// header.
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}

// Start serves HTTP on the given address. It blocks until the server
// stops.
func (s *OAuthHTTPServer) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.CreateMux(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}

	s.sc.Logger().Info("starting OAuth-protected MCP server",
		"addr", addr, "issuer", s.sc.Config().BaseURL)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server and the OAuth layer.
func (s *OAuthHTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)

	if s.oauthServer != nil {
		if err := s.oauthServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown OAuth server: %w", err)
		}
	}

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// buildOAuthServer wires the mcp-oauth library: Google as the
// identity provider, flow/client/token storage per the configured
// backend, encryption, audit logging, and rate limits.
func buildOAuthServer(sc *ServerContext) (*mcpoauth.Server, storage.TokenStore, error) {
	cfg := sc.Config()
	logger := sc.Logger()

	provider, err := google.NewProvider(&google.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.BaseURL + "/oauth/callback",
		Scopes:       requestScopes(sc),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Google provider: %w", err)
	}

	tokenStore, clientStore, flowStore, err := buildOAuthStorage(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	serverConfig := &oauthserver.Config{
		Issuer:                        cfg.BaseURL,
		RefreshTokenTTL:               int64(DefaultRefreshTokenTTL.Seconds()),
		AllowRefreshTokenRotation:     true,
		RequirePKCE:                   true,
		AllowPKCEPlain:                false,
		AllowPublicClientRegistration: true,
		MaxClientsPerIP:               DefaultMaxClientsPerIP,
		AllowLocalhostRedirectURIs:    true,

		Instrumentation: oauthserver.InstrumentationConfig{
			Enabled:         cfg.Metrics.Enabled,
			ServiceName:     "workspace-mcp",
			ServiceVersion:  "1.0.0",
			MetricsExporter: "prometheus",
		},
	}

	oauthSrv, err := mcpoauth.NewServer(
		provider,
		tokenStore,
		clientStore,
		flowStore,
		serverConfig,
		logger,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create OAuth server: %w", err)
	}

	if len(cfg.EncryptionKey) > 0 && cfg.Backend != config.StorageValkey {
		encryptor, err := security.NewEncryptor(cfg.EncryptionKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create encryptor: %w", err)
		}
		oauthSrv.SetEncryptor(encryptor)
		logger.Info("token encryption at rest enabled")
	}

	auditor := security.NewAuditor(logger, true)
	oauthSrv.SetAuditor(auditor)

	ipRateLimiter := security.NewRateLimiter(DefaultIPRateLimit, DefaultIPBurst, logger)
	oauthSrv.SetRateLimiter(ipRateLimiter)

	userRateLimiter := security.NewRateLimiter(DefaultUserRateLimit, DefaultUserBurst, logger)
	oauthSrv.SetUserRateLimiter(userRateLimiter)

	clientRegRL := security.NewClientRegistrationRateLimiterWithConfig(
		DefaultMaxClientsPerIP,
		security.DefaultRegistrationWindow,
		security.DefaultMaxRegistrationEntries,
		logger,
	)
	oauthSrv.SetClientRegistrationRateLimiter(clientRegRL)

	return oauthSrv, tokenStore, nil
}

// buildOAuthStorage picks the mcp-oauth storage backend. The valkey
// credential backend shares its instance with the OAuth layer; the
// memory and file backends keep OAuth flow state in memory, since
// authorization flows are short-lived.
func buildOAuthStorage(cfg *config.Config, logger *slog.Logger) (storage.TokenStore, storage.ClientStore, storage.FlowStore, error) {
	if cfg.Backend == config.StorageValkey {
		valkeyConfig := valkeystore.Config{
			Address:   cfg.Valkey.Address,
			Password:  cfg.Valkey.Password,
			DB:        cfg.Valkey.DB,
			KeyPrefix: cfg.Valkey.KeyPrefix,
		}
		if valkeyConfig.KeyPrefix == "" {
			valkeyConfig.KeyPrefix = "workspace:"
		}
		if cfg.Valkey.TLSEnabled {
			valkeyConfig.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
		}

		store, err := valkeystore.New(valkeyConfig)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create Valkey storage: %w", err)
		}

		if len(cfg.EncryptionKey) > 0 {
			encryptor, err := security.NewEncryptor(cfg.EncryptionKey)
			if err != nil {
				store.Close()
				return nil, nil, nil, fmt.Errorf("failed to create encryptor: %w", err)
			}
			store.SetEncryptor(encryptor)
		}

		logger.Info("using Valkey OAuth storage", "address", cfg.Valkey.Address)
		return store, store, store, nil
	}

	memStore := memory.New()
	logger.Info("using in-memory OAuth storage")
	return memStore, memStore, memStore, nil
}

// requestScopes combines the identity scopes with the Workspace
// scopes of the active tool set.
func requestScopes(sc *ServerContext) []string {
	scopes := make([]string, 0, len(identityScopes))
	scopes = append(scopes, identityScopes...)
	scopes = append(scopes, sc.Active().Scopes()...)
	return scopes
}

// validateHTTPSRequirement ensures OAuth 2.1 HTTPS compliance. HTTP is
// only allowed for loopback addresses.
func validateHTTPSRequirement(baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	switch u.Scheme {
	case "https":
		return nil
	case "http":
		host := u.Hostname()
		if host == "localhost" || host == "127.0.0.1" || host == "::1" {
			return nil
		}
		return fmt.Errorf("OAuth 2.1 requires HTTPS for non-loopback base URLs (got %s)", baseURL)
	default:
		return fmt.Errorf("base URL must use http or https (got %s)", baseURL)
	}
}
