package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/workspace-mcp/internal/catalog"
	"github.com/teemow/workspace-mcp/internal/config"
	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/logging"
	"github.com/teemow/workspace-mcp/internal/resources"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/auth_tools"
	"github.com/teemow/workspace-mcp/internal/tools/calendar_tools"
	"github.com/teemow/workspace-mcp/internal/tools/chat_tools"
	"github.com/teemow/workspace-mcp/internal/tools/contacts_tools"
	"github.com/teemow/workspace-mcp/internal/tools/docs_tools"
	"github.com/teemow/workspace-mcp/internal/tools/drive_tools"
	"github.com/teemow/workspace-mcp/internal/tools/forms_tools"
	"github.com/teemow/workspace-mcp/internal/tools/gmail_tools"
	"github.com/teemow/workspace-mcp/internal/tools/script_tools"
	"github.com/teemow/workspace-mcp/internal/tools/search_tools"
	"github.com/teemow/workspace-mcp/internal/tools/sheets_tools"
	"github.com/teemow/workspace-mcp/internal/tools/slides_tools"
	"github.com/teemow/workspace-mcp/internal/tools/tasks_tools"
)

func newServeCmd() *cobra.Command {
	var (
		debugMode bool
		// Tool exposure
		tier     string
		services string
		readOnly bool
		// Transport
		transport        string
		httpAddr         string
		baseURL          string
		disableStreaming bool
		// Authentication
		oauthMode          string
		defaultUser        string
		googleClientID     string
		googleClientSecret string
		// Credential persistence
		storageBackend string
		credentialsDir string
		stateless      bool
		encryptionKey  string
		valkeyURL      string
		valkeyPassword string
		valkeyTLS      bool
		valkeyPrefix   string
		valkeyDB       int
		clientCacheTTL time.Duration
		// Metrics server configuration
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing Google
Workspace tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Tool Exposure:
  --tier selects how many tools are registered (core, extended, complete),
  --services restricts registration to a comma-separated service list
  (e.g. gmail,drive,calendar), and --read-only drops every tool that
  mutates Workspace data.

OAuth Configuration:
  Single-user mode (default):
    Tools act as the account configured via --default-user or the
    WORKSPACE_DEFAULT_USER env var. Authorize it once with the auth
    subcommand or the auth_get_url / auth_save_code tools.

  Multi-user mode (HTTP transport only):
    Every caller completes the Google OAuth flow; identity comes from
    the bearer token on each request. Requires --google-client-id and
    --google-client-secret (or GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET
    env vars) and a public --base-url for deployed instances.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			cfg.Debug = debugMode
			cfg.ReadOnly = readOnly
			cfg.Transport = config.Transport(transport)
			cfg.HTTPAddr = httpAddr
			cfg.BaseURL = baseURL
			cfg.DisableStreaming = disableStreaming
			cfg.OAuthMode = config.OAuthMode(oauthMode)
			cfg.DefaultUserEmail = defaultUser
			cfg.GoogleClientID = googleClientID
			cfg.GoogleClientSecret = googleClientSecret
			cfg.Backend = config.StorageBackend(storageBackend)
			cfg.CredentialsDir = credentialsDir
			cfg.Stateless = stateless
			cfg.Valkey.Address = valkeyURL
			cfg.Valkey.Password = valkeyPassword
			cfg.Valkey.TLSEnabled = valkeyTLS
			if cmd.Flags().Changed("valkey-key-prefix") {
				cfg.Valkey.KeyPrefix = valkeyPrefix
			}
			cfg.Valkey.DB = valkeyDB
			cfg.ClientCacheTTL = clientCacheTTL
			cfg.Metrics.Enabled = metricsEnabled
			cfg.Metrics.Addr = metricsAddr

			parsedTier, err := catalog.ParseTier(tier)
			if err != nil {
				return err
			}
			cfg.Tier = parsedTier

			parsedServices, err := config.ParseServices(services)
			if err != nil {
				return err
			}
			cfg.Services = parsedServices

			if encryptionKey != "" {
				key, err := config.ParseEncryptionKey(encryptionKey)
				if err != nil {
					return err
				}
				cfg.EncryptionKey = key
			}

			// Environment variables fill in anything the flags left unset.
			if err := cfg.LoadEnv(); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return runServe(cfg)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&tier, "tier", "core", "Tool exposure tier: core, extended, or complete")
	cmd.Flags().StringVar(&services, "services", "", "Comma-separated list of services to expose (e.g. gmail,drive,calendar). Empty means all services at the selected tier.")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Register only tools that do not mutate Workspace data")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Public base URL for OAuth (HTTP transport only). Required for deployed instances. Can also use WORKSPACE_BASE_URL env var. Example: https://mcp.example.com")
	cmd.Flags().BoolVar(&disableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")
	cmd.Flags().StringVar(&oauthMode, "oauth-mode", "single-user", "OAuth mode: single-user or multi-user")
	cmd.Flags().StringVar(&defaultUser, "default-user", "", "Email address tools act as when no identity is on the request (single-user mode). Can also use WORKSPACE_DEFAULT_USER env var.")
	cmd.Flags().StringVar(&googleClientID, "google-client-id", "", "Google OAuth Client ID. Can also use GOOGLE_CLIENT_ID env var.")
	cmd.Flags().StringVar(&googleClientSecret, "google-client-secret", "", "Google OAuth Client Secret. Can also use GOOGLE_CLIENT_SECRET env var.")
	cmd.Flags().StringVar(&storageBackend, "storage-backend", "file", "Credential storage backend: memory, file, or valkey")
	cmd.Flags().StringVar(&credentialsDir, "credentials-dir", "", "Directory for the file storage backend (default: ~/.workspace-mcp/credentials). Can also use WORKSPACE_CREDENTIALS_DIR env var.")
	cmd.Flags().BoolVar(&stateless, "stateless", false, "Disable credential persistence entirely; every session must carry a valid bearer token")
	cmd.Flags().StringVar(&encryptionKey, "encryption-key", "", "AES-256 key for credential encryption at rest (32 bytes, base64 encoded). Can also use WORKSPACE_ENCRYPTION_KEY env var. Generate with: openssl rand -base64 32")
	cmd.Flags().StringVar(&valkeyURL, "valkey-url", "", "Valkey server address (e.g. valkey.namespace.svc:6379). Can also use VALKEY_URL env var.")
	cmd.Flags().StringVar(&valkeyPassword, "valkey-password", "", "Valkey authentication password. Can also use VALKEY_PASSWORD env var.")
	cmd.Flags().BoolVar(&valkeyTLS, "valkey-tls", false, "Enable TLS for Valkey connections. Can also use VALKEY_TLS_ENABLED env var.")
	cmd.Flags().StringVar(&valkeyPrefix, "valkey-key-prefix", "workspace:", "Prefix for all Valkey keys. Can also use VALKEY_KEY_PREFIX env var.")
	cmd.Flags().IntVar(&valkeyDB, "valkey-db", 0, "Valkey database number. Can also use VALKEY_DB env var.")
	cmd.Flags().DurationVar(&clientCacheTTL, "client-cache-ttl", config.DefaultClientCacheTTL, "How long cached Google service clients are reused before a rebuild")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port (HTTP transport only)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(cfg *config.Config) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// On stdio, stdout carries the MCP protocol; logs go to stderr.
	logger := logging.Setup(os.Stderr, cfg.Debug)

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			if cfg.Transport != config.TransportStdio {
				log.Printf("Error during instrumentation shutdown: %v", err)
			}
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if cfg.Transport != config.TransportStdio && cfg.Metrics.Enabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(cfg.Metrics.Addr, provider)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		// Give the listener a moment to fail on a bad address
		select {
		case err := <-metricsErr:
			if err != nil {
				return fmt.Errorf("metrics server failed to start: %w", err)
			}
		case <-time.After(100 * time.Millisecond):
			log.Printf("Metrics server started on %s", metricsServer.Addr())
		}
	}

	serverContext, err := server.NewServerContext(shutdownCtx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			if cfg.Transport != config.TransportStdio {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("workspace-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)

	// Log the selection for visibility (only for non-stdio transports)
	if cfg.Transport != config.TransportStdio {
		if cfg.ReadOnly {
			log.Printf("Starting server in READ-ONLY mode at tier %q (%d tools)", cfg.Tier, serverContext.Active().Len())
		} else {
			log.Printf("Starting server at tier %q (%d tools)", cfg.Tier, serverContext.Active().Len())
		}
	}

	// Register all tools
	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}

	// Start the appropriate server based on transport type
	switch cfg.Transport {
	case config.TransportStdio:
		return runStdioServer(mcpSrv)
	case config.TransportStreamableHTTP:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, cfg)
	default:
		return fmt.Errorf("unsupported transport type: %s", cfg.Transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools with the server. Tier,
// service, and read-only filtering happens inside each Register
// function against the server context's active tool set.
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Auth",
			register: func() error {
				return auth_tools.RegisterAuthTools(mcpSrv, ctx)
			},
		},
		{
			name: "Gmail",
			register: func() error {
				return gmail_tools.RegisterGmailTools(mcpSrv, ctx)
			},
		},
		{
			name: "Drive",
			register: func() error {
				return drive_tools.RegisterDriveTools(mcpSrv, ctx)
			},
		},
		{
			name: "Calendar",
			register: func() error {
				return calendar_tools.RegisterCalendarTools(mcpSrv, ctx)
			},
		},
		{
			name: "Docs",
			register: func() error {
				return docs_tools.RegisterDocsTools(mcpSrv, ctx)
			},
		},
		{
			name: "Sheets",
			register: func() error {
				return sheets_tools.RegisterSheetsTools(mcpSrv, ctx)
			},
		},
		{
			name: "Slides",
			register: func() error {
				return slides_tools.RegisterSlidesTools(mcpSrv, ctx)
			},
		},
		{
			name: "Forms",
			register: func() error {
				return forms_tools.RegisterFormsTools(mcpSrv, ctx)
			},
		},
		{
			name: "Tasks",
			register: func() error {
				return tasks_tools.RegisterTasksTools(mcpSrv, ctx)
			},
		},
		{
			name: "Contacts",
			register: func() error {
				return contacts_tools.RegisterContactsTools(mcpSrv, ctx)
			},
		},
		{
			name: "Chat",
			register: func() error {
				return chat_tools.RegisterChatTools(mcpSrv, ctx)
			},
		},
		{
			name: "Search",
			register: func() error {
				return search_tools.RegisterSearchTools(mcpSrv, ctx)
			},
		},
		{
			name: "Script",
			register: func() error {
				return script_tools.RegisterScriptTools(mcpSrv, ctx)
			},
		},
		{
			name: "Server Resources",
			register: func() error {
				return resources.RegisterServerResources(mcpSrv, ctx)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, serverContext *server.ServerContext, cfg *config.Config) error {
	// Determine base URL from config or auto-detection
	if cfg.BaseURL == "" {
		// Fall back to auto-detection for local development
		cfg.BaseURL = fmt.Sprintf("http://%s", cfg.HTTPAddr)
		if cfg.HTTPAddr[0] == ':' {
			cfg.BaseURL = fmt.Sprintf("http://localhost%s", cfg.HTTPAddr)
		}
		log.Printf("No base URL configured, using auto-detected: %s", cfg.BaseURL)
		log.Printf("For deployed instances, set --base-url flag or WORKSPACE_BASE_URL env var")
	} else {
		log.Printf("Using configured base URL: %s", cfg.BaseURL)
	}

	// Create Streamable HTTP server
	var httpServer http.Handler
	if cfg.DisableStreaming {
		httpServer = mcpserver.NewStreamableHTTPServer(mcpSrv,
			mcpserver.WithEndpointPath("/mcp"),
			mcpserver.WithDisableStreaming(true),
		)
	} else {
		httpServer = mcpserver.NewStreamableHTTPServer(mcpSrv,
			mcpserver.WithEndpointPath("/mcp"),
		)
	}
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpServer.ServeHTTP(w, r)
	})

	if cfg.OAuthMode == config.OAuthModeSingleUser {
		return runPlainHTTPServer(ctx, serverContext, mcpHandler, cfg)
	}

	oauthServer, err := server.NewOAuthHTTPServer(serverContext, mcpHandler)
	if err != nil {
		return fmt.Errorf("failed to create OAuth HTTP server: %w", err)
	}

	fmt.Printf("Streamable HTTP server with Google OAuth authentication starting on %s\n", cfg.HTTPAddr)
	fmt.Printf("  MCP endpoint: /mcp\n")
	fmt.Printf("  Health endpoints: /healthz, /readyz\n")
	fmt.Printf("  OAuth metadata: /.well-known/oauth-protected-resource\n")
	fmt.Printf("  Authorization Server: %s\n", cfg.BaseURL)
	if cfg.Metrics.Enabled {
		fmt.Printf("  Metrics endpoint: %s/metrics\n", cfg.Metrics.Addr)
	}
	fmt.Println("\nClients must authenticate with Google OAuth to access this server.")
	fmt.Println("The MCP client (e.g., Cursor, Claude Desktop) will handle the OAuth flow automatically.")

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := oauthServer.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		fmt.Println("Shutdown signal received, stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := oauthServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	fmt.Println("HTTP server gracefully stopped")
	return nil
}

// runPlainHTTPServer serves the MCP endpoint without the OAuth proxy.
// Identity falls back to the configured default user, so this is only
// suitable for trusted networks and local development.
func runPlainHTTPServer(ctx context.Context, serverContext *server.ServerContext, mcpHandler http.Handler, cfg *config.Config) error {
	mux := http.NewServeMux()

	health := server.NewHealthChecker(serverContext)
	health.RegisterHealthEndpoints(mux)
	health.SetReady(true)

	mux.Handle("/mcp", mcpHandler)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	fmt.Printf("Streamable HTTP server (single-user mode) starting on %s\n", cfg.HTTPAddr)
	fmt.Printf("  MCP endpoint: /mcp\n")
	fmt.Printf("  Health endpoints: /healthz, /readyz\n")
	fmt.Println("\nWARNING: no request authentication; all callers act as the default user.")

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		fmt.Println("Shutdown signal received, stopping HTTP server...")
		health.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	fmt.Println("HTTP server gracefully stopped")
	return nil
}
