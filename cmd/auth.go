package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teemow/workspace-mcp/internal/config"
	"github.com/teemow/workspace-mcp/internal/credentials"
	"github.com/teemow/workspace-mcp/internal/logging"
	"github.com/teemow/workspace-mcp/internal/server"
)

// credentialFlags are the storage settings shared by the auth and
// accounts subcommands, which operate on the credential store without
// starting a server.
type credentialFlags struct {
	googleClientID     string
	googleClientSecret string

	storageBackend string
	credentialsDir string
	encryptionKey  string
	valkeyURL      string
	valkeyPassword string
	valkeyTLS      bool
	valkeyPrefix   string
	valkeyDB       int
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.googleClientID, "google-client-id", "", "Google OAuth Client ID. Can also use GOOGLE_CLIENT_ID env var.")
	cmd.Flags().StringVar(&f.googleClientSecret, "google-client-secret", "", "Google OAuth Client Secret. Can also use GOOGLE_CLIENT_SECRET env var.")
	cmd.Flags().StringVar(&f.storageBackend, "storage-backend", "file", "Credential storage backend: memory, file, or valkey")
	cmd.Flags().StringVar(&f.credentialsDir, "credentials-dir", "", "Directory for the file storage backend (default: ~/.workspace-mcp/credentials). Can also use WORKSPACE_CREDENTIALS_DIR env var.")
	cmd.Flags().StringVar(&f.encryptionKey, "encryption-key", "", "AES-256 key for credential encryption at rest (32 bytes, base64 encoded). Can also use WORKSPACE_ENCRYPTION_KEY env var.")
	cmd.Flags().StringVar(&f.valkeyURL, "valkey-url", "", "Valkey server address. Can also use VALKEY_URL env var.")
	cmd.Flags().StringVar(&f.valkeyPassword, "valkey-password", "", "Valkey authentication password. Can also use VALKEY_PASSWORD env var.")
	cmd.Flags().BoolVar(&f.valkeyTLS, "valkey-tls", false, "Enable TLS for Valkey connections. Can also use VALKEY_TLS_ENABLED env var.")
	cmd.Flags().StringVar(&f.valkeyPrefix, "valkey-key-prefix", "workspace:", "Prefix for all Valkey keys. Can also use VALKEY_KEY_PREFIX env var.")
	cmd.Flags().IntVar(&f.valkeyDB, "valkey-db", 0, "Valkey database number. Can also use VALKEY_DB env var.")
}

func (f *credentialFlags) config(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	cfg.GoogleClientID = f.googleClientID
	cfg.GoogleClientSecret = f.googleClientSecret
	cfg.Backend = config.StorageBackend(f.storageBackend)
	cfg.CredentialsDir = f.credentialsDir
	cfg.Valkey.Address = f.valkeyURL
	cfg.Valkey.Password = f.valkeyPassword
	cfg.Valkey.TLSEnabled = f.valkeyTLS
	if cmd.Flags().Changed("valkey-key-prefix") {
		cfg.Valkey.KeyPrefix = f.valkeyPrefix
	}
	cfg.Valkey.DB = f.valkeyDB

	if f.encryptionKey != "" {
		key, err := config.ParseEncryptionKey(f.encryptionKey)
		if err != nil {
			return nil, err
		}
		cfg.EncryptionKey = key
	}

	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openContext builds a server context over the configured credential
// store. The caller must Shutdown the returned context.
func (f *credentialFlags) openContext(ctx context.Context, cmd *cobra.Command) (*server.ServerContext, error) {
	cfg, err := f.config(cmd)
	if err != nil {
		return nil, err
	}
	logger := logging.Setup(os.Stderr, false)
	return server.NewServerContext(ctx, cfg, logger)
}

func newAuthCmd() *cobra.Command {
	var (
		account string
		flags   credentialFlags
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize a Google account from the terminal",
		Long: `Run the Google OAuth consent flow interactively and store the
resulting credential.

Requires a Google OAuth client (GOOGLE_CLIENT_ID and
GOOGLE_CLIENT_SECRET env vars or the corresponding flags). The command
prints an authorization URL; open it in a browser, approve access, and
paste the authorization code back into the terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer cancel()

			sc, err := flags.openContext(ctx, cmd)
			if err != nil {
				return err
			}
			defer sc.Shutdown() //nolint:errcheck

			if sc.Config().GoogleClientID == "" || sc.Config().GoogleClientSecret == "" {
				return fmt.Errorf("a Google OAuth client is required " +
					"(--google-client-id/--google-client-secret or GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET)")
			}

			account = credentials.NormalizeEmail(account)

			fmt.Println("Open the following URL in a browser and approve access:")
			fmt.Println()
			fmt.Printf("  %s\n", sc.Manager().AuthURL(account))
			fmt.Println()
			fmt.Print("Paste the authorization code here: ")

			reader := bufio.NewReader(os.Stdin)
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("no authorization code provided")
			}

			tok, err := sc.Manager().Flow().ExchangeToken(ctx, code)
			if err != nil {
				return fmt.Errorf("failed to exchange authorization code: %w", err)
			}

			// When no account was given, ask Google whose token this is.
			if account == "" {
				info, err := sc.Introspector().Introspect(ctx, tok.AccessToken)
				if err != nil {
					return fmt.Errorf("failed to discover account email: %w", err)
				}
				account = credentials.NormalizeEmail(info.Email)
			}
			if account == "" {
				return fmt.Errorf("could not determine the account email; pass --account explicitly")
			}

			cred := credentials.FromToken(account, tok, sc.Manager().Flow().Scopes())
			if err := sc.Store().Put(ctx, cred); err != nil {
				return fmt.Errorf("failed to store credential: %w", err)
			}
			sc.Cache().InvalidateUser(account)

			fmt.Printf("Stored credential for %s\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Email address to authorize. Discovered from the token when omitted.")
	flags.register(cmd)

	return cmd
}
