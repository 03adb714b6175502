package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/teemow/workspace-mcp/internal/credentials"
)

// expiredSentinel makes a token source treat the cached access token
// as stale so it always hits the refresh endpoint.
var expiredSentinel = time.Unix(1, 0)

// RedirectOOB is the out-of-band redirect for interactive CLI
// authorization where no local callback server is available.
const RedirectOOB = "urn:ietf:wg:oauth:2.0:oob"

// Flow wraps the Google OAuth2 authorization code flow for a fixed
// client and scope set.
type Flow struct {
	conf *oauth2.Config
}

// NewFlow builds a flow for the given client. redirectURL may be
// RedirectOOB for CLI use or the server's callback URL.
func NewFlow(clientID, clientSecret, redirectURL string, scopes []string) *Flow {
	return &Flow{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
		},
	}
}

// Scopes returns the scopes this flow requests.
func (f *Flow) Scopes() []string {
	return f.conf.Scopes
}

// AuthURL returns the authorization URL. Offline access is always
// requested so Google issues a refresh token, and consent is forced
// because Google omits the refresh token on silent re-approval.
func (f *Flow) AuthURL(state, loginHint string) string {
	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	}
	if loginHint != "" {
		opts = append(opts, oauth2.SetAuthURLParam("login_hint", loginHint))
	}
	return f.conf.AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for a credential. The account
// email is read from the token's id_token claims via introspection by
// the caller; here it must be supplied.
func (f *Flow) Exchange(ctx context.Context, code, email string) (*credentials.Credential, error) {
	tok, err := f.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return credentials.FromToken(email, tok, f.conf.Scopes), nil
}

// ExchangeToken trades an authorization code for the raw oauth2 token,
// for callers that resolve the account identity afterwards.
func (f *Flow) ExchangeToken(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := f.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return tok, nil
}

// Refresh obtains a fresh access token using the credential's refresh
// token. The returned token is not persisted; that is the Manager's
// job.
func (f *Flow) Refresh(ctx context.Context, cred *credentials.Credential) (*oauth2.Token, error) {
	stale := cred.Token()
	// Force the token source to refresh even if the local expiry looks
	// fine; callers only come here after deciding the token is stale.
	stale.Expiry = expiredSentinel
	return f.conf.TokenSource(ctx, stale).Token()
}

// WithScopes returns a flow identical to f but requesting the given
// scopes, used when a grant must be rebuilt with a wider scope union.
func (f *Flow) WithScopes(scopes []string) *Flow {
	conf := *f.conf
	conf.Scopes = scopes
	return &Flow{conf: &conf}
}
