package credentials

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Credential is a stored Google OAuth grant for one user account.
type Credential struct {
	// Email is the Google account the grant belongs to. Always stored
	// lowercase.
	Email string `json:"email"`

	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`

	// Expiry is when the access token stops working. A zero value
	// means the token does not expire.
	Expiry time.Time `json:"expiry,omitempty"`

	// Scopes are the OAuth scopes this grant was authorized for.
	Scopes []string `json:"scopes,omitempty"`
}

// Valid reports whether the access token can still be used, treating
// tokens that expire within skew as already expired so a request
// started now cannot outlive its token.
func (c *Credential) Valid(skew time.Duration) bool {
	if c == nil || c.AccessToken == "" {
		return false
	}
	if c.Expiry.IsZero() {
		return true
	}
	return time.Now().Add(skew).Before(c.Expiry)
}

// HasScopes reports whether every required scope is covered by the
// grant. Comparison is exact; hierarchy-aware checks live in the
// catalog package.
func (c *Credential) HasScopes(required []string) bool {
	for _, want := range required {
		if !slices.Contains(c.Scopes, want) {
			return false
		}
	}
	return true
}

// Token converts the credential to an oauth2 token for use with a
// token source.
func (c *Credential) Token() *oauth2.Token {
	tokenType := c.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    tokenType,
		Expiry:       c.Expiry,
	}
}

// FromToken builds a credential from a freshly issued oauth2 token.
// When the token carries no refresh token (Google omits it on repeat
// consent), the previous refresh token should be carried over by the
// caller via Merge.
func FromToken(email string, tok *oauth2.Token, scopes []string) *Credential {
	return &Credential{
		Email:        NormalizeEmail(email),
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
		Scopes:       slices.Clone(scopes),
	}
}

// Merge returns a copy of the credential updated with the refreshed
// token, preserving the stored refresh token and scopes when the
// refresh response omits them.
func (c *Credential) Merge(tok *oauth2.Token) *Credential {
	out := c.Clone()
	out.AccessToken = tok.AccessToken
	out.TokenType = tok.TokenType
	out.Expiry = tok.Expiry
	if tok.RefreshToken != "" {
		out.RefreshToken = tok.RefreshToken
	}
	return out
}

// Clone returns a deep copy.
func (c *Credential) Clone() *Credential {
	out := *c
	out.Scopes = slices.Clone(c.Scopes)
	return &out
}

// NormalizeEmail canonicalizes an email address for use as a store key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
