package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// googleTokenInfoURL is Google's token introspection endpoint.
const googleTokenInfoURL = "https://www.googleapis.com/oauth2/v3/tokeninfo"

// TokenInfo is the subset of Google's tokeninfo response the server
// cares about: who the token belongs to and what it can do.
type TokenInfo struct {
	Email         string
	EmailVerified bool
	Scopes        []string
	Audience      string
	Expiry        time.Time
}

// Introspector resolves opaque Google access tokens to their identity
// and grant via the tokeninfo endpoint.
type Introspector struct {
	client   *http.Client
	endpoint string
}

// NewIntrospector creates an introspector. A nil client uses
// http.DefaultClient.
func NewIntrospector(client *http.Client) *Introspector {
	if client == nil {
		client = http.DefaultClient
	}
	return &Introspector{client: client, endpoint: googleTokenInfoURL}
}

// NewIntrospectorWithEndpoint is for tests against a fake endpoint.
func NewIntrospectorWithEndpoint(client *http.Client, endpoint string) *Introspector {
	i := NewIntrospector(client)
	i.endpoint = endpoint
	return i
}

// Introspect validates accessToken with Google and returns its
// identity. An invalid or expired token returns an error.
func (i *Introspector) Introspect(ctx context.Context, accessToken string) (*TokenInfo, error) {
	form := url.Values{"access_token": {accessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build tokeninfo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read tokeninfo response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token introspection rejected (status %d)", resp.StatusCode)
	}

	var payload struct {
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"`
		Scope         string `json:"scope"`
		Audience      string `json:"aud"`
		ExpiresIn     string `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse tokeninfo response: %w", err)
	}

	info := &TokenInfo{
		Email:         payload.Email,
		EmailVerified: payload.EmailVerified == "true",
		Audience:      payload.Audience,
	}
	if payload.Scope != "" {
		info.Scopes = strings.Fields(payload.Scope)
	}
	if payload.ExpiresIn != "" {
		if secs, err := strconv.Atoi(payload.ExpiresIn); err == nil {
			info.Expiry = time.Now().Add(time.Duration(secs) * time.Second)
		}
	}
	return info, nil
}
