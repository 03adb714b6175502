package server

import (
	"context"

	mcpoauth "github.com/giantswarm/mcp-oauth"
	"github.com/giantswarm/mcp-oauth/providers"
)

// UserInfo is the authenticated user as validated by the OAuth
// middleware. Type alias for the mcp-oauth library's UserInfo.
type UserInfo = providers.UserInfo

// UserInfoFromContext retrieves the authenticated user from the
// request context. It is set by the ValidateToken middleware after the
// bearer token passes validation, so it is only present on HTTP
// requests in multi-user mode.
func UserInfoFromContext(ctx context.Context) (*UserInfo, bool) {
	return mcpoauth.UserInfoFromContext(ctx)
}

type userEmailKey struct{}

// ContextWithUserEmail records the resolved account email on the
// context. The identity middleware sets it for every authenticated
// request, whether the email came from the token's identity claims or
// from the session binding for the bearer.
func ContextWithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailKey{}, email)
}

// UserEmailFromContext extracts the authenticated email, empty when
// the request carries no validated identity.
func UserEmailFromContext(ctx context.Context) string {
	if email, ok := ctx.Value(userEmailKey{}).(string); ok && email != "" {
		return email
	}
	user, ok := UserInfoFromContext(ctx)
	if !ok || user == nil {
		return ""
	}
	return user.Email
}
