package handlers

import (
	"context"

	"github.com/iudanet/fortress/internal/models"
)

// contextKey type for context keys
type contextKey string

const authInfoKey contextKey = "auth_info"

// AuthInfo is what the auth middleware stores in the request context after
// a bearer token has been validated. Role is the role claim from the
// token, not the record's current role: authorization decisions follow the
// claim the token was issued with.
type AuthInfo struct {
	UserID int
	Role   models.Role
	User   models.User
}

// WithAuthInfo returns a context carrying the authenticated caller.
func WithAuthInfo(ctx context.Context, info AuthInfo) context.Context {
	return context.WithValue(ctx, authInfoKey, info)
}

// GetAuthInfo extracts the authenticated caller from the request context.
func GetAuthInfo(ctx context.Context) (AuthInfo, bool) {
	info, ok := ctx.Value(authInfoKey).(AuthInfo)
	return info, ok
}
