// AngelaMos | 2026
// context.go

package middleware

import (
	"context"

	"github.com/carterperez-dev/coworkflow/internal/access"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UserIDKey    contextKey = "user_id"
	UserRoleKey  contextKey = "user_role"
)

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetUserID returns the session user, or "" for anonymous requests.
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// GetUserRole is only populated behind RequireRole.
func GetUserRole(ctx context.Context) access.Role {
	if role, ok := ctx.Value(UserRoleKey).(access.Role); ok {
		return role
	}
	return 0
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != ""
}
