// AngelaMos | 2026
// session.go

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/carterperez-dev/coworkflow/internal/access"
	"github.com/carterperez-dev/coworkflow/internal/core"
)

type SessionResolver interface {
	TokenFromRequest(r *http.Request) string
	Resolve(ctx context.Context, token string) (string, error)
}

type Authorizer interface {
	Authorize(
		ctx context.Context,
		actorID string,
		threshold access.Role,
	) (access.Role, error)
}

// LoadSession attaches the session user id to the context when the cookie
// resolves. Requests without a valid session pass through anonymously.
func LoadSession(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessions.TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				if !errors.Is(err, core.ErrUnauthorized) {
					slog.Warn("session lookup failed",
						"error", err,
						"request_id", GetRequestID(r.Context()),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAuthenticated(r.Context()) {
			core.JSONError(w, core.UnauthorizedError(""))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole re-reads the session user's role on every request.
func RequireRole(
	gate Authorizer,
	threshold access.Role,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := gate.Authorize(r.Context(), GetUserID(r.Context()), threshold)
			if err != nil {
				switch {
				case errors.Is(err, core.ErrUnauthorized):
					core.JSONError(w, core.UnauthorizedError(""))
				case errors.Is(err, core.ErrNotFound):
					core.NotFound(w, "user")
				case errors.Is(err, core.ErrForbidden):
					core.Forbidden(w, "insufficient permissions")
				default:
					core.InternalServerError(w, err)
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
