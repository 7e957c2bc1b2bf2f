// AngelaMos | 2026
// session_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carterperez-dev/coworkflow/internal/access"
	"github.com/carterperez-dev/coworkflow/internal/core"
)

type stubSessions map[string]string

func (s stubSessions) TokenFromRequest(r *http.Request) string {
	return r.Header.Get("X-Test-Session")
}

func (s stubSessions) Resolve(_ context.Context, token string) (string, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", core.ErrUnauthorized
}

type stubGate map[string]access.Role

func (g stubGate) Authorize(
	_ context.Context,
	actorID string,
	threshold access.Role,
) (access.Role, error) {
	if actorID == "" {
		return 0, core.ErrUnauthorized
	}
	role, ok := g[actorID]
	if !ok {
		return 0, core.ErrNotFound
	}
	if !access.HasAtLeast(role, threshold) {
		return role, core.ErrForbidden
	}
	return role, nil
}

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("X-Test-Session", token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLoadSessionAndRequireSession(t *testing.T) {
	var seen string
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := LoadSession(stubSessions{"good": "u-1"})(RequireSession(final))

	if rec := serve(h, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: got %d", rec.Code)
	}
	if rec := serve(h, "stale"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown session: got %d", rec.Code)
	}
	if rec := serve(h, "good"); rec.Code != http.StatusNoContent || seen != "u-1" {
		t.Fatalf("valid session: got %d, user %q", rec.Code, seen)
	}
}

func TestRequireRole(t *testing.T) {
	gate := stubGate{"member": access.RoleUser, "boss": access.RoleSuperAdmin}
	sessions := stubSessions{"m": "member", "b": "boss", "ghost": "deleted"}

	var role access.Role
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role = GetUserRole(r.Context())
	})
	h := LoadSession(sessions)(RequireRole(gate, access.RoleManager)(final))

	tests := []struct {
		token string
		want  int
	}{
		{"", http.StatusUnauthorized},
		{"m", http.StatusForbidden},
		{"ghost", http.StatusNotFound},
		{"b", http.StatusOK},
	}
	for _, tt := range tests {
		if rec := serve(h, tt.token); rec.Code != tt.want {
			t.Fatalf("token %q: got %d, want %d", tt.token, rec.Code, tt.want)
		}
	}
	if role != access.RoleSuperAdmin {
		t.Fatalf("role in context = %q", role)
	}
}
