// AngelaMos | 2026
// gate_test.go

package access

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/carterperez-dev/coworkflow/internal/core"
)

type staticRoles map[string]Role

func (s staticRoles) RoleOf(_ context.Context, userID string) (Role, error) {
	role, ok := s[userID]
	if !ok {
		return 0, fmt.Errorf("role of %s: %w", userID, core.ErrNotFound)
	}
	return role, nil
}

func newTestGate() *Gate {
	return NewGate(staticRoles{
		"alice": RoleUser,
		"mia":   RoleManager,
		"root":  RoleSuperAdmin,
	})
}

func TestAuthorize(t *testing.T) {
	gate := newTestGate()
	ctx := context.Background()

	if _, err := gate.Authorize(ctx, "", RoleUser); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("no actor: expected ErrUnauthorized, got %v", err)
	}
	if _, err := gate.Authorize(ctx, "ghost", RoleUser); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("missing actor: expected ErrNotFound, got %v", err)
	}
	if _, err := gate.Authorize(ctx, "alice", RoleManager); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("member as manager: expected ErrForbidden, got %v", err)
	}

	role, err := gate.Authorize(ctx, "root", RoleManager)
	if err != nil {
		t.Fatalf("super admin as manager: %v", err)
	}
	if role != RoleSuperAdmin {
		t.Fatalf("expected super_admin, got %s", role)
	}
}

func TestAuthorizeSelfOr(t *testing.T) {
	gate := newTestGate()
	ctx := context.Background()

	if _, err := gate.AuthorizeSelfOr(ctx, "alice", "alice", RoleManager); err != nil {
		t.Fatalf("self access: %v", err)
	}
	if _, err := gate.AuthorizeSelfOr(ctx, "alice", "bob", RoleManager); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("other member: expected ErrForbidden, got %v", err)
	}
	if _, err := gate.AuthorizeSelfOr(ctx, "mia", "bob", RoleManager); err != nil {
		t.Fatalf("manager on member: %v", err)
	}
}
