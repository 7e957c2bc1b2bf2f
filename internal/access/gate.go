// AngelaMos | 2026
// gate.go

package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/carterperez-dev/coworkflow/internal/core"
)

// RoleLookup resolves a user's current role from the store.
type RoleLookup interface {
	RoleOf(ctx context.Context, userID string) (Role, error)
}

// Gate answers authorization questions for a session user. It keeps no
// state between calls; each decision re-reads the role.
type Gate struct {
	roles RoleLookup
}

func NewGate(roles RoleLookup) *Gate {
	return &Gate{roles: roles}
}

// Authorize returns the actor's role when it meets threshold.
//
// No session yields ErrUnauthorized, a session for a user that no longer
// exists yields ErrNotFound and a role below threshold yields ErrForbidden.
func (g *Gate) Authorize(
	ctx context.Context,
	actorID string,
	threshold Role,
) (Role, error) {
	if actorID == "" {
		return 0, fmt.Errorf("authorize: %w", core.ErrUnauthorized)
	}

	role, err := g.roles.RoleOf(ctx, actorID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return 0, fmt.Errorf("authorize: session user: %w", core.ErrNotFound)
		}
		return 0, fmt.Errorf("authorize: %w", err)
	}

	if !HasAtLeast(role, threshold) {
		return role, fmt.Errorf(
			"authorize: %s below %s: %w",
			role,
			threshold,
			core.ErrForbidden,
		)
	}

	return role, nil
}

// AuthorizeSelfOr lets the actor act on their own resources, and anyone
// holding threshold act on everyone's.
func (g *Gate) AuthorizeSelfOr(
	ctx context.Context,
	actorID, subjectID string,
	threshold Role,
) (Role, error) {
	role, err := g.Authorize(ctx, actorID, RoleUser)
	if err != nil {
		return role, err
	}

	if actorID == subjectID || HasAtLeast(role, threshold) {
		return role, nil
	}

	return role, fmt.Errorf("authorize: not owner: %w", core.ErrForbidden)
}
