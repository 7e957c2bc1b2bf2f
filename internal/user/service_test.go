// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"errors"
	"testing"

	"github.com/carterperez-dev/coworkflow/internal/access"
	"github.com/carterperez-dev/coworkflow/internal/core"
	"github.com/carterperez-dev/coworkflow/internal/plan"
)

func newTestService(t *testing.T) (*Service, Repository) {
	t.Helper()
	repo := NewMemoryRepository()
	return NewService(repo), repo
}

func mustCreate(t *testing.T, svc *Service, repo Repository, username string, role access.Role) *User {
	t.Helper()
	ctx := context.Background()

	u, err := svc.Create(ctx, NewUser{
		Username:     username,
		Email:        username + "@example.com",
		Name:         username,
		PasswordHash: "x",
		PinHash:      "x",
	})
	if err != nil {
		t.Fatalf("create %s: %v", username, err)
	}
	if role != access.RoleUser {
		u.Role = role
		if err := repo.Update(ctx, u); err != nil {
			t.Fatalf("promote %s: %v", username, err)
		}
	}
	return u
}

func strPtr(s string) *string { return &s }

func TestCreateAssignsDefaults(t *testing.T) {
	svc, repo := newTestService(t)
	u := mustCreate(t, svc, repo, "alice", access.RoleUser)

	if u.Role != access.RoleUser {
		t.Fatalf("role = %s", u.Role)
	}
	if u.ProfileImageColor == "" {
		t.Fatalf("profile color not assigned")
	}
	if u.EffectivePlan() != plan.Hourly {
		t.Fatalf("effective plan = %s", u.EffectivePlan())
	}
}

func TestCreateRejectsDuplicates(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, repo, "alice", access.RoleUser)

	_, err := svc.Create(ctx, NewUser{Username: "alice", Email: "new@example.com"})
	if !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatalf("duplicate username: %v", err)
	}

	_, err = svc.Create(ctx, NewUser{Username: "alicia", Email: " ALICE@example.com "})
	if !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatalf("duplicate email: %v", err)
	}

	users, total, err := repo.List(ctx, ListUsersParams{})
	if err != nil || total != 1 || len(users) != 1 {
		t.Fatalf("expected one row, got %d (%v)", total, err)
	}
}

func TestUpdateRoleRequiresSuperAdmin(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	alice := mustCreate(t, svc, repo, "alice", access.RoleUser)
	mia := mustCreate(t, svc, repo, "mia", access.RoleManager)
	root := mustCreate(t, svc, repo, "root", access.RoleSuperAdmin)

	_, err := svc.Update(ctx, alice.ID, alice.ID, UpdateUserRequest{Role: strPtr("manager")})
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("self promotion: expected ErrForbidden, got %v", err)
	}

	_, err = svc.Update(ctx, mia.ID, alice.ID, UpdateUserRequest{Role: strPtr("manager")})
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("manager promotion: expected ErrForbidden, got %v", err)
	}

	updated, err := svc.Update(ctx, root.ID, alice.ID, UpdateUserRequest{Role: strPtr("manager")})
	if err != nil {
		t.Fatalf("super admin promotion: %v", err)
	}
	if updated.Role != access.RoleManager {
		t.Fatalf("role = %s", updated.Role)
	}

	role, err := svc.RoleOf(ctx, alice.ID)
	if err != nil || role != access.RoleManager {
		t.Fatalf("role not persisted: %s, %v", role, err)
	}
}

func TestUpdateSameRoleIsNotAChange(t *testing.T) {
	svc, repo := newTestService(t)
	alice := mustCreate(t, svc, repo, "alice", access.RoleUser)

	u, err := svc.Update(context.Background(), alice.ID, alice.ID, UpdateUserRequest{
		Role: strPtr("user"),
		Name: strPtr("Alice Liddell"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.Name != "Alice Liddell" {
		t.Fatalf("name = %q", u.Name)
	}
}

func TestUpdateEmailRechecksUniqueness(t *testing.T) {
	svc, repo := newTestService(t)
	alice := mustCreate(t, svc, repo, "alice", access.RoleUser)
	mustCreate(t, svc, repo, "bob", access.RoleUser)

	_, err := svc.Update(context.Background(), alice.ID, alice.ID, UpdateUserRequest{
		Email: strPtr("BOB@example.com"),
	})
	if !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestGetForActor(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	alice := mustCreate(t, svc, repo, "alice", access.RoleUser)
	bob := mustCreate(t, svc, repo, "bob", access.RoleUser)
	mia := mustCreate(t, svc, repo, "mia", access.RoleManager)

	if _, err := svc.GetForActor(ctx, alice.ID, alice.ID); err != nil {
		t.Fatalf("self: %v", err)
	}
	if _, err := svc.GetForActor(ctx, bob.ID, alice.ID); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("peer: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.GetForActor(ctx, mia.ID, alice.ID); err != nil {
		t.Fatalf("manager: %v", err)
	}
}

func TestListRequiresManagerAndFilters(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	alice := mustCreate(t, svc, repo, "alice", access.RoleUser)
	mia := mustCreate(t, svc, repo, "mia", access.RoleManager)
	mustCreate(t, svc, repo, "bob", access.RoleUser)

	if _, _, err := svc.List(ctx, alice.ID, ListUsersParams{}); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("member list: expected ErrForbidden, got %v", err)
	}

	users, total, err := svc.List(ctx, mia.ID, ListUsersParams{Role: "user"})
	if err != nil || total != 2 || len(users) != 2 {
		t.Fatalf("role filter: %d users, %v", total, err)
	}

	users, total, err = svc.List(ctx, mia.ID, ListUsersParams{Search: "BO"})
	if err != nil || total != 1 || users[0].Username != "bob" {
		t.Fatalf("search: %+v, %v", users, err)
	}
}

func TestSummariesDeduplicates(t *testing.T) {
	svc, repo := newTestService(t)
	alice := mustCreate(t, svc, repo, "alice", access.RoleUser)

	got, err := svc.Summaries(context.Background(), []string{alice.ID, alice.ID, "missing"})
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(got) != 1 || got[alice.ID].Username != "alice" {
		t.Fatalf("unexpected summaries %+v", got)
	}
}
