// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/coworkflow/internal/access"
	"github.com/carterperez-dev/coworkflow/internal/core"
	"github.com/carterperez-dev/coworkflow/internal/plan"
)

type Service struct {
	repo Repository
	gate *access.Gate
}

func NewService(repo Repository) *Service {
	s := &Service{repo: repo}
	s.gate = access.NewGate(s)
	return s
}

// Gate is the authorization gate backed by this service's role lookups.
func (s *Service) Gate() *access.Gate {
	return s.gate
}

func (s *Service) RoleOf(ctx context.Context, userID string) (access.Role, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.Role, nil
}

// Create inserts a member with the lowest role and a random avatar color.
// Username and email are checked up front and again by the unique indexes.
func (s *Service) Create(ctx context.Context, nu NewUser) (*User, error) {
	username := strings.TrimSpace(nu.Username)
	email := strings.ToLower(strings.TrimSpace(nu.Email))

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("create user: %w", core.DuplicateError("username"))
	}

	exists, err = s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("create user: %w", core.DuplicateError("email"))
	}

	u := &User{
		ID:                uuid.New().String(),
		Username:          username,
		Email:             email,
		Name:              strings.TrimSpace(nu.Name),
		PasswordHash:      nu.PasswordHash,
		PinHash:           nu.PinHash,
		Role:              access.RoleUser,
		PlanType:          nu.PlanType,
		ProfileImageColor: core.RandomChoice(ProfileColors),
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.GetByUsername(ctx, strings.TrimSpace(username))
}

// GetForActor lets members read their own profile and managers read any.
func (s *Service) GetForActor(ctx context.Context, actorID, id string) (*User, error) {
	if _, err := s.gate.AuthorizeSelfOr(ctx, actorID, id, access.RoleManager); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	actorID string,
	params ListUsersParams,
) ([]User, int, error) {
	if _, err := s.gate.Authorize(ctx, actorID, access.RoleManager); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, params)
}

// Update edits a profile. Members may edit themselves, managers anyone, but
// only a super_admin may change a role.
func (s *Service) Update(
	ctx context.Context,
	actorID, id string,
	req UpdateUserRequest,
) (_ *User, err error) {
	ctx, span := core.StartSpan(ctx, "user.Update",
		attribute.String("user.id", id),
	)
	defer core.EndSpan(span, &err)

	actorRole, err := s.gate.AuthorizeSelfOr(ctx, actorID, id, access.RoleManager)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		role, err := access.ParseRole(*req.Role)
		if err != nil {
			return nil, core.ValidationError("invalid role", err.Error())
		}
		if role != u.Role {
			if !access.HasAtLeast(actorRole, access.RoleSuperAdmin) {
				return nil, fmt.Errorf("change role: %w", core.ForbiddenError(
					"only a super_admin can change roles",
				))
			}
			slog.Info("user role changed",
				"user_id", id,
				"from", u.Role.String(),
				"to", role.String(),
				"actor_id", actorID,
			)
			u.Role = role
		}
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != u.Email {
			exists, err := s.repo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("update user: %w", err)
			}
			if exists {
				return nil, fmt.Errorf("update user: %w", core.DuplicateError("email"))
			}
			u.Email = email
		}
	}

	if req.PlanType != nil {
		pt, err := plan.Parse(*req.PlanType)
		if err != nil {
			return nil, core.ValidationError("invalid plan type", err.Error())
		}
		u.PlanType = &pt
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// UpgradeCredentialHashes stores rehashed secrets produced at login. A
// failure is logged and otherwise ignored; the old hashes still verify.
func (s *Service) UpgradeCredentialHashes(
	ctx context.Context,
	userID, passwordHash, pinHash string,
) {
	if passwordHash != "" {
		if err := s.repo.UpdatePasswordHash(ctx, userID, passwordHash); err != nil {
			slog.Warn("password rehash not stored", "user_id", userID, "error", err)
		}
	}
	if pinHash != "" {
		if err := s.repo.UpdatePinHash(ctx, userID, pinHash); err != nil {
			slog.Warn("pin rehash not stored", "user_id", userID, "error", err)
		}
	}
}

func (s *Service) SetMonthlyCode(
	ctx context.Context,
	userID, code string,
	expiry time.Time,
) error {
	return s.repo.SetMonthlyCode(ctx, userID, code, expiry)
}

func (s *Service) FindByActiveMonthlyCode(
	ctx context.Context,
	code string,
	now time.Time,
) (*User, error) {
	return s.repo.FindByActiveMonthlyCode(ctx, code, now)
}

// Summaries returns the listing projection for each id that still exists.
func (s *Service) Summaries(
	ctx context.Context,
	ids []string,
) (map[string]Summary, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	list, err := s.repo.Summaries(ctx, unique)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Summary, len(list))
	for _, sum := range list {
		out[sum.ID] = sum
	}
	return out, nil
}
