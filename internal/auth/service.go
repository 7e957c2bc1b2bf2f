// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/coworkflow/internal/activity"
	"github.com/carterperez-dev/coworkflow/internal/core"
	"github.com/carterperez-dev/coworkflow/internal/plan"
	"github.com/carterperez-dev/coworkflow/internal/user"
)

const invalidLoginMessage = "invalid username or password"

type UserStore interface {
	Create(ctx context.Context, nu user.NewUser) (*user.User, error)
	Get(ctx context.Context, id string) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	UpgradeCredentialHashes(ctx context.Context, userID, passwordHash, pinHash string)
}

type SessionIssuer interface {
	Create(ctx context.Context, userID string) (string, time.Time, error)
	Destroy(ctx context.Context, token string) error
}

type ActivityRecorder interface {
	Record(ctx context.Context, userID string, t activity.Type, details string) error
}

type Service struct {
	users    UserStore
	sessions SessionIssuer
	activity ActivityRecorder
}

func NewService(
	users UserStore,
	sessions SessionIssuer,
	activity ActivityRecorder,
) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		activity: activity,
	}
}

// Register creates a member, hashing both the password and the PIN, and
// signs them in.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (_ *Result, err error) {
	ctx, span := core.StartSpan(ctx, "auth.Register")
	defer core.EndSpan(span, &err)

	passwordHash, err := core.HashSecret(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	pinHash, err := core.HashSecret(req.Pin)
	if err != nil {
		return nil, fmt.Errorf("hash pin: %w", err)
	}

	nu := user.NewUser{
		Username:     req.Username,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
		PinHash:      pinHash,
	}
	if req.PlanType != "" {
		pt, err := plan.Parse(req.PlanType)
		if err != nil {
			return nil, core.ValidationError("invalid plan type", err.Error())
		}
		nu.PlanType = &pt
	}

	u, err := s.users.Create(ctx, nu)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	slog.Info("member registered", "user_id", u.ID, "username", u.Username)
	s.record(ctx, u.ID, activity.TypeRegistration, "New user registration")

	return s.signIn(ctx, u)
}

// Login never reveals whether the username or the password was wrong.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Result, error) {
	return s.authenticate(ctx, req.Username, req.Password, credentialPassword)
}

func (s *Service) PinLogin(ctx context.Context, req PinLoginRequest) (*Result, error) {
	return s.authenticate(ctx, req.Username, req.Pin, credentialPin)
}

// Logout is idempotent.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *Service) CurrentUser(ctx context.Context, userID string) (*user.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("current user: %w", core.ErrUnauthorized)
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return u, nil
}

type credential int

const (
	credentialPassword credential = iota
	credentialPin
)

func (s *Service) authenticate(
	ctx context.Context,
	username, secret string,
	kind credential,
) (_ *Result, err error) {
	ctx, span := core.StartSpan(ctx, "auth.Login",
		attribute.Bool("auth.pin", kind == credentialPin),
	)
	defer core.EndSpan(span, &err)

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // burn the same argon2 work as a real check
			_, _, _ = core.VerifySecretTimingSafe(secret, nil)
			return nil, core.InvalidCredentialsError(invalidLoginMessage)
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	stored := &u.PasswordHash
	if kind == credentialPin {
		stored = &u.PinHash
	}

	valid, newHash, err := core.VerifySecretTimingSafe(secret, stored)
	if err != nil {
		return nil, fmt.Errorf("login: verify: %w", err)
	}
	if !valid {
		return nil, core.InvalidCredentialsError(invalidLoginMessage)
	}

	details := "User logged in"
	if kind == credentialPin {
		details = "User logged in with PIN"
		if newHash != "" {
			s.users.UpgradeCredentialHashes(ctx, u.ID, "", newHash)
		}
	} else if newHash != "" {
		s.users.UpgradeCredentialHashes(ctx, u.ID, newHash, "")
	}

	s.record(ctx, u.ID, activity.TypeLogin, details)

	return s.signIn(ctx, u)
}

func (s *Service) signIn(ctx context.Context, u *user.User) (*Result, error) {
	token, expiresAt, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("establish session: %w", err)
	}

	return &Result{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) record(ctx context.Context, userID string, t activity.Type, details string) {
	if err := s.activity.Record(ctx, userID, t, details); err != nil {
		slog.Error("activity not recorded",
			"user_id", userID,
			"type", string(t),
			"error", err,
		)
	}
}
