// AngelaMos | 2026
// service.go

package qrcode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/coworkflow/internal/access"
	"github.com/carterperez-dev/coworkflow/internal/checkin"
	"github.com/carterperez-dev/coworkflow/internal/core"
	"github.com/carterperez-dev/coworkflow/internal/plan"
	"github.com/carterperez-dev/coworkflow/internal/user"
)

type UserStore interface {
	Get(ctx context.Context, id string) (*user.User, error)
	SetMonthlyCode(ctx context.Context, userID, code string, expiry time.Time) error
	FindByActiveMonthlyCode(ctx context.Context, code string, now time.Time) (*user.User, error)
}

type CheckIns interface {
	CheckIn(ctx context.Context, userID string) (*checkin.Record, error)
	Active(ctx context.Context, userID string) (*checkin.Record, error)
}

type Service struct {
	repo     Repository
	users    UserStore
	checkins CheckIns
	gate     *access.Gate
	now      func() time.Time
}

func NewService(
	repo Repository,
	users UserStore,
	checkins CheckIns,
	gate *access.Gate,
) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		checkins: checkins,
		gate:     gate,
		now:      time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// IssueMonthly replaces the member's personal code. The previous code stops
// verifying immediately.
func (s *Service) IssueMonthly(
	ctx context.Context,
	userID string,
) (*MonthlyCodeResponse, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, fmt.Errorf("issue monthly code: %w", err)
	}

	code := newMonthlyCode(userID)
	expiry := plan.AddMonth(s.now())

	if err := s.users.SetMonthlyCode(ctx, userID, code, expiry); err != nil {
		return nil, fmt.Errorf("issue monthly code: %w", err)
	}

	slog.Info("monthly code issued", "user_id", userID, "expires_at", expiry)

	return &MonthlyCodeResponse{QRCode: code, ExpiryDate: expiry}, nil
}

func (s *Service) IssueGuest(
	ctx context.Context,
	creatorID string,
	req GuestCodeRequest,
) (*GuestCode, error) {
	if _, err := s.users.Get(ctx, creatorID); err != nil {
		return nil, fmt.Errorf("issue guest code: %w", err)
	}

	now := s.now()
	pt := plan.Type(strings.TrimSpace(req.PlanType))

	g := &GuestCode{
		ID:         uuid.New().String(),
		CreatedBy:  creatorID,
		GuestName:  strings.TrimSpace(req.GuestName),
		QRCode:     newGuestCode(),
		PlanType:   pt,
		ExpiryDate: now.Add(plan.GuestValidity(pt)),
		CreatedAt:  now,
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("issue guest code: %w", err)
	}

	slog.Info("guest code issued",
		"creator_id", creatorID,
		"guest_code_id", g.ID,
		"plan_type", string(pt),
	)

	return g, nil
}

// Verify resolves a scanned code and checks the resolved member in.
//
// Personal monthly codes are tried first, then guest codes. A guest code is
// consumed atomically and resolves to the member who created it.
func (s *Service) Verify(ctx context.Context, code string) (_ *VerifyResult, err error) {
	ctx, span := core.StartSpan(ctx, "qrcode.Verify")
	defer core.EndSpan(span, &err)

	now := s.now()
	result := &VerifyResult{}

	var claimed *GuestCode
	defer func() {
		if err != nil && claimed != nil {
			s.release(ctx, claimed)
		}
	}()

	u, err := s.users.FindByActiveMonthlyCode(ctx, code, now)
	switch {
	case err == nil:
	case errors.Is(err, core.ErrNotFound):
		guest, claimErr := s.repo.Claim(ctx, code, now)
		if claimErr != nil {
			if errors.Is(claimErr, core.ErrNotFound) {
				return nil, invalidCodeError()
			}
			return nil, fmt.Errorf("verify: %w", claimErr)
		}

		claimed = guest
		slog.Info("guest code claimed",
			"guest_code_id", guest.ID,
			"creator_id", guest.CreatedBy,
		)
		result.GuestCode = true

		u, err = s.users.Get(ctx, guest.CreatedBy)
		if err != nil {
			return nil, fmt.Errorf("verify: guest code creator: %w", err)
		}
	default:
		return nil, fmt.Errorf("verify: %w", err)
	}

	span.SetAttributes(
		attribute.String("user.id", u.ID),
		attribute.Bool("qrcode.guest", result.GuestCode),
	)
	result.User = u.Summary()

	rec, err := s.checkins.CheckIn(ctx, u.ID)
	switch {
	case err == nil:
		result.CheckIn = rec
	case errors.Is(err, core.ErrConflict):
		active, activeErr := s.checkins.Active(ctx, u.ID)
		if activeErr != nil {
			return nil, fmt.Errorf("verify: %w", activeErr)
		}
		result.CheckIn = active
		result.AlreadyCheckedIn = true
	default:
		return nil, fmt.Errorf("verify: %w", err)
	}

	return result, nil
}

// release hands a claimed guest code back when the check-in it paid for
// failed. The request context may already be done, so it gets its own.
func (s *Service) release(ctx context.Context, g *GuestCode) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.repo.Release(ctx, g.ID); err != nil {
		slog.Error("guest code left claimed without a check-in",
			"guest_code_id", g.ID,
			"creator_id", g.CreatedBy,
			"error", err,
		)
		return
	}
	slog.Warn("guest code released after failed check-in",
		"guest_code_id", g.ID,
	)
}

// ListGuest returns the caller's guest codes, or every code for staff.
func (s *Service) ListGuest(ctx context.Context, actorID string) ([]GuestCode, error) {
	role, err := s.gate.Authorize(ctx, actorID, access.RoleUser)
	if err != nil {
		return nil, err
	}

	if access.HasAtLeast(role, access.RoleManager) {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByCreator(ctx, actorID)
}

func invalidCodeError() error {
	return core.NewAppError(
		core.ErrNotFound,
		"invalid or expired code",
		http.StatusNotFound,
		core.CodeNotFound,
	)
}
