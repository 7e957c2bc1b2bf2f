// AngelaMos | 2026
// service.go

package checkin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/coworkflow/internal/access"
	"github.com/carterperez-dev/coworkflow/internal/activity"
	"github.com/carterperez-dev/coworkflow/internal/core"
	"github.com/carterperez-dev/coworkflow/internal/user"
)

type UserStore interface {
	Get(ctx context.Context, id string) (*user.User, error)
	Summaries(ctx context.Context, ids []string) (map[string]user.Summary, error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, userID string, t activity.Type, details string) error
}

type Service struct {
	repo     Repository
	users    UserStore
	activity ActivityRecorder
	gate     *access.Gate
	now      func() time.Time
}

func NewService(
	repo Repository,
	users UserStore,
	activity ActivityRecorder,
	gate *access.Gate,
) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		activity: activity,
		gate:     gate,
		now:      time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CheckIn opens a stay on the member's plan (hourly when unset).
func (s *Service) CheckIn(ctx context.Context, userID string) (_ *Record, err error) {
	ctx, span := core.StartSpan(ctx, "checkin.CheckIn",
		attribute.String("user.id", userID),
	)
	defer core.EndSpan(span, &err)

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check in: %w", err)
	}

	if _, err := s.repo.Active(ctx, userID); err == nil {
		return nil, fmt.Errorf("check in: %w", core.ConflictError("user is already checked in"))
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("check in: %w", err)
	}

	rec := &Record{
		ID:          uuid.New().String(),
		UserID:      userID,
		CheckInTime: s.now(),
		PlanType:    u.EffectivePlan(),
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, fmt.Errorf("check in: %w", core.ConflictError("user is already checked in"))
		}
		return nil, fmt.Errorf("check in: %w", err)
	}

	slog.Info("checked in",
		"user_id", userID,
		"record_id", rec.ID,
		"plan_type", string(rec.PlanType),
	)
	s.record(ctx, userID, activity.TypeCheckIn,
		fmt.Sprintf("Checked in with %s plan", rec.PlanType))

	return rec, nil
}

// CheckOut closes the active stay. Of two concurrent checkouts only one
// wins; the other sees a conflict.
func (s *Service) CheckOut(ctx context.Context, userID string) (_ *Record, err error) {
	ctx, span := core.StartSpan(ctx, "checkin.CheckOut",
		attribute.String("user.id", userID),
	)
	defer core.EndSpan(span, &err)

	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, fmt.Errorf("check out: %w", err)
	}

	active, err := s.repo.Active(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("check out: %w", core.ConflictError("no active check-in found"))
		}
		return nil, fmt.Errorf("check out: %w", err)
	}

	out := s.now()
	duration := DurationMinutes(active.CheckInTime, out)

	rec, err := s.repo.Close(ctx, active.ID, out, duration)
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, fmt.Errorf("check out: %w", core.ConflictError("no active check-in found"))
		}
		return nil, fmt.Errorf("check out: %w", err)
	}

	slog.Info("checked out",
		"user_id", userID,
		"record_id", rec.ID,
		"duration_minutes", duration,
	)
	s.record(ctx, userID, activity.TypeCheckOut,
		fmt.Sprintf("Checked out after %d minutes", duration))

	return rec, nil
}

// Active returns the member's open stay, or ErrNotFound.
func (s *Service) Active(ctx context.Context, userID string) (*Record, error) {
	return s.repo.Active(ctx, userID)
}

// Status is Active with "none" reported as nil instead of an error.
func (s *Service) Status(ctx context.Context, userID string) (*Record, error) {
	rec, err := s.repo.Active(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

func (s *Service) ListActive(ctx context.Context, actorID string) ([]ActiveEntry, error) {
	if _, err := s.gate.Authorize(ctx, actorID, access.RoleManager); err != nil {
		return nil, err
	}

	recs, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.UserID)
	}

	summaries, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list active: %w", err)
	}

	entries := make([]ActiveEntry, 0, len(recs))
	for _, r := range recs {
		e := ActiveEntry{Record: r}
		if sum, ok := summaries[r.UserID]; ok {
			e.User = &sum
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *Service) History(
	ctx context.Context,
	actorID, userID string,
) ([]Record, error) {
	if _, err := s.gate.AuthorizeSelfOr(ctx, actorID, userID, access.RoleManager); err != nil {
		return nil, err
	}
	return s.repo.ForUser(ctx, userID)
}

func (s *Service) CountActive(ctx context.Context) (int, error) {
	return s.repo.CountActive(ctx)
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
