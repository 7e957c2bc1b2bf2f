// AngelaMos | 2026
// stats.go

package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/access"
	"github.com/carterperez-dev/coworkflow/internal/activity"
	"github.com/carterperez-dev/coworkflow/internal/core"
)

type ActivityCounter interface {
	CountSince(ctx context.Context, t activity.Type, since time.Time) (int, error)
}

type ActiveCounter interface {
	CountActive(ctx context.Context) (int, error)
}

type RevenueSummer interface {
	SumCompletedSince(ctx context.Context, since time.Time) (int, error)
}

// Today is the front-desk dashboard for the current local day.
type Today struct {
	CheckIns         int       `json:"check_ins"`
	ActiveCheckIns   int       `json:"active_check_ins"`
	NewRegistrations int       `json:"new_registrations"`
	Revenue          int       `json:"revenue"`
	Since            time.Time `json:"since"`
}

type Service struct {
	activity ActivityCounter
	checkins ActiveCounter
	payments RevenueSummer
	gate     *access.Gate
	now      func() time.Time
}

func NewService(
	activity ActivityCounter,
	checkins ActiveCounter,
	payments RevenueSummer,
	gate *access.Gate,
) *Service {
	return &Service{
		activity: activity,
		checkins: checkins,
		payments: payments,
		gate:     gate,
		now:      time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Today(ctx context.Context, actorID string) (_ *Today, err error) {
	ctx, span := core.StartSpan(ctx, "stats.Today")
	defer core.EndSpan(span, &err)

	if _, err := s.gate.Authorize(ctx, actorID, access.RoleManager); err != nil {
		return nil, err
	}

	since := StartOfDay(s.now())
	out := &Today{Since: since}

	if out.CheckIns, err = s.activity.CountSince(ctx, activity.TypeCheckIn, since); err != nil {
		return nil, fmt.Errorf("count check-ins: %w", err)
	}
	if out.ActiveCheckIns, err = s.checkins.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("count active: %w", err)
	}
	if out.NewRegistrations, err = s.activity.CountSince(ctx, activity.TypeRegistration, since); err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if out.Revenue, err = s.payments.SumCompletedSince(ctx, since); err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}

	return out, nil
}

// StartOfDay is local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
