// AngelaMos | 2026
// service.go

package pricing

import (
	"context"
	"errors"
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
	now  func() time.Time
}

func NewService(repo Repository, gate *access.Gate) *Service {
	return &Service{
		repo: repo,
		gate: gate,
		now:  time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) GetAll(ctx context.Context) ([]Tier, error) {
	return s.repo.ListTiers(ctx)
}

func (s *Service) Get(ctx context.Context, planType string) (*Tier, error) {
	pt, err := plan.Parse(planType)
	if err != nil {
		return nil, fmt.Errorf("get tier: %w", core.NotFoundError("pricing tier"))
	}
	return s.repo.GetTier(ctx, pt)
}

// Update sets a tier's amount. A changed amount writes exactly one history
// row in the same transaction; an unchanged amount writes none.
func (s *Service) Update(
	ctx context.Context,
	actorID, planType string,
	req UpdateTierRequest,
) (_ *Tier, err error) {
	ctx, span := core.StartSpan(ctx, "pricing.Update",
		attribute.String("pricing.plan_type", planType),
		attribute.Int("pricing.amount", req.Amount),
	)
	defer core.EndSpan(span, &err)

	if _, err := s.gate.Authorize(ctx, actorID, access.RoleManager); err != nil {
		return nil, err
	}

	pt, err := plan.Parse(planType)
	if err != nil {
		return nil, fmt.Errorf("update tier: %w", core.NotFoundError("pricing tier"))
	}
	if req.Amount <= 0 {
		return nil, core.ValidationError("amount must be greater than 0")
	}

	var tier *Tier
	err = s.repo.InTx(ctx, func(store Store) error {
		var txErr error
		tier, txErr = s.applyChange(ctx, store, pt, req.Amount, req.Description, actorID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	return tier, nil
}

func (s *Service) applyChange(
	ctx context.Context,
	store Store,
	pt plan.Type,
	amount int,
	description *string,
	actorID string,
) (*Tier, error) {
	tier, err := store.LockTier(ctx, pt)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("update tier: %w", core.NotFoundError("pricing tier"))
		}
		return nil, err
	}

	now := s.now()

	if tier.Amount != amount {
		change := &PriceChange{
			ID:           uuid.New().String(),
			PlanType:     pt,
			OldAmount:    tier.Amount,
			NewAmount:    amount,
			ChangedBy:    actorID,
			ChangeReason: PriceUpdateReason,
			Timestamp:    now,
		}
		if err := store.AppendHistory(ctx, change); err != nil {
			return nil, err
		}

		slog.Info("price changed",
			"plan_type", string(pt),
			"old_amount", tier.Amount,
			"new_amount", amount,
			"actor_id", actorID,
		)
		tier.Amount = amount
	}

	if description != nil {
		tier.Description = strings.TrimSpace(*description)
	}
	tier.LastUpdated = now
	tier.UpdatedBy = &actorID

	if err := store.SaveTier(ctx, tier); err != nil {
		return nil, err
	}

	return tier, nil
}

func (s *Service) Schedule(
	ctx context.Context,
	actorID string,
	req ScheduleRequest,
) (*ScheduledChange, error) {
	if _, err := s.gate.Authorize(ctx, actorID, access.RoleManager); err != nil {
		return nil, err
	}

	pt, err := plan.Parse(req.PlanType)
	if err != nil {
		return nil, core.ValidationError("invalid plan type", err.Error())
	}
	if req.NewAmount <= 0 {
		return nil, core.ValidationError("new_amount must be greater than 0")
	}

	c := &ScheduledChange{
		ID:            uuid.New().String(),
		PlanType:      pt,
		NewAmount:     req.NewAmount,
		ScheduledBy:   actorID,
		ScheduledDate: req.ScheduledDate,
		CreatedAt:     s.now(),
	}

	if err := s.repo.CreateScheduled(ctx, c); err != nil {
		return nil, err
	}

	slog.Info("price change scheduled",
		"id", c.ID,
		"plan_type", string(pt),
		"new_amount", c.NewAmount,
		"scheduled_date", c.ScheduledDate,
	)

	return c, nil
}

// ListScheduled returns every scheduled change, soonest first.
func (s *Service) ListScheduled(ctx context.Context, actorID string) ([]ScheduledChange, error) {
	if _, err := s.gate.Authorize(ctx, actorID, access.RoleManager); err != nil {
		return nil, err
	}
	return s.repo.ListScheduled(ctx)
}

// ApplyScheduled is restricted to super_admin. Applying an already applied
// change returns it untouched.
func (s *Service) ApplyScheduled(
	ctx context.Context,
	actorID, id string,
) (*ScheduledChange, error) {
	if _, err := s.gate.Authorize(ctx, actorID, access.RoleSuperAdmin); err != nil {
		return nil, err
	}
	return s.apply(ctx, id, actorID)
}

func (s *Service) apply(
	ctx context.Context,
	id, actorID string,
) (_ *ScheduledChange, err error) {
	ctx, span := core.StartSpan(ctx, "pricing.ApplyScheduled",
		attribute.String("pricing.scheduled_id", id),
	)
	defer core.EndSpan(span, &err)

	var applied *ScheduledChange
	err = s.repo.InTx(ctx, func(store Store) error {
		c, err := store.LockScheduled(ctx, id)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return core.NotFoundError("scheduled price change")
			}
			return err
		}

		if c.IsApplied {
			applied = c
			return nil
		}

		if _, err := s.applyChange(ctx, store, c.PlanType, c.NewAmount, nil, actorID); err != nil {
			return err
		}

		at := s.now()
		if err := store.MarkApplied(ctx, c.ID, at); err != nil {
			return err
		}

		c.IsApplied = true
		c.AppliedAt = &at
		applied = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return applied, nil
}

func (s *Service) History(
	ctx context.Context,
	actorID, planType string,
) ([]PriceChange, error) {
	if _, err := s.gate.Authorize(ctx, actorID, access.RoleManager); err != nil {
		return nil, err
	}

	pt, err := plan.Parse(planType)
	if err != nil {
		return nil, fmt.Errorf("price history: %w", core.NotFoundError("pricing tier"))
	}
	return s.repo.History(ctx, pt)
}

// ApplyDue applies every pending change whose date has passed, attributing
// each to whoever scheduled it. One failure does not stop the rest.
func (s *Service) ApplyDue(ctx context.Context) (int, error) {
	due, err := s.repo.DueScheduled(ctx, s.now())
	if err != nil {
		return 0, err
	}

	var errs []error
	applied := 0
	for _, c := range due {
		if _, err := s.apply(ctx, c.ID, c.ScheduledBy); err != nil {
			errs = append(errs, fmt.Errorf("apply %s: %w", c.ID, err))
			continue
		}
		applied++
	}

	if applied > 0 {
		slog.Info("scheduled price changes applied", "count", applied)
	}

	return applied, errors.Join(errs...)
}

// RunSweeper calls ApplyDue every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ApplyDue(ctx); err != nil {
				slog.Error("price sweep failed", "error", err)
			}
		}
	}
}
