// AngelaMos | 2026
// repository.go

package pricing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/core"
	"github.com/carterperez-dev/coworkflow/internal/plan"
)

// Store is the set of operations available both inside and outside a
// transaction. The Lock variants hold a row lock until the transaction ends.
type Store interface {
	ListTiers(ctx context.Context) ([]Tier, error)
	GetTier(ctx context.Context, pt plan.Type) (*Tier, error)
	LockTier(ctx context.Context, pt plan.Type) (*Tier, error)
	SaveTier(ctx context.Context, t *Tier) error
	AppendHistory(ctx context.Context, c *PriceChange) error
	History(ctx context.Context, pt plan.Type) ([]PriceChange, error)
	CreateScheduled(ctx context.Context, c *ScheduledChange) error
	LockScheduled(ctx context.Context, id string) (*ScheduledChange, error)
	ListScheduled(ctx context.Context) ([]ScheduledChange, error)
	DueScheduled(ctx context.Context, now time.Time) ([]ScheduledChange, error)
	MarkApplied(ctx context.Context, id string, at time.Time) error
}

type Repository interface {
	Store
	// InTx runs fn against a Store bound to one transaction.
	InTx(ctx context.Context, fn func(Store) error) error
}

const (
	tierColumns      = `plan_type, amount, description, last_updated, updated_by`
	historyColumns   = `id, plan_type, old_amount, new_amount, changed_by, COALESCE(change_reason, '') AS change_reason, timestamp`
	scheduledColumns = `id, plan_type, new_amount, scheduled_by, scheduled_date, is_applied, applied_at, created_at`
)

type repository struct {
	db core.DBTX
	tx core.TxRunner
}

func NewRepository(db core.DBTX, tx core.TxRunner) Repository {
	return &repository{db: db, tx: tx}
}

func (r *repository) InTx(ctx context.Context, fn func(Store) error) error {
	return r.tx.InTx(ctx, func(tx core.DBTX) error {
		return fn(&repository{db: tx, tx: r.tx})
	})
}

func (r *repository) ListTiers(ctx context.Context) ([]Tier, error) {
	query := `SELECT ` + tierColumns + ` FROM pricing_tiers
		ORDER BY CASE plan_type
			WHEN 'hourly' THEN 1 WHEN 'daily' THEN 2
			WHEN 'weekly' THEN 3 WHEN 'monthly' THEN 4 END`

	var tiers []Tier
	if err := r.db.SelectContext(ctx, &tiers, query); err != nil {
		return nil, fmt.Errorf("list tiers: %w", err)
	}

	return tiers, nil
}

func (r *repository) GetTier(ctx context.Context, pt plan.Type) (*Tier, error) {
	return r.getTier(ctx, `SELECT `+tierColumns+` FROM pricing_tiers WHERE plan_type = $1`, pt)
}

func (r *repository) LockTier(ctx context.Context, pt plan.Type) (*Tier, error) {
	return r.getTier(ctx, `SELECT `+tierColumns+` FROM pricing_tiers WHERE plan_type = $1 FOR UPDATE`, pt)
}

func (r *repository) getTier(ctx context.Context, query string, pt plan.Type) (*Tier, error) {
	var t Tier
	err := r.db.GetContext(ctx, &t, query, pt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tier %s: %w", pt, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tier %s: %w", pt, err)
	}

	return &t, nil
}

func (r *repository) SaveTier(ctx context.Context, t *Tier) error {
	query := `
		UPDATE pricing_tiers
		SET amount = $2, description = $3, last_updated = $4, updated_by = $5
		WHERE plan_type = $1`

	result, err := r.db.ExecContext(ctx, query,
		t.PlanType,
		t.Amount,
		t.Description,
		t.LastUpdated,
		t.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("save tier: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save tier: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("save tier: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) AppendHistory(ctx context.Context, c *PriceChange) error {
	query := `
		INSERT INTO price_change_history (
			id, plan_type, old_amount, new_amount, changed_by, change_reason, timestamp
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.PlanType,
		c.OldAmount,
		c.NewAmount,
		c.ChangedBy,
		c.ChangeReason,
		c.Timestamp,
	); err != nil {
		return fmt.Errorf("append price history: %w", err)
	}

	return nil
}

func (r *repository) History(ctx context.Context, pt plan.Type) ([]PriceChange, error) {
	query := `SELECT ` + historyColumns + `
		FROM price_change_history
		WHERE plan_type = $1
		ORDER BY timestamp DESC`

	var changes []PriceChange
	if err := r.db.SelectContext(ctx, &changes, query, pt); err != nil {
		return nil, fmt.Errorf("price history: %w", err)
	}

	return changes, nil
}

func (r *repository) CreateScheduled(ctx context.Context, c *ScheduledChange) error {
	query := `
		INSERT INTO scheduled_price_changes (
			id, plan_type, new_amount, scheduled_by, scheduled_date, is_applied, created_at
		)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6)`

	if _, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.PlanType,
		c.NewAmount,
		c.ScheduledBy,
		c.ScheduledDate,
		c.CreatedAt,
	); err != nil {
		return fmt.Errorf("create scheduled change: %w", err)
	}

	return nil
}

func (r *repository) LockScheduled(ctx context.Context, id string) (*ScheduledChange, error) {
	query := `SELECT ` + scheduledColumns + `
		FROM scheduled_price_changes
		WHERE id = $1
		FOR UPDATE`

	var c ScheduledChange
	err := r.db.GetContext(ctx, &c, query, id)
	if core.IsNoRows(err) {
		return nil, fmt.Errorf("get scheduled change: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get scheduled change: %w", err)
	}

	return &c, nil
}

func (r *repository) ListScheduled(ctx context.Context) ([]ScheduledChange, error) {
	query := `SELECT ` + scheduledColumns + `
		FROM scheduled_price_changes
		ORDER BY scheduled_date ASC`

	var changes []ScheduledChange
	if err := r.db.SelectContext(ctx, &changes, query); err != nil {
		return nil, fmt.Errorf("list scheduled changes: %w", err)
	}

	return changes, nil
}

func (r *repository) DueScheduled(
	ctx context.Context,
	now time.Time,
) ([]ScheduledChange, error) {
	query := `SELECT ` + scheduledColumns + `
		FROM scheduled_price_changes
		WHERE is_applied = FALSE AND scheduled_date <= $1
		ORDER BY scheduled_date ASC`

	var changes []ScheduledChange
	if err := r.db.SelectContext(ctx, &changes, query, now); err != nil {
		return nil, fmt.Errorf("due scheduled changes: %w", err)
	}

	return changes, nil
}

func (r *repository) MarkApplied(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE scheduled_price_changes
		SET is_applied = TRUE, applied_at = $2
		WHERE id = $1 AND is_applied = FALSE`

	result, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("mark scheduled change applied: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark scheduled change applied: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("mark scheduled change applied: %w", core.ErrConflict)
	}

	return nil
}
