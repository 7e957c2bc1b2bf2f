// AngelaMos | 2026
// repository.go

package checkin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/core"
)

type Repository interface {
	// Create fails with ErrConflict when the user already has an active record.
	Create(ctx context.Context, rec *Record) error
	Active(ctx context.Context, userID string) (*Record, error)
	// Close fails with ErrConflict when the record was already closed.
	Close(ctx context.Context, id string, out time.Time, duration int) (*Record, error)
	ListActive(ctx context.Context) ([]Record, error)
	ForUser(ctx context.Context, userID string) ([]Record, error)
	CountActive(ctx context.Context) (int, error)
}

const recordColumns = `id, user_id, check_in_time, check_out_time, duration, plan_type`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO check_in_records (id, user_id, check_in_time, plan_type)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.CheckInTime,
		rec.PlanType,
	)
	if core.IsUniqueViolation(err, "check_in_records_one_active_idx") {
		return fmt.Errorf("create check-in: %w", core.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create check-in: %w", err)
	}

	return nil
}

func (r *repository) Active(ctx context.Context, userID string) (*Record, error) {
	query := `SELECT ` + recordColumns + `
		FROM check_in_records
		WHERE user_id = $1 AND check_out_time IS NULL`

	var rec Record
	err := r.db.GetContext(ctx, &rec, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("active check-in: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("active check-in: %w", err)
	}

	return &rec, nil
}

func (r *repository) Close(
	ctx context.Context,
	id string,
	out time.Time,
	duration int,
) (*Record, error) {
	query := `
		UPDATE check_in_records
		SET check_out_time = $2, duration = $3
		WHERE id = $1 AND check_out_time IS NULL
		RETURNING ` + recordColumns

	var rec Record
	err := r.db.GetContext(ctx, &rec, query, id, out, duration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("close check-in: %w", core.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("close check-in: %w", err)
	}

	return &rec, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Record, error) {
	query := `SELECT ` + recordColumns + `
		FROM check_in_records
		WHERE check_out_time IS NULL
		ORDER BY check_in_time DESC`

	var recs []Record
	if err := r.db.SelectContext(ctx, &recs, query); err != nil {
		return nil, fmt.Errorf("list active check-ins: %w", err)
	}

	return recs, nil
}

func (r *repository) ForUser(ctx context.Context, userID string) ([]Record, error) {
	query := `SELECT ` + recordColumns + `
		FROM check_in_records
		WHERE user_id = $1
		ORDER BY check_in_time DESC`

	var recs []Record
	if err := r.db.SelectContext(ctx, &recs, query, userID); err != nil {
		return nil, fmt.Errorf("user check-ins: %w", err)
	}

	return recs, nil
}

func (r *repository) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM check_in_records WHERE check_out_time IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("count active check-ins: %w", err)
	}
	return n, nil
}
