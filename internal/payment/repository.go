// AngelaMos | 2026
// repository.go

package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Record) error
	GetByID(ctx context.Context, id string) (*Record, error)
	ForUser(ctx context.Context, userID string) ([]Record, error)
	SumCompletedSince(ctx context.Context, since time.Time) (int, error)
}

const paymentColumns = `
	id, user_id, amount, plan_type, payment_method, transaction_id, status, timestamp`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Record) error {
	query := `
		INSERT INTO payment_records (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.Amount,
		p.PlanType,
		p.PaymentMethod,
		p.TransactionID,
		p.Status,
		p.Timestamp,
	); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Record, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_records WHERE id = $1`

	var p Record
	err := r.db.GetContext(ctx, &p, query, id)
	if core.IsNoRows(err) {
		return nil, fmt.Errorf("get payment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}

	return &p, nil
}

func (r *repository) ForUser(ctx context.Context, userID string) ([]Record, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payment_records
		WHERE user_id = $1
		ORDER BY timestamp DESC`

	var records []Record
	if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, fmt.Errorf("user payments: %w", err)
	}

	return records, nil
}

func (r *repository) SumCompletedSince(ctx context.Context, since time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payment_records
		WHERE status = 'completed' AND timestamp >= $1`

	var total int
	if err := r.db.GetContext(ctx, &total, query, since); err != nil {
		return 0, fmt.Errorf("sum payments: %w", err)
	}

	return total, nil
}
