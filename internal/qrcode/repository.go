// AngelaMos | 2026
// repository.go

package qrcode

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/core"
)

type Repository interface {
	Create(ctx context.Context, g *GuestCode) error
	// Claim marks an unused, unexpired code as used and returns it. Only one
	// caller can claim a given code.
	Claim(ctx context.Context, code string, now time.Time) (*GuestCode, error)
	// Release undoes a Claim whose check-in never happened.
	Release(ctx context.Context, id string) error
	ListByCreator(ctx context.Context, creatorID string) ([]GuestCode, error)
	ListAll(ctx context.Context) ([]GuestCode, error)
}

const guestColumns = `
	id, created_by, guest_name, qr_code, plan_type, expiry_date, is_used, created_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, g *GuestCode) error {
	query := `
		INSERT INTO guest_qr_codes (
			id, created_by, guest_name, qr_code, plan_type, expiry_date,
			is_used, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)`

	_, err := r.db.ExecContext(ctx, query,
		g.ID,
		g.CreatedBy,
		g.GuestName,
		g.QRCode,
		g.PlanType,
		g.ExpiryDate,
		g.CreatedAt,
	)
	if core.IsUniqueViolation(err) {
		return fmt.Errorf("create guest code: %w", core.ErrDuplicateKey)
	}
	if err != nil {
		return fmt.Errorf("create guest code: %w", err)
	}

	return nil
}

func (r *repository) Claim(
	ctx context.Context,
	code string,
	now time.Time,
) (*GuestCode, error) {
	query := `
		UPDATE guest_qr_codes
		SET is_used = TRUE
		WHERE qr_code = $1 AND is_used = FALSE AND expiry_date > $2
		RETURNING ` + guestColumns

	var g GuestCode
	err := r.db.GetContext(ctx, &g, query, code, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("claim guest code: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("claim guest code: %w", err)
	}

	return &g, nil
}

func (r *repository) Release(ctx context.Context, id string) error {
	query := `UPDATE guest_qr_codes SET is_used = FALSE WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("release guest code: %w", err)
	}
	return nil
}

func (r *repository) ListByCreator(
	ctx context.Context,
	creatorID string,
) ([]GuestCode, error) {
	query := `SELECT ` + guestColumns + `
		FROM guest_qr_codes
		WHERE created_by = $1
		ORDER BY created_at DESC`

	var codes []GuestCode
	if err := r.db.SelectContext(ctx, &codes, query, creatorID); err != nil {
		return nil, fmt.Errorf("list guest codes: %w", err)
	}

	return codes, nil
}

func (r *repository) ListAll(ctx context.Context) ([]GuestCode, error) {
	query := `SELECT ` + guestColumns + `
		FROM guest_qr_codes
		ORDER BY created_at DESC`

	var codes []GuestCode
	if err := r.db.SelectContext(ctx, &codes, query); err != nil {
		return nil, fmt.Errorf("list guest codes: %w", err)
	}

	return codes, nil
}
