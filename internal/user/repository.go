// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/coworkflow/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *User) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	UpdatePinHash(ctx context.Context, id, hash string) error
	SetMonthlyCode(ctx context.Context, id, code string, expiry time.Time) error
	FindByActiveMonthlyCode(
		ctx context.Context,
		code string,
		now time.Time,
	) (*User, error)
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	Summaries(ctx context.Context, ids []string) ([]Summary, error)
}

const userColumns = `
	id, username, email, name, password_hash, pin_hash, role, plan_type,
	current_monthly_qr_code, qr_code_expiry_date, profile_image_color,
	created_at, updated_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (
			id, username, email, name, password_hash, pin_hash, role,
			plan_type, profile_image_color
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.PinHash,
		user.Role,
		user.PlanType,
		user.ProfileImageColor,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		switch {
		case core.IsUniqueViolation(err, "users_username_key"):
			return fmt.Errorf("create user: %w", core.DuplicateError("username"))
		case core.IsUniqueViolation(err, "users_email_key"):
			return fmt.Errorf("create user: %w", core.DuplicateError("email"))
		case core.IsUniqueViolation(err):
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if core.IsNoRows(err) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByUsername(
	ctx context.Context,
	username string,
) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by username: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	return &user, nil
}

func (r *repository) ExistsByUsername(
	ctx context.Context,
	username string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, username); err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}

	return exists, nil
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, role = $4, plan_type = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Name,
		user.Email,
		user.Role,
		user.PlanType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if core.IsUniqueViolation(err, "users_email_key") {
		return fmt.Errorf("update user: %w", core.DuplicateError("email"))
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *repository) UpdatePasswordHash(
	ctx context.Context,
	id, hash string,
) error {
	return r.execOne(ctx, "update password hash", `
		UPDATE users SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`, id, hash)
}

func (r *repository) UpdatePinHash(ctx context.Context, id, hash string) error {
	return r.execOne(ctx, "update pin hash", `
		UPDATE users SET pin_hash = $2, updated_at = NOW()
		WHERE id = $1`, id, hash)
}

func (r *repository) SetMonthlyCode(
	ctx context.Context,
	id, code string,
	expiry time.Time,
) error {
	return r.execOne(ctx, "set monthly code", `
		UPDATE users
		SET current_monthly_qr_code = $2, qr_code_expiry_date = $3,
		    updated_at = NOW()
		WHERE id = $1`, id, code, expiry)
}

func (r *repository) FindByActiveMonthlyCode(
	ctx context.Context,
	code string,
	now time.Time,
) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE current_monthly_qr_code = $1 AND qr_code_expiry_date > $2`

	var user User
	err := r.db.GetContext(ctx, &user, query, code, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find by monthly code: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find by monthly code: %w", err)
	}

	return &user, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(username ILIKE $%d OR email ILIKE $%d OR name ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM users WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) Summaries(
	ctx context.Context,
	ids []string,
) ([]Summary, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, name, email, username, profile_image_color
		FROM users
		WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("user summaries: %w", err)
	}

	var out []Summary
	if err := r.db.SelectContext(ctx, &out, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return nil, fmt.Errorf("user summaries: %w", err)
	}

	return out, nil
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
