// AngelaMos | 2026
// repository.go

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/core"
)

// Store persists sessions by id hash.
type Store interface {
	Get(ctx context.Context, idHash string) (*Session, error)
	Set(ctx context.Context, s *Session) error
	Destroy(ctx context.Context, idHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Store {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, idHash string) (*Session, error) {
	query := `
		SELECT id_hash, user_id, expires_at, created_at
		FROM sessions
		WHERE id_hash = $1`

	var s Session
	err := r.db.GetContext(ctx, &s, query, idHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get session: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	return &s, nil
}

func (r *repository) Set(ctx context.Context, s *Session) error {
	query := `
		INSERT INTO sessions (id_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id_hash) DO UPDATE
		SET user_id = EXCLUDED.user_id, expires_at = EXCLUDED.expires_at`

	_, err := r.db.ExecContext(ctx, query,
		s.IDHash,
		s.UserID,
		s.ExpiresAt,
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}

	return nil
}

func (r *repository) Destroy(ctx context.Context, idHash string) error {
	query := `DELETE FROM sessions WHERE id_hash = $1`

	if _, err := r.db.ExecContext(ctx, query, idHash); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}

	return nil
}

func (r *repository) DeleteExpired(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= $1`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	return rows, nil
}
