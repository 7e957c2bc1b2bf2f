// AngelaMos | 2026
// repository.go

package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/core"
)

type Repository interface {
	Append(ctx context.Context, l *Log) error
	Recent(ctx context.Context, limit int) ([]Log, error)
	ForUser(ctx context.Context, userID string, limit int) ([]Log, error)
	CountSince(ctx context.Context, t Type, since time.Time) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Append(ctx context.Context, l *Log) error {
	query := `
		INSERT INTO activity_logs (id, user_id, activity_type, details, timestamp)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.UserID,
		l.Type,
		l.Details,
		l.Timestamp,
	); err != nil {
		return fmt.Errorf("append activity: %w", err)
	}

	return nil
}

func (r *repository) Recent(ctx context.Context, limit int) ([]Log, error) {
	query := `
		SELECT id, user_id, activity_type, COALESCE(details, '') AS details, timestamp
		FROM activity_logs
		ORDER BY timestamp DESC
		LIMIT $1`

	var logs []Log
	if err := r.db.SelectContext(ctx, &logs, query, limit); err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}

	return logs, nil
}

func (r *repository) ForUser(
	ctx context.Context,
	userID string,
	limit int,
) ([]Log, error) {
	query := `
		SELECT id, user_id, activity_type, COALESCE(details, '') AS details, timestamp
		FROM activity_logs
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2`

	var logs []Log
	if err := r.db.SelectContext(ctx, &logs, query, userID, limit); err != nil {
		return nil, fmt.Errorf("user activity: %w", err)
	}

	return logs, nil
}

func (r *repository) CountSince(
	ctx context.Context,
	t Type,
	since time.Time,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM activity_logs
		WHERE activity_type = $1 AND timestamp >= $2`

	var n int
	if err := r.db.GetContext(ctx, &n, query, t, since); err != nil {
		return 0, fmt.Errorf("count activity: %w", err)
	}

	return n, nil
}
