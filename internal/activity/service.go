// AngelaMos | 2026
// service.go

package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/coworkflow/internal/access"
	"github.com/carterperez-dev/coworkflow/internal/events"
	"github.com/carterperez-dev/coworkflow/internal/user"
)

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

type UserDirectory interface {
	Summaries(ctx context.Context, ids []string) (map[string]user.Summary, error)
}

type Service struct {
	repo      Repository
	users     UserDirectory
	gate      *access.Gate
	publisher events.Publisher
	now       func() time.Time
}

func NewService(
	repo Repository,
	users UserDirectory,
	gate *access.Gate,
	publisher events.Publisher,
) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		gate:      gate,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Record appends a log row and mirrors it to the broker. Only the append
// can fail the call.
func (s *Service) Record(
	ctx context.Context,
	userID string,
	t Type,
	details string,
) error {
	l := &Log{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      t,
		Details:   details,
		Timestamp: s.now(),
	}

	if err := s.repo.Append(ctx, l); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.Event{
		Type:       string(t),
		UserID:     userID,
		Details:    details,
		OccurredAt: l.Timestamp,
	}); err != nil {
		slog.Warn("activity event not published",
			"type", string(t),
			"user_id", userID,
			"error", err,
		)
	}

	return nil
}

// Recent is the staff feed, newest first.
func (s *Service) Recent(
	ctx context.Context,
	actorID string,
	limit int,
) ([]Entry, error) {
	if _, err := s.gate.Authorize(ctx, actorID, access.RoleManager); err != nil {
		return nil, err
	}

	logs, err := s.repo.Recent(ctx, clampLimit(limit))
	if err != nil {
		return nil, err
	}

	return s.enrich(ctx, logs)
}

func (s *Service) ForUser(
	ctx context.Context,
	actorID, userID string,
	limit int,
) ([]Entry, error) {
	if _, err := s.gate.AuthorizeSelfOr(ctx, actorID, userID, access.RoleManager); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = MaxRecentLimit
	}

	logs, err := s.repo.ForUser(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, err
	}

	return s.enrich(ctx, logs)
}

func (s *Service) CountSince(ctx context.Context, t Type, since time.Time) (int, error) {
	return s.repo.CountSince(ctx, t, since)
}

func (s *Service) enrich(ctx context.Context, logs []Log) ([]Entry, error) {
	ids := make([]string, 0, len(logs))
	for _, l := range logs {
		ids = append(ids, l.UserID)
	}

	summaries, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("enrich activity: %w", err)
	}

	entries := make([]Entry, 0, len(logs))
	for _, l := range logs {
		e := Entry{Log: l}
		if sum, ok := summaries[l.UserID]; ok {
			e.User = &sum
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		return MaxRecentLimit
	}
	return limit
}
