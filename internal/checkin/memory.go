// AngelaMos | 2026
// memory.go

package checkin

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/core"
)

// memoryRepository enforces one active record per user under its lock, the
// same guarantee the partial unique index gives in Postgres.
type memoryRepository struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewMemoryRepository() Repository {
	return &memoryRepository{records: make(map[string]Record)}
}

func (m *memoryRepository) Create(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.records {
		if r.UserID == rec.UserID && r.IsActive() {
			return fmt.Errorf("create check-in: %w", core.ErrConflict)
		}
	}

	m.records[rec.ID] = *rec
	return nil
}

func (m *memoryRepository) Active(_ context.Context, userID string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.records {
		if r.UserID == userID && r.IsActive() {
			return &r, nil
		}
	}
	return nil, fmt.Errorf("active check-in: %w", core.ErrNotFound)
}

func (m *memoryRepository) Close(
	_ context.Context,
	id string,
	out time.Time,
	duration int,
) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok || !r.IsActive() {
		return nil, fmt.Errorf("close check-in: %w", core.ErrConflict)
	}

	r.CheckOutTime = &out
	r.Duration = &duration
	m.records[id] = r
	return &r, nil
}

func (m *memoryRepository) ListActive(_ context.Context) ([]Record, error) {
	return m.filter(func(r Record) bool { return r.IsActive() }), nil
}

func (m *memoryRepository) ForUser(_ context.Context, userID string) ([]Record, error) {
	return m.filter(func(r Record) bool { return r.UserID == userID }), nil
}

func (m *memoryRepository) CountActive(ctx context.Context) (int, error) {
	recs, err := m.ListActive(ctx)
	return len(recs), err
}

func (m *memoryRepository) filter(keep func(Record) bool) []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Record
	for _, r := range m.records {
		if keep(r) {
			out = append(out, r)
		}
	}

	slices.SortFunc(out, func(a, b Record) int {
		return b.CheckInTime.Compare(a.CheckInTime)
	})
	return out
}
