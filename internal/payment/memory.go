// AngelaMos | 2026
// memory.go

package payment

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/core"
)

type memoryRepository struct {
	mu      sync.RWMutex
	records []Record
}

func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (m *memoryRepository) Create(_ context.Context, p *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, *p)
	return nil
}

func (m *memoryRepository) GetByID(_ context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.records {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("get payment: %w", core.ErrNotFound)
}

func (m *memoryRepository) ForUser(_ context.Context, userID string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Record
	for _, p := range m.records {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b Record) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out, nil
}

func (m *memoryRepository) SumCompletedSince(_ context.Context, since time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, p := range m.records {
		if p.Status == StatusCompleted && !p.Timestamp.Before(since) {
			total += p.Amount
		}
	}
	return total, nil
}
