// AngelaMos | 2026
// memory.go

package activity

import (
	"context"
	"slices"
	"sync"
	"time"
)

type memoryRepository struct {
	mu   sync.RWMutex
	logs []Log
}

func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (m *memoryRepository) Append(_ context.Context, l *Log) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logs = append(m.logs, *l)
	return nil
}

func (m *memoryRepository) Recent(_ context.Context, limit int) ([]Log, error) {
	return m.newest(limit, func(Log) bool { return true }), nil
}

func (m *memoryRepository) ForUser(
	_ context.Context,
	userID string,
	limit int,
) ([]Log, error) {
	return m.newest(limit, func(l Log) bool { return l.UserID == userID }), nil
}

func (m *memoryRepository) CountSince(
	_ context.Context,
	t Type,
	since time.Time,
) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, l := range m.logs {
		if l.Type == t && !l.Timestamp.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *memoryRepository) newest(limit int, keep func(Log) bool) []Log {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Log
	for i := len(m.logs) - 1; i >= 0; i-- {
		if keep(m.logs[i]) {
			out = append(out, m.logs[i])
		}
	}

	slices.SortStableFunc(out, func(a, b Log) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
