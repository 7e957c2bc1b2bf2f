// AngelaMos | 2026
// memory.go

package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/core"
)

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]Session)}
}

func (m *memoryStore) Get(_ context.Context, idHash string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[idHash]
	if !ok {
		return nil, fmt.Errorf("get session: %w", core.ErrNotFound)
	}
	return &s, nil
}

func (m *memoryStore) Set(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.IDHash] = *s
	return nil
}

func (m *memoryStore) Destroy(_ context.Context, idHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, idHash)
	return nil
}

func (m *memoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for k, s := range m.sessions {
		if s.IsExpired(now) {
			delete(m.sessions, k)
			n++
		}
	}
	return n, nil
}
