// AngelaMos | 2026
// memory.go

package qrcode

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/core"
)

type memoryRepository struct {
	mu    sync.Mutex
	codes map[string]GuestCode
}

func NewMemoryRepository() Repository {
	return &memoryRepository{codes: make(map[string]GuestCode)}
}

func (m *memoryRepository) Create(_ context.Context, g *GuestCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.codes[g.QRCode]; ok {
		return fmt.Errorf("create guest code: %w", core.ErrDuplicateKey)
	}
	m.codes[g.QRCode] = *g
	return nil
}

func (m *memoryRepository) Claim(
	_ context.Context,
	code string,
	now time.Time,
) (*GuestCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.codes[code]
	if !ok || !g.Redeemable(now) {
		return nil, fmt.Errorf("claim guest code: %w", core.ErrNotFound)
	}

	g.IsUsed = true
	m.codes[code] = g
	return &g, nil
}

func (m *memoryRepository) Release(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for code, g := range m.codes {
		if g.ID == id {
			g.IsUsed = false
			m.codes[code] = g
			return nil
		}
	}
	return fmt.Errorf("release guest code: %w", core.ErrNotFound)
}

func (m *memoryRepository) ListByCreator(
	_ context.Context,
	creatorID string,
) ([]GuestCode, error) {
	return m.list(func(g GuestCode) bool { return g.CreatedBy == creatorID }), nil
}

func (m *memoryRepository) ListAll(_ context.Context) ([]GuestCode, error) {
	return m.list(func(GuestCode) bool { return true }), nil
}

func (m *memoryRepository) list(keep func(GuestCode) bool) []GuestCode {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []GuestCode
	for _, g := range m.codes {
		if keep(g) {
			out = append(out, g)
		}
	}
	slices.SortFunc(out, func(a, b GuestCode) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}
