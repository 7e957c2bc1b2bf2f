// AngelaMos | 2026
// memory.go

package pricing

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/core"
	"github.com/carterperez-dev/coworkflow/internal/plan"
)

// DefaultTiers is the seed the migration also inserts.
func DefaultTiers(now time.Time) []Tier {
	return []Tier{
		{PlanType: plan.Hourly, Amount: 1000, Description: "Pay-as-you-go usage", LastUpdated: now},
		{PlanType: plan.Daily, Amount: 4000, Description: "Full day access", LastUpdated: now},
		{PlanType: plan.Weekly, Amount: 20000, Description: "7 days of access", LastUpdated: now},
		{PlanType: plan.Monthly, Amount: 68000, Description: "30 days of access", LastUpdated: now},
	}
}

// memoryRepository serializes transactions and restores a snapshot when
// fn fails, which is enough isolation for a single process.
type memoryRepository struct {
	txMu sync.Mutex

	mu        sync.RWMutex
	tiers     map[plan.Type]Tier
	history   []PriceChange
	scheduled map[string]ScheduledChange
}

func NewMemoryRepository() Repository {
	m := &memoryRepository{
		tiers:     make(map[plan.Type]Tier),
		scheduled: make(map[string]ScheduledChange),
	}
	for _, t := range DefaultTiers(time.Now()) {
		m.tiers[t.PlanType] = t
	}
	return m
}

func (m *memoryRepository) InTx(ctx context.Context, fn func(Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.RLock()
	tiers := maps.Clone(m.tiers)
	history := slices.Clone(m.history)
	scheduled := maps.Clone(m.scheduled)
	m.mu.RUnlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.tiers, m.history, m.scheduled = tiers, history, scheduled
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memoryRepository) ListTiers(_ context.Context) ([]Tier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Tier, 0, len(m.tiers))
	for _, pt := range plan.All() {
		if t, ok := m.tiers[pt]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memoryRepository) GetTier(_ context.Context, pt plan.Type) (*Tier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tiers[pt]
	if !ok {
		return nil, fmt.Errorf("get tier %s: %w", pt, core.ErrNotFound)
	}
	return &t, nil
}

func (m *memoryRepository) LockTier(ctx context.Context, pt plan.Type) (*Tier, error) {
	return m.GetTier(ctx, pt)
}

func (m *memoryRepository) SaveTier(_ context.Context, t *Tier) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tiers[t.PlanType]; !ok {
		return fmt.Errorf("save tier: %w", core.ErrNotFound)
	}
	m.tiers[t.PlanType] = *t
	return nil
}

func (m *memoryRepository) AppendHistory(_ context.Context, c *PriceChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = append(m.history, *c)
	return nil
}

func (m *memoryRepository) History(_ context.Context, pt plan.Type) ([]PriceChange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []PriceChange
	for i := len(m.history) - 1; i >= 0; i-- {
		if m.history[i].PlanType == pt {
			out = append(out, m.history[i])
		}
	}
	slices.SortStableFunc(out, func(a, b PriceChange) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out, nil
}

func (m *memoryRepository) CreateScheduled(_ context.Context, c *ScheduledChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scheduled[c.ID] = *c
	return nil
}

func (m *memoryRepository) LockScheduled(_ context.Context, id string) (*ScheduledChange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.scheduled[id]
	if !ok {
		return nil, fmt.Errorf("get scheduled change: %w", core.ErrNotFound)
	}
	return &c, nil
}

func (m *memoryRepository) ListScheduled(_ context.Context) ([]ScheduledChange, error) {
	return m.scheduledWhere(func(ScheduledChange) bool { return true }), nil
}

func (m *memoryRepository) DueScheduled(
	_ context.Context,
	now time.Time,
) ([]ScheduledChange, error) {
	return m.scheduledWhere(func(c ScheduledChange) bool {
		return !c.IsApplied && !c.ScheduledDate.After(now)
	}), nil
}

func (m *memoryRepository) MarkApplied(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.scheduled[id]
	if !ok || c.IsApplied {
		return fmt.Errorf("mark scheduled change applied: %w", core.ErrConflict)
	}
	c.IsApplied = true
	c.AppliedAt = &at
	m.scheduled[id] = c
	return nil
}

func (m *memoryRepository) scheduledWhere(keep func(ScheduledChange) bool) []ScheduledChange {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ScheduledChange
	for _, c := range m.scheduled {
		if keep(c) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b ScheduledChange) int {
		return a.ScheduledDate.Compare(b.ScheduledDate)
	})
	return out
}
