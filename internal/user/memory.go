// AngelaMos | 2026
// memory.go

package user

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/core"
)

// memoryRepository mirrors the table's unique constraints so tests see the
// same conflicts Postgres would raise.
type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
	now   func() time.Time
}

func NewMemoryRepository() Repository {
	return &memoryRepository{
		users: make(map[string]User),
		now:   time.Now,
	}
}

func (m *memoryRepository) Create(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return fmt.Errorf("create user: %w", core.DuplicateError("username"))
		}
		if u.Email == user.Email {
			return fmt.Errorf("create user: %w", core.DuplicateError("email"))
		}
	}
	if _, ok := m.users[user.ID]; ok {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}

	now := m.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users[user.ID] = *user
	return nil
}

func (m *memoryRepository) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return &u, nil
}

func (m *memoryRepository) GetByUsername(
	_ context.Context,
	username string,
) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get user by username: %w", core.ErrNotFound)
}

func (m *memoryRepository) ExistsByUsername(
	ctx context.Context,
	username string,
) (bool, error) {
	_, err := m.GetByUsername(ctx, username)
	return err == nil, nil
}

func (m *memoryRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepository) Update(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[user.ID]
	if !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	for id, u := range m.users {
		if id != user.ID && u.Email == user.Email {
			return fmt.Errorf("update user: %w", core.DuplicateError("email"))
		}
	}

	existing.Name = user.Name
	existing.Email = user.Email
	existing.Role = user.Role
	existing.PlanType = user.PlanType
	existing.UpdatedAt = m.now()
	m.users[user.ID] = existing

	user.UpdatedAt = existing.UpdatedAt
	return nil
}

func (m *memoryRepository) UpdatePasswordHash(_ context.Context, id, hash string) error {
	return m.mutate("update password hash", id, func(u *User) {
		u.PasswordHash = hash
	})
}

func (m *memoryRepository) UpdatePinHash(_ context.Context, id, hash string) error {
	return m.mutate("update pin hash", id, func(u *User) {
		u.PinHash = hash
	})
}

func (m *memoryRepository) SetMonthlyCode(
	_ context.Context,
	id, code string,
	expiry time.Time,
) error {
	return m.mutate("set monthly code", id, func(u *User) {
		u.CurrentMonthlyQRCode = &code
		u.QRCodeExpiryDate = &expiry
	})
}

func (m *memoryRepository) FindByActiveMonthlyCode(
	_ context.Context,
	code string,
	now time.Time,
) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.HasActiveMonthlyCode(code, now) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("find by monthly code: %w", core.ErrNotFound)
}

func (m *memoryRepository) List(
	_ context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	m.mu.RLock()
	defer m.mu.RUnlock()

	search := strings.ToLower(params.Search)
	var matched []User
	for _, u := range m.users {
		if params.Role != "" && u.Role.String() != params.Role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Username), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) &&
			!strings.Contains(strings.ToLower(u.Name), search) {
			continue
		}
		matched = append(matched, u)
	}

	slices.SortFunc(matched, func(a, b User) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	total := len(matched)
	start := min(params.Offset(), total)
	end := min(start+params.PageSize, total)

	return matched[start:end], total, nil
}

func (m *memoryRepository) Summaries(
	_ context.Context,
	ids []string,
) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u.Summary())
		}
	}
	return out, nil
}

func (m *memoryRepository) mutate(op, id string, fn func(*User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	fn(&u)
	u.UpdatedAt = m.now()
	m.users[id] = u
	return nil
}
