// AngelaMos | 2026
// manager_test.go

package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/config"
	"github.com/carterperez-dev/coworkflow/internal/core"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestManager(t *testing.T) (*Manager, Store, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, time.May, 4, 8, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	m := NewManager(store, config.SessionConfig{
		Secret:     strings.Repeat("k", 32),
		CookieName: "cw_session",
		TTL:        24 * time.Hour,
	}, false).WithClock(clock.Now)

	return m, store, clock
}

func TestCreateAndResolve(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	token, expiresAt, err := m.Create(ctx, "user-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !expiresAt.Equal(time.Date(2026, time.May, 5, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("expires at %s", expiresAt)
	}

	userID, err := m.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("resolved %q", userID)
	}
}

func TestStoreNeverSeesRawID(t *testing.T) {
	m, store, _ := newTestManager(t)
	ctx := context.Background()

	token, _, err := m.Create(ctx, "user-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	id, err := m.verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("store must be keyed by the hash, not the raw id")
	}
	if _, err := store.Get(ctx, core.HashToken(id)); err != nil {
		t.Fatalf("lookup by hash: %v", err)
	}
}

func TestResolveRejectsTamperedToken(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	token, _, err := m.Create(ctx, "user-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	other := NewManager(NewMemoryStore(), config.SessionConfig{
		Secret: strings.Repeat("x", 32),
		TTL:    time.Hour,
	}, false)
	if _, err := other.Resolve(ctx, token); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("foreign secret: expected ErrUnauthorized, got %v", err)
	}

	for _, bad := range []string{"", "garbage", token + "x"} {
		if _, err := m.Resolve(ctx, bad); !errors.Is(err, core.ErrUnauthorized) {
			t.Fatalf("token %q: expected ErrUnauthorized, got %v", bad, err)
		}
	}
}

func TestResolveExpired(t *testing.T) {
	m, _, clock := newTestManager(t)
	ctx := context.Background()

	token, _, err := m.Create(ctx, "user-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	clock.now = clock.now.Add(25 * time.Hour)
	if _, err := m.Resolve(ctx, token); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after expiry, got %v", err)
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	token, _, err := m.Create(ctx, "user-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := m.Destroy(ctx, token); err != nil {
			t.Fatalf("destroy #%d: %v", i+1, err)
		}
	}
	if err := m.Destroy(ctx, "not-a-token"); err != nil {
		t.Fatalf("destroy malformed: %v", err)
	}

	if _, err := m.Resolve(ctx, token); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("destroyed session still resolves: %v", err)
	}
}

func TestPrune(t *testing.T) {
	m, _, clock := newTestManager(t)
	ctx := context.Background()

	if _, _, err := m.Create(ctx, "old"); err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.now = clock.now.Add(20 * time.Hour)
	fresh, _, err := m.Create(ctx, "fresh")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	clock.now = clock.now.Add(5 * time.Hour)
	n, err := m.Prune(ctx)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 1 {
		t.Fatalf("pruned %d, want 1", n)
	}
	if _, err := m.Resolve(ctx, fresh); err != nil {
		t.Fatalf("fresh session pruned: %v", err)
	}
}

func TestCookieRoundTrip(t *testing.T) {
	m, _, _ := newTestManager(t)

	rec := httptest.NewRecorder()
	m.SetCookie(rec, "signed-value", time.Now().Add(time.Hour))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != "cw_session" || !c.HttpOnly || c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie %+v", c)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	if got := m.TokenFromRequest(req); got != "signed-value" {
		t.Fatalf("token from request = %q", got)
	}

	if got := m.TokenFromRequest(httptest.NewRequest(http.MethodGet, "/", nil)); got != "" {
		t.Fatalf("missing cookie should yield empty token, got %q", got)
	}
}
