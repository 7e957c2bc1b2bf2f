// AngelaMos | 2026
// service_test.go

package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/access"
	"github.com/carterperez-dev/coworkflow/internal/core"
	"github.com/carterperez-dev/coworkflow/internal/events"
	"github.com/carterperez-dev/coworkflow/internal/user"
)

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Ping(context.Context) error { return nil }
func (p *recordingPublisher) Close() error               { return nil }

type fixture struct {
	svc   *Service
	pub   *recordingPublisher
	alice string
	bob   string
	mia   string
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	repo := user.NewMemoryRepository()
	users := user.NewService(repo)

	create := func(name string, role access.Role) string {
		u, err := users.Create(ctx, user.NewUser{
			Username: name,
			Email:    name + "@example.com",
			Name:     name,
		})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		u.Role = role
		if err := repo.Update(ctx, u); err != nil {
			t.Fatalf("promote %s: %v", name, err)
		}
		return u.ID
	}

	f := &fixture{
		pub: &recordingPublisher{},
		now: time.Date(2026, time.May, 4, 8, 0, 0, 0, time.UTC),
	}
	f.alice = create("alice", access.RoleUser)
	f.bob = create("bob", access.RoleUser)
	f.mia = create("mia", access.RoleManager)

	f.svc = NewService(NewMemoryRepository(), users, users.Gate(), f.pub).
		WithClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) record(t *testing.T, userID string, typ Type, details string) {
	t.Helper()
	f.now = f.now.Add(time.Minute)
	if err := f.svc.Record(context.Background(), userID, typ, details); err != nil {
		t.Fatalf("record: %v", err)
	}
}

func TestRecentNewestFirstWithMember(t *testing.T) {
	f := newFixture(t)
	f.record(t, f.alice, TypeCheckIn, "Checked in")
	f.record(t, f.bob, TypeLogin, "User logged in")

	entries, err := f.svc.Recent(context.Background(), f.mia, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].UserID != f.bob || entries[0].User == nil || entries[0].User.Username != "bob" {
		t.Fatalf("newest entry = %+v", entries[0])
	}
}

func TestRecentRequiresStaff(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Recent(context.Background(), f.alice, 10); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRecentClampsLimit(t *testing.T) {
	f := newFixture(t)
	for range DefaultRecentLimit + 5 {
		f.record(t, f.alice, TypeCheckIn, "Checked in")
	}

	entries, err := f.svc.Recent(context.Background(), f.mia, -3)
	if err != nil || len(entries) != DefaultRecentLimit {
		t.Fatalf("got %d entries, %v", len(entries), err)
	}

	if got := clampLimit(MaxRecentLimit * 2); got != MaxRecentLimit {
		t.Fatalf("clampLimit = %d", got)
	}
}

func TestForUserScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.record(t, f.alice, TypeCheckIn, "Checked in")
	f.record(t, f.bob, TypeCheckIn, "Checked in")

	own, err := f.svc.ForUser(ctx, f.alice, f.alice, 0)
	if err != nil || len(own) != 1 || own[0].UserID != f.alice {
		t.Fatalf("own history: %+v, %v", own, err)
	}

	if _, err := f.svc.ForUser(ctx, f.bob, f.alice, 0); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("peer history: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.ForUser(ctx, f.mia, f.alice, 5); err != nil {
		t.Fatalf("staff history: %v", err)
	}
}

func TestRecordSurvivesPublishFailure(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker down")

	f.record(t, f.alice, TypePayment, "Made a payment")

	if len(f.pub.events) != 1 || f.pub.events[0].Type != string(TypePayment) {
		t.Fatalf("published %+v", f.pub.events)
	}

	n, err := f.svc.CountSince(context.Background(), TypePayment, f.now.Add(-time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("count = %d, %v", n, err)
	}
}
