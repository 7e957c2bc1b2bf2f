// AngelaMos | 2026
// service_test.go

package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/access"
	"github.com/carterperez-dev/coworkflow/internal/activity"
	"github.com/carterperez-dev/coworkflow/internal/config"
	"github.com/carterperez-dev/coworkflow/internal/core"
	"github.com/carterperez-dev/coworkflow/internal/events"
	"github.com/carterperez-dev/coworkflow/internal/user"
)

type fixture struct {
	svc     *Service
	logs    activity.Repository
	alice   *user.User
	bob     *user.User
	manager *user.User
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{now: time.Date(2026, time.September, 9, 15, 0, 0, 0, time.UTC)}

	userRepo := user.NewMemoryRepository()
	users := user.NewService(userRepo)

	create := func(name string, role access.Role) *user.User {
		u, err := users.Create(ctx, user.NewUser{
			Username:     name,
			Email:        name + "@example.com",
			Name:         name,
			PasswordHash: "x",
			PinHash:      "x",
		})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		u.Role = role
		if err := userRepo.Update(ctx, u); err != nil {
			t.Fatalf("promote %s: %v", name, err)
		}
		return u
	}
	f.alice = create("alice", access.RoleUser)
	f.bob = create("bob", access.RoleUser)
	f.manager = create("mia", access.RoleManager)

	f.logs = activity.NewMemoryRepository()
	act := activity.NewService(f.logs, users, users.Gate(), events.NewNoopPublisher())

	f.svc = NewService(NewMemoryRepository(), users, act, users.Gate(), config.ReceiptConfig{
		CompanyName:    "CoworkFlow Space",
		CompanyAddress: "123 Workplace Avenue",
		CompanyEmail:   "billing@coworkflow.com",
		CompanyPhone:   "+1 (555) 123-4567",
	}).WithClock(func() time.Time { return f.now })

	return f
}

func TestRecordDefaultsToCompleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Record(ctx, f.alice.ID, RecordPaymentRequest{
		Amount:        4000,
		PlanType:      "daily",
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if p.Status != StatusCompleted || p.UserID != f.alice.ID || !p.Timestamp.Equal(f.now) {
		t.Fatalf("unexpected payment %+v", p)
	}

	logs, err := f.logs.ForUser(ctx, f.alice.ID, 10)
	if err != nil || len(logs) != 1 {
		t.Fatalf("payment activity: %+v, %v", logs, err)
	}
	if logs[0].Details != "Made a payment of 4000 for daily plan via card" {
		t.Fatalf("details = %q", logs[0].Details)
	}
}

func TestRecordRejectsUnknownPlan(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Record(context.Background(), f.alice.ID, RecordPaymentRequest{
		Amount: 10, PlanType: "yearly", PaymentMethod: "cash",
	})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestForUserNewestFirstAndScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i, amount := range []int{1000, 2000} {
		f.now = f.now.Add(time.Duration(i+1) * time.Minute)
		if _, err := f.svc.Record(ctx, f.alice.ID, RecordPaymentRequest{
			Amount: amount, PlanType: "hourly", PaymentMethod: "cash",
		}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	list, err := f.svc.ForUser(ctx, f.alice.ID, f.alice.ID)
	if err != nil || len(list) != 2 || list[0].Amount != 2000 {
		t.Fatalf("own payments: %+v, %v", list, err)
	}

	if _, err := f.svc.ForUser(ctx, f.bob.ID, f.alice.ID); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("peer access: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.ForUser(ctx, f.manager.ID, f.alice.ID); err != nil {
		t.Fatalf("manager access: %v", err)
	}
}

func TestReceipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Record(ctx, f.alice.ID, RecordPaymentRequest{
		Amount: 68000, PlanType: "monthly", PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	r, err := f.svc.Receipt(ctx, f.alice.ID, p.ID)
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}
	if r.ReceiptNumber != p.ReceiptNumber() || len(r.ReceiptNumber) != len("REC-")+8 {
		t.Fatalf("receipt number = %q", r.ReceiptNumber)
	}
	if r.TransactionID != "N/A" {
		t.Fatalf("transaction id = %q", r.TransactionID)
	}
	if r.CustomerEmail != "alice@example.com" || r.CompanyDetails.Name != "CoworkFlow Space" {
		t.Fatalf("unexpected receipt %+v", r)
	}

	if _, err := f.svc.Receipt(ctx, f.bob.ID, p.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("peer receipt: expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Receipt(ctx, f.manager.ID, p.ID); err != nil {
		t.Fatalf("manager receipt: %v", err)
	}
}

func TestReceiptNumber(t *testing.T) {
	p := Record{ID: "3f2a9c1e-77aa-4b1c-9d2e-0123456789ab"}
	if got := p.ReceiptNumber(); got != "REC-3F2A9C1E" {
		t.Fatalf("got %q", got)
	}
}

func TestSumCompletedSince(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := f.now

	requests := []RecordPaymentRequest{
		{Amount: 1000, PlanType: "hourly", PaymentMethod: "cash"},
		{Amount: 4000, PlanType: "daily", PaymentMethod: "card", Status: "pending"},
		{Amount: 20000, PlanType: "weekly", PaymentMethod: "card", Status: "completed"},
	}
	for _, req := range requests {
		if _, err := f.svc.Record(ctx, f.alice.ID, req); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	total, err := f.svc.SumCompletedSince(ctx, start)
	if err != nil || total != 21000 {
		t.Fatalf("total = %d, %v", total, err)
	}
	if total, _ := f.svc.SumCompletedSince(ctx, start.Add(time.Second)); total != 0 {
		t.Fatalf("payments before the cutoff counted: %d", total)
	}
}
