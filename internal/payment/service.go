// AngelaMos | 2026
// service.go

package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/coworkflow/internal/access"
	"github.com/carterperez-dev/coworkflow/internal/activity"
	"github.com/carterperez-dev/coworkflow/internal/config"
	"github.com/carterperez-dev/coworkflow/internal/core"
	"github.com/carterperez-dev/coworkflow/internal/plan"
	"github.com/carterperez-dev/coworkflow/internal/user"
)

type UserStore interface {
	Get(ctx context.Context, id string) (*user.User, error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, userID string, t activity.Type, details string) error
}

type Service struct {
	repo     Repository
	users    UserStore
	activity ActivityRecorder
	gate     *access.Gate
	company  CompanyDetails
	now      func() time.Time
}

func NewService(
	repo Repository,
	users UserStore,
	activity ActivityRecorder,
	gate *access.Gate,
	receipt config.ReceiptConfig,
) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		activity: activity,
		gate:     gate,
		company: CompanyDetails{
			Name:    receipt.CompanyName,
			Address: receipt.CompanyAddress,
			Email:   receipt.CompanyEmail,
			Phone:   receipt.CompanyPhone,
		},
		now: time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Record stores a payment made by the caller. Status defaults to completed.
func (s *Service) Record(
	ctx context.Context,
	actorID string,
	req RecordPaymentRequest,
) (_ *Record, err error) {
	ctx, span := core.StartSpan(ctx, "payment.Record",
		attribute.String("user.id", actorID),
		attribute.Int("payment.amount", req.Amount),
	)
	defer core.EndSpan(span, &err)

	if _, err := s.gate.Authorize(ctx, actorID, access.RoleUser); err != nil {
		return nil, err
	}

	pt, err := plan.Parse(req.PlanType)
	if err != nil {
		return nil, core.ValidationError("invalid plan type")
	}
	if req.Amount <= 0 {
		return nil, core.ValidationError("amount must be positive")
	}

	status := StatusCompleted
	if req.Status != "" {
		status = Status(req.Status)
	}

	p := &Record{
		ID:            uuid.New().String(),
		UserID:        actorID,
		Amount:        req.Amount,
		PlanType:      pt,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Status:        status,
		Timestamp:     s.now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}

	slog.Info("payment recorded",
		"user_id", actorID,
		"payment_id", p.ID,
		"amount", p.Amount,
		"status", string(p.Status),
	)

	details := fmt.Sprintf("Made a payment of %d for %s plan via %s",
		p.Amount, p.PlanType, p.PaymentMethod)
	if err := s.activity.Record(ctx, actorID, activity.TypePayment, details); err != nil {
		slog.Error("activity not recorded",
			"user_id", actorID,
			"type", string(activity.TypePayment),
			"error", err,
		)
	}

	return p, nil
}

// ForUser lists a member's payments, newest first.
func (s *Service) ForUser(ctx context.Context, actorID, userID string) ([]Record, error) {
	if _, err := s.gate.AuthorizeSelfOr(ctx, actorID, userID, access.RoleManager); err != nil {
		return nil, err
	}
	return s.repo.ForUser(ctx, userID)
}

// Receipt renders a payment for its owner or for staff. Other members get
// not-found rather than forbidden so payment ids cannot be probed.
func (s *Service) Receipt(ctx context.Context, actorID, paymentID string) (*Receipt, error) {
	role, err := s.gate.Authorize(ctx, actorID, access.RoleUser)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.UserID != actorID && !access.HasAtLeast(role, access.RoleManager) {
		return nil, core.NotFoundError("payment")
	}

	owner, err := s.users.Get(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("receipt owner: %w", err)
	}

	txID := "N/A"
	if p.TransactionID != nil && *p.TransactionID != "" {
		txID = *p.TransactionID
	}

	return &Receipt{
		ReceiptNumber:  p.ReceiptNumber(),
		CustomerName:   owner.Name,
		CustomerEmail:  owner.Email,
		PaymentDate:    p.Timestamp,
		PaymentMethod:  p.PaymentMethod,
		PlanType:       p.PlanType,
		Amount:         p.Amount,
		Status:         p.Status,
		TransactionID:  txID,
		CompanyDetails: s.company,
	}, nil
}

func (s *Service) SumCompletedSince(ctx context.Context, since time.Time) (int, error) {
	return s.repo.SumCompletedSince(ctx, since)
}
