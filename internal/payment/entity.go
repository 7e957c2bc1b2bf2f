// AngelaMos | 2026
// entity.go

package payment

import (
	"strings"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/plan"
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// Record is append-only. Payments are recorded here, not processed.
type Record struct {
	ID            string    `db:"id"             json:"id"`
	UserID        string    `db:"user_id"        json:"user_id"`
	Amount        int       `db:"amount"         json:"amount"`
	PlanType      plan.Type `db:"plan_type"      json:"plan_type"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	TransactionID *string   `db:"transaction_id" json:"transaction_id"`
	Status        Status    `db:"status"         json:"status"`
	Timestamp     time.Time `db:"timestamp"      json:"timestamp"`
}

// ReceiptNumber is derived from the id, so it is stable across requests.
func (r *Record) ReceiptNumber() string {
	hex := strings.ReplaceAll(r.ID, "-", "")
	if len(hex) > 8 {
		hex = hex[:8]
	}
	return "REC-" + strings.ToUpper(hex)
}

type CompanyDetails struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type Receipt struct {
	ReceiptNumber  string         `json:"receipt_number"`
	CustomerName   string         `json:"customer_name"`
	CustomerEmail  string         `json:"customer_email"`
	PaymentDate    time.Time      `json:"payment_date"`
	PaymentMethod  string         `json:"payment_method"`
	PlanType       plan.Type      `json:"plan_type"`
	Amount         int            `json:"amount"`
	Status         Status         `json:"status"`
	TransactionID  string         `json:"transaction_id"`
	CompanyDetails CompanyDetails `json:"company_details"`
}
