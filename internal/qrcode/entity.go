// AngelaMos | 2026
// entity.go

package qrcode

import (
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/coworkflow/internal/plan"
)

const (
	monthlyPrefix = "COWORKFLOW-"
	guestPrefix   = "GUEST-"
)

// GuestCode is a single-use pass. Redeeming it checks in its creator.
type GuestCode struct {
	ID         string    `db:"id"          json:"id"`
	CreatedBy  string    `db:"created_by"  json:"created_by"`
	GuestName  string    `db:"guest_name"  json:"guest_name"`
	QRCode     string    `db:"qr_code"     json:"qr_code"`
	PlanType   plan.Type `db:"plan_type"   json:"plan_type"`
	ExpiryDate time.Time `db:"expiry_date" json:"expiry_date"`
	IsUsed     bool      `db:"is_used"     json:"is_used"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
}

func (g *GuestCode) Redeemable(now time.Time) bool {
	return !g.IsUsed && g.ExpiryDate.After(now)
}

func newMonthlyCode(userID string) string {
	return monthlyPrefix + userID + "-" + uuid.New().String()
}

func newGuestCode() string {
	return guestPrefix + uuid.New().String()
}
