// AngelaMos | 2026
// dto.go

package qrcode

import (
	"time"

	"github.com/carterperez-dev/coworkflow/internal/checkin"
	"github.com/carterperez-dev/coworkflow/internal/user"
)

type GuestCodeRequest struct {
	GuestName string `json:"guest_name" validate:"required,min=1,max=100"`
	PlanType  string `json:"plan_type"  validate:"required,max=20"`
}

type VerifyRequest struct {
	QRCode string `json:"qr_code" validate:"required,max=200"`
}

type MonthlyCodeResponse struct {
	QRCode     string    `json:"qr_code"`
	ExpiryDate time.Time `json:"expiry_date"`
}

// VerifyResult is who a scanned code resolved to and the stay it opened.
// AlreadyCheckedIn is set when the stay was already open before the scan.
type VerifyResult struct {
	User             user.Summary    `json:"user"`
	CheckIn          *checkin.Record `json:"check_in"`
	AlreadyCheckedIn bool            `json:"already_checked_in"`
	GuestCode        bool            `json:"guest_code"`
}
