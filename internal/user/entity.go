// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/coworkflow/internal/access"
	"github.com/carterperez-dev/coworkflow/internal/plan"
)

type User struct {
	ID                   string      `db:"id"`
	Username             string      `db:"username"`
	Email                string      `db:"email"`
	Name                 string      `db:"name"`
	PasswordHash         string      `db:"password_hash"`
	PinHash              string      `db:"pin_hash"`
	Role                 access.Role `db:"role"`
	PlanType             *plan.Type  `db:"plan_type"`
	CurrentMonthlyQRCode *string     `db:"current_monthly_qr_code"`
	QRCodeExpiryDate     *time.Time  `db:"qr_code_expiry_date"`
	ProfileImageColor    string      `db:"profile_image_color"`
	CreatedAt            time.Time   `db:"created_at"`
	UpdatedAt            time.Time   `db:"updated_at"`
}

// EffectivePlan is the member's plan, or the default when none is set.
func (u *User) EffectivePlan() plan.Type {
	if u.PlanType == nil || !u.PlanType.Valid() {
		return plan.Default
	}
	return *u.PlanType
}

func (u *User) HasActiveMonthlyCode(code string, now time.Time) bool {
	return u.CurrentMonthlyQRCode != nil &&
		*u.CurrentMonthlyQRCode == code &&
		u.QRCodeExpiryDate != nil &&
		u.QRCodeExpiryDate.After(now)
}

// Summary is the projection attached to check-in and activity listings.
type Summary struct {
	ID                string `json:"id"                  db:"id"`
	Name              string `json:"name"                db:"name"`
	Email             string `json:"email"               db:"email"`
	Username          string `json:"username"            db:"username"`
	ProfileImageColor string `json:"profile_image_color" db:"profile_image_color"`
}

func (u *User) Summary() Summary {
	return Summary{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Username:          u.Username,
		ProfileImageColor: u.ProfileImageColor,
	}
}

// ProfileColors is the palette a new member's avatar color is drawn from.
var ProfileColors = []string{
	"red", "blue", "green", "purple", "yellow",
	"teal", "indigo", "orange", "emerald", "violet",
}
