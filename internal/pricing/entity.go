// AngelaMos | 2026
// entity.go

package pricing

import (
	"time"

	"github.com/carterperez-dev/coworkflow/internal/plan"
)

// PriceUpdateReason is recorded on every history row written by an update.
const PriceUpdateReason = "Price update"

// Tier amounts are in the smallest currency unit.
type Tier struct {
	PlanType    plan.Type `db:"plan_type"    json:"plan_type"`
	Amount      int       `db:"amount"       json:"amount"`
	Description string    `db:"description"  json:"description"`
	LastUpdated time.Time `db:"last_updated" json:"last_updated"`
	UpdatedBy   *string   `db:"updated_by"   json:"updated_by"`
}

type PriceChange struct {
	ID           string    `db:"id"            json:"id"`
	PlanType     plan.Type `db:"plan_type"     json:"plan_type"`
	OldAmount    int       `db:"old_amount"    json:"old_amount"`
	NewAmount    int       `db:"new_amount"    json:"new_amount"`
	ChangedBy    string    `db:"changed_by"    json:"changed_by"`
	ChangeReason string    `db:"change_reason" json:"change_reason"`
	Timestamp    time.Time `db:"timestamp"     json:"timestamp"`
}

type ScheduledChange struct {
	ID            string     `db:"id"             json:"id"`
	PlanType      plan.Type  `db:"plan_type"      json:"plan_type"`
	NewAmount     int        `db:"new_amount"     json:"new_amount"`
	ScheduledBy   string     `db:"scheduled_by"   json:"scheduled_by"`
	ScheduledDate time.Time  `db:"scheduled_date" json:"scheduled_date"`
	IsApplied     bool       `db:"is_applied"     json:"is_applied"`
	AppliedAt     *time.Time `db:"applied_at"     json:"applied_at"`
	CreatedAt     time.Time  `db:"created_at"     json:"created_at"`
}
