// AngelaMos | 2026
// dto.go

package pricing

import (
	"time"
)

type UpdateTierRequest struct {
	Amount      int     `json:"amount"                validate:"gt=0"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1,max=255"`
}

type ScheduleRequest struct {
	PlanType      string    `json:"plan_type"      validate:"required,oneof=hourly daily weekly monthly"`
	NewAmount     int       `json:"new_amount"     validate:"gt=0"`
	ScheduledDate time.Time `json:"scheduled_date" validate:"required"`
}
