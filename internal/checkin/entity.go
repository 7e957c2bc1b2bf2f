// AngelaMos | 2026
// entity.go

package checkin

import (
	"time"

	"github.com/carterperez-dev/coworkflow/internal/plan"
	"github.com/carterperez-dev/coworkflow/internal/user"
)

// Record is a stay in the space. It is active while CheckOutTime is nil.
type Record struct {
	ID           string     `db:"id"             json:"id"`
	UserID       string     `db:"user_id"        json:"user_id"`
	CheckInTime  time.Time  `db:"check_in_time"  json:"check_in_time"`
	CheckOutTime *time.Time `db:"check_out_time" json:"check_out_time"`
	Duration     *int       `db:"duration"       json:"duration"`
	PlanType     plan.Type  `db:"plan_type"      json:"plan_type"`
}

func (r *Record) IsActive() bool {
	return r.CheckOutTime == nil
}

// ActiveEntry is an active record with its member attached.
type ActiveEntry struct {
	Record
	User *user.Summary `json:"user"`
}

// DurationMinutes rounds the stay to whole minutes, half up, at
// millisecond precision. It is never negative.
func DurationMinutes(in, out time.Time) int {
	d := out.Sub(in).Truncate(time.Millisecond)
	if d <= 0 {
		return 0
	}
	return int((d + 30*time.Second) / time.Minute)
}
