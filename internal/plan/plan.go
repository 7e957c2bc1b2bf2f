// AngelaMos | 2026
// plan.go

package plan

import (
	"fmt"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/core"
)

// Type is a billing granularity.
type Type string

const (
	Hourly  Type = "hourly"
	Daily   Type = "daily"
	Weekly  Type = "weekly"
	Monthly Type = "monthly"
)

// Default applies to members without a plan of their own.
const Default = Hourly

var all = []Type{Hourly, Daily, Weekly, Monthly}

func All() []Type {
	out := make([]Type, len(all))
	copy(out, all)
	return out
}

func (t Type) Valid() bool {
	switch t {
	case Hourly, Daily, Weekly, Monthly:
		return true
	}
	return false
}

func Parse(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("parse plan type %q: %w", s, core.ErrInvalidInput)
	}
	return t, nil
}

// GuestValidity is how long a guest pass for t stays redeemable. Unknown
// plans get a day.
func GuestValidity(t Type) time.Duration {
	switch t {
	case Hourly:
		return time.Hour
	case Daily:
		return 24 * time.Hour
	case Weekly:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// AddMonth moves t one calendar month forward, clamping the day to the end
// of the target month (Jan 31 becomes Feb 28 or 29).
func AddMonth(t time.Time) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	firstOfTarget := time.Date(year, month+1, 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(
		firstOfTarget.Year(),
		firstOfTarget.Month(),
		day,
		hour,
		minute,
		sec,
		t.Nanosecond(),
		t.Location(),
	)
}
