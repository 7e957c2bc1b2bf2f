// AngelaMos | 2026
// entity.go

package activity

import (
	"time"

	"github.com/carterperez-dev/coworkflow/internal/user"
)

type Type string

const (
	TypeCheckIn      Type = "check_in"
	TypeCheckOut     Type = "check_out"
	TypePayment      Type = "payment"
	TypeRegistration Type = "registration"
	TypeLogin        Type = "login"
)

// Log is append-only; nothing updates or deletes a row.
type Log struct {
	ID        string    `db:"id"            json:"id"`
	UserID    string    `db:"user_id"       json:"user_id"`
	Type      Type      `db:"activity_type" json:"activity_type"`
	Details   string    `db:"details"       json:"details"`
	Timestamp time.Time `db:"timestamp"     json:"timestamp"`
}

// Entry is a log row joined with its member for feeds.
type Entry struct {
	Log
	User *user.Summary `json:"user"`
}
