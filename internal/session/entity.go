// AngelaMos | 2026
// entity.go

package session

import (
	"time"
)

// Session is the stored half of a login. The raw id only ever lives in the
// signed cookie; the store keys on its hash.
type Session struct {
	IDHash    string    `db:"id_hash"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
