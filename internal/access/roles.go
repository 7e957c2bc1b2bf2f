// AngelaMos | 2026
// roles.go

package access

import (
	"database/sql/driver"
	"fmt"

	"github.com/carterperez-dev/coworkflow/internal/core"
)

// Role is ordered: a higher value carries every permission of a lower one.
type Role int

const (
	RoleUser Role = iota + 1
	RoleManager
	RoleSuperAdmin
)

var roleNames = map[Role]string{
	RoleUser:       "user",
	RoleManager:    "manager",
	RoleSuperAdmin: "super_admin",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if name == s {
			return role, nil
		}
	}
	return 0, fmt.Errorf("parse role %q: %w", s, core.ErrInvalidInput)
}

// HasAtLeast is the single comparison every authorization decision uses.
func HasAtLeast(role, threshold Role) bool {
	return role.Valid() && role >= threshold
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("marshal role %d: %w", int(r), core.ErrInvalidInput)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Scan reads the textual role column.
func (r *Role) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("scan role from %T: %w", src, core.ErrInvalidInput)
	}
}

func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("role value %d: %w", int(r), core.ErrInvalidInput)
	}
	return r.String(), nil
}
