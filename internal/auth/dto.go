// AngelaMos | 2026
// dto.go

package auth

import (
	"strings"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/user"
)

type RegisterRequest struct {
	Username string `json:"username"            validate:"required,min=3,max=50"`
	Email    string `json:"email"               validate:"required,email,max=255"`
	Name     string `json:"name"                validate:"required,min=1,max=100"`
	Password string `json:"password"            validate:"required,min=6,max=128"`
	Pin      string `json:"pin"                 validate:"required,len=4,number"`
	PlanType string `json:"plan_type,omitempty" validate:"omitempty,oneof=hourly daily weekly monthly"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=128"`
}

type PinLoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Pin      string `json:"pin"      validate:"required,len=4,number"`
}

func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
}

func (r *LoginRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

func (r *PinLoginRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

// Result is a successful authentication: the member plus the signed
// session value destined for the cookie.
type Result struct {
	User      *user.User
	Token     string
	ExpiresAt time.Time
}

type AuthResponse struct {
	User user.UserResponse `json:"user"`
}
