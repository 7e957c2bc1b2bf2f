// AngelaMos | 2026
// dto.go

package user

import (
	"strings"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/access"
	"github.com/carterperez-dev/coworkflow/internal/plan"
)

// NewUser carries already-hashed credentials into Create.
type NewUser struct {
	Username     string
	Email        string
	Name         string
	PasswordHash string
	PinHash      string
	PlanType     *plan.Type
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"      validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email,omitempty"     validate:"omitempty,email,max=255"`
	PlanType *string `json:"plan_type,omitempty" validate:"omitempty,oneof=hourly daily weekly monthly"`
	Role     *string `json:"role,omitempty"      validate:"omitempty,oneof=user manager super_admin"`
}

func (r *UpdateUserRequest) Normalize() {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
	}
}

type UserResponse struct {
	ID                   string      `json:"id"`
	Username             string      `json:"username"`
	Email                string      `json:"email"`
	Name                 string      `json:"name"`
	Role                 access.Role `json:"role"`
	PlanType             *plan.Type  `json:"plan_type"`
	CurrentMonthlyQRCode *string     `json:"current_monthly_qr_code"`
	QRCodeExpiryDate     *time.Time  `json:"qr_code_expiry_date"`
	ProfileImageColor    string      `json:"profile_image_color"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ToUserResponse strips credential material.
func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:                   u.ID,
		Username:             u.Username,
		Email:                u.Email,
		Name:                 u.Name,
		Role:                 u.Role,
		PlanType:             u.PlanType,
		CurrentMonthlyQRCode: u.CurrentMonthlyQRCode,
		QRCodeExpiryDate:     u.QRCodeExpiryDate,
		ProfileImageColor:    u.ProfileImageColor,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
