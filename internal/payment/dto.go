// AngelaMos | 2026
// dto.go

package payment

type RecordPaymentRequest struct {
	Amount        int     `json:"amount"                   validate:"gt=0"`
	PlanType      string  `json:"plan_type"                validate:"required,oneof=hourly daily weekly monthly"`
	PaymentMethod string  `json:"payment_method"           validate:"required,max=50"`
	TransactionID *string `json:"transaction_id,omitempty" validate:"omitempty,max=100"`
	Status        string  `json:"status,omitempty"         validate:"omitempty,oneof=completed pending failed refunded"`
}
