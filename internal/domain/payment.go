package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentModeCash   = "cash"
	PaymentModeOnline = "online"
	PaymentModeCheque = "cheque"
)

// Payment is the record of one collection against one installment.
// Collected = Amount + Penalty - Discount, the figure handed to the cashier.
type Payment struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	LoanID    string          `json:"loan_id" db:"loan_id"`
	EmiNumber int             `json:"emi_number" db:"emi_number"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Penalty   decimal.Decimal `json:"penalty" db:"penalty"`
	Discount  decimal.Decimal `json:"discount" db:"discount"`
	Collected decimal.Decimal `json:"collected" db:"collected"`
	Mode      string          `json:"mode" db:"mode"`
	PaidAt    time.Time       `json:"paid_at" db:"paid_at"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

type PaymentRequest struct {
	Amount   decimal.Decimal  `json:"amount" validate:"required"`
	Mode     string           `json:"mode" validate:"required,oneof=cash online cheque"`
	Discount *decimal.Decimal `json:"discount" validate:"omitempty"`

	// Optional per-request penalty settings; the configured defaults apply
	// when absent.
	PenaltyRate *decimal.Decimal `json:"penalty_rate" validate:"omitempty"`
	PenaltyType string           `json:"penalty_type" validate:"omitempty,oneof=per_day per_week fixed_total"`
}

type PaymentResponse struct {
	Installment *Installment `json:"installment"`
	Payment     *Payment     `json:"payment"`
}
