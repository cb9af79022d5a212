package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	InstallmentStatusPending = "pending"
	InstallmentStatusPartial = "partial"
	InstallmentStatusPaid    = "paid"

	// InstallmentStatusOverdue is a derived presentation status. It is never
	// persisted; the stored status stays pending/partial and overdue is
	// computed from the due date at read time.
	InstallmentStatusOverdue = "overdue"
)

// Installment is one repayment cycle of a disbursed loan. The full schedule
// is generated in bulk at disbursement and mutated one installment at a time
// as payments arrive.
type Installment struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	LoanID      string          `json:"loan_id" db:"loan_id"`
	EmiNumber   int             `json:"emi_number" db:"emi_number"`
	DueDate     time.Time       `json:"due_date" db:"due_date"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	Balance     decimal.Decimal `json:"balance" db:"balance"`
	Penalty     decimal.Decimal `json:"penalty" db:"penalty"`
	Status      string          `json:"status" db:"status"`
	PaymentDate *time.Time      `json:"payment_date" db:"payment_date"`
	PaymentMode string          `json:"payment_mode" db:"payment_mode"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// IsSettled reports whether the installment carries no remaining balance.
func (i *Installment) IsSettled() bool {
	return i.Status == InstallmentStatusPaid
}

// InstallmentView is an installment decorated with the derived overdue
// status and the penalty accrued as of the view date.
type InstallmentView struct {
	Installment
	DisplayStatus  string          `json:"display_status"`
	DaysOverdue    int             `json:"days_overdue"`
	AccruedPenalty decimal.Decimal `json:"accrued_penalty"`
}

type ScheduleResponse struct {
	LoanID   string             `json:"loan_id"`
	Schedule []*InstallmentView `json:"schedule"`
}
