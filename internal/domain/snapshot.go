package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DelinquentInstallment is one overdue installment as seen by the daily
// snapshot job, with its penalty accrued as of the snapshot time.
type DelinquentInstallment struct {
	LoanID      string          `json:"loan_id"`
	EmiNumber   int             `json:"emi_number"`
	DueDate     time.Time       `json:"due_date"`
	DaysOverdue int             `json:"days_overdue"`
	Balance     decimal.Decimal `json:"balance"`
	Penalty     decimal.Decimal `json:"penalty"`
}

// DelinquencySnapshot is the report written to the cache once a day for
// reporting and notification collaborators. Overdue state stays derived;
// the snapshot is a materialised view, never written back to loan storage.
type DelinquencySnapshot struct {
	GeneratedAt    time.Time               `json:"generated_at"`
	TotalOverdue   decimal.Decimal         `json:"total_overdue"`
	TotalPenalty   decimal.Decimal         `json:"total_penalty"`
	OverdueCount   int                     `json:"overdue_count"`
	DelinquentList []DelinquentInstallment `json:"delinquent_list"`
}
