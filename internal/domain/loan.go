package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusPending   = "pending"
	LoanStatusApproved  = "approved"
	LoanStatusRejected  = "rejected"
	LoanStatusDisbursed = "disbursed"
	LoanStatusActive    = "active"
	LoanStatusCompleted = "completed"
)

const (
	PeriodUnitDays   = "days"
	PeriodUnitWeeks  = "weeks"
	PeriodUnitMonths = "months"
)

// Loan represents a micro-lending loan account. Principal and the interest
// rate are frozen at submission; ApprovedAmount at approval; DisbursedAmount
// and DisbursedDate exactly once at disbursement.
type Loan struct {
	ID               uuid.UUID           `json:"id" db:"id"`
	LoanID           string              `json:"loan_id" db:"loan_id"`
	CustomerID       string              `json:"customer_id" db:"customer_id"`
	Principal        decimal.Decimal     `json:"principal" db:"principal"`
	ApprovedAmount   decimal.NullDecimal `json:"approved_amount" db:"approved_amount"`
	RatePercentMonth decimal.Decimal     `json:"rate_percent_month" db:"rate_percent_month"`
	Period           int                 `json:"period" db:"period"`
	PeriodUnit       string              `json:"period_unit" db:"period_unit"`
	PeriodMonths     int                 `json:"period_months" db:"period_months"`
	EMI              decimal.Decimal     `json:"emi" db:"emi"`
	TotalInterest    decimal.Decimal     `json:"total_interest" db:"total_interest"`
	TotalAmount      decimal.Decimal     `json:"total_amount" db:"total_amount"`
	Status           string              `json:"status" db:"status"`
	DisbursedAmount  decimal.NullDecimal `json:"disbursed_amount" db:"disbursed_amount"`
	DisbursedDate    *time.Time          `json:"disbursed_date" db:"disbursed_date"`
	CreatedAt        time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at" db:"updated_at"`
}

// loanTransitions enumerates the forward-only status graph. Rejected and
// completed are terminal.
var loanTransitions = map[string][]string{
	LoanStatusPending:   {LoanStatusApproved, LoanStatusRejected},
	LoanStatusApproved:  {LoanStatusDisbursed, LoanStatusActive},
	LoanStatusDisbursed: {LoanStatusActive, LoanStatusCompleted},
	LoanStatusActive:    {LoanStatusCompleted},
}

// CanTransition reports whether a loan may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range loanTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsDisbursed reports whether the loan has reached a status that carries a
// repayment schedule.
func (l *Loan) IsDisbursed() bool {
	switch l.Status {
	case LoanStatusDisbursed, LoanStatusActive, LoanStatusCompleted:
		return true
	}
	return false
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	LoanID           string          `json:"loan_id" validate:"required"`
	CustomerID       string          `json:"customer_id" validate:"required"`
	Principal        decimal.Decimal `json:"principal" validate:"required"`
	RatePercentMonth decimal.Decimal `json:"rate_percent_month" validate:"required"`
	Period           int             `json:"period" validate:"required,gt=0"`
	PeriodUnit       string          `json:"period_unit" validate:"required,oneof=days weeks months"`
}

type QuoteRequest struct {
	Principal        decimal.Decimal `json:"principal" validate:"required"`
	RatePercentMonth decimal.Decimal `json:"rate_percent_month" validate:"required"`
	Period           int             `json:"period" validate:"required,gt=0"`
	PeriodUnit       string          `json:"period_unit" validate:"required,oneof=days weeks months"`
}

type ApproveLoanRequest struct {
	ApprovedAmount decimal.Decimal `json:"approved_amount" validate:"required"`
}

type DisburseLoanRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Date   string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type CreateLoanResponse struct {
	Loan *Loan `json:"loan"`
}

type DisburseLoanResponse struct {
	Loan     *Loan          `json:"loan"`
	Schedule []*Installment `json:"schedule"`
}

type OutstandingResponse struct {
	LoanID      string          `json:"loan_id"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Penalty     decimal.Decimal `json:"penalty"`
	TotalDue    decimal.Decimal `json:"total_due"`
}
