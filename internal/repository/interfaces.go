package repository

import (
	"context"
	"time"

	"github.com/prasetia/lending-engine/internal/domain"
)

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByLoanID retrieves a loan by its loan ID
	GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error)

	// Update updates a loan
	Update(ctx context.Context, loan *domain.Loan) error

	// ListByStatus retrieves all loans in the given status
	ListByStatus(ctx context.Context, status string) ([]*domain.Loan, error)
}

// InstallmentRepository defines the interface for installment schedule operations
type InstallmentRepository interface {
	// ReplaceForLoan atomically discards any existing installments for a
	// loan and persists the given schedule in their place
	ReplaceForLoan(ctx context.Context, loanID string, installments []*domain.Installment) error

	// GetByLoanID retrieves the full schedule for a loan ordered by emi number
	GetByLoanID(ctx context.Context, loanID string) ([]*domain.Installment, error)

	// GetByEmiNumber retrieves one installment of a loan
	GetByEmiNumber(ctx context.Context, loanID string, emiNumber int) (*domain.Installment, error)

	// Update persists the mutated state of one installment
	Update(ctx context.Context, installment *domain.Installment) error

	// GetDueBefore retrieves unsettled installments due strictly before the cutoff
	GetDueBefore(ctx context.Context, cutoff time.Time) ([]*domain.Installment, error)
}

// PaymentRepository defines the interface for payment record operations
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByLoanID retrieves all payments for a loan
	GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error)
}

// SnapshotCache stores the daily delinquency snapshot produced by the
// scheduler for reporting collaborators
type SnapshotCache interface {
	// SetDelinquencySnapshot stores the snapshot with a TTL
	SetDelinquencySnapshot(ctx context.Context, snapshot *domain.DelinquencySnapshot, ttl time.Duration) error

	// GetDelinquencySnapshot retrieves the latest snapshot, nil when absent
	GetDelinquencySnapshot(ctx context.Context) (*domain.DelinquencySnapshot, error)
}
