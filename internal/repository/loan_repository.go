package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/prasetia/lending-engine/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, loan_id, customer_id, principal, approved_amount, rate_percent_month,
			period, period_unit, period_months, emi, total_interest, total_amount,
			status, disbursed_amount, disbursed_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.LoanID,
		loan.CustomerID,
		loan.Principal,
		loan.ApprovedAmount,
		loan.RatePercentMonth,
		loan.Period,
		loan.PeriodUnit,
		loan.PeriodMonths,
		loan.EMI,
		loan.TotalInterest,
		loan.TotalAmount,
		loan.Status,
		loan.DisbursedAmount,
		loan.DisbursedDate,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `
		SELECT id, loan_id, customer_id, principal, approved_amount, rate_percent_month,
			period, period_unit, period_months, emi, total_interest, total_amount,
			status, disbursed_amount, disbursed_date, created_at, updated_at
		FROM loans
		WHERE loan_id = $1
	`

	var loan domain.Loan
	err := r.db.GetContext(ctx, &loan, query, loanID)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET approved_amount = $2, status = $3, disbursed_amount = $4, disbursed_date = $5,
			emi = $6, total_interest = $7, total_amount = $8, period_months = $9, updated_at = $10
		WHERE loan_id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.LoanID,
		loan.ApprovedAmount,
		loan.Status,
		loan.DisbursedAmount,
		loan.DisbursedDate,
		loan.EMI,
		loan.TotalInterest,
		loan.TotalAmount,
		loan.PeriodMonths,
		time.Now(),
	)

	return err
}

func (r *loanRepository) ListByStatus(ctx context.Context, status string) ([]*domain.Loan, error) {
	query := `
		SELECT id, loan_id, customer_id, principal, approved_amount, rate_percent_month,
			period, period_unit, period_months, emi, total_interest, total_amount,
			status, disbursed_amount, disbursed_date, created_at, updated_at
		FROM loans
		WHERE status = $1
		ORDER BY created_at
	`

	var loans []*domain.Loan
	err := r.db.SelectContext(ctx, &loans, query, status)
	if err != nil {
		return nil, err
	}

	return loans, nil
}
