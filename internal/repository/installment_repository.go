package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/prasetia/lending-engine/internal/domain"
)

type installmentRepository struct {
	db *sqlx.DB
}

func NewInstallmentRepository(db *sqlx.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

// ReplaceForLoan deletes and re-inserts the schedule in one transaction so a
// regenerated schedule replaces the old one instead of piling on top of it.
func (r *installmentRepository) ReplaceForLoan(ctx context.Context, loanID string, installments []*domain.Installment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM installments WHERE loan_id = $1`, loanID); err != nil {
		return err
	}

	query := `
		INSERT INTO installments (id, loan_id, emi_number, due_date, amount, paid_amount,
			balance, penalty, status, payment_date, payment_mode, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	for _, inst := range installments {
		_, err = tx.ExecContext(ctx, query,
			inst.ID,
			inst.LoanID,
			inst.EmiNumber,
			inst.DueDate,
			inst.Amount,
			inst.PaidAmount,
			inst.Balance,
			inst.Penalty,
			inst.Status,
			inst.PaymentDate,
			inst.PaymentMode,
			inst.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *installmentRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Installment, error) {
	query := `
		SELECT id, loan_id, emi_number, due_date, amount, paid_amount,
			balance, penalty, status, payment_date, payment_mode, created_at
		FROM installments
		WHERE loan_id = $1
		ORDER BY emi_number
	`

	var installments []*domain.Installment
	err := r.db.SelectContext(ctx, &installments, query, loanID)
	if err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *installmentRepository) GetByEmiNumber(ctx context.Context, loanID string, emiNumber int) (*domain.Installment, error) {
	query := `
		SELECT id, loan_id, emi_number, due_date, amount, paid_amount,
			balance, penalty, status, payment_date, payment_mode, created_at
		FROM installments
		WHERE loan_id = $1 AND emi_number = $2
	`

	var installment domain.Installment
	err := r.db.GetContext(ctx, &installment, query, loanID, emiNumber)
	if err != nil {
		return nil, err
	}

	return &installment, nil
}

func (r *installmentRepository) Update(ctx context.Context, installment *domain.Installment) error {
	query := `
		UPDATE installments
		SET paid_amount = $3, balance = $4, penalty = $5, status = $6,
			payment_date = $7, payment_mode = $8
		WHERE loan_id = $1 AND emi_number = $2
	`

	_, err := r.db.ExecContext(ctx, query,
		installment.LoanID,
		installment.EmiNumber,
		installment.PaidAmount,
		installment.Balance,
		installment.Penalty,
		installment.Status,
		installment.PaymentDate,
		installment.PaymentMode,
	)

	return err
}

func (r *installmentRepository) GetDueBefore(ctx context.Context, cutoff time.Time) ([]*domain.Installment, error) {
	query := `
		SELECT id, loan_id, emi_number, due_date, amount, paid_amount,
			balance, penalty, status, payment_date, payment_mode, created_at
		FROM installments
		WHERE status IN ('pending', 'partial') AND due_date < $1
		ORDER BY loan_id, emi_number
	`

	var installments []*domain.Installment
	err := r.db.SelectContext(ctx, &installments, query, cutoff)
	if err != nil {
		return nil, err
	}

	return installments, nil
}
