package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/prasetia/lending-engine/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, loan_id, emi_number, amount, penalty, discount,
			collected, mode, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.LoanID,
		payment.EmiNumber,
		payment.Amount,
		payment.Penalty,
		payment.Discount,
		payment.Collected,
		payment.Mode,
		payment.PaidAt,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	query := `
		SELECT id, loan_id, emi_number, amount, penalty, discount,
			collected, mode, paid_at, created_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY paid_at
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, loanID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}
