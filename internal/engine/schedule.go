package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prasetia/lending-engine/internal/domain"
)

// GenerateSchedule emits the full installment schedule for a disbursed loan:
// one installment per stored month of tenor, due on calendar-month
// anniversaries of the disbursement date, each sized at the loan's frozen
// EMI.
//
// A loan without a disbursement date or approved amount gets no schedule;
// the caller treats nil as a silent no-op, not an error. Regeneration is by
// replacement — the caller discards any existing installments before
// persisting the result.
func GenerateSchedule(loan *domain.Loan) []*domain.Installment {
	if loan == nil || loan.DisbursedDate == nil || !loan.ApprovedAmount.Valid {
		return nil
	}
	if loan.PeriodMonths < 1 {
		return nil
	}

	now := time.Now()
	schedule := make([]*domain.Installment, 0, loan.PeriodMonths)
	for i := 1; i <= loan.PeriodMonths; i++ {
		schedule = append(schedule, &domain.Installment{
			ID:         uuid.New(),
			LoanID:     loan.LoanID,
			EmiNumber:  i,
			DueDate:    loan.DisbursedDate.AddDate(0, i, 0),
			Amount:     loan.EMI,
			PaidAmount: decimal.Zero,
			Balance:    loan.EMI,
			Penalty:    decimal.Zero,
			Status:     domain.InstallmentStatusPending,
			CreatedAt:  now,
		})
	}
	return schedule
}
