package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetia/lending-engine/internal/domain"
	customError "github.com/prasetia/lending-engine/pkg/errors"
)

var today = time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

func pendingInstallment(amount int64, dueDate time.Time) domain.Installment {
	return domain.Installment{
		LoanID:     "LN-1001",
		EmiNumber:  1,
		DueDate:    dueDate,
		Amount:     decimal.NewFromInt(amount),
		PaidAmount: decimal.Zero,
		Balance:    decimal.NewFromInt(amount),
		Penalty:    decimal.Zero,
		Status:     domain.InstallmentStatusPending,
	}
}

func TestPenalty(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		dueDate  time.Time
		settings domain.PenaltySettings
		expected decimal.Decimal
	}{
		{
			name:     "per day penalty",
			amount:   1000,
			dueDate:  today.AddDate(0, 0, -10),
			settings: domain.PenaltySettings{Rate: decimal.NewFromInt(2), Type: domain.PenaltyTypePerDay},
			expected: decimal.NewFromInt(200), // 1000 * 2% * 10 days
		},
		{
			name:     "per week rounds started weeks up",
			amount:   1000,
			dueDate:  today.AddDate(0, 0, -10),
			settings: domain.PenaltySettings{Rate: decimal.NewFromInt(2), Type: domain.PenaltyTypePerWeek},
			expected: decimal.NewFromInt(40), // ceil(10/7)=2 weeks * 2%
		},
		{
			name:     "fixed total ignores lateness duration",
			amount:   1000,
			dueDate:  today.AddDate(0, 0, -90),
			settings: domain.PenaltySettings{Rate: decimal.NewFromInt(5), Type: domain.PenaltyTypeFixedTotal},
			expected: decimal.NewFromInt(50),
		},
		{
			name:     "not yet due",
			amount:   1000,
			dueDate:  today.AddDate(0, 0, 5),
			settings: domain.DefaultPenaltySettings(),
			expected: decimal.Zero,
		},
		{
			name:     "due today is not overdue",
			amount:   1000,
			dueDate:  today,
			settings: domain.DefaultPenaltySettings(),
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := pendingInstallment(tt.amount, tt.dueDate)
			penalty := Penalty(&inst, tt.settings, today)
			assert.True(t, penalty.Equal(tt.expected),
				"expected %v, got %v", tt.expected, penalty)
		})
	}
}

func TestPenalty_SettledInstallmentAccruesNothing(t *testing.T) {
	inst := pendingInstallment(1000, today.AddDate(0, 0, -30))
	inst.Status = domain.InstallmentStatusPaid
	inst.Balance = decimal.Zero

	penalty := Penalty(&inst, domain.DefaultPenaltySettings(), today)
	assert.True(t, penalty.IsZero())
}

func TestPenalty_PartialInstallmentStillAccrues(t *testing.T) {
	inst := pendingInstallment(1000, today.AddDate(0, 0, -5))
	inst.Status = domain.InstallmentStatusPartial
	inst.Balance = decimal.NewFromInt(400)

	// penalty is computed on the installment amount, not the open balance
	penalty := Penalty(&inst, domain.DefaultPenaltySettings(), today)
	assert.True(t, penalty.Equal(decimal.NewFromInt(100))) // 1000 * 2% * 5
}

func TestDisplayStatus(t *testing.T) {
	overdue := pendingInstallment(1000, today.AddDate(0, 0, -3))
	assert.Equal(t, domain.InstallmentStatusOverdue, DisplayStatus(&overdue, today))

	upcoming := pendingInstallment(1000, today.AddDate(0, 0, 3))
	assert.Equal(t, domain.InstallmentStatusPending, DisplayStatus(&upcoming, today))

	paid := pendingInstallment(1000, today.AddDate(0, 0, -3))
	paid.Status = domain.InstallmentStatusPaid
	assert.Equal(t, domain.InstallmentStatusPaid, DisplayStatus(&paid, today))
}

func TestApplyPayment_FullSettlement(t *testing.T) {
	inst := pendingInstallment(1000, today.AddDate(0, 0, 10))

	updated, receipt, err := ApplyPayment(inst, PaymentInput{
		Amount: decimal.NewFromInt(1000),
		Mode:   domain.PaymentModeCash,
	}, today)

	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusPaid, updated.Status)
	assert.True(t, updated.Balance.IsZero())
	assert.True(t, updated.PaidAmount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, domain.PaymentModeCash, updated.PaymentMode)
	require.NotNil(t, updated.PaymentDate)
	assert.True(t, updated.PaymentDate.Equal(today))
	assert.True(t, receipt.Collected.Equal(decimal.NewFromInt(1000)))
}

func TestApplyPayment_PartialThenFull(t *testing.T) {
	inst := pendingInstallment(1000, today.AddDate(0, 0, 10))

	updated, _, err := ApplyPayment(inst, PaymentInput{
		Amount: decimal.NewFromInt(400),
		Mode:   domain.PaymentModeOnline,
	}, today)
	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusPartial, updated.Status)
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(600)))
	assert.True(t, updated.PaidAmount.Equal(decimal.NewFromInt(400)))

	final, _, err := ApplyPayment(updated, PaymentInput{
		Amount: decimal.NewFromInt(600),
		Mode:   domain.PaymentModeOnline,
	}, today)
	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusPaid, final.Status)
	assert.True(t, final.Balance.IsZero())
	assert.True(t, final.PaidAmount.Equal(decimal.NewFromInt(1000)))
}

func TestApplyPayment_BalanceNeverIncreases(t *testing.T) {
	inst := pendingInstallment(1000, today.AddDate(0, 0, 10))

	payments := []int64{100, 250, 50, 400, 200}
	prev := inst.Balance
	current := inst
	for _, p := range payments {
		updated, _, err := ApplyPayment(current, PaymentInput{
			Amount: decimal.NewFromInt(p),
			Mode:   domain.PaymentModeCash,
		}, today)
		require.NoError(t, err)
		assert.True(t, updated.Balance.LessThanOrEqual(prev),
			"balance went up: %v -> %v", prev, updated.Balance)

		// balance hits zero exactly when status flips to paid
		if updated.Balance.IsZero() {
			assert.Equal(t, domain.InstallmentStatusPaid, updated.Status)
		} else {
			assert.Equal(t, domain.InstallmentStatusPartial, updated.Status)
		}
		prev = updated.Balance
		current = updated
	}
	assert.True(t, current.Balance.IsZero())
}

func TestApplyPayment_PenaltyAndDiscount(t *testing.T) {
	inst := pendingInstallment(1000, today.AddDate(0, 0, -10))
	penalty := Penalty(&inst, domain.DefaultPenaltySettings(), today)
	require.True(t, penalty.Equal(decimal.NewFromInt(200)))

	updated, receipt, err := ApplyPayment(inst, PaymentInput{
		Amount:   decimal.NewFromInt(1000),
		Penalty:  penalty,
		Discount: decimal.NewFromInt(50),
		Mode:     domain.PaymentModeCheque,
	}, today)

	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusPaid, updated.Status)
	assert.True(t, updated.Penalty.Equal(penalty))
	// collected = 1000 + 200 - 50
	assert.True(t, receipt.Collected.Equal(decimal.NewFromInt(1150)))
}

func TestApplyPayment_RejectsOutOfBoundsAmounts(t *testing.T) {
	tests := []struct {
		name        string
		amount      decimal.Decimal
		penalty     decimal.Decimal
		expectedErr error
	}{
		{
			name:        "zero amount",
			amount:      decimal.Zero,
			expectedErr: customError.ErrInvalidPaymentAmount,
		},
		{
			name:        "negative amount",
			amount:      decimal.NewFromInt(-100),
			expectedErr: customError.ErrInvalidPaymentAmount,
		},
		{
			name:        "amount above balance plus penalty",
			amount:      decimal.NewFromInt(1201),
			penalty:     decimal.NewFromInt(200),
			expectedErr: customError.ErrPaymentExceedsDue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := pendingInstallment(1000, today.AddDate(0, 0, -10))
			_, _, err := ApplyPayment(inst, PaymentInput{
				Amount:  tt.amount,
				Penalty: tt.penalty,
				Mode:    domain.PaymentModeCash,
			}, today)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestApplyPayment_AmountUpToTotalDueAccepted(t *testing.T) {
	// paying balance + penalty exactly is allowed; the slice above the
	// balance settles the penalty, not the next installment
	inst := pendingInstallment(1000, today.AddDate(0, 0, -10))
	penalty := decimal.NewFromInt(200)

	updated, receipt, err := ApplyPayment(inst, PaymentInput{
		Amount:  decimal.NewFromInt(1200),
		Penalty: penalty,
		Mode:    domain.PaymentModeCash,
	}, today)

	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusPaid, updated.Status)
	assert.True(t, updated.Balance.IsZero())
	assert.True(t, receipt.Collected.Equal(decimal.NewFromInt(1400)))
}

func TestDaysOverdue(t *testing.T) {
	tests := []struct {
		name     string
		dueDate  time.Time
		expected int
	}{
		{"ten days late", today.AddDate(0, 0, -10), 10},
		{"due today", today, 0},
		{"future due date", today.AddDate(0, 0, 5), 0},
		{"clock time ignored", today.AddDate(0, 0, -1).Add(23 * time.Hour), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysOverdue(tt.dueDate, today))
		})
	}
}
