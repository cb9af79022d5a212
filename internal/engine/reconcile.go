package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prasetia/lending-engine/internal/domain"
	customError "github.com/prasetia/lending-engine/pkg/errors"
)

// PaymentInput carries one collection against one installment. Penalty is
// the pre-computed accrual (see Penalty); Discount is an operator-entered
// goodwill reduction, never derived.
type PaymentInput struct {
	Amount   decimal.Decimal
	Penalty  decimal.Decimal
	Discount decimal.Decimal
	Mode     string
}

// Receipt summarises what the reconciler settled. Collected is the cash
// figure: amount + penalty - discount.
type Receipt struct {
	Amount    decimal.Decimal
	Penalty   decimal.Decimal
	Discount  decimal.Decimal
	Collected decimal.Decimal
	PaidAt    time.Time
}

// DaysOverdue returns the whole days between the due date and today,
// zero when the due date has not passed. Clock times are ignored.
func DaysOverdue(dueDate, today time.Time) int {
	days := int(truncateDay(today).Sub(truncateDay(dueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// IsOverdue reports whether the installment is past due while still carrying
// a balance. Overdue is a derived view over (status, dueDate, today); it is
// never written back as a stored status.
func IsOverdue(inst *domain.Installment, today time.Time) bool {
	switch inst.Status {
	case domain.InstallmentStatusPending, domain.InstallmentStatusPartial:
		return DaysOverdue(inst.DueDate, today) > 0
	}
	return false
}

// DisplayStatus is the status shown to operators: the stored status, or
// overdue when the due date has passed on an unsettled installment.
func DisplayStatus(inst *domain.Installment, today time.Time) string {
	if IsOverdue(inst, today) {
		return domain.InstallmentStatusOverdue
	}
	return inst.Status
}

// Penalty computes the penalty accrued on an installment as of today under
// the given settings. Settled or not-yet-due installments accrue nothing.
//
// per_day charges rate% of the installment amount per day late, per_week per
// started week, and fixed_total once regardless of how late the payment is.
func Penalty(inst *domain.Installment, settings domain.PenaltySettings, today time.Time) decimal.Decimal {
	if !IsOverdue(inst, today) {
		return decimal.Zero
	}

	daysOverdue := DaysOverdue(inst.DueDate, today)
	rate := settings.Rate.Div(hundred)

	switch settings.Type {
	case domain.PenaltyTypePerWeek:
		weeksOverdue := (daysOverdue + 6) / 7
		return inst.Amount.Mul(rate).Mul(decimal.NewFromInt(int64(weeksOverdue))).Round(0)
	case domain.PenaltyTypeFixedTotal:
		return inst.Amount.Mul(rate).Round(0)
	default:
		return inst.Amount.Mul(rate).Mul(decimal.NewFromInt(int64(daysOverdue))).Round(0)
	}
}

// ApplyPayment allocates a payment against a single installment and returns
// the updated installment plus a receipt. The input installment is not
// mutated. Sibling installments are never touched: penalty and arrears are
// strictly per-installment, with no rollover of shortfall.
func ApplyPayment(inst domain.Installment, in PaymentInput, today time.Time) (domain.Installment, Receipt, error) {
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return inst, Receipt{}, customError.ErrInvalidPaymentAmount
	}

	totalDue := inst.Balance.Add(in.Penalty)
	if in.Amount.GreaterThan(totalDue) {
		return inst, Receipt{}, customError.WrapPaymentExceedsDue(in.Amount.String(), totalDue.String())
	}

	collected := in.Amount.Add(in.Penalty).Sub(in.Discount)

	newBalance := inst.Balance.Sub(in.Amount)
	if newBalance.IsNegative() {
		newBalance = decimal.Zero
	}

	if in.Amount.GreaterThanOrEqual(inst.Balance) {
		inst.Status = domain.InstallmentStatusPaid
	} else {
		inst.Status = domain.InstallmentStatusPartial
	}

	inst.PaidAmount = inst.PaidAmount.Add(in.Amount)
	inst.Balance = newBalance
	inst.Penalty = in.Penalty
	inst.PaymentMode = in.Mode
	paidAt := today
	inst.PaymentDate = &paidAt

	return inst, Receipt{
		Amount:    in.Amount,
		Penalty:   in.Penalty,
		Discount:  in.Discount,
		Collected: collected,
		PaidAt:    today,
	}, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
