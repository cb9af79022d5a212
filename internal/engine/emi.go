// Package engine holds the pure computation core of the lending service:
// the simple-interest EMI calculator, the repayment schedule generator, and
// the payment reconciler. Nothing here touches storage or clocks except
// through parameters.
package engine

import (
	"github.com/shopspring/decimal"

	"github.com/prasetia/lending-engine/internal/domain"
	customError "github.com/prasetia/lending-engine/pkg/errors"
)

// weeksPerMonth is the conversion factor used when a tenor is entered in
// weeks. Kept at 4.33 to match the figures quoted to customers.
var weeksPerMonth = decimal.NewFromFloat(4.33)

var (
	daysPerMonth = decimal.NewFromInt(30)
	hundred      = decimal.NewFromInt(100)
)

// Quote is the output of the EMI calculator. EMI and TotalInterest are
// rounded to whole currency units independently, so EMI*InstallmentCount may
// drift from TotalAmount by a few units; that drift is accepted and never
// redistributed.
type Quote struct {
	EMI              decimal.Decimal `json:"emi"`
	TotalInterest    decimal.Decimal `json:"total_interest"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	InstallmentCount int             `json:"installment_count"`
	PeriodMonths     int             `json:"period_months"`
}

// ComputeSchedule computes the simple-interest repayment quote for a loan.
//
// Interest accrues once over the whole tenor (P * r * t with t in months),
// not per period. The installment count keeps the granularity of the unit
// the tenor was entered in: a 60-day loan repays in 60 daily installments,
// not 2 monthly ones.
func ComputeSchedule(principal, ratePercentMonth decimal.Decimal, period int, periodUnit string) (Quote, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return Quote{}, customError.ErrInvalidPrincipal
	}
	if ratePercentMonth.IsNegative() {
		return Quote{}, customError.ErrInvalidRate
	}
	if period < 1 {
		return Quote{}, customError.WrapInvalidPeriod(period)
	}

	months := periodInMonths(period, periodUnit)

	totalInterest := principal.
		Mul(ratePercentMonth.Div(hundred)).
		Mul(months).
		Round(0)
	totalAmount := principal.Add(totalInterest)

	installmentCount := period
	emi := totalAmount.Div(decimal.NewFromInt(int64(installmentCount))).Round(0)

	return Quote{
		EMI:              emi,
		TotalInterest:    totalInterest,
		TotalAmount:      totalAmount,
		InstallmentCount: installmentCount,
		PeriodMonths:     NormalizePeriodMonths(period, periodUnit),
	}, nil
}

// periodInMonths converts a tenor to fractional months for interest accrual.
func periodInMonths(period int, periodUnit string) decimal.Decimal {
	p := decimal.NewFromInt(int64(period))
	switch periodUnit {
	case domain.PeriodUnitDays:
		return p.Div(daysPerMonth)
	case domain.PeriodUnitWeeks:
		return p.Div(weeksPerMonth)
	default:
		return p
	}
}

// NormalizePeriodMonths converts a tenor to the whole-month figure stored on
// the loan: partial months round up, and any positive tenor is at least one
// month. The stored figure drives the schedule cadence after disbursement.
func NormalizePeriodMonths(period int, periodUnit string) int {
	if period < 1 {
		return 0
	}
	months := int(periodInMonths(period, periodUnit).Ceil().IntPart())
	if months < 1 {
		months = 1
	}
	return months
}
