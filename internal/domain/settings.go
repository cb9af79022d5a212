package domain

import "github.com/shopspring/decimal"

const (
	PenaltyTypePerDay     = "per_day"
	PenaltyTypePerWeek    = "per_week"
	PenaltyTypeFixedTotal = "fixed_total"
)

// PenaltySettings controls how overdue penalties accrue. The settings live in
// an external store; the engine receives them as plain parameters and holds
// no global state.
type PenaltySettings struct {
	Rate decimal.Decimal `json:"rate"`
	Type string          `json:"type"`
}

// DefaultPenaltySettings is applied when no settings are configured:
// 2.0% of the installment amount per day overdue.
func DefaultPenaltySettings() PenaltySettings {
	return PenaltySettings{
		Rate: decimal.NewFromFloat(2.0),
		Type: PenaltyTypePerDay,
	}
}

// ValidPenaltyType reports whether t names a known penalty accrual mode.
func ValidPenaltyType(t string) bool {
	switch t {
	case PenaltyTypePerDay, PenaltyTypePerWeek, PenaltyTypeFixedTotal:
		return true
	}
	return false
}
