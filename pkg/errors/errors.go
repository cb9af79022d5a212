package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLoanNotFound             = errors.New("loan not found")
	ErrLoanAlreadyExists        = errors.New("loan already exists")
	ErrInstallmentNotFound      = errors.New("installment not found")
	ErrInvalidPrincipal         = errors.New("principal must be greater than zero")
	ErrInvalidRate              = errors.New("interest rate must not be negative")
	ErrInvalidPeriod            = errors.New("invalid period")
	ErrInvalidPaymentAmount     = errors.New("payment amount must be greater than zero")
	ErrPaymentExceedsDue        = errors.New("payment amount exceeds balance plus penalty")
	ErrInvalidStatusTransition  = errors.New("invalid loan status transition")
	ErrApprovalExceedsPrincipal = errors.New("approved amount exceeds requested principal")
	ErrAlreadyDisbursed         = errors.New("loan is already disbursed")
	ErrLoanNotDisbursed         = errors.New("loan is not disbursed")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeLoanNotFound             = "LOAN_NOT_FOUND"
	ErrCodeLoanAlreadyExists        = "LOAN_ALREADY_EXISTS"
	ErrCodeInstallmentNotFound      = "INSTALLMENT_NOT_FOUND"
	ErrCodeInvalidPrincipal         = "INVALID_PRINCIPAL"
	ErrCodeInvalidRate              = "INVALID_RATE"
	ErrCodeInvalidPeriod            = "INVALID_PERIOD"
	ErrCodeInvalidPaymentAmount     = "INVALID_PAYMENT_AMOUNT"
	ErrCodePaymentExceedsDue        = "PAYMENT_EXCEEDS_DUE"
	ErrCodeInvalidStatusTransition  = "INVALID_STATUS_TRANSITION"
	ErrCodeApprovalExceedsPrincipal = "APPROVAL_EXCEEDS_PRINCIPAL"
	ErrCodeAlreadyDisbursed         = "ALREADY_DISBURSED"
	ErrCodeLoanNotDisbursed         = "LOAN_NOT_DISBURSED"
	ErrCodeDatabaseError            = "DATABASE_ERROR"
	ErrCodeCacheError               = "CACHE_ERROR"
)

// Wrap common errors with business context

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapLoanAlreadyExists(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanAlreadyExists,
		fmt.Sprintf("loan with ID %s already exists", loanID),
		ErrLoanAlreadyExists,
	)
}

func WrapInstallmentNotFound(loanID string, emiNumber int) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentNotFound,
		fmt.Sprintf("installment %d of loan %s not found", emiNumber, loanID),
		ErrInstallmentNotFound,
	)
}

func WrapInvalidPeriod(period int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPeriod,
		fmt.Sprintf("period must be at least 1, got %d", period),
		ErrInvalidPeriod,
	)
}

func WrapPaymentExceedsDue(amount, totalDue string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentExceedsDue,
		fmt.Sprintf("payment %s exceeds total due %s", amount, totalDue),
		ErrPaymentExceedsDue,
	)
}

func WrapInvalidStatusTransition(from, to string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidStatusTransition,
		fmt.Sprintf("cannot transition loan from %s to %s", from, to),
		ErrInvalidStatusTransition,
	)
}

func WrapApprovalExceedsPrincipal(approved, principal string) *BusinessError {
	return NewBusinessError(
		ErrCodeApprovalExceedsPrincipal,
		fmt.Sprintf("approved amount %s exceeds principal %s", approved, principal),
		ErrApprovalExceedsPrincipal,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
