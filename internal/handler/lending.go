package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/prasetia/lending-engine/internal/domain"
	"github.com/prasetia/lending-engine/internal/service"
	customError "github.com/prasetia/lending-engine/pkg/errors"
	"github.com/prasetia/lending-engine/pkg/response"
)

type LendingHandler struct {
	service   *service.LendingService
	validator *validator.Validate
}

func NewLendingHandler(service *service.LendingService) *LendingHandler {
	return &LendingHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Quote computes an EMI preview without persisting a loan.
func (h *LendingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var request domain.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	quote, err := h.service.Quote(&request)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, quote)
}

// CreateLoan registers a loan application.
func (h *LendingHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	loan, err := h.service.CreateLoan(r.Context(), &request)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, domain.CreateLoanResponse{Loan: loan})
}

// GetLoan returns one loan.
func (h *LendingHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	loan, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, loan)
}

// ApproveLoan sanctions a pending loan.
func (h *LendingHandler) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	var request domain.ApproveLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	loan, err := h.service.ApproveLoan(r.Context(), loanID, request.ApprovedAmount)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, loan)
}

// RejectLoan declines a pending loan.
func (h *LendingHandler) RejectLoan(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	loan, err := h.service.RejectLoan(r.Context(), loanID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, loan)
}

// DisburseLoan releases approved funds and creates the repayment schedule.
func (h *LendingHandler) DisburseLoan(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	var request domain.DisburseLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	date := time.Now()
	if request.Date != "" {
		parsed, err := time.Parse("2006-01-02", request.Date)
		if err != nil {
			response.BadRequest(w, "invalid date (use YYYY-MM-DD)", err)
			return
		}
		date = parsed
	}

	loan, schedule, err := h.service.DisburseLoan(r.Context(), loanID, request.Amount, date)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, domain.DisburseLoanResponse{Loan: loan, Schedule: schedule})
}

// GetSchedule returns the installment schedule with derived overdue state.
func (h *LendingHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	schedule, err := h.service.GetSchedule(r.Context(), loanID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, domain.ScheduleResponse{LoanID: loanID, Schedule: schedule})
}

// GetOutstanding returns the open balance plus accrued penalties.
func (h *LendingHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	outstanding, err := h.service.GetOutstanding(r.Context(), loanID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, outstanding)
}

// ApplyPayment collects a payment against one installment.
func (h *LendingHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	loanID := vars["loanId"]
	emiNumber, err := strconv.Atoi(vars["emiNumber"])
	if err != nil || emiNumber < 1 {
		response.BadRequest(w, "emiNumber must be a positive integer", err)
		return
	}

	var request domain.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	installment, payment, err := h.service.ApplyPayment(r.Context(), loanID, emiNumber, &request)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, domain.PaymentResponse{Installment: installment, Payment: payment})
}

// GetDelinquencySnapshot returns the latest cached delinquency report.
func (h *LendingHandler) GetDelinquencySnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.GetDelinquencySnapshot(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if snapshot == nil {
		response.NotFound(w, "no delinquency snapshot available")
		return
	}

	response.Success(w, snapshot)
}

// writeError maps the business error taxonomy onto HTTP statuses.
func (h *LendingHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, customError.ErrLoanNotFound),
		errors.Is(err, customError.ErrInstallmentNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, customError.ErrLoanAlreadyExists),
		errors.Is(err, customError.ErrAlreadyDisbursed):
		response.Conflict(w, err.Error(), err)
	case errors.Is(err, customError.ErrInvalidPrincipal),
		errors.Is(err, customError.ErrInvalidRate),
		errors.Is(err, customError.ErrInvalidPeriod),
		errors.Is(err, customError.ErrInvalidPaymentAmount),
		errors.Is(err, customError.ErrPaymentExceedsDue),
		errors.Is(err, customError.ErrApprovalExceedsPrincipal):
		response.BadRequest(w, err.Error(), err)
	case errors.Is(err, customError.ErrInvalidStatusTransition),
		errors.Is(err, customError.ErrLoanNotDisbursed):
		response.UnprocessableEntity(w, err.Error(), err)
	default:
		response.InternalServerError(w, "internal error", err)
	}
}
