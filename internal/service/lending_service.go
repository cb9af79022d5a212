package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/prasetia/lending-engine/internal/config"
	"github.com/prasetia/lending-engine/internal/domain"
	"github.com/prasetia/lending-engine/internal/engine"
	"github.com/prasetia/lending-engine/internal/repository"
	customError "github.com/prasetia/lending-engine/pkg/errors"
)

// LendingService orchestrates loan origination, disbursement and payment
// collection. All arithmetic lives in the engine package; this layer loads
// state, invokes the engine and persists the result.
type LendingService struct {
	loanRepo        repository.LoanRepository
	installmentRepo repository.InstallmentRepository
	paymentRepo     repository.PaymentRepository
	snapshotCache   repository.SnapshotCache
	config          *config.Config
}

func NewLendingService(
	loanRepo repository.LoanRepository,
	installmentRepo repository.InstallmentRepository,
	paymentRepo repository.PaymentRepository,
	snapshotCache repository.SnapshotCache,
	config *config.Config,
) *LendingService {
	return &LendingService{
		loanRepo:        loanRepo,
		installmentRepo: installmentRepo,
		paymentRepo:     paymentRepo,
		snapshotCache:   snapshotCache,
		config:          config,
	}
}

// Quote computes a repayment quote without persisting anything. Used by the
// origination UI to preview the EMI while the operator fills the form.
func (s *LendingService) Quote(request *domain.QuoteRequest) (engine.Quote, error) {
	return engine.ComputeSchedule(request.Principal, request.RatePercentMonth, request.Period, request.PeriodUnit)
}

// CreateLoan registers a loan application in pending status. The EMI and the
// months-normalized tenor are computed once here and frozen on the loan.
func (s *LendingService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, error) {
	existingLoan, err := s.loanRepo.GetByLoanID(ctx, request.LoanID)
	if err == nil && existingLoan != nil {
		return nil, customError.WrapLoanAlreadyExists(request.LoanID)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	quote, err := engine.ComputeSchedule(request.Principal, request.RatePercentMonth, request.Period, request.PeriodUnit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	loan := &domain.Loan{
		ID:               uuid.New(),
		LoanID:           request.LoanID,
		CustomerID:       request.CustomerID,
		Principal:        request.Principal,
		RatePercentMonth: request.RatePercentMonth,
		Period:           request.Period,
		PeriodUnit:       request.PeriodUnit,
		PeriodMonths:     quote.PeriodMonths,
		EMI:              quote.EMI,
		TotalInterest:    quote.TotalInterest,
		TotalAmount:      quote.TotalAmount,
		Status:           domain.LoanStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err = s.loanRepo.Create(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	log.Info().Str("loan_id", loan.LoanID).Str("customer_id", loan.CustomerID).
		Str("principal", loan.Principal.String()).Str("emi", loan.EMI.String()).
		Msg("loan application created")

	return loan, nil
}

// ApproveLoan moves a pending loan to approved with the sanctioned amount,
// which may be reduced but never raised above the requested principal.
func (s *LendingService) ApproveLoan(ctx context.Context, loanID string, approvedAmount decimal.Decimal) (*domain.Loan, error) {
	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(loan.Status, domain.LoanStatusApproved) {
		return nil, customError.WrapInvalidStatusTransition(loan.Status, domain.LoanStatusApproved)
	}
	if approvedAmount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.ErrInvalidPrincipal
	}
	if approvedAmount.GreaterThan(loan.Principal) {
		return nil, customError.WrapApprovalExceedsPrincipal(approvedAmount.String(), loan.Principal.String())
	}

	loan.ApprovedAmount = decimal.NewNullDecimal(approvedAmount)
	loan.Status = domain.LoanStatusApproved

	if err = s.loanRepo.Update(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	log.Info().Str("loan_id", loanID).Str("approved_amount", approvedAmount.String()).Msg("loan approved")
	return loan, nil
}

// RejectLoan moves a pending loan to the terminal rejected status.
func (s *LendingService) RejectLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(loan.Status, domain.LoanStatusRejected) {
		return nil, customError.WrapInvalidStatusTransition(loan.Status, domain.LoanStatusRejected)
	}

	loan.Status = domain.LoanStatusRejected
	if err = s.loanRepo.Update(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	log.Info().Str("loan_id", loanID).Msg("loan rejected")
	return loan, nil
}

// DisburseLoan releases the approved funds and generates the repayment
// schedule. Disbursed amount and date are set exactly once; re-running the
// generation replaces any schedule left from a previous attempt rather than
// appending to it.
func (s *LendingService) DisburseLoan(ctx context.Context, loanID string, amount decimal.Decimal, date time.Time) (*domain.Loan, []*domain.Installment, error) {
	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}

	if !domain.CanTransition(loan.Status, domain.LoanStatusDisbursed) {
		return nil, nil, customError.WrapInvalidStatusTransition(loan.Status, domain.LoanStatusDisbursed)
	}
	if loan.DisbursedDate != nil {
		return nil, nil, customError.NewBusinessError(
			customError.ErrCodeAlreadyDisbursed,
			"disbursement already recorded for loan "+loanID,
			customError.ErrAlreadyDisbursed,
		)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, customError.ErrInvalidPrincipal
	}

	disbursedDate := date
	loan.DisbursedAmount = decimal.NewNullDecimal(amount)
	loan.DisbursedDate = &disbursedDate
	loan.Status = domain.LoanStatusDisbursed

	schedule := engine.GenerateSchedule(loan)
	if schedule != nil {
		if err = s.installmentRepo.ReplaceForLoan(ctx, loanID, schedule); err != nil {
			return nil, nil, customError.WrapDatabaseError(err)
		}
	} else {
		// precondition failure (no approved amount): record the status
		// change but leave the loan without a schedule, matching the
		// silent no-op guard in the disbursement workflow
		log.Warn().Str("loan_id", loanID).Msg("disbursed loan skipped schedule generation")
	}

	if err = s.loanRepo.Update(ctx, loan); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	log.Info().Str("loan_id", loanID).Str("amount", amount.String()).
		Int("installments", len(schedule)).Msg("loan disbursed")

	return loan, schedule, nil
}

// ApplyPayment collects a payment against one installment of a disbursed
// loan. Penalty settings resolve per call: request override, then configured
// values, then the engine defaults.
func (s *LendingService) ApplyPayment(ctx context.Context, loanID string, emiNumber int, request *domain.PaymentRequest) (*domain.Installment, *domain.Payment, error) {
	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}
	if !loan.IsDisbursed() {
		return nil, nil, customError.NewBusinessError(
			customError.ErrCodeLoanNotDisbursed,
			"loan "+loanID+" has no repayment schedule yet",
			customError.ErrLoanNotDisbursed,
		)
	}

	installment, err := s.installmentRepo.GetByEmiNumber(ctx, loanID, emiNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, customError.WrapInstallmentNotFound(loanID, emiNumber)
		}
		return nil, nil, customError.WrapDatabaseError(err)
	}

	today := time.Now()
	settings := s.resolvePenaltySettings(request)
	penalty := engine.Penalty(installment, settings, today)

	discount := decimal.Zero
	if request.Discount != nil {
		discount = *request.Discount
	}

	updated, receipt, err := engine.ApplyPayment(*installment, engine.PaymentInput{
		Amount:   request.Amount,
		Penalty:  penalty,
		Discount: discount,
		Mode:     request.Mode,
	}, today)
	if err != nil {
		return nil, nil, err
	}

	if err = s.installmentRepo.Update(ctx, &updated); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	payment := &domain.Payment{
		ID:        uuid.New(),
		LoanID:    loanID,
		EmiNumber: emiNumber,
		Amount:    receipt.Amount,
		Penalty:   receipt.Penalty,
		Discount:  receipt.Discount,
		Collected: receipt.Collected,
		Mode:      request.Mode,
		PaidAt:    receipt.PaidAt,
		CreatedAt: time.Now(),
	}
	if err = s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	if err = s.completeLoanIfSettled(ctx, loan); err != nil {
		return nil, nil, err
	}

	log.Info().Str("loan_id", loanID).Int("emi_number", emiNumber).
		Str("amount", receipt.Amount.String()).Str("penalty", receipt.Penalty.String()).
		Str("status", updated.Status).Msg("payment applied")

	return &updated, payment, nil
}

// GetLoan returns a loan by its external ID.
func (s *LendingService) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	return s.getLoan(ctx, loanID)
}

// GetSchedule returns the loan's installments decorated with the derived
// overdue status and the penalty accrued as of now.
func (s *LendingService) GetSchedule(ctx context.Context, loanID string) ([]*domain.InstallmentView, error) {
	if _, err := s.getLoan(ctx, loanID); err != nil {
		return nil, err
	}

	installments, err := s.installmentRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	today := time.Now()
	settings := s.configuredPenaltySettings()
	views := make([]*domain.InstallmentView, 0, len(installments))
	for _, inst := range installments {
		views = append(views, &domain.InstallmentView{
			Installment:    *inst,
			DisplayStatus:  engine.DisplayStatus(inst, today),
			DaysOverdue:    overdueDays(inst, today),
			AccruedPenalty: engine.Penalty(inst, settings, today),
		})
	}

	return views, nil
}

// GetOutstanding sums the open balances of a loan together with the
// penalties accrued to date.
func (s *LendingService) GetOutstanding(ctx context.Context, loanID string) (*domain.OutstandingResponse, error) {
	if _, err := s.getLoan(ctx, loanID); err != nil {
		return nil, err
	}

	installments, err := s.installmentRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	today := time.Now()
	settings := s.configuredPenaltySettings()
	outstanding := decimal.Zero
	penalty := decimal.Zero
	for _, inst := range installments {
		outstanding = outstanding.Add(inst.Balance)
		penalty = penalty.Add(engine.Penalty(inst, settings, today))
	}

	return &domain.OutstandingResponse{
		LoanID:      loanID,
		Outstanding: outstanding,
		Penalty:     penalty,
		TotalDue:    outstanding.Add(penalty),
	}, nil
}

// BuildDelinquencySnapshot scans unsettled installments past due and writes
// the aggregated view to the cache for reporting collaborators. Stored loan
// state is never touched: overdue remains a derived status.
func (s *LendingService) BuildDelinquencySnapshot(ctx context.Context, now time.Time) (*domain.DelinquencySnapshot, error) {
	overdue, err := s.installmentRepo.GetDueBefore(ctx, now)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	settings := s.configuredPenaltySettings()
	snapshot := &domain.DelinquencySnapshot{
		GeneratedAt:    now,
		TotalOverdue:   decimal.Zero,
		TotalPenalty:   decimal.Zero,
		DelinquentList: make([]domain.DelinquentInstallment, 0, len(overdue)),
	}

	for _, inst := range overdue {
		if !engine.IsOverdue(inst, now) {
			continue
		}
		p := engine.Penalty(inst, settings, now)
		snapshot.TotalOverdue = snapshot.TotalOverdue.Add(inst.Balance)
		snapshot.TotalPenalty = snapshot.TotalPenalty.Add(p)
		snapshot.OverdueCount++
		snapshot.DelinquentList = append(snapshot.DelinquentList, domain.DelinquentInstallment{
			LoanID:      inst.LoanID,
			EmiNumber:   inst.EmiNumber,
			DueDate:     inst.DueDate,
			DaysOverdue: engine.DaysOverdue(inst.DueDate, now),
			Balance:     inst.Balance,
			Penalty:     p,
		})
	}

	if s.snapshotCache != nil {
		if err := s.snapshotCache.SetDelinquencySnapshot(ctx, snapshot, 48*time.Hour); err != nil {
			log.Warn().Err(err).Msg("failed to cache delinquency snapshot")
		}
	}

	return snapshot, nil
}

// GetDelinquencySnapshot returns the latest cached snapshot, or nil when the
// scheduler has not produced one yet.
func (s *LendingService) GetDelinquencySnapshot(ctx context.Context) (*domain.DelinquencySnapshot, error) {
	if s.snapshotCache == nil {
		return nil, nil
	}
	snapshot, err := s.snapshotCache.GetDelinquencySnapshot(ctx)
	if err != nil {
		return nil, customError.WrapCacheError(err)
	}
	return snapshot, nil
}

func (s *LendingService) getLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return loan, nil
}

// completeLoanIfSettled flips the loan to completed once every installment
// is paid.
func (s *LendingService) completeLoanIfSettled(ctx context.Context, loan *domain.Loan) error {
	installments, err := s.installmentRepo.GetByLoanID(ctx, loan.LoanID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if len(installments) == 0 {
		return nil
	}

	for _, inst := range installments {
		if !inst.IsSettled() {
			return nil
		}
	}

	if !domain.CanTransition(loan.Status, domain.LoanStatusCompleted) {
		return nil
	}

	loan.Status = domain.LoanStatusCompleted
	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return customError.WrapDatabaseError(err)
	}

	log.Info().Str("loan_id", loan.LoanID).Msg("loan completed")
	return nil
}

func (s *LendingService) resolvePenaltySettings(request *domain.PaymentRequest) domain.PenaltySettings {
	settings := s.configuredPenaltySettings()
	if request.PenaltyRate != nil && !request.PenaltyRate.IsNegative() {
		settings.Rate = *request.PenaltyRate
	}
	if domain.ValidPenaltyType(request.PenaltyType) {
		settings.Type = request.PenaltyType
	}
	return settings
}

func (s *LendingService) configuredPenaltySettings() domain.PenaltySettings {
	if s.config == nil {
		return domain.DefaultPenaltySettings()
	}
	return s.config.PenaltySettings()
}

func overdueDays(inst *domain.Installment, today time.Time) int {
	if !engine.IsOverdue(inst, today) {
		return 0
	}
	return engine.DaysOverdue(inst.DueDate, today)
}
