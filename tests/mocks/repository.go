package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/prasetia/lending-engine/internal/domain"
)

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) ListByStatus(ctx context.Context, status string) ([]*domain.Loan, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

type MockInstallmentRepository struct {
	mock.Mock
}

func (m *MockInstallmentRepository) ReplaceForLoan(ctx context.Context, loanID string, installments []*domain.Installment) error {
	args := m.Called(ctx, loanID, installments)
	return args.Error(0)
}

func (m *MockInstallmentRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Installment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) GetByEmiNumber(ctx context.Context, loanID string, emiNumber int) (*domain.Installment, error) {
	args := m.Called(ctx, loanID, emiNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) Update(ctx context.Context, installment *domain.Installment) error {
	args := m.Called(ctx, installment)
	return args.Error(0)
}

func (m *MockInstallmentRepository) GetDueBefore(ctx context.Context, cutoff time.Time) ([]*domain.Installment, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

type MockSnapshotCache struct {
	mock.Mock
}

func (m *MockSnapshotCache) SetDelinquencySnapshot(ctx context.Context, snapshot *domain.DelinquencySnapshot, ttl time.Duration) error {
	args := m.Called(ctx, snapshot, ttl)
	return args.Error(0)
}

func (m *MockSnapshotCache) GetDelinquencySnapshot(ctx context.Context) (*domain.DelinquencySnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DelinquencySnapshot), args.Error(1)
}
