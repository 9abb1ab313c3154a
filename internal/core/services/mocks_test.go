package services_test

import (
	"context"

	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_backoffice/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// --- Mock RemittanceRepository ---
type MockRemittanceRepository struct {
	mock.Mock
}

var _ portsrepo.RemittanceRepositoryFacade = (*MockRemittanceRepository)(nil)

func (m *MockRemittanceRepository) FindRemittanceByID(ctx context.Context, slipID string) (*domain.RemittanceSlip, error) {
	args := m.Called(ctx, slipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RemittanceSlip), args.Error(1)
}

func (m *MockRemittanceRepository) ListRemittances(ctx context.Context, filter domain.RemittanceFilter) ([]domain.RemittanceSlip, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RemittanceSlip), args.Error(1)
}

func (m *MockRemittanceRepository) CreateRemittance(ctx context.Context, slip domain.RemittanceSlip) error {
	args := m.Called(ctx, slip)
	return args.Error(0)
}

func (m *MockRemittanceRepository) UpdateRemittance(ctx context.Context, slip domain.RemittanceSlip, released []string) error {
	args := m.Called(ctx, slip, released)
	return args.Error(0)
}

func (m *MockRemittanceRepository) NextSlipSequence(ctx context.Context, year int) (int, error) {
	args := m.Called(ctx, year)
	return args.Int(0), args.Error(1)
}

// --- Mock ChequeRepository ---
type MockChequeRepository struct {
	mock.Mock
}

var _ portsrepo.ChequeReader = (*MockChequeRepository)(nil)

func (m *MockChequeRepository) FindAvailableCheques(ctx context.Context) ([]domain.ChequeSheet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChequeSheet), args.Error(1)
}

func (m *MockChequeRepository) FindChequesByIDs(ctx context.Context, sheetIDs []string) ([]domain.ChequeSheet, error) {
	args := m.Called(ctx, sheetIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChequeSheet), args.Error(1)
}

// --- Mock TreasuryAccountRepository ---
type MockTreasuryAccountRepository struct {
	mock.Mock
}

var _ portsrepo.TreasuryAccountReader = (*MockTreasuryAccountRepository)(nil)

func (m *MockTreasuryAccountRepository) FindTreasuryAccountByID(ctx context.Context, accountID string) (*domain.TreasuryAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TreasuryAccount), args.Error(1)
}

func (m *MockTreasuryAccountRepository) ListTreasuryAccounts(ctx context.Context) ([]domain.TreasuryAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TreasuryAccount), args.Error(1)
}

// --- Mock TransitionRecorder ---
type MockTransitionRecorder struct {
	mock.Mock
}

var _ portssvc.TransitionRecorder = (*MockTransitionRecorder)(nil)

func (m *MockTransitionRecorder) RecordTransition(action string, from, to domain.RemittanceStatus) {
	m.Called(action, from, to)
}

func (m *MockTransitionRecorder) RecordRejection(action string, reason string) {
	m.Called(action, reason)
}
