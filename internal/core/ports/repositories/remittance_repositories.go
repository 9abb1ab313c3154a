package repositories

import (
	"context"

	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
)

// RemittanceReader defines read operations for remittance slips
type RemittanceReader interface {
	// FindRemittanceByID returns the slip with its member cheques.
	FindRemittanceByID(ctx context.Context, slipID string) (*domain.RemittanceSlip, error)

	// ListRemittances returns slips, most recent deposit date first.
	ListRemittances(ctx context.Context, filter domain.RemittanceFilter) ([]domain.RemittanceSlip, error)
}

// RemittanceWriter defines write operations for remittance slips.
// Each call is atomic: the slip row and the assignment of its member
// cheques change together or not at all.
type RemittanceWriter interface {
	// CreateRemittance inserts the slip and assigns its cheques to it.
	// A cheque already assigned to another slip yields apperrors.ErrConflict.
	CreateRemittance(ctx context.Context, slip domain.RemittanceSlip) error

	// UpdateRemittance rewrites the slip header, assigns the current member
	// cheques (with their statuses) and releases the sheets in released.
	UpdateRemittance(ctx context.Context, slip domain.RemittanceSlip, released []string) error

	// NextSlipSequence reserves the next slip sequence number for year.
	NextSlipSequence(ctx context.Context, year int) (int, error)
}

// RemittanceRepositoryFacade combines all remittance-related repository interfaces
type RemittanceRepositoryFacade interface {
	RemittanceReader
	RemittanceWriter
}

// TreasuryAccountReader reads the bank accounts slips are deposited to.
type TreasuryAccountReader interface {
	FindTreasuryAccountByID(ctx context.Context, accountID string) (*domain.TreasuryAccount, error)
	ListTreasuryAccounts(ctx context.Context) ([]domain.TreasuryAccount, error)
}

// TreasuryAccountRepositoryFacade adds the write used by seeding.
type TreasuryAccountRepositoryFacade interface {
	TreasuryAccountReader
	SaveTreasuryAccount(ctx context.Context, account domain.TreasuryAccount) error
}
