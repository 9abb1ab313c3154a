package repositories

import (
	"context"

	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
)

// ChequeReader defines read operations for cheque collection sheets
type ChequeReader interface {
	// FindAvailableCheques lists sheets not assigned to any slip, oldest first.
	FindAvailableCheques(ctx context.Context) ([]domain.ChequeSheet, error)

	// FindChequesByIDs returns the sheets with the given ids in the order
	// requested. Missing ids yield apperrors.ErrNotFound.
	FindChequesByIDs(ctx context.Context, sheetIDs []string) ([]domain.ChequeSheet, error)
}

// ChequeWriter defines write operations for cheque collection sheets
type ChequeWriter interface {
	// SaveCheque persists a collected sheet.
	SaveCheque(ctx context.Context, cheque domain.ChequeSheet) error
}

// ChequeRepositoryFacade combines all cheque-related repository interfaces
type ChequeRepositoryFacade interface {
	ChequeReader
	ChequeWriter
}
