package services

import (
	"context"

	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
)

// ChequeSvcFacade exposes cheque collection sheets.
type ChequeSvcFacade interface {
	// ListAvailableCheques lists sheets that can be put on a new slip.
	ListAvailableCheques(ctx context.Context, actor domain.Principal) ([]domain.ChequeSheet, error)

	// ListTreasuryAccounts lists the accounts a slip may target.
	ListTreasuryAccounts(ctx context.Context, actor domain.Principal) ([]domain.TreasuryAccount, error)
}
