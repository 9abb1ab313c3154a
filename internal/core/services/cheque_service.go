package services

import (
	"context"

	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_backoffice/internal/core/ports/services"
)

type chequeService struct {
	BaseService
	chequeRepo  portsrepo.ChequeReader
	accountRepo portsrepo.TreasuryAccountReader
}

// NewChequeService creates the read side used to prepare slips.
func NewChequeService(chequeRepo portsrepo.ChequeReader, accountRepo portsrepo.TreasuryAccountReader) portssvc.ChequeSvcFacade {
	return &chequeService{chequeRepo: chequeRepo, accountRepo: accountRepo}
}

var _ portssvc.ChequeSvcFacade = (*chequeService)(nil)

func (s *chequeService) ListAvailableCheques(ctx context.Context, actor domain.Principal) ([]domain.ChequeSheet, error) {
	if err := s.AuthorizeActor(ctx, actor, "list available cheques"); err != nil {
		return nil, err
	}
	cheques, err := s.chequeRepo.FindAvailableCheques(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list available cheques")
		return nil, err
	}
	return cheques, nil
}

func (s *chequeService) ListTreasuryAccounts(ctx context.Context, actor domain.Principal) ([]domain.TreasuryAccount, error) {
	if err := s.AuthorizeActor(ctx, actor, "list treasury accounts"); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListTreasuryAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list treasury accounts")
		return nil, err
	}
	return accounts, nil
}
