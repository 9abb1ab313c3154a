package services

import (
	portsrepo "github.com/SscSPs/treasury_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_backoffice/internal/core/ports/services"
	"github.com/SscSPs/treasury_backoffice/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...RemittanceOption) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Auth:   NewAuthService(cfg, repos.UserRepo),
		Cheque: NewChequeService(repos.ChequeRepo, repos.TreasuryAccountRepo),
		Remittance: NewRemittanceService(
			repos.RemittanceRepo,
			repos.ChequeRepo,
			repos.TreasuryAccountRepo,
			options...,
		),
	}
}
