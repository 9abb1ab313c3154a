package pgsql

import (
	portsrepo "github.com/SscSPs/treasury_backoffice/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every Postgres repository on one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:            newPgxUserRepository(dbPool),
		ChequeRepo:          newPgxChequeRepository(dbPool),
		RemittanceRepo:      newPgxRemittanceRepository(dbPool),
		TreasuryAccountRepo: newPgxTreasuryAccountRepository(dbPool),
	}
}
