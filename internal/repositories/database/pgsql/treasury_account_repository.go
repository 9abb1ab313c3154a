package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/treasury_backoffice/internal/apperrors"
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_backoffice/internal/core/ports/repositories"
	"github.com/SscSPs/treasury_backoffice/internal/models"
	"github.com/SscSPs/treasury_backoffice/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTreasuryAccountRepository struct {
	db *pgxpool.Pool
}

func newPgxTreasuryAccountRepository(db *pgxpool.Pool) portsrepo.TreasuryAccountRepositoryFacade {
	return &PgxTreasuryAccountRepository{db: db}
}

var _ portsrepo.TreasuryAccountRepositoryFacade = (*PgxTreasuryAccountRepository)(nil)

func (r *PgxTreasuryAccountRepository) FindTreasuryAccountByID(ctx context.Context, accountID string) (*domain.TreasuryAccount, error) {
	query := `
		SELECT account_id, label, bank_id, bank_name, journal_id, company_id
		FROM treasury_accounts
		WHERE account_id = $1;
	`
	var m models.TreasuryAccount
	err := r.db.QueryRow(ctx, query, accountID).Scan(&m.AccountID, &m.Label, &m.BankID, &m.BankName, &m.JournalID, &m.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find treasury account %s: %w", accountID, err)
	}
	account := mapping.ToDomainTreasuryAccount(m)
	return &account, nil
}

func (r *PgxTreasuryAccountRepository) ListTreasuryAccounts(ctx context.Context) ([]domain.TreasuryAccount, error) {
	query := `
		SELECT account_id, label, bank_id, bank_name, journal_id, company_id
		FROM treasury_accounts
		ORDER BY bank_name, label;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query treasury accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.TreasuryAccount{}
	for rows.Next() {
		var m models.TreasuryAccount
		if err := rows.Scan(&m.AccountID, &m.Label, &m.BankID, &m.BankName, &m.JournalID, &m.CompanyID); err != nil {
			return nil, fmt.Errorf("failed to scan treasury account row: %w", err)
		}
		accounts = append(accounts, mapping.ToDomainTreasuryAccount(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating treasury account rows: %w", rows.Err())
	}
	return accounts, nil
}

func (r *PgxTreasuryAccountRepository) SaveTreasuryAccount(ctx context.Context, account domain.TreasuryAccount) error {
	query := `
		INSERT INTO treasury_accounts (account_id, label, bank_id, bank_name, journal_id, company_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account_id) DO UPDATE SET
			label = EXCLUDED.label,
			bank_id = EXCLUDED.bank_id,
			bank_name = EXCLUDED.bank_name,
			journal_id = EXCLUDED.journal_id;
	`
	_, err := r.db.Exec(ctx, query, account.AccountID, account.Label, account.BankID, account.BankName, account.JournalID, account.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to save treasury account: %w", err)
	}
	return nil
}
