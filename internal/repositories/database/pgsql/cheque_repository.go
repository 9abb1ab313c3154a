package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/treasury_backoffice/internal/apperrors"
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_backoffice/internal/core/ports/repositories"
	"github.com/SscSPs/treasury_backoffice/internal/models"
	"github.com/SscSPs/treasury_backoffice/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxChequeRepository struct {
	db *pgxpool.Pool
}

func newPgxChequeRepository(db *pgxpool.Pool) portsrepo.ChequeRepositoryFacade {
	return &PgxChequeRepository{db: db}
}

var _ portsrepo.ChequeRepositoryFacade = (*PgxChequeRepository)(nil)

const chequeColumns = `sheet_id, sheet_number, company_id, payer_name, cheque_reference, paid_amount, status, collected_at, remittance_id,
	created_at, created_by, last_updated_at, last_updated_by`

// scanChequeRows drains rows selected with chequeColumns.
func scanChequeRows(rows pgx.Rows) ([]models.ChequeSheet, error) {
	defer rows.Close()
	out := []models.ChequeSheet{}
	for rows.Next() {
		var m models.ChequeSheet
		err := rows.Scan(
			&m.SheetID,
			&m.SheetNumber,
			&m.CompanyID,
			&m.PayerName,
			&m.ChequeReference,
			&m.PaidAmount,
			&m.Status,
			&m.CollectedAt,
			&m.RemittanceID,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cheque sheet row: %w", err)
		}
		out = append(out, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating cheque sheet rows: %w", rows.Err())
	}
	return out, nil
}

func (r *PgxChequeRepository) FindAvailableCheques(ctx context.Context) ([]domain.ChequeSheet, error) {
	query := `SELECT ` + chequeColumns + `
		FROM cheque_sheets
		WHERE remittance_id IS NULL AND status = $1
		ORDER BY collected_at, sheet_number;`
	rows, err := r.db.Query(ctx, query, string(domain.ChequeCollected))
	if err != nil {
		return nil, fmt.Errorf("failed to query available cheques: %w", err)
	}
	ms, err := scanChequeRows(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainChequeSheetSlice(ms), nil
}

func (r *PgxChequeRepository) FindChequesByIDs(ctx context.Context, sheetIDs []string) ([]domain.ChequeSheet, error) {
	if len(sheetIDs) == 0 {
		return []domain.ChequeSheet{}, nil
	}
	query := `SELECT ` + chequeColumns + ` FROM cheque_sheets WHERE sheet_id = ANY($1);`
	rows, err := r.db.Query(ctx, query, sheetIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query cheques by ids: %w", err)
	}
	ms, err := scanChequeRows(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.ChequeSheet, len(ms))
	for _, m := range ms {
		byID[m.SheetID] = m
	}
	out := make([]domain.ChequeSheet, 0, len(sheetIDs))
	for _, id := range sheetIDs {
		m, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("cheque sheet %s: %w", id, apperrors.ErrNotFound)
		}
		out = append(out, mapping.ToDomainChequeSheet(m))
	}
	return out, nil
}

func (r *PgxChequeRepository) SaveCheque(ctx context.Context, cheque domain.ChequeSheet) error {
	m := mapping.ToModelChequeSheet(cheque)
	query := `
		INSERT INTO cheque_sheets (sheet_id, sheet_number, company_id, payer_name, cheque_reference, paid_amount, status, collected_at, remittance_id,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (sheet_id) DO UPDATE SET
			payer_name = EXCLUDED.payer_name,
			cheque_reference = EXCLUDED.cheque_reference,
			paid_amount = EXCLUDED.paid_amount,
			status = EXCLUDED.status,
			remittance_id = EXCLUDED.remittance_id,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.db.Exec(ctx, query,
		m.SheetID, m.SheetNumber, m.CompanyID, m.PayerName, m.ChequeReference, m.PaidAmount, m.Status, m.CollectedAt, m.RemittanceID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("cheque sheet number %s: %w", m.SheetNumber, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save cheque sheet: %w", err)
	}
	return nil
}
