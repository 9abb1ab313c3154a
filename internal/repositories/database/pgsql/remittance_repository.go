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

// PgxRemittanceRepository persists slips and the assignment of their cheques.
type PgxRemittanceRepository struct {
	BaseRepository
}

func newPgxRemittanceRepository(pool *pgxpool.Pool) portsrepo.RemittanceRepositoryFacade {
	return &PgxRemittanceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RemittanceRepositoryFacade = (*PgxRemittanceRepository)(nil)

const slipColumns = `slip_id, slip_number, receipt_number, deposit_date, due_date, encashment_date, total_amount, cheque_count, notes,
	cancellation_reason, not_paid_reason, status, company_id, bank_id, bank_name, account_id, account_label, journal_id,
	validated_at, validated_by, deposited_at, deposited_by, created_at, created_by, last_updated_at, last_updated_by, version`

func scanSlip(row pgx.Row, m *models.RemittanceSlip) error {
	return row.Scan(
		&m.SlipID,
		&m.SlipNumber,
		&m.ReceiptNumber,
		&m.DepositDate,
		&m.DueDate,
		&m.EncashmentDate,
		&m.TotalAmount,
		&m.ChequeCount,
		&m.Notes,
		&m.CancellationReason,
		&m.NotPaidReason,
		&m.Status,
		&m.CompanyID,
		&m.BankID,
		&m.BankName,
		&m.AccountID,
		&m.AccountLabel,
		&m.JournalID,
		&m.ValidatedAt,
		&m.ValidatedBy,
		&m.DepositedAt,
		&m.DepositedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Version,
	)
}

// CreateRemittance inserts the slip at version 1 and assigns its cheques in
// one transaction.
func (r *PgxRemittanceRepository) CreateRemittance(ctx context.Context, slip domain.RemittanceSlip) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	m := mapping.ToModelRemittanceSlip(slip)
	insert := `
		INSERT INTO remittance_slips (` + slipColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, 1);
	`
	_, err = tx.Exec(ctx, insert,
		m.SlipID, m.SlipNumber, m.ReceiptNumber, m.DepositDate, m.DueDate, m.EncashmentDate, m.TotalAmount, m.ChequeCount, m.Notes,
		m.CancellationReason, m.NotPaidReason, m.Status, m.CompanyID, m.BankID, m.BankName, m.AccountID, m.AccountLabel, m.JournalID,
		m.ValidatedAt, m.ValidatedBy, m.DepositedAt, m.DepositedBy, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("slip number %s: %w", m.SlipNumber, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert remittance slip "+m.SlipID, err)
	}

	if err := assignCheques(ctx, tx, slip); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateRemittance rewrites the header, releases removed sheets and
// (re)assigns the member sheets in one transaction. The header is only
// written while the stored version still matches slip.Version.
func (r *PgxRemittanceRepository) UpdateRemittance(ctx context.Context, slip domain.RemittanceSlip, released []string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelRemittanceSlip(slip)
	update := `
		UPDATE remittance_slips SET
			receipt_number = $2, deposit_date = $3, due_date = $4, encashment_date = $5, total_amount = $6, cheque_count = $7,
			notes = $8, cancellation_reason = $9, not_paid_reason = $10, status = $11, bank_id = $12, bank_name = $13,
			account_id = $14, account_label = $15, journal_id = $16, validated_at = $17, validated_by = $18,
			deposited_at = $19, deposited_by = $20, last_updated_at = $21, last_updated_by = $22, version = version + 1
		WHERE slip_id = $1 AND version = $23;
	`
	cmdTag, err := tx.Exec(ctx, update,
		m.SlipID, m.ReceiptNumber, m.DepositDate, m.DueDate, m.EncashmentDate, m.TotalAmount, m.ChequeCount,
		m.Notes, m.CancellationReason, m.NotPaidReason, m.Status, m.BankID, m.BankName,
		m.AccountID, m.AccountLabel, m.JournalID, m.ValidatedAt, m.ValidatedBy,
		m.DepositedAt, m.DepositedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update remittance slip "+m.SlipID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return staleOrMissing(ctx, tx, m.SlipID)
	}

	if len(released) > 0 {
		release := `
			UPDATE cheque_sheets
			SET remittance_id = NULL, status = $3, last_updated_at = $4, last_updated_by = $5
			WHERE sheet_id = ANY($1) AND remittance_id = $2;
		`
		if _, err := tx.Exec(ctx, release, released, m.SlipID, string(domain.ChequeCollected), m.LastUpdatedAt, m.LastUpdatedBy); err != nil {
			return apperrors.NewAppError(500, "failed to release cheque sheets of "+m.SlipID, err)
		}
	}

	if err := assignCheques(ctx, tx, slip); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// staleOrMissing tells a slip that was changed concurrently (version
// mismatch) from one that does not exist.
func staleOrMissing(ctx context.Context, tx pgx.Tx, slipID string) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM remittance_slips WHERE slip_id = $1);`, slipID).Scan(&exists); err != nil {
		return apperrors.NewAppError(500, "failed to check remittance slip "+slipID, err)
	}
	if !exists {
		return fmt.Errorf("remittance slip %s: %w", slipID, apperrors.ErrNotFound)
	}
	return fmt.Errorf("optimistic locking failed: remittance slip %s was modified concurrently: %w", slipID, apperrors.ErrConflict)
}

// assignCheques points every member sheet at the slip with its current
// status. A sheet held by another slip is a conflict.
func assignCheques(ctx context.Context, tx pgx.Tx, slip domain.RemittanceSlip) error {
	stamp := slip.Created
	if slip.Updated != nil {
		stamp = *slip.Updated
	}
	query := `
		UPDATE cheque_sheets
		SET remittance_id = $1, status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE sheet_id = $5 AND (remittance_id IS NULL OR remittance_id = $1);
	`
	batch := &pgx.Batch{}
	for _, c := range slip.Cheques {
		batch.Queue(query, slip.SlipID, string(c.Status), stamp.At, stamp.By, c.SheetID)
	}
	br := tx.SendBatch(ctx, batch)
	for _, c := range slip.Cheques {
		cmdTag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return apperrors.NewAppError(500, "failed to assign cheque sheet "+c.SheetID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			_ = br.Close()
			return fmt.Errorf("cheque sheet %s is missing or assigned to another slip: %w", c.SheetID, apperrors.ErrConflict)
		}
	}
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to assign cheque sheets of "+slip.SlipID, err)
	}
	return nil
}

func (r *PgxRemittanceRepository) FindRemittanceByID(ctx context.Context, slipID string) (*domain.RemittanceSlip, error) {
	query := `SELECT ` + slipColumns + ` FROM remittance_slips WHERE slip_id = $1;`
	var m models.RemittanceSlip
	if err := scanSlip(r.Pool.QueryRow(ctx, query, slipID), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("remittance slip %s: %w", slipID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find remittance slip %s: %w", slipID, err)
	}

	members, err := r.findMembers(ctx, []string{slipID})
	if err != nil {
		return nil, err
	}
	slip := mapping.ToDomainRemittanceSlip(m, members[slipID])
	return &slip, nil
}

func (r *PgxRemittanceRepository) ListRemittances(ctx context.Context, filter domain.RemittanceFilter) ([]domain.RemittanceSlip, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + slipColumns + `
		FROM remittance_slips
		WHERE ($1 = '' OR status = $1)
		ORDER BY deposit_date DESC, slip_number DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, string(filter.Status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query remittance slips: %w", err)
	}
	defer rows.Close()

	slips := []models.RemittanceSlip{}
	ids := []string{}
	for rows.Next() {
		var m models.RemittanceSlip
		if err := scanSlip(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan remittance slip row: %w", err)
		}
		slips = append(slips, m)
		ids = append(ids, m.SlipID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating remittance slip rows: %w", rows.Err())
	}

	members, err := r.findMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RemittanceSlip, len(slips))
	for i, m := range slips {
		out[i] = mapping.ToDomainRemittanceSlip(m, members[m.SlipID])
	}
	return out, nil
}

// findMembers loads the cheques of several slips in one query, keyed by slip id.
func (r *PgxRemittanceRepository) findMembers(ctx context.Context, slipIDs []string) (map[string][]models.ChequeSheet, error) {
	out := make(map[string][]models.ChequeSheet, len(slipIDs))
	if len(slipIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + chequeColumns + `
		FROM cheque_sheets
		WHERE remittance_id = ANY($1)
		ORDER BY collected_at, sheet_number;`
	rows, err := r.Pool.Query(ctx, query, slipIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query slip members: %w", err)
	}
	ms, err := scanChequeRows(rows)
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		out[*m.RemittanceID] = append(out[*m.RemittanceID], m)
	}
	return out, nil
}

func (r *PgxRemittanceRepository) NextSlipSequence(ctx context.Context, year int) (int, error) {
	query := `
		INSERT INTO remittance_sequences (year, last_value) VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_value = remittance_sequences.last_value + 1
		RETURNING last_value;
	`
	var seq int
	if err := r.Pool.QueryRow(ctx, query, year).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to reserve slip sequence for %d: %w", year, err)
	}
	return seq, nil
}
