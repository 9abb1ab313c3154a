package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RemittanceSlip is a row of remittance_slips. Member cheques live in
// cheque_sheets (remittance_id) and are loaded separately.
type RemittanceSlip struct {
	SlipID             string          `db:"slip_id"`
	SlipNumber         string          `db:"slip_number"`
	ReceiptNumber      *string         `db:"receipt_number"`
	DepositDate        time.Time       `db:"deposit_date"`
	DueDate            *time.Time      `db:"due_date"`
	EncashmentDate     *time.Time      `db:"encashment_date"`
	TotalAmount        decimal.Decimal `db:"total_amount"`
	ChequeCount        int             `db:"cheque_count"`
	Notes              string          `db:"notes"`
	CancellationReason *string         `db:"cancellation_reason"`
	NotPaidReason      *string         `db:"not_paid_reason"`
	Status             string          `db:"status"`
	CompanyID          string          `db:"company_id"`
	BankID             string          `db:"bank_id"`
	BankName           string          `db:"bank_name"`
	AccountID          string          `db:"account_id"`
	AccountLabel       string          `db:"account_label"`
	JournalID          *string         `db:"journal_id"`
	ValidatedAt        *time.Time      `db:"validated_at"`
	ValidatedBy        *string         `db:"validated_by"`
	DepositedAt        *time.Time      `db:"deposited_at"`
	DepositedBy        *string         `db:"deposited_by"`
	Version            int             `db:"version"`
	AuditFields
}

// TreasuryAccount is a row of treasury_accounts.
type TreasuryAccount struct {
	AccountID string  `db:"account_id"`
	Label     string  `db:"label"`
	BankID    string  `db:"bank_id"`
	BankName  string  `db:"bank_name"`
	JournalID *string `db:"journal_id"`
	CompanyID string  `db:"company_id"`
}
