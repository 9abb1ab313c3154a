package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChequeSheet is a row of cheque_sheets.
type ChequeSheet struct {
	SheetID         string          `db:"sheet_id"`
	SheetNumber     string          `db:"sheet_number"`
	CompanyID       string          `db:"company_id"`
	PayerName       string          `db:"payer_name"`
	ChequeReference string          `db:"cheque_reference"`
	PaidAmount      decimal.Decimal `db:"paid_amount"`
	Status          string          `db:"status"`
	CollectedAt     time.Time       `db:"collected_at"`
	RemittanceID    *string         `db:"remittance_id"` // Nullable
	AuditFields
}
