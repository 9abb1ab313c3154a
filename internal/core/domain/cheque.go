package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChequeStatus is the collection status of a cheque sheet.
type ChequeStatus string

const (
	ChequeCollected    ChequeStatus = "COLLECTED"
	ChequeInRemittance ChequeStatus = "IN_REMITTANCE"
	ChequeCleared      ChequeStatus = "CLEARED"
	ChequeUnpaid       ChequeStatus = "UNPAID"
)

// Label returns the operator-facing label for the status.
func (s ChequeStatus) Label() string {
	switch s {
	case ChequeCollected:
		return "Encaissé en caisse"
	case ChequeInRemittance:
		return "En remise"
	case ChequeCleared:
		return "Compensé"
	case ChequeUnpaid:
		return "Impayé"
	default:
		return string(s)
	}
}

// ChequeSheet is a collected cheque (fiche d'encaissement) that can be
// batched into at most one remittance slip.
type ChequeSheet struct {
	SheetID         string          `json:"id"`
	SheetNumber     string          `json:"sheetNumber"`
	CompanyID       string          `json:"companyId"`
	PayerName       string          `json:"payerName"`
	ChequeReference string          `json:"chequeReference"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	Status          ChequeStatus    `json:"status"`
	CollectedAt     time.Time       `json:"collectedAt"`
	RemittanceID    *string         `json:"remittanceId,omitempty"`
	AuditFields
}

// Available reports whether the sheet is not yet assigned to a slip.
func (c ChequeSheet) Available() bool {
	return c.RemittanceID == nil || *c.RemittanceID == ""
}

// SumPaidAmounts returns the total paid amount and the number of sheets.
func SumPaidAmounts(cheques []ChequeSheet) (decimal.Decimal, int) {
	total := decimal.Zero
	for _, c := range cheques {
		total = total.Add(c.PaidAmount)
	}
	return total, len(cheques)
}
