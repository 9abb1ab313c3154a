package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RemittanceStatus is the workflow state of a cheque remittance slip.
type RemittanceStatus string

const (
	StatusDraft     RemittanceStatus = "draft"
	StatusSubmitted RemittanceStatus = "submitted"
	StatusDeposited RemittanceStatus = "deposited"
	StatusCleared   RemittanceStatus = "cleared"
	StatusNotPaid   RemittanceStatus = "not_paid"
	StatusCancelled RemittanceStatus = "cancelled"
)

// Label returns the operator-facing label for the status.
func (s RemittanceStatus) Label() string {
	switch s {
	case StatusDraft:
		return "Brouillon"
	case StatusSubmitted:
		return "Validé"
	case StatusDeposited:
		return "Déposé en banque"
	case StatusCleared:
		return "Encaissé"
	case StatusNotPaid:
		return "Impayé"
	case StatusCancelled:
		return "Annulé"
	default:
		return string(s)
	}
}

// RemittanceSlip (bordereau de remise de chèques, FRCHQ) batches collected
// cheques for deposit at a bank.
type RemittanceSlip struct {
	SlipID             string           `json:"id"`
	SlipNumber         string           `json:"slipNumber"`
	ReceiptNumber      *string          `json:"receiptNumber,omitempty"`
	DepositDate        time.Time        `json:"depositDate"`
	DueDate            *time.Time       `json:"dueDate,omitempty"`
	EncashmentDate     *time.Time       `json:"encashmentDate,omitempty"`
	TotalAmount        decimal.Decimal  `json:"totalAmount"`
	ChequeCount        int              `json:"chequeCount"`
	Notes              string           `json:"notes,omitempty"`
	CancellationReason *string          `json:"cancellationReason,omitempty"`
	NotPaidReason      *string          `json:"notPaidReason,omitempty"`
	Status             RemittanceStatus `json:"status"`
	CompanyID          string           `json:"companyId"`
	BankID             string           `json:"bankId"`
	BankName           string           `json:"bankName"`
	AccountID          string           `json:"accountId"`
	AccountLabel       string           `json:"accountLabel"`
	JournalID          *string          `json:"journalId,omitempty"`
	Created            AuditStamp       `json:"created"`
	Validated          *AuditStamp      `json:"validated,omitempty"`
	Deposited          *AuditStamp      `json:"deposited,omitempty"`
	Updated            *AuditStamp      `json:"updated,omitempty"`
	Cheques            []ChequeSheet    `json:"cheques"`

	// Version is bumped by every write; a write carrying a stale version
	// is rejected with apperrors.ErrConflict.
	Version int `json:"version"`
}

// RecomputeTotals derives TotalAmount and ChequeCount from the member cheques.
func (s *RemittanceSlip) RecomputeTotals() {
	s.TotalAmount, s.ChequeCount = SumPaidAmounts(s.Cheques)
}

// ChequeIDs returns the ids of the member cheques in slip order.
func (s *RemittanceSlip) ChequeIDs() []string {
	ids := make([]string, len(s.Cheques))
	for i, c := range s.Cheques {
		ids[i] = c.SheetID
	}
	return ids
}

// TreasuryAccount is a bank account cheques can be remitted to.
type TreasuryAccount struct {
	AccountID string  `json:"id"`
	Label     string  `json:"label"`
	BankID    string  `json:"bankId"`
	BankName  string  `json:"bankName"`
	JournalID *string `json:"journalId,omitempty"`
	CompanyID string  `json:"companyId"`
}

// RemittanceFilter narrows a slip listing.
type RemittanceFilter struct {
	Status RemittanceStatus
	Limit  int
	Offset int
}
