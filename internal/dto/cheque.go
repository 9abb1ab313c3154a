package dto

import (
	"time"

	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	"github.com/SscSPs/treasury_backoffice/internal/utils"
	"github.com/shopspring/decimal"
)

// ChequeSheetResponse is a cheque collection sheet as returned by the API.
type ChequeSheetResponse struct {
	ID              string          `json:"id"`
	SheetNumber     string          `json:"sheetNumber"`
	CompanyID       string          `json:"companyId"`
	PayerName       string          `json:"payerName"`
	ChequeReference string          `json:"chequeReference"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	FormattedAmount string          `json:"formattedAmount"`
	Status          string          `json:"status"`
	StatusLabel     string          `json:"statusLabel"`
	CollectedAt     time.Time       `json:"collectedAt"`
	RemittanceID    *string         `json:"remittanceId,omitempty"`
}

// ToChequeSheetResponse converts a domain.ChequeSheet to its API form.
func ToChequeSheetResponse(c domain.ChequeSheet) ChequeSheetResponse {
	return ChequeSheetResponse{
		ID:              c.SheetID,
		SheetNumber:     c.SheetNumber,
		CompanyID:       c.CompanyID,
		PayerName:       c.PayerName,
		ChequeReference: c.ChequeReference,
		PaidAmount:      c.PaidAmount,
		FormattedAmount: utils.FormatAmount(c.PaidAmount),
		Status:          string(c.Status),
		StatusLabel:     c.Status.Label(),
		CollectedAt:     c.CollectedAt,
		RemittanceID:    c.RemittanceID,
	}
}

// ToChequeSheetResponses converts a slice, never returning nil.
func ToChequeSheetResponses(cheques []domain.ChequeSheet) []ChequeSheetResponse {
	out := make([]ChequeSheetResponse, len(cheques))
	for i, c := range cheques {
		out[i] = ToChequeSheetResponse(c)
	}
	return out
}

// TreasuryAccountResponse is a bank account a slip can be deposited to.
type TreasuryAccountResponse struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	BankID    string  `json:"bankId"`
	BankName  string  `json:"bankName"`
	JournalID *string `json:"journalId,omitempty"`
}

// ToTreasuryAccountResponses converts treasury accounts to their API form.
func ToTreasuryAccountResponses(accounts []domain.TreasuryAccount) []TreasuryAccountResponse {
	out := make([]TreasuryAccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = TreasuryAccountResponse{
			ID:        a.AccountID,
			Label:     a.Label,
			BankID:    a.BankID,
			BankName:  a.BankName,
			JournalID: a.JournalID,
		}
	}
	return out
}
