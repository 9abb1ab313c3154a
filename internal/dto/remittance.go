package dto

import (
	"time"

	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	"github.com/SscSPs/treasury_backoffice/internal/core/lifecycle"
	"github.com/SscSPs/treasury_backoffice/internal/utils"
	"github.com/shopspring/decimal"
)

// CreateRemittanceRequest is the body for creating a draft slip.
// The same binding tags drive the gin binder on the server and the
// client-side guard.
type CreateRemittanceRequest struct {
	DepositDate time.Time  `json:"depositDate" binding:"required"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	BankID      string     `json:"bankId" binding:"required"`
	AccountID   string     `json:"accountId" binding:"required"`
	JournalID   *string    `json:"journalId,omitempty"`
	Notes       string     `json:"notes,omitempty" binding:"max=500"`
	ChequeIDs   []string   `json:"chequeIds" binding:"required,min=1,dive,required"`
}

// UpdateRemittanceRequest carries the editable header fields of a slip.
// Nil fields are left unchanged. A nil ChequeIDs keeps the current selection.
type UpdateRemittanceRequest struct {
	DepositDate *time.Time `json:"depositDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	BankID      *string    `json:"bankId,omitempty" binding:"omitempty,min=1"`
	AccountID   *string    `json:"accountId,omitempty" binding:"omitempty,min=1"`
	JournalID   *string    `json:"journalId,omitempty"`
	Notes       *string    `json:"notes,omitempty" binding:"omitempty,max=500"`
	ChequeIDs   []string   `json:"chequeIds,omitempty" binding:"omitempty,min=1,dive,required"`
}

// DepositRequest records the bank deposit. An empty receipt number asks the
// server to generate one.
type DepositRequest struct {
	ReceiptNumber string `json:"receiptNumber,omitempty" binding:"max=50"`
}

// ClearRequest records encashment. A nil date means today.
type ClearRequest struct {
	EncashmentDate *time.Time `json:"encashmentDate,omitempty"`
}

// ReasonRequest is the body of cancel and not-paid.
type ReasonRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListRemittancesParams defines query parameters for listing slips.
type ListRemittancesParams struct {
	Status string `form:"status"`
	Limit  int    `form:"limit,default=50"`
	Offset int    `form:"offset,default=0"`
}

// RemittanceResponse is a full slip as returned by every slip endpoint.
type RemittanceResponse struct {
	ID                 string                `json:"id"`
	SlipNumber         string                `json:"slipNumber"`
	ReceiptNumber      *string               `json:"receiptNumber,omitempty"`
	DepositDate        time.Time             `json:"depositDate"`
	DueDate            *time.Time            `json:"dueDate,omitempty"`
	EncashmentDate     *time.Time            `json:"encashmentDate,omitempty"`
	TotalAmount        decimal.Decimal       `json:"totalAmount"`
	FormattedTotal     string                `json:"formattedTotal"`
	ChequeCount        int                   `json:"chequeCount"`
	Notes              string                `json:"notes,omitempty"`
	CancellationReason *string               `json:"cancellationReason,omitempty"`
	NotPaidReason      *string               `json:"notPaidReason,omitempty"`
	Status             string                `json:"status"`
	StatusLabel        string                `json:"statusLabel"`
	AvailableActions   []string              `json:"availableActions"`
	CompanyID          string                `json:"companyId"`
	BankID             string                `json:"bankId"`
	BankName           string                `json:"bankName"`
	AccountID          string                `json:"accountId"`
	AccountLabel       string                `json:"accountLabel"`
	JournalID          *string               `json:"journalId,omitempty"`
	Created            domain.AuditStamp     `json:"created"`
	Validated          *domain.AuditStamp    `json:"validated,omitempty"`
	Deposited          *domain.AuditStamp    `json:"deposited,omitempty"`
	Updated            *domain.AuditStamp    `json:"updated,omitempty"`
	Cheques            []ChequeSheetResponse `json:"cheques"`
}

// ToRemittanceResponse converts a domain.RemittanceSlip to its API form.
func ToRemittanceResponse(s domain.RemittanceSlip) RemittanceResponse {
	actions := lifecycle.AvailableActions(s.Status)
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return RemittanceResponse{
		ID:                 s.SlipID,
		SlipNumber:         s.SlipNumber,
		ReceiptNumber:      s.ReceiptNumber,
		DepositDate:        s.DepositDate,
		DueDate:            s.DueDate,
		EncashmentDate:     s.EncashmentDate,
		TotalAmount:        s.TotalAmount,
		FormattedTotal:     utils.FormatAmount(s.TotalAmount),
		ChequeCount:        s.ChequeCount,
		Notes:              s.Notes,
		CancellationReason: s.CancellationReason,
		NotPaidReason:      s.NotPaidReason,
		Status:             string(s.Status),
		StatusLabel:        s.Status.Label(),
		AvailableActions:   names,
		CompanyID:          s.CompanyID,
		BankID:             s.BankID,
		BankName:           s.BankName,
		AccountID:          s.AccountID,
		AccountLabel:       s.AccountLabel,
		JournalID:          s.JournalID,
		Created:            s.Created,
		Validated:          s.Validated,
		Deposited:          s.Deposited,
		Updated:            s.Updated,
		Cheques:            ToChequeSheetResponses(s.Cheques),
	}
}

// ToRemittanceResponses converts a slice, never returning nil.
func ToRemittanceResponses(slips []domain.RemittanceSlip) []RemittanceResponse {
	out := make([]RemittanceResponse, len(slips))
	for i, s := range slips {
		out[i] = ToRemittanceResponse(s)
	}
	return out
}
