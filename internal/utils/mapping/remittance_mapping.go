package mapping

import (
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	"github.com/SscSPs/treasury_backoffice/internal/models"
)

// ToModelChequeSheet converts a domain ChequeSheet to a model ChequeSheet
func ToModelChequeSheet(d domain.ChequeSheet) models.ChequeSheet {
	return models.ChequeSheet{
		SheetID:         d.SheetID,
		SheetNumber:     d.SheetNumber,
		CompanyID:       d.CompanyID,
		PayerName:       d.PayerName,
		ChequeReference: d.ChequeReference,
		PaidAmount:      d.PaidAmount,
		Status:          string(d.Status),
		CollectedAt:     d.CollectedAt,
		RemittanceID:    d.RemittanceID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainChequeSheet converts a model ChequeSheet to a domain ChequeSheet
func ToDomainChequeSheet(m models.ChequeSheet) domain.ChequeSheet {
	return domain.ChequeSheet{
		SheetID:         m.SheetID,
		SheetNumber:     m.SheetNumber,
		CompanyID:       m.CompanyID,
		PayerName:       m.PayerName,
		ChequeReference: m.ChequeReference,
		PaidAmount:      m.PaidAmount,
		Status:          domain.ChequeStatus(m.Status),
		CollectedAt:     m.CollectedAt,
		RemittanceID:    m.RemittanceID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainChequeSheetSlice converts a slice of model ChequeSheets
func ToDomainChequeSheetSlice(ms []models.ChequeSheet) []domain.ChequeSheet {
	ds := make([]domain.ChequeSheet, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainChequeSheet(m)
	}
	return ds
}

// ToModelRemittanceSlip converts a domain slip header to its row. Member
// cheques are not part of the row.
func ToModelRemittanceSlip(d domain.RemittanceSlip) models.RemittanceSlip {
	m := models.RemittanceSlip{
		SlipID:             d.SlipID,
		SlipNumber:         d.SlipNumber,
		ReceiptNumber:      d.ReceiptNumber,
		DepositDate:        d.DepositDate,
		DueDate:            d.DueDate,
		EncashmentDate:     d.EncashmentDate,
		TotalAmount:        d.TotalAmount,
		ChequeCount:        d.ChequeCount,
		Notes:              d.Notes,
		CancellationReason: d.CancellationReason,
		NotPaidReason:      d.NotPaidReason,
		Status:             string(d.Status),
		CompanyID:          d.CompanyID,
		BankID:             d.BankID,
		BankName:           d.BankName,
		AccountID:          d.AccountID,
		AccountLabel:       d.AccountLabel,
		JournalID:          d.JournalID,
		Version:            d.Version,
		AuditFields: models.AuditFields{
			CreatedAt:     d.Created.At,
			CreatedBy:     d.Created.By,
			LastUpdatedAt: d.Created.At,
			LastUpdatedBy: d.Created.By,
		},
	}
	m.ValidatedBy, m.ValidatedAt = fromStamp(d.Validated)
	m.DepositedBy, m.DepositedAt = fromStamp(d.Deposited)
	if d.Updated != nil {
		m.LastUpdatedAt = d.Updated.At
		m.LastUpdatedBy = d.Updated.By
	}
	return m
}

// ToDomainRemittanceSlip converts a row and its member cheques to a domain slip.
func ToDomainRemittanceSlip(m models.RemittanceSlip, cheques []models.ChequeSheet) domain.RemittanceSlip {
	d := domain.RemittanceSlip{
		SlipID:             m.SlipID,
		SlipNumber:         m.SlipNumber,
		ReceiptNumber:      m.ReceiptNumber,
		DepositDate:        m.DepositDate,
		DueDate:            m.DueDate,
		EncashmentDate:     m.EncashmentDate,
		TotalAmount:        m.TotalAmount,
		ChequeCount:        m.ChequeCount,
		Notes:              m.Notes,
		CancellationReason: m.CancellationReason,
		NotPaidReason:      m.NotPaidReason,
		Status:             domain.RemittanceStatus(m.Status),
		CompanyID:          m.CompanyID,
		BankID:             m.BankID,
		BankName:           m.BankName,
		AccountID:          m.AccountID,
		AccountLabel:       m.AccountLabel,
		JournalID:          m.JournalID,
		Created:            domain.AuditStamp{By: m.CreatedBy, At: m.CreatedAt},
		Validated:          toStamp(m.ValidatedBy, m.ValidatedAt),
		Deposited:          toStamp(m.DepositedBy, m.DepositedAt),
		Cheques:            ToDomainChequeSheetSlice(cheques),
		Version:            m.Version,
	}
	if m.LastUpdatedAt.After(m.CreatedAt) {
		d.Updated = &domain.AuditStamp{By: m.LastUpdatedBy, At: m.LastUpdatedAt}
	}
	return d
}

// ToDomainTreasuryAccount converts a model TreasuryAccount to its domain form.
func ToDomainTreasuryAccount(m models.TreasuryAccount) domain.TreasuryAccount {
	return domain.TreasuryAccount{
		AccountID: m.AccountID,
		Label:     m.Label,
		BankID:    m.BankID,
		BankName:  m.BankName,
		JournalID: m.JournalID,
		CompanyID: m.CompanyID,
	}
}
