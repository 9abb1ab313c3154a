package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	"github.com/SscSPs/treasury_backoffice/internal/models"
	"github.com/SscSPs/treasury_backoffice/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRemittanceSlipMapping_Stamps(t *testing.T) {
	created := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	validated := created.Add(time.Hour)
	slip := domain.RemittanceSlip{
		SlipID:      "r1",
		SlipNumber:  "FRCHQ-2024-00001",
		Status:      domain.StatusSubmitted,
		TotalAmount: decimal.NewFromInt(23500),
		ChequeCount: 2,
		Created:     domain.AuditStamp{By: "u1", At: created},
		Validated:   domain.NewAuditStamp("u2", validated),
		Updated:     domain.NewAuditStamp("u2", validated),
	}

	row := mapping.ToModelRemittanceSlip(slip)
	assert.Equal(t, "u2", *row.ValidatedBy)
	assert.Nil(t, row.DepositedBy)
	assert.Equal(t, validated, row.LastUpdatedAt)

	back := mapping.ToDomainRemittanceSlip(row, []models.ChequeSheet{{SheetID: "A", Status: "IN_REMITTANCE"}})
	assert.Equal(t, slip.Created, back.Created)
	assert.Equal(t, slip.Validated, back.Validated)
	assert.Nil(t, back.Deposited)
	assert.Equal(t, slip.Updated, back.Updated)
	assert.Equal(t, domain.ChequeInRemittance, back.Cheques[0].Status)
}

func TestRemittanceSlipMapping_NeverUpdated(t *testing.T) {
	at := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	row := mapping.ToModelRemittanceSlip(domain.RemittanceSlip{Created: domain.AuditStamp{By: "u1", At: at}})

	back := mapping.ToDomainRemittanceSlip(row, nil)
	assert.Nil(t, back.Updated)
	assert.NotNil(t, back.Cheques)
	assert.Empty(t, back.Cheques)
}
