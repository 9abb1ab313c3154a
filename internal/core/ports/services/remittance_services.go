package services

import (
	"context"
	"time"

	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	"github.com/SscSPs/treasury_backoffice/internal/dto"
)

// RemittanceReaderSvc defines read operations for slips
type RemittanceReaderSvc interface {
	GetRemittance(ctx context.Context, slipID string, actor domain.Principal) (*domain.RemittanceSlip, error)
	ListRemittances(ctx context.Context, params dto.ListRemittancesParams, actor domain.Principal) ([]domain.RemittanceSlip, error)
}

// RemittanceWriterSvc defines creation and header edits of slips
type RemittanceWriterSvc interface {
	// CreateRemittance creates a draft slip from available cheques.
	CreateRemittance(ctx context.Context, req dto.CreateRemittanceRequest, actor domain.Principal) (*domain.RemittanceSlip, error)

	// UpdateRemittance edits a draft or submitted slip. The cheque selection
	// can only change while the slip is a draft.
	UpdateRemittance(ctx context.Context, slipID string, req dto.UpdateRemittanceRequest, actor domain.Principal) (*domain.RemittanceSlip, error)
}

// RemittanceLifecycleSvc defines the status transitions of a slip. Every
// method returns the full updated slip.
type RemittanceLifecycleSvc interface {
	ValidateRemittance(ctx context.Context, slipID string, actor domain.Principal) (*domain.RemittanceSlip, error)
	DepositRemittance(ctx context.Context, slipID string, receiptNumber string, actor domain.Principal) (*domain.RemittanceSlip, error)
	ClearRemittance(ctx context.Context, slipID string, encashmentDate *time.Time, actor domain.Principal) (*domain.RemittanceSlip, error)
	DeclareRemittanceNotPaid(ctx context.Context, slipID string, reason string, actor domain.Principal) (*domain.RemittanceSlip, error)
	CancelRemittance(ctx context.Context, slipID string, reason string, actor domain.Principal) (*domain.RemittanceSlip, error)
}

// RemittanceSvcFacade combines all remittance-related service interfaces
type RemittanceSvcFacade interface {
	RemittanceReaderSvc
	RemittanceWriterSvc
	RemittanceLifecycleSvc
}

// TransitionRecorder observes lifecycle outcomes (metrics).
type TransitionRecorder interface {
	RecordTransition(action string, from, to domain.RemittanceStatus)
	RecordRejection(action string, reason string)
}
