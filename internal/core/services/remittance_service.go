package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/treasury_backoffice/internal/apperrors"
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	"github.com/SscSPs/treasury_backoffice/internal/core/lifecycle"
	portsrepo "github.com/SscSPs/treasury_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_backoffice/internal/core/ports/services"
	"github.com/SscSPs/treasury_backoffice/internal/dto"
	"github.com/SscSPs/treasury_backoffice/internal/utils"
)

var (
	ErrNoChequesSelected   = errors.New("at least one cheque must be selected")
	ErrDuplicateCheque     = errors.New("a cheque is selected more than once")
	ErrChequeUnavailable   = errors.New("cheque is already assigned to a remittance slip")
	ErrBankAccountMismatch = errors.New("account does not belong to the selected bank")
	ErrSlipNotEditable     = errors.New("slip can no longer be edited")
	ErrSelectionLocked     = errors.New("cheque selection can only change while the slip is a draft")
	ErrReasonRequired      = errors.New("a reason is required")
)

const maxListLimit = 200

// Rejection reasons reported to the TransitionRecorder.
const (
	rejectConflict   = "conflict"
	rejectForbidden  = "forbidden"
	rejectTransition = "invalid_transition"
	rejectValidation = "validation"
)

type nopRecorder struct{}

func (nopRecorder) RecordTransition(string, domain.RemittanceStatus, domain.RemittanceStatus) {}
func (nopRecorder) RecordRejection(string, string)                                            {}

// remittanceService owns the server side of the slip workflow.
type remittanceService struct {
	BaseService
	remittanceRepo portsrepo.RemittanceRepositoryFacade
	chequeRepo     portsrepo.ChequeReader
	accountRepo    portsrepo.TreasuryAccountReader
	recorder       portssvc.TransitionRecorder
	now            func() time.Time
}

// RemittanceOption is a functional option for configuring the remittance service
type RemittanceOption func(*remittanceService)

// WithTransitionRecorder reports transitions and rejections (metrics).
func WithTransitionRecorder(r portssvc.TransitionRecorder) RemittanceOption {
	return func(s *remittanceService) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) RemittanceOption {
	return func(s *remittanceService) {
		s.now = now
	}
}

// NewRemittanceService creates a new remittance service with the provided options
func NewRemittanceService(
	remittanceRepo portsrepo.RemittanceRepositoryFacade,
	chequeRepo portsrepo.ChequeReader,
	accountRepo portsrepo.TreasuryAccountReader,
	options ...RemittanceOption,
) portssvc.RemittanceSvcFacade {
	svc := &remittanceService{
		remittanceRepo: remittanceRepo,
		chequeRepo:     chequeRepo,
		accountRepo:    accountRepo,
		recorder:       nopRecorder{},
		now:            time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RemittanceSvcFacade = (*remittanceService)(nil)

func (s *remittanceService) GetRemittance(ctx context.Context, slipID string, actor domain.Principal) (*domain.RemittanceSlip, error) {
	if err := s.AuthorizeActor(ctx, actor, "get remittance"); err != nil {
		return nil, err
	}
	return s.remittanceRepo.FindRemittanceByID(ctx, slipID)
}

func (s *remittanceService) ListRemittances(ctx context.Context, params dto.ListRemittancesParams, actor domain.Principal) ([]domain.RemittanceSlip, error) {
	if err := s.AuthorizeActor(ctx, actor, "list remittances"); err != nil {
		return nil, err
	}

	status := domain.RemittanceStatus(strings.ToLower(strings.TrimSpace(params.Status)))
	if status != "" && !lifecycle.Known(status) {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, params.Status)
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	limit = min(limit, maxListLimit)

	slips, err := s.remittanceRepo.ListRemittances(ctx, domain.RemittanceFilter{
		Status: status,
		Limit:  limit,
		Offset: max(params.Offset, 0),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list remittance slips")
		return nil, err
	}
	return slips, nil
}

func (s *remittanceService) CreateRemittance(ctx context.Context, req dto.CreateRemittanceRequest, actor domain.Principal) (*domain.RemittanceSlip, error) {
	if err := s.AuthorizeActor(ctx, actor, "create remittance", preparerRoles...); err != nil {
		return nil, err
	}

	// --- Creation guard ---
	if req.DepositDate.IsZero() {
		return nil, fmt.Errorf("%w: deposit date is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.BankID) == "" || strings.TrimSpace(req.AccountID) == "" {
		return nil, fmt.Errorf("%w: bank and account are required", apperrors.ErrValidation)
	}
	if len(req.ChequeIDs) == 0 {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrNoChequesSelected)
	}

	account, err := s.resolveAccount(ctx, req.BankID, req.AccountID)
	if err != nil {
		return nil, err
	}

	slipID := uuid.NewString()
	cheques, err := s.selectCheques(ctx, slipID, req.ChequeIDs)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	seq, err := s.remittanceRepo.NextSlipSequence(ctx, now.Year())
	if err != nil {
		s.LogError(ctx, err, "Failed to reserve slip number")
		return nil, err
	}

	slip := domain.RemittanceSlip{
		SlipID:       slipID,
		SlipNumber:   utils.FormatSlipNumber(now.Year(), seq),
		DepositDate:  req.DepositDate,
		DueDate:      req.DueDate,
		Notes:        strings.TrimSpace(req.Notes),
		Status:       domain.StatusDraft,
		CompanyID:    account.CompanyID,
		BankID:       account.BankID,
		BankName:     account.BankName,
		AccountID:    account.AccountID,
		AccountLabel: account.Label,
		JournalID:    journalOrDefault(req.JournalID, account),
		Created:      domain.AuditStamp{By: actor.ID, At: now},
		Cheques:      cheques,
	}
	slip.RecomputeTotals()

	if err := s.remittanceRepo.CreateRemittance(ctx, slip); err != nil {
		s.LogError(ctx, err, "Failed to create remittance slip", slog.String("slip_number", slip.SlipNumber))
		return nil, err
	}

	s.LogInfo(ctx, "Remittance slip created",
		slog.String("slip_id", slip.SlipID),
		slog.String("slip_number", slip.SlipNumber),
		slog.Int("cheque_count", slip.ChequeCount),
		slog.String("total", slip.TotalAmount.String()))
	return s.remittanceRepo.FindRemittanceByID(ctx, slip.SlipID)
}

func (s *remittanceService) UpdateRemittance(ctx context.Context, slipID string, req dto.UpdateRemittanceRequest, actor domain.Principal) (*domain.RemittanceSlip, error) {
	if err := s.AuthorizeActor(ctx, actor, "update remittance", preparerRoles...); err != nil {
		return nil, err
	}

	slip, err := s.remittanceRepo.FindRemittanceByID(ctx, slipID)
	if err != nil {
		return nil, err
	}
	if !lifecycle.CanEdit(slip.Status) {
		return nil, fmt.Errorf("slip %s is %s: %w: %w", slip.SlipNumber, slip.Status, apperrors.ErrConflict, ErrSlipNotEditable)
	}

	if req.DepositDate != nil {
		if req.DepositDate.IsZero() {
			return nil, fmt.Errorf("%w: deposit date is required", apperrors.ErrValidation)
		}
		slip.DepositDate = *req.DepositDate
	}
	if req.DueDate != nil {
		slip.DueDate = req.DueDate
	}
	if req.Notes != nil {
		slip.Notes = strings.TrimSpace(*req.Notes)
	}

	if req.BankID != nil || req.AccountID != nil {
		bankID, accountID := slip.BankID, slip.AccountID
		if req.BankID != nil {
			bankID = *req.BankID
		}
		if req.AccountID != nil {
			accountID = *req.AccountID
		}
		account, err := s.resolveAccount(ctx, bankID, accountID)
		if err != nil {
			return nil, err
		}
		slip.BankID, slip.BankName = account.BankID, account.BankName
		slip.AccountID, slip.AccountLabel = account.AccountID, account.Label
		slip.CompanyID = account.CompanyID
		if req.JournalID == nil {
			slip.JournalID = journalOrDefault(nil, account)
		}
	}
	if req.JournalID != nil {
		slip.JournalID = req.JournalID
	}

	var released []string
	if req.ChequeIDs != nil && !sameSelection(slip.ChequeIDs(), req.ChequeIDs) {
		if !lifecycle.ChequesMutable(slip.Status) {
			return nil, fmt.Errorf("slip %s: %w: %w", slip.SlipNumber, apperrors.ErrConflict, ErrSelectionLocked)
		}
		if len(req.ChequeIDs) == 0 {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrNoChequesSelected)
		}
		cheques, err := s.selectCheques(ctx, slip.SlipID, req.ChequeIDs)
		if err != nil {
			return nil, err
		}
		for _, id := range slip.ChequeIDs() {
			if !slices.Contains(req.ChequeIDs, id) {
				released = append(released, id)
			}
		}
		slip.Cheques = cheques
	}

	slip.Updated = domain.NewAuditStamp(actor.ID, s.now())
	slip.RecomputeTotals()

	if err := s.remittanceRepo.UpdateRemittance(ctx, *slip, released); err != nil {
		s.LogError(ctx, err, "Failed to update remittance slip", slog.String("slip_id", slipID))
		return nil, err
	}
	s.LogInfo(ctx, "Remittance slip updated",
		slog.String("slip_id", slipID),
		slog.Int("released", len(released)))
	return s.remittanceRepo.FindRemittanceByID(ctx, slipID)
}

func (s *remittanceService) ValidateRemittance(ctx context.Context, slipID string, actor domain.Principal) (*domain.RemittanceSlip, error) {
	return s.transition(ctx, slipID, lifecycle.ActionValidate, actor, preparerRoles, func(slip *domain.RemittanceSlip, now time.Time) error {
		slip.Validated = domain.NewAuditStamp(actor.ID, now)
		return nil
	})
}

func (s *remittanceService) DepositRemittance(ctx context.Context, slipID string, receiptNumber string, actor domain.Principal) (*domain.RemittanceSlip, error) {
	return s.transition(ctx, slipID, lifecycle.ActionDeposit, actor, preparerRoles, func(slip *domain.RemittanceSlip, now time.Time) error {
		receipt := strings.TrimSpace(receiptNumber)
		if receipt == "" {
			generated, err := utils.GenerateReceiptNumber(now)
			if err != nil {
				return apperrors.NewAppError(500, "failed to generate receipt number", err)
			}
			receipt = generated
		}
		slip.ReceiptNumber = &receipt
		slip.Deposited = domain.NewAuditStamp(actor.ID, now)
		return nil
	})
}

func (s *remittanceService) ClearRemittance(ctx context.Context, slipID string, encashmentDate *time.Time, actor domain.Principal) (*domain.RemittanceSlip, error) {
	return s.transition(ctx, slipID, lifecycle.ActionClear, actor, settlerRoles, func(slip *domain.RemittanceSlip, now time.Time) error {
		date := now.Truncate(24 * time.Hour)
		if encashmentDate != nil && !encashmentDate.IsZero() {
			if encashmentDate.Before(slip.DepositDate.Truncate(24 * time.Hour)) {
				return fmt.Errorf("%w: encashment date is before the deposit date", apperrors.ErrValidation)
			}
			date = *encashmentDate
		}
		slip.EncashmentDate = &date
		setChequeStatus(slip, domain.ChequeCleared)
		return nil
	})
}

func (s *remittanceService) DeclareRemittanceNotPaid(ctx context.Context, slipID string, reason string, actor domain.Principal) (*domain.RemittanceSlip, error) {
	return s.transition(ctx, slipID, lifecycle.ActionDeclareNotPaid, actor, settlerRoles, func(slip *domain.RemittanceSlip, _ time.Time) error {
		r, err := requireReason(reason)
		if err != nil {
			return err
		}
		slip.NotPaidReason = &r
		setChequeStatus(slip, domain.ChequeUnpaid)
		return nil
	})
}

// CancelRemittance keeps the member cheques assigned to the cancelled slip.
func (s *remittanceService) CancelRemittance(ctx context.Context, slipID string, reason string, actor domain.Principal) (*domain.RemittanceSlip, error) {
	return s.transition(ctx, slipID, lifecycle.ActionCancel, actor, preparerRoles, func(slip *domain.RemittanceSlip, _ time.Time) error {
		r, err := requireReason(reason)
		if err != nil {
			return err
		}
		slip.CancellationReason = &r
		return nil
	})
}

// transition runs one workflow step: role check, load, state machine,
// action-specific guard and mutation, then a single atomic write that only
// succeeds if the slip is still at the version that was loaded.
func (s *remittanceService) transition(
	ctx context.Context,
	slipID string,
	action lifecycle.Action,
	actor domain.Principal,
	roles []string,
	apply func(slip *domain.RemittanceSlip, now time.Time) error,
) (*domain.RemittanceSlip, error) {
	name := string(action)
	if err := s.AuthorizeActor(ctx, actor, name, roles...); err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			s.recorder.RecordRejection(name, rejectForbidden)
		}
		return nil, err
	}

	slip, err := s.remittanceRepo.FindRemittanceByID(ctx, slipID)
	if err != nil {
		return nil, err
	}

	from := slip.Status
	to, err := lifecycle.Next(from, action)
	if err != nil {
		s.recorder.RecordRejection(name, rejectTransition)
		s.LogInfo(ctx, "Rejected slip transition",
			slog.String("slip_id", slipID),
			slog.String("action", name),
			slog.String("status", string(from)))
		return nil, fmt.Errorf("cannot %s slip %s in status %s: %w", action.Label(), slip.SlipNumber, from, err)
	}

	now := s.now().UTC()
	if err := apply(slip, now); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			s.recorder.RecordRejection(name, rejectValidation)
		}
		return nil, err
	}
	slip.Status = to
	slip.Updated = domain.NewAuditStamp(actor.ID, now)

	if err := s.remittanceRepo.UpdateRemittance(ctx, *slip, nil); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Another transition committed after our read; the caller reloads.
			s.recorder.RecordRejection(name, rejectConflict)
			s.LogInfo(ctx, "Slip changed concurrently, transition rejected",
				slog.String("slip_id", slipID),
				slog.String("action", name))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to persist slip transition",
			slog.String("slip_id", slipID),
			slog.String("action", name))
		return nil, err
	}
	s.recorder.RecordTransition(name, from, to)
	s.LogInfo(ctx, "Slip transitioned",
		slog.String("slip_id", slipID),
		slog.String("slip_number", slip.SlipNumber),
		slog.String("from", string(from)),
		slog.String("to", string(to)))

	return s.remittanceRepo.FindRemittanceByID(ctx, slipID)
}

// resolveAccount loads the target account and checks it belongs to bankID.
func (s *remittanceService) resolveAccount(ctx context.Context, bankID, accountID string) (*domain.TreasuryAccount, error) {
	account, err := s.accountRepo.FindTreasuryAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown account %s", apperrors.ErrValidation, accountID)
		}
		return nil, err
	}
	if account.BankID != bankID {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrBankAccountMismatch)
	}
	return account, nil
}

// selectCheques loads the requested sheets and marks them as members of
// slipID. Sheets already held by slipID stay selectable.
func (s *remittanceService) selectCheques(ctx context.Context, slipID string, ids []string) ([]domain.ChequeSheet, error) {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %w: %s", apperrors.ErrValidation, ErrDuplicateCheque, id)
		}
		seen[id] = struct{}{}
	}

	cheques, err := s.chequeRepo.FindChequesByIDs(ctx, ids)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		return nil, err
	}
	for i, c := range cheques {
		if !c.Available() && *c.RemittanceID != slipID {
			return nil, fmt.Errorf("cheque %s: %w: %w", c.SheetNumber, apperrors.ErrConflict, ErrChequeUnavailable)
		}
		cheques[i].RemittanceID = &slipID
		cheques[i].Status = domain.ChequeInRemittance
	}
	return cheques, nil
}

func journalOrDefault(journalID *string, account *domain.TreasuryAccount) *string {
	if journalID != nil && *journalID != "" {
		return journalID
	}
	return account.JournalID
}

func sameSelection(current, requested []string) bool {
	if len(current) != len(requested) {
		return false
	}
	for _, id := range requested {
		if !slices.Contains(current, id) {
			return false
		}
	}
	return true
}

func setChequeStatus(slip *domain.RemittanceSlip, status domain.ChequeStatus) {
	for i := range slip.Cheques {
		slip.Cheques[i].Status = status
	}
}

func requireReason(reason string) (string, error) {
	r := strings.TrimSpace(reason)
	if r == "" {
		return "", fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrReasonRequired)
	}
	return r, nil
}
