package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/treasury_backoffice/internal/apperrors"
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	portssvc "github.com/SscSPs/treasury_backoffice/internal/core/ports/services"
	"github.com/SscSPs/treasury_backoffice/internal/core/services"
	"github.com/SscSPs/treasury_backoffice/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RemittanceServiceTestSuite struct {
	suite.Suite
	mockSlips    *MockRemittanceRepository
	mockCheques  *MockChequeRepository
	mockAccounts *MockTreasuryAccountRepository
	mockRecorder *MockTransitionRecorder
	service      portssvc.RemittanceSvcFacade

	ctx        context.Context
	now        time.Time
	treasurer  domain.Principal
	accountant domain.Principal
	viewer     domain.Principal
	account    domain.TreasuryAccount
}

func TestRemittanceServiceSuite(t *testing.T) {
	suite.Run(t, new(RemittanceServiceTestSuite))
}

func (suite *RemittanceServiceTestSuite) SetupTest() {
	suite.mockSlips = new(MockRemittanceRepository)
	suite.mockCheques = new(MockChequeRepository)
	suite.mockAccounts = new(MockTreasuryAccountRepository)
	suite.mockRecorder = new(MockTransitionRecorder)
	suite.now = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	suite.service = services.NewRemittanceService(
		suite.mockSlips,
		suite.mockCheques,
		suite.mockAccounts,
		services.WithTransitionRecorder(suite.mockRecorder),
		services.WithClock(func() time.Time { return suite.now }),
	)

	suite.ctx = context.Background()
	suite.treasurer = domain.Principal{ID: "user-treasurer", Roles: []string{domain.RoleTreasurer}}
	suite.accountant = domain.Principal{ID: "user-accountant", Roles: []string{domain.RoleAccountant}}
	suite.viewer = domain.Principal{ID: "user-viewer", Roles: []string{domain.RoleViewer}}
	journal := "BQ1"
	suite.account = domain.TreasuryAccount{
		AccountID: "acct-1", Label: "SGBS Compte courant", BankID: "bank-1", BankName: "SGBS",
		JournalID: &journal, CompanyID: "company-1",
	}
}

func (suite *RemittanceServiceTestSuite) TearDownTest() {
	suite.mockSlips.AssertExpectations(suite.T())
	suite.mockCheques.AssertExpectations(suite.T())
	suite.mockAccounts.AssertExpectations(suite.T())
	suite.mockRecorder.AssertExpectations(suite.T())
}

func cheque(id, amount string, remittanceID *string) domain.ChequeSheet {
	return domain.ChequeSheet{
		SheetID:      id,
		SheetNumber:  "FE-" + id,
		PaidAmount:   decimal.RequireFromString(amount),
		Status:       domain.ChequeCollected,
		RemittanceID: remittanceID,
	}
}

func (suite *RemittanceServiceTestSuite) slip(status domain.RemittanceStatus) *domain.RemittanceSlip {
	id := "slip-1"
	c1 := cheque("c1", "15000", &id)
	c2 := cheque("c2", "8500", &id)
	c1.Status, c2.Status = domain.ChequeInRemittance, domain.ChequeInRemittance
	s := &domain.RemittanceSlip{
		SlipID:      id,
		SlipNumber:  "FRCHQ-2024-00001",
		DepositDate: suite.now.Truncate(24 * time.Hour),
		Status:      status,
		BankID:      suite.account.BankID,
		AccountID:   suite.account.AccountID,
		Created:     domain.AuditStamp{By: "user-treasurer", At: suite.now.Add(-time.Hour)},
		Cheques:     []domain.ChequeSheet{c1, c2},
	}
	s.RecomputeTotals()
	return s
}

// --- Create ---

func (suite *RemittanceServiceTestSuite) TestCreateRemittance_Success() {
	req := dto.CreateRemittanceRequest{
		DepositDate: suite.now,
		BankID:      "bank-1",
		AccountID:   "acct-1",
		Notes:       "  Remise du vendredi ",
		ChequeIDs:   []string{"c1", "c2"},
	}
	suite.mockAccounts.On("FindTreasuryAccountByID", suite.ctx, "acct-1").Return(&suite.account, nil).Once()
	suite.mockCheques.On("FindChequesByIDs", suite.ctx, []string{"c1", "c2"}).
		Return([]domain.ChequeSheet{cheque("c1", "15000", nil), cheque("c2", "8500", nil)}, nil).Once()
	suite.mockSlips.On("NextSlipSequence", suite.ctx, 2024).Return(42, nil).Once()

	var saved domain.RemittanceSlip
	suite.mockSlips.On("CreateRemittance", suite.ctx, mock.AnythingOfType("domain.RemittanceSlip")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.RemittanceSlip) }).
		Return(nil).Once()
	stored := &domain.RemittanceSlip{SlipNumber: "FRCHQ-2024-00042"}
	suite.mockSlips.On("FindRemittanceByID", suite.ctx, mock.AnythingOfType("string")).Return(stored, nil).Once()

	created, err := suite.service.CreateRemittance(suite.ctx, req, suite.treasurer)

	suite.Require().NoError(err)
	suite.Equal("FRCHQ-2024-00042", saved.SlipNumber)
	suite.Equal(domain.StatusDraft, saved.Status)
	suite.True(decimal.RequireFromString("23500").Equal(saved.TotalAmount))
	suite.Equal(2, saved.ChequeCount)
	suite.Equal("Remise du vendredi", saved.Notes)
	suite.Equal("SGBS", saved.BankName)
	suite.Equal("SGBS Compte courant", saved.AccountLabel)
	suite.Require().NotNil(saved.JournalID)
	suite.Equal("BQ1", *saved.JournalID, "journal defaults to the account journal")
	suite.Equal("user-treasurer", saved.Created.By)
	for _, c := range saved.Cheques {
		suite.Equal(domain.ChequeInRemittance, c.Status)
		suite.Equal(saved.SlipID, *c.RemittanceID)
	}
	suite.Same(stored, created, "the persisted slip is re-read")
}

func (suite *RemittanceServiceTestSuite) TestCreateRemittance_GuardFailures() {
	valid := dto.CreateRemittanceRequest{DepositDate: suite.now, BankID: "bank-1", AccountID: "acct-1", ChequeIDs: []string{"c1"}}

	noDate := valid
	noDate.DepositDate = time.Time{}
	noBank := valid
	noBank.BankID = " "
	noCheques := valid
	noCheques.ChequeIDs = nil

	for name, req := range map[string]dto.CreateRemittanceRequest{"no date": noDate, "no bank": noBank, "no cheques": noCheques} {
		suite.Run(name, func() {
			_, err := suite.service.CreateRemittance(suite.ctx, req, suite.treasurer)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (suite *RemittanceServiceTestSuite) TestCreateRemittance_ViewerForbidden() {
	req := dto.CreateRemittanceRequest{DepositDate: suite.now, BankID: "bank-1", AccountID: "acct-1", ChequeIDs: []string{"c1"}}
	_, err := suite.service.CreateRemittance(suite.ctx, req, suite.viewer)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *RemittanceServiceTestSuite) TestCreateRemittance_AccountOfAnotherBank() {
	req := dto.CreateRemittanceRequest{DepositDate: suite.now, BankID: "bank-2", AccountID: "acct-1", ChequeIDs: []string{"c1"}}
	suite.mockAccounts.On("FindTreasuryAccountByID", suite.ctx, "acct-1").Return(&suite.account, nil).Once()

	_, err := suite.service.CreateRemittance(suite.ctx, req, suite.treasurer)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrBankAccountMismatch)
}

func (suite *RemittanceServiceTestSuite) TestCreateRemittance_ChequeAlreadyAssigned() {
	other := "slip-other"
	req := dto.CreateRemittanceRequest{DepositDate: suite.now, BankID: "bank-1", AccountID: "acct-1", ChequeIDs: []string{"c1"}}
	suite.mockAccounts.On("FindTreasuryAccountByID", suite.ctx, "acct-1").Return(&suite.account, nil).Once()
	suite.mockCheques.On("FindChequesByIDs", suite.ctx, []string{"c1"}).
		Return([]domain.ChequeSheet{cheque("c1", "100", &other)}, nil).Once()

	_, err := suite.service.CreateRemittance(suite.ctx, req, suite.treasurer)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorIs(err, services.ErrChequeUnavailable)
}

func (suite *RemittanceServiceTestSuite) TestCreateRemittance_DuplicateSelection() {
	req := dto.CreateRemittanceRequest{DepositDate: suite.now, BankID: "bank-1", AccountID: "acct-1", ChequeIDs: []string{"c1", "c1"}}
	suite.mockAccounts.On("FindTreasuryAccountByID", suite.ctx, "acct-1").Return(&suite.account, nil).Once()

	_, err := suite.service.CreateRemittance(suite.ctx, req, suite.treasurer)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrDuplicateCheque)
}

// --- Update ---

func (suite *RemittanceServiceTestSuite) TestUpdateRemittance_DraftSwapsCheques() {
	draft := suite.slip(domain.StatusDraft)
	suite.mockSlips.On("FindRemittanceByID", suite.ctx, "slip-1").Return(draft, nil).Once()
	suite.mockCheques.On("FindChequesByIDs", suite.ctx, []string{"c1", "c3"}).
		Return([]domain.ChequeSheet{draft.Cheques[0], cheque("c3", "1000", nil)}, nil).Once()
	suite.mockSlips.On("UpdateRemittance", suite.ctx, mock.MatchedBy(func(s domain.RemittanceSlip) bool {
		return s.ChequeCount == 2 && s.TotalAmount.Equal(decimal.NewFromInt(16000)) && s.Updated != nil
	}), []string{"c2"}).Return(nil).Once()
	suite.mockSlips.On("FindRemittanceByID", suite.ctx, "slip-1").Return(draft, nil).Once()

	_, err := suite.service.UpdateRemittance(suite.ctx, "slip-1", dto.UpdateRemittanceRequest{ChequeIDs: []string{"c1", "c3"}}, suite.treasurer)
	suite.Require().NoError(err)
}

func (suite *RemittanceServiceTestSuite) TestUpdateRemittance_SubmittedHeaderOnly() {
	notes := "Déposé par coursier"
	submitted := suite.slip(domain.StatusSubmitted)
	suite.mockSlips.On("FindRemittanceByID", suite.ctx, "slip-1").Return(submitted, nil).Twice()
	suite.mockSlips.On("UpdateRemittance", suite.ctx, mock.MatchedBy(func(s domain.RemittanceSlip) bool {
		return s.Notes == notes && s.Status == domain.StatusSubmitted
	}), []string(nil)).Return(nil).Once()

	_, err := suite.service.UpdateRemittance(suite.ctx, "slip-1", dto.UpdateRemittanceRequest{Notes: &notes, ChequeIDs: []string{"c2", "c1"}}, suite.treasurer)
	suite.Require().NoError(err)
}

func (suite *RemittanceServiceTestSuite) TestUpdateRemittance_SubmittedSelectionLocked() {
	suite.mockSlips.On("FindRemittanceByID", suite.ctx, "slip-1").Return(suite.slip(domain.StatusSubmitted), nil).Once()

	_, err := suite.service.UpdateRemittance(suite.ctx, "slip-1", dto.UpdateRemittanceRequest{ChequeIDs: []string{"c1"}}, suite.treasurer)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorIs(err, services.ErrSelectionLocked)
}

func (suite *RemittanceServiceTestSuite) TestUpdateRemittance_DepositedNotEditable() {
	notes := "x"
	suite.mockSlips.On("FindRemittanceByID", suite.ctx, "slip-1").Return(suite.slip(domain.StatusDeposited), nil).Once()

	_, err := suite.service.UpdateRemittance(suite.ctx, "slip-1", dto.UpdateRemittanceRequest{Notes: &notes}, suite.treasurer)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorIs(err, services.ErrSlipNotEditable)
}

// --- Transitions ---

func (suite *RemittanceServiceTestSuite) TestValidateRemittance() {
	suite.mockSlips.On("FindRemittanceByID", suite.ctx, "slip-1").Return(suite.slip(domain.StatusDraft), nil).Once()
	suite.mockSlips.On("UpdateRemittance", suite.ctx, mock.MatchedBy(func(s domain.RemittanceSlip) bool {
		return s.Status == domain.StatusSubmitted && s.Validated != nil && s.Validated.By == "user-treasurer" && s.Validated.At.Equal(suite.now)
	}), []string(nil)).Return(nil).Once()
	suite.mockSlips.On("FindRemittanceByID", suite.ctx, "slip-1").Return(suite.slip(domain.StatusSubmitted), nil).Once()
	suite.mockRecorder.On("RecordTransition", "validate", domain.StatusDraft, domain.StatusSubmitted).Once()

	got, err := suite.service.ValidateRemittance(suite.ctx, "slip-1", suite.treasurer)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusSubmitted, got.Status)
}

func (suite *RemittanceServiceTestSuite) TestDepositRemittance_GeneratesReceipt() {
	suite.mockSlips.On("FindRemittanceByID", suite.ctx, "slip-1").Return(suite.slip(domain.StatusSubmitted), nil).Twice()
	suite.mockSlips.On("UpdateRemittance", suite.ctx, mock.MatchedBy(func(s domain.RemittanceSlip) bool {
		return s.Status == domain.StatusDeposited &&
			s.ReceiptNumber != nil && len(*s.ReceiptNumber) == len("RCP-20240315-ABCDEF") &&
			s.Deposited != nil
	}), []string(nil)).Return(nil).Once()
	suite.mockRecorder.On("RecordTransition", "deposit", domain.StatusSubmitted, domain.StatusDeposited).Once()

	_, err := suite.service.DepositRemittance(suite.ctx, "slip-1", "  ", suite.treasurer)
	suite.Require().NoError(err)
}

func (suite *RemittanceServiceTestSuite) TestDepositRemittance_KeepsGivenReceipt() {
	suite.mockSlips.On("FindRemittanceByID", suite.ctx, "slip-1").Return(suite.slip(domain.StatusSubmitted), nil).Twice()
	suite.mockSlips.On("UpdateRemittance", suite.ctx, mock.MatchedBy(func(s domain.RemittanceSlip) bool {
		return *s.ReceiptNumber == "BQ-778"
	}), []string(nil)).Return(nil).Once()
	suite.mockRecorder.On("RecordTransition", "deposit", domain.StatusSubmitted, domain.StatusDeposited).Once()

	_, err := suite.service.DepositRemittance(suite.ctx, "slip-1", "BQ-778", suite.treasurer)
	suite.Require().NoError(err)
}

func (suite *RemittanceServiceTestSuite) TestClearRemittance_DefaultsToToday() {
	suite.mockSlips.On("FindRemittanceByID", suite.ctx, "slip-1").Return(suite.slip(domain.StatusDeposited), nil).Twice()
	suite.mockSlips.On("UpdateRemittance", suite.ctx, mock.MatchedBy(func(s domain.RemittanceSlip) bool {
		return s.Status == domain.StatusCleared &&
			s.EncashmentDate != nil && s.EncashmentDate.Equal(suite.now.Truncate(24*time.Hour)) &&
			s.Cheques[0].Status == domain.ChequeCleared && s.Cheques[1].Status == domain.ChequeCleared
	}), []string(nil)).Return(nil).Once()
	suite.mockRecorder.On("RecordTransition", "clear", domain.StatusDeposited, domain.StatusCleared).Once()

	_, err := suite.service.ClearRemittance(suite.ctx, "slip-1", nil, suite.accountant)
	suite.Require().NoError(err)
}

func (suite *RemittanceServiceTestSuite) TestClearRemittance_DateBeforeDeposit() {
	early := suite.now.AddDate(0, 0, -3)
	suite.mockSlips.On("FindRemittanceByID", suite.ctx, "slip-1").Return(suite.slip(domain.StatusDeposited), nil).Once()
	suite.mockRecorder.On("RecordRejection", "clear", "validation").Once()

	_, err := suite.service.ClearRemittance(suite.ctx, "slip-1", &early, suite.accountant)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RemittanceServiceTestSuite) TestDeclareNotPaid() {
	suite.mockSlips.On("FindRemittanceByID", suite.ctx, "slip-1").Return(suite.slip(domain.StatusDeposited), nil).Twice()
	suite.mockSlips.On("UpdateRemittance", suite.ctx, mock.MatchedBy(func(s domain.RemittanceSlip) bool {
		return s.Status == domain.StatusNotPaid && *s.NotPaidReason == "Provision insuffisante" &&
			s.Cheques[0].Status == domain.ChequeUnpaid
	}), []string(nil)).Return(nil).Once()
	suite.mockRecorder.On("RecordTransition", "not-paid", domain.StatusDeposited, domain.StatusNotPaid).Once()

	_, err := suite.service.DeclareRemittanceNotPaid(suite.ctx, "slip-1", " Provision insuffisante ", suite.accountant)
	suite.Require().NoError(err)
}

func (suite *RemittanceServiceTestSuite) TestCancel_RequiresReason() {
	suite.mockSlips.On("FindRemittanceByID", suite.ctx, "slip-1").Return(suite.slip(domain.StatusDraft), nil).Once()
	suite.mockRecorder.On("RecordRejection", "cancel", "validation").Once()

	_, err := suite.service.CancelRemittance(suite.ctx, "slip-1", "   ", suite.treasurer)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrReasonRequired)
}

func (suite *RemittanceServiceTestSuite) TestCancel_KeepsChequesAssigned() {
	suite.mockSlips.On("FindRemittanceByID", suite.ctx, "slip-1").Return(suite.slip(domain.StatusSubmitted), nil).Twice()
	suite.mockSlips.On("UpdateRemittance", suite.ctx, mock.MatchedBy(func(s domain.RemittanceSlip) bool {
		return s.Status == domain.StatusCancelled && *s.CancellationReason == "Erreur de saisie" &&
			len(s.Cheques) == 2 && s.Cheques[0].Status == domain.ChequeInRemittance
	}), []string(nil)).Return(nil).Once()
	suite.mockRecorder.On("RecordTransition", "cancel", domain.StatusSubmitted, domain.StatusCancelled).Once()

	_, err := suite.service.CancelRemittance(suite.ctx, "slip-1", "Erreur de saisie", suite.treasurer)
	suite.Require().NoError(err)
}

func (suite *RemittanceServiceTestSuite) TestCancel_ConcurrentChangeConflicts() {
	loaded := suite.slip(domain.StatusDeposited)
	loaded.Version = 3
	suite.mockSlips.On("FindRemittanceByID", suite.ctx, "slip-1").Return(loaded, nil).Once()
	suite.mockSlips.On("UpdateRemittance", suite.ctx, mock.MatchedBy(func(s domain.RemittanceSlip) bool {
		return s.Status == domain.StatusCancelled && s.Version == 3
	}), []string(nil)).Return(fmt.Errorf("slip-1 changed: %w", apperrors.ErrConflict)).Once()
	suite.mockRecorder.On("RecordRejection", "cancel", "conflict").Once()

	got, err := suite.service.CancelRemittance(suite.ctx, "slip-1", "Doublon", suite.treasurer)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(got)
	suite.mockRecorder.AssertNotCalled(suite.T(), "RecordTransition", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RemittanceServiceTestSuite) TestIllegalTransitionRejected() {
	suite.mockSlips.On("FindRemittanceByID", suite.ctx, "slip-1").Return(suite.slip(domain.StatusCleared), nil).Once()
	suite.mockRecorder.On("RecordRejection", "cancel", "invalid_transition").Once()

	_, err := suite.service.CancelRemittance(suite.ctx, "slip-1", "trop tard", suite.treasurer)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *RemittanceServiceTestSuite) TestAccountantCannotValidate() {
	suite.mockRecorder.On("RecordRejection", "validate", "forbidden").Once()

	_, err := suite.service.ValidateRemittance(suite.ctx, "slip-1", suite.accountant)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *RemittanceServiceTestSuite) TestAnonymousRejected() {
	_, err := suite.service.GetRemittance(suite.ctx, "slip-1", domain.Principal{})
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

// --- List ---

func (suite *RemittanceServiceTestSuite) TestListRemittances_NormalisesParams() {
	suite.mockSlips.On("ListRemittances", suite.ctx, domain.RemittanceFilter{Status: domain.StatusDeposited, Limit: 200, Offset: 0}).
		Return([]domain.RemittanceSlip{}, nil).Once()

	got, err := suite.service.ListRemittances(suite.ctx, dto.ListRemittancesParams{Status: "DEPOSITED", Limit: 1000, Offset: -4}, suite.viewer)
	suite.Require().NoError(err)
	suite.Empty(got)
}

func (suite *RemittanceServiceTestSuite) TestListRemittances_UnknownStatus() {
	_, err := suite.service.ListRemittances(suite.ctx, dto.ListRemittancesParams{Status: "archived"}, suite.viewer)
	suite.ErrorIs(err, apperrors.ErrValidation)
}
