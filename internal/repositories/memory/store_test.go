package memory_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/treasury_backoffice/internal/apperrors"
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	"github.com/SscSPs/treasury_backoffice/internal/repositories/memory"
	"github.com/SscSPs/treasury_backoffice/internal/repositories/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	now   time.Time
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.now = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.Require().NoError(seed.Demo(s.ctx, memory.NewRepositoryProvider(s.store), bcrypt.MinCost, s.now, logger))
}

func (s *StoreTestSuite) draft(id string, chequeIDs ...string) domain.RemittanceSlip {
	cheques, err := s.store.FindChequesByIDs(s.ctx, chequeIDs)
	s.Require().NoError(err)
	for i := range cheques {
		cheques[i].Status = domain.ChequeInRemittance
	}
	slip := domain.RemittanceSlip{
		SlipID:      id,
		SlipNumber:  "FRCHQ-2024-" + id,
		DepositDate: s.now,
		Status:      domain.StatusDraft,
		Created:     domain.AuditStamp{By: "user-treasurer", At: s.now},
		Cheques:     cheques,
	}
	slip.RecomputeTotals()
	return slip
}

func (s *StoreTestSuite) TestSeedIsIdempotent() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.Require().NoError(seed.Demo(s.ctx, memory.NewRepositoryProvider(s.store), bcrypt.MinCost, s.now, logger))

	cheques, err := s.store.FindAvailableCheques(s.ctx)
	s.Require().NoError(err)
	s.Len(cheques, len(seed.DemoCheques(s.now)))

	u, err := s.store.FindUserByUsername(s.ctx, "TREASURER")
	s.Require().NoError(err)
	s.Equal([]string{domain.RoleTreasurer}, u.Roles)
}

func (s *StoreTestSuite) TestCreateAssignsCheques() {
	s.Require().NoError(s.store.CreateRemittance(s.ctx, s.draft("s1", "chq-001", "chq-002")))

	got, err := s.store.FindRemittanceByID(s.ctx, "s1")
	s.Require().NoError(err)
	s.Equal([]string{"chq-001", "chq-002"}, got.ChequeIDs())
	for _, c := range got.Cheques {
		s.Equal(domain.ChequeInRemittance, c.Status)
		s.Require().NotNil(c.RemittanceID)
		s.Equal("s1", *c.RemittanceID)
	}

	available, err := s.store.FindAvailableCheques(s.ctx)
	s.Require().NoError(err)
	s.Len(available, 2)
}

func (s *StoreTestSuite) TestCreateRejectsForeignCheque() {
	s.Require().NoError(s.store.CreateRemittance(s.ctx, s.draft("s1", "chq-001")))

	second := s.draft("s2", "chq-002", "chq-001")
	err := s.store.CreateRemittance(s.ctx, second)
	s.ErrorIs(err, apperrors.ErrConflict)

	// the failed create must not have touched chq-002
	cheques, err := s.store.FindChequesByIDs(s.ctx, []string{"chq-002"})
	s.Require().NoError(err)
	s.True(cheques[0].Available())
	_, err = s.store.FindRemittanceByID(s.ctx, "s2")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestUpdateReleasesCheques() {
	slip := s.draft("s1", "chq-001", "chq-002")
	s.Require().NoError(s.store.CreateRemittance(s.ctx, slip))
	slip.Version = 1

	slip.Cheques = slip.Cheques[:1]
	slip.RecomputeTotals()
	later := s.now.Add(time.Hour)
	slip.Updated = &domain.AuditStamp{By: "user-admin", At: later}
	s.Require().NoError(s.store.UpdateRemittance(s.ctx, slip, []string{"chq-002"}))

	released, err := s.store.FindChequesByIDs(s.ctx, []string{"chq-002"})
	s.Require().NoError(err)
	s.True(released[0].Available())
	s.Equal(domain.ChequeCollected, released[0].Status)
	s.Equal("user-admin", released[0].LastUpdatedBy)

	got, err := s.store.FindRemittanceByID(s.ctx, "s1")
	s.Require().NoError(err)
	s.Equal(1, got.ChequeCount)
}

func (s *StoreTestSuite) TestUpdateRejectsStaleVersion() {
	s.Require().NoError(s.store.CreateRemittance(s.ctx, s.draft("s1", "chq-001")))

	first, err := s.store.FindRemittanceByID(s.ctx, "s1")
	s.Require().NoError(err)
	second, err := s.store.FindRemittanceByID(s.ctx, "s1")
	s.Require().NoError(err)
	s.Equal(1, first.Version)

	first.Status = domain.StatusSubmitted
	s.Require().NoError(s.store.UpdateRemittance(s.ctx, *first, nil))

	second.Status = domain.StatusCancelled
	err = s.store.UpdateRemittance(s.ctx, *second, nil)
	s.ErrorIs(err, apperrors.ErrConflict)

	got, err := s.store.FindRemittanceByID(s.ctx, "s1")
	s.Require().NoError(err)
	s.Equal(domain.StatusSubmitted, got.Status)
	s.Equal(2, got.Version)
}

func (s *StoreTestSuite) TestReturnedValuesAreCopies() {
	s.Require().NoError(s.store.CreateRemittance(s.ctx, s.draft("s1", "chq-001")))

	got, err := s.store.FindRemittanceByID(s.ctx, "s1")
	s.Require().NoError(err)
	got.Status = domain.StatusCancelled
	*got.Cheques[0].RemittanceID = "tampered"

	again, err := s.store.FindRemittanceByID(s.ctx, "s1")
	s.Require().NoError(err)
	s.Equal(domain.StatusDraft, again.Status)
	s.Equal("s1", *again.Cheques[0].RemittanceID)
}

func (s *StoreTestSuite) TestListFiltersAndPages() {
	a := s.draft("s1", "chq-001")
	b := s.draft("s2", "chq-002")
	b.DepositDate = s.now.AddDate(0, 0, 1)
	b.Status = domain.StatusSubmitted
	s.Require().NoError(s.store.CreateRemittance(s.ctx, a))
	s.Require().NoError(s.store.CreateRemittance(s.ctx, b))

	all, err := s.store.ListRemittances(s.ctx, domain.RemittanceFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("s2", all[0].SlipID, "newest deposit date first")

	drafts, err := s.store.ListRemittances(s.ctx, domain.RemittanceFilter{Status: domain.StatusDraft})
	s.Require().NoError(err)
	s.Require().Len(drafts, 1)
	s.Equal("s1", drafts[0].SlipID)

	page, err := s.store.ListRemittances(s.ctx, domain.RemittanceFilter{Limit: 1, Offset: 5})
	s.Require().NoError(err)
	s.Empty(page)
}

func TestNextSlipSequence(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	first, err := store.NextSlipSequence(ctx, 2024)
	require.NoError(t, err)
	second, err := store.NextSlipSequence(ctx, 2024)
	require.NoError(t, err)
	other, err := store.NextSlipSequence(ctx, 2025)
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
	assert.Equal(t, 1, other)
}

func TestSaveUserRejectsDuplicateUsername(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, domain.User{UserID: "u1", Username: "awa"}))
	err := store.SaveUser(ctx, domain.User{UserID: "u2", Username: "AWA"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}
