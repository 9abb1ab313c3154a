package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/treasury_backoffice/internal/apperrors"
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_backoffice/internal/core/ports/repositories"
	"github.com/SscSPs/treasury_backoffice/internal/core/services"
	"github.com/SscSPs/treasury_backoffice/internal/dto"
	"github.com/SscSPs/treasury_backoffice/internal/repositories/memory"
	"github.com/SscSPs/treasury_backoffice/internal/repositories/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// readBarrier makes the first `parties` slip reads wait for each other, so
// that concurrent transitions all load the same snapshot before any write.
type readBarrier struct {
	portsrepo.RemittanceRepositoryFacade
	armed   atomic.Bool
	reads   atomic.Int32
	parties int32
	wg      sync.WaitGroup
}

func newReadBarrier(repo portsrepo.RemittanceRepositoryFacade, parties int) *readBarrier {
	b := &readBarrier{RemittanceRepositoryFacade: repo, parties: int32(parties)}
	b.wg.Add(parties)
	return b
}

func (b *readBarrier) FindRemittanceByID(ctx context.Context, slipID string) (*domain.RemittanceSlip, error) {
	slip, err := b.RemittanceRepositoryFacade.FindRemittanceByID(ctx, slipID)
	if b.armed.Load() && b.reads.Add(1) <= b.parties {
		b.wg.Done()
		b.wg.Wait()
	}
	return slip, err
}

func TestConcurrentTransitions_OneWinsOtherConflicts(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.NewStore()
	repos := memory.NewRepositoryProvider(store)
	require.NoError(t, seed.Demo(ctx, repos, bcrypt.MinCost, now, logger))

	barrier := newReadBarrier(store, 2)
	svc := services.NewRemittanceService(barrier, store, store,
		services.WithClock(func() time.Time { return now }))

	treasurer := domain.Principal{ID: "user-treasurer", Roles: []string{domain.RoleTreasurer}}
	accountant := domain.Principal{ID: "user-accountant", Roles: []string{domain.RoleAccountant}}
	account := seed.DemoAccounts[0]

	created, err := svc.CreateRemittance(ctx, dto.CreateRemittanceRequest{
		DepositDate: now,
		BankID:      account.BankID,
		AccountID:   account.AccountID,
		ChequeIDs:   []string{"chq-001", "chq-002"},
	}, treasurer)
	require.NoError(t, err)
	_, err = svc.ValidateRemittance(ctx, created.SlipID, treasurer)
	require.NoError(t, err)
	deposited, err := svc.DepositRemittance(ctx, created.SlipID, "", treasurer)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDeposited, deposited.Status)

	type outcome struct {
		slip *domain.RemittanceSlip
		err  error
	}
	var clearRes, cancelRes outcome
	var wg sync.WaitGroup
	barrier.armed.Store(true)
	wg.Add(2)
	go func() {
		defer wg.Done()
		clearRes.slip, clearRes.err = svc.ClearRemittance(ctx, created.SlipID, nil, accountant)
	}()
	go func() {
		defer wg.Done()
		cancelRes.slip, cancelRes.err = svc.CancelRemittance(ctx, created.SlipID, "Doublon", treasurer)
	}()
	wg.Wait()

	var winner, loser outcome
	switch {
	case clearRes.err == nil && cancelRes.err != nil:
		winner, loser = clearRes, cancelRes
	case cancelRes.err == nil && clearRes.err != nil:
		winner, loser = cancelRes, clearRes
	default:
		t.Fatalf("expected exactly one transition to succeed, got clear=%v cancel=%v", clearRes.err, cancelRes.err)
	}
	assert.ErrorIs(t, loser.err, apperrors.ErrConflict)
	assert.Nil(t, loser.slip)

	final, err := store.FindRemittanceByID(ctx, created.SlipID)
	require.NoError(t, err)
	assert.Equal(t, winner.slip.Status, final.Status)
	assert.True(t, final.Status == domain.StatusCleared || final.Status == domain.StatusCancelled)
	assert.Equal(t, deposited.Version+1, final.Version)
}

func TestUpdateRemittance_StaleCopyIsRejected(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.NewStore()
	require.NoError(t, seed.Demo(ctx, memory.NewRepositoryProvider(store), bcrypt.MinCost, now, logger))
	svc := services.NewRemittanceService(store, store, store,
		services.WithClock(func() time.Time { return now }))
	treasurer := domain.Principal{ID: "user-treasurer", Roles: []string{domain.RoleTreasurer}}
	account := seed.DemoAccounts[0]

	created, err := svc.CreateRemittance(ctx, dto.CreateRemittanceRequest{
		DepositDate: now,
		BankID:      account.BankID,
		AccountID:   account.AccountID,
		ChequeIDs:   []string{"chq-001"},
	}, treasurer)
	require.NoError(t, err)

	stale, err := store.FindRemittanceByID(ctx, created.SlipID)
	require.NoError(t, err)
	_, err = svc.ValidateRemittance(ctx, created.SlipID, treasurer)
	require.NoError(t, err)

	stale.Status = domain.StatusCancelled
	err = store.UpdateRemittance(ctx, *stale, nil)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	current, err := store.FindRemittanceByID(ctx, created.SlipID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSubmitted, current.Status)
}
