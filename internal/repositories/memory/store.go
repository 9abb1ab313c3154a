// Package memory is an in-process implementation of every repository port,
// used for development and tests. Values are copied on the way in and out
// so callers never share state with the store.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/SscSPs/treasury_backoffice/internal/apperrors"
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_backoffice/internal/core/ports/repositories"
)

// Store holds all entities behind one lock, which makes every multi-entity
// write atomic.
type Store struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	cheques   map[string]domain.ChequeSheet
	slips     map[string]domain.RemittanceSlip
	accounts  map[string]domain.TreasuryAccount
	sequences map[int]int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:     make(map[string]domain.User),
		cheques:   make(map[string]domain.ChequeSheet),
		slips:     make(map[string]domain.RemittanceSlip),
		accounts:  make(map[string]domain.TreasuryAccount),
		sequences: make(map[int]int),
	}
}

var (
	_ portsrepo.UserRepositoryFacade            = (*Store)(nil)
	_ portsrepo.ChequeRepositoryFacade          = (*Store)(nil)
	_ portsrepo.RemittanceRepositoryFacade      = (*Store)(nil)
	_ portsrepo.TreasuryAccountRepositoryFacade = (*Store)(nil)
)

// NewRepositoryProvider exposes a single store through every port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:            s,
		ChequeRepo:          s,
		RemittanceRepo:      s,
		TreasuryAccountRepo: s,
	}
}

// --- users ---

func (s *Store) SaveUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if id != user.UserID && strings.EqualFold(u.Username, user.Username) {
			return fmt.Errorf("username %q already taken: %w", user.Username, apperrors.ErrDuplicate)
		}
	}
	user.Roles = domain.NormalizeRoles(user.Roles)
	s.users[user.UserID] = user
	return nil
}

func (s *Store) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok || u.DeletedAt != nil {
		return nil, apperrors.ErrNotFound
	}
	u.Roles = slices.Clone(u.Roles)
	return &u, nil
}

func (s *Store) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) && u.DeletedAt == nil {
			u.Roles = slices.Clone(u.Roles)
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// --- cheques ---

func (s *Store) SaveCheque(_ context.Context, cheque domain.ChequeSheet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.cheques {
		if id != cheque.SheetID && c.SheetNumber == cheque.SheetNumber {
			return fmt.Errorf("cheque sheet number %s: %w", cheque.SheetNumber, apperrors.ErrDuplicate)
		}
	}
	s.cheques[cheque.SheetID] = copyCheque(cheque)
	return nil
}

func (s *Store) FindAvailableCheques(_ context.Context) ([]domain.ChequeSheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.ChequeSheet{}
	for _, c := range s.cheques {
		if c.Available() && c.Status == domain.ChequeCollected {
			out = append(out, copyCheque(c))
		}
	}
	sortCheques(out)
	return out, nil
}

func (s *Store) FindChequesByIDs(_ context.Context, sheetIDs []string) ([]domain.ChequeSheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ChequeSheet, 0, len(sheetIDs))
	for _, id := range sheetIDs {
		c, ok := s.cheques[id]
		if !ok {
			return nil, fmt.Errorf("cheque sheet %s: %w", id, apperrors.ErrNotFound)
		}
		out = append(out, copyCheque(c))
	}
	return out, nil
}

// --- remittance slips ---

func (s *Store) CreateRemittance(_ context.Context, slip domain.RemittanceSlip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.slips[slip.SlipID]; exists {
		return fmt.Errorf("remittance slip %s: %w", slip.SlipID, apperrors.ErrDuplicate)
	}
	for _, existing := range s.slips {
		if existing.SlipNumber == slip.SlipNumber {
			return fmt.Errorf("slip number %s: %w", slip.SlipNumber, apperrors.ErrDuplicate)
		}
	}
	if err := s.checkAssignable(slip); err != nil {
		return err
	}
	s.assign(slip)
	stored := copySlipHeader(slip)
	stored.Version = 1
	s.slips[slip.SlipID] = stored
	return nil
}

// UpdateRemittance writes the slip only if slip.Version matches the stored
// version, then bumps it.
func (s *Store) UpdateRemittance(_ context.Context, slip domain.RemittanceSlip, released []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, exists := s.slips[slip.SlipID]
	if !exists {
		return fmt.Errorf("remittance slip %s: %w", slip.SlipID, apperrors.ErrNotFound)
	}
	if current.Version != slip.Version {
		return fmt.Errorf("optimistic locking failed: remittance slip %s was modified concurrently: %w", slip.SlipID, apperrors.ErrConflict)
	}
	if err := s.checkAssignable(slip); err != nil {
		return err
	}

	stamp := stampOf(slip)
	for _, id := range released {
		c, ok := s.cheques[id]
		if !ok || c.RemittanceID == nil || *c.RemittanceID != slip.SlipID {
			continue
		}
		c.RemittanceID = nil
		c.Status = domain.ChequeCollected
		c.LastUpdatedAt, c.LastUpdatedBy = stamp.At, stamp.By
		s.cheques[id] = c
	}
	s.assign(slip)
	stored := copySlipHeader(slip)
	stored.Version = current.Version + 1
	s.slips[slip.SlipID] = stored
	return nil
}

// checkAssignable must run before any mutation so a conflict leaves the
// store untouched.
func (s *Store) checkAssignable(slip domain.RemittanceSlip) error {
	for _, member := range slip.Cheques {
		c, ok := s.cheques[member.SheetID]
		if !ok || (!c.Available() && *c.RemittanceID != slip.SlipID) {
			return fmt.Errorf("cheque sheet %s is missing or assigned to another slip: %w", member.SheetID, apperrors.ErrConflict)
		}
	}
	return nil
}

func (s *Store) assign(slip domain.RemittanceSlip) {
	stamp := stampOf(slip)
	for _, member := range slip.Cheques {
		c := s.cheques[member.SheetID]
		id := slip.SlipID
		c.RemittanceID = &id
		c.Status = member.Status
		c.LastUpdatedAt, c.LastUpdatedBy = stamp.At, stamp.By
		s.cheques[member.SheetID] = c
	}
}

func (s *Store) FindRemittanceByID(_ context.Context, slipID string) (*domain.RemittanceSlip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slip, ok := s.slips[slipID]
	if !ok {
		return nil, fmt.Errorf("remittance slip %s: %w", slipID, apperrors.ErrNotFound)
	}
	out := s.withMembers(slip)
	return &out, nil
}

func (s *Store) ListRemittances(_ context.Context, filter domain.RemittanceFilter) ([]domain.RemittanceSlip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := []domain.RemittanceSlip{}
	for _, slip := range s.slips {
		if filter.Status != "" && slip.Status != filter.Status {
			continue
		}
		all = append(all, s.withMembers(slip))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].DepositDate.Equal(all[j].DepositDate) {
			return all[i].DepositDate.After(all[j].DepositDate)
		}
		return all[i].SlipNumber > all[j].SlipNumber
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(filter.Offset, 0)
	if offset >= len(all) {
		return []domain.RemittanceSlip{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (s *Store) NextSlipSequence(_ context.Context, year int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[year]++
	return s.sequences[year], nil
}

func (s *Store) withMembers(slip domain.RemittanceSlip) domain.RemittanceSlip {
	out := copySlipHeader(slip)
	out.Cheques = []domain.ChequeSheet{}
	for _, c := range s.cheques {
		if c.RemittanceID != nil && *c.RemittanceID == slip.SlipID {
			out.Cheques = append(out.Cheques, copyCheque(c))
		}
	}
	sortCheques(out.Cheques)
	return out
}

// --- treasury accounts ---

func (s *Store) SaveTreasuryAccount(_ context.Context, account domain.TreasuryAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.AccountID] = account
	return nil
}

func (s *Store) FindTreasuryAccountByID(_ context.Context, accountID string) (*domain.TreasuryAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (s *Store) ListTreasuryAccounts(_ context.Context) ([]domain.TreasuryAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TreasuryAccount, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BankName != out[j].BankName {
			return out[i].BankName < out[j].BankName
		}
		return out[i].Label < out[j].Label
	})
	return out, nil
}

// --- copies ---

func stampOf(slip domain.RemittanceSlip) domain.AuditStamp {
	if slip.Updated != nil {
		return *slip.Updated
	}
	return slip.Created
}

func copyCheque(c domain.ChequeSheet) domain.ChequeSheet {
	if c.RemittanceID != nil {
		id := *c.RemittanceID
		c.RemittanceID = &id
	}
	return c
}

// copySlipHeader drops member cheques; they are owned by the cheque map.
func copySlipHeader(s domain.RemittanceSlip) domain.RemittanceSlip {
	s.Cheques = nil
	s.ReceiptNumber = clonePtr(s.ReceiptNumber)
	s.DueDate = clonePtr(s.DueDate)
	s.EncashmentDate = clonePtr(s.EncashmentDate)
	s.CancellationReason = clonePtr(s.CancellationReason)
	s.NotPaidReason = clonePtr(s.NotPaidReason)
	s.JournalID = clonePtr(s.JournalID)
	s.Validated = clonePtr(s.Validated)
	s.Deposited = clonePtr(s.Deposited)
	s.Updated = clonePtr(s.Updated)
	return s
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortCheques(cs []domain.ChequeSheet) {
	sort.Slice(cs, func(i, j int) bool {
		if !cs[i].CollectedAt.Equal(cs[j].CollectedAt) {
			return cs[i].CollectedAt.Before(cs[j].CollectedAt)
		}
		return cs[i].SheetNumber < cs[j].SheetNumber
	})
}
