// Package seed loads demo operators, treasury accounts and collected cheques
// into any repository backend.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/treasury_backoffice/internal/apperrors"
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_backoffice/internal/core/ports/repositories"
	"github.com/SscSPs/treasury_backoffice/internal/utils"
	"github.com/shopspring/decimal"
)

// DemoPassword is the password of every seeded operator.
const DemoPassword = "changeme"

// DemoCompanyID owns every seeded record.
const DemoCompanyID = "company-demo"

const seedActor = "system"

// DemoUsers are the seeded operators keyed by username.
var DemoUsers = []domain.User{
	{UserID: "user-admin", Username: "admin", Name: "Administrateur", Roles: []string{domain.RoleAdmin}},
	{UserID: "user-treasurer", Username: "treasurer", Name: "Awa Diop", Roles: []string{domain.RoleTreasurer}},
	{UserID: "user-accountant", Username: "accountant", Name: "Moussa Ndiaye", Roles: []string{domain.RoleAccountant}},
	{UserID: "user-viewer", Username: "viewer", Name: "Fatou Sow", Roles: []string{domain.RoleViewer}},
}

func journal(id string) *string { return &id }

// DemoAccounts are the seeded treasury accounts.
var DemoAccounts = []domain.TreasuryAccount{
	{AccountID: "acct-sgbs-001", Label: "SGBS Compte courant", BankID: "bank-sgbs", BankName: "Société Générale", JournalID: journal("BQ1"), CompanyID: DemoCompanyID},
	{AccountID: "acct-cbao-001", Label: "CBAO Compte principal", BankID: "bank-cbao", BankName: "CBAO", JournalID: journal("BQ2"), CompanyID: DemoCompanyID},
}

// DemoCheques returns collected sheets stamped relative to now.
func DemoCheques(now time.Time) []domain.ChequeSheet {
	day := now.UTC().Truncate(24 * time.Hour)
	mk := func(id, number, payer, ref, amount string, daysAgo int) domain.ChequeSheet {
		at := day.AddDate(0, 0, -daysAgo)
		return domain.ChequeSheet{
			SheetID:         id,
			SheetNumber:     number,
			CompanyID:       DemoCompanyID,
			PayerName:       payer,
			ChequeReference: ref,
			PaidAmount:      decimal.RequireFromString(amount),
			Status:          domain.ChequeCollected,
			CollectedAt:     at,
			AuditFields: domain.AuditFields{
				CreatedAt: at, CreatedBy: seedActor, LastUpdatedAt: at, LastUpdatedBy: seedActor,
			},
		}
	}
	return []domain.ChequeSheet{
		mk("chq-001", "FE-0001", "Ets Ba & Fils", "CHQ 4410021", "15000", 3),
		mk("chq-002", "FE-0002", "Boutique Ndiaye", "CHQ 7781002", "8500", 3),
		mk("chq-003", "FE-0003", "Pharmacie du Port", "CHQ 1200455", "23500", 2),
		mk("chq-004", "FE-0004", "Garage Thiam", "CHQ 9930017", "120000.50", 1),
	}
}

// Demo loads the demo data. Existing operators are left untouched so a
// restart does not reset passwords; accounts and cheques are upserted only
// when missing.
func Demo(ctx context.Context, repos portsrepo.RepositoryProvider, bcryptCost int, now time.Time, logger *slog.Logger) error {
	for _, u := range DemoUsers {
		if _, err := repos.UserRepo.FindUserByUsername(ctx, u.Username); err == nil {
			continue
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("seed: look up user %s: %w", u.Username, err)
		}
		hash, err := utils.HashPasswordWithCost(DemoPassword, bcryptCost)
		if err != nil {
			return fmt.Errorf("seed: hash password: %w", err)
		}
		u.PasswordHash = hash
		u.AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: seedActor, LastUpdatedAt: now, LastUpdatedBy: seedActor}
		if err := repos.UserRepo.SaveUser(ctx, u); err != nil {
			return fmt.Errorf("seed: save user %s: %w", u.Username, err)
		}
		logger.Info("Seeded operator", slog.String("username", u.Username), slog.Any("roles", u.Roles))
	}

	for _, a := range DemoAccounts {
		if _, err := repos.TreasuryAccountRepo.FindTreasuryAccountByID(ctx, a.AccountID); err == nil {
			continue
		}
		if err := repos.TreasuryAccountRepo.SaveTreasuryAccount(ctx, a); err != nil {
			return fmt.Errorf("seed: save account %s: %w", a.AccountID, err)
		}
	}

	for _, c := range DemoCheques(now) {
		if _, err := repos.ChequeRepo.FindChequesByIDs(ctx, []string{c.SheetID}); err == nil {
			continue
		}
		if err := repos.ChequeRepo.SaveCheque(ctx, c); err != nil {
			return fmt.Errorf("seed: save cheque %s: %w", c.SheetNumber, err)
		}
	}
	logger.Info("Demo data ready", slog.Int("accounts", len(DemoAccounts)))
	return nil
}
