package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/SscSPs/treasury_backoffice/internal/client/export"
	"github.com/SscSPs/treasury_backoffice/internal/client/remittance"
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	"github.com/SscSPs/treasury_backoffice/internal/dto"
	"github.com/SscSPs/treasury_backoffice/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const dateFlagLayout = "2006-01-02"

func slipsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "slips",
		Aliases: []string{"frchq"},
		Short:   "Cheque remittance slips",
	}
	cmd.AddCommand(
		slipsListCommand(),
		slipsShowCommand(),
		slipsChequesCommand(),
		slipsCreateCommand(),
		slipsEditCommand(),
		slipsValidateCommand(),
		slipsDepositCommand(),
		slipsClearCommand(),
		slipsNotPaidCommand(),
		slipsCancelCommand(),
		slipsExportCommand(),
	)
	return cmd
}

func slipsListCommand() *cobra.Command {
	var (
		status        string
		limit, offset int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List slips, most recent deposit first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slips, err := appFrom(cmd).slips.List(cmd.Context(), remittance.ListFilter{
				Status: domain.RemittanceStatus(strings.ToLower(status)),
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNUMÉRO\tDÉPÔT\tBANQUE\tCHÈQUES\tTOTAL\tSTATUT")
			for _, s := range slips {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
					s.ID, s.SlipNumber, s.DepositDate.Format("02/01/2006"), s.BankName, s.ChequeCount, s.FormattedTotal, s.StatusLabel)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "draft, submitted, deposited, cleared, not_paid or cancelled")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of slips")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of slips to skip")
	return cmd
}

func slipsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a slip, its cheques and the actions it offers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			slip, err := a.slips.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSlip(cmd.OutOrStdout(), slip)
			labels := make([]string, 0)
			for _, act := range a.slips.Actions() {
				labels = append(labels, fmt.Sprintf("%s (%s)", act.Label(), act))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nActions: %s\n", strings.Join(labels, ", "))
			return nil
		},
	}
}

func slipsChequesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cheques",
		Short: "List available cheques and treasury accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			var (
				cheques  []dto.ChequeSheetResponse
				accounts []dto.TreasuryAccountResponse
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() (err error) {
				cheques, err = a.slips.LoadAvailableCheques(ctx)
				return err
			})
			g.Go(func() (err error) {
				accounts, err = a.slips.LoadTreasuryAccounts(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFICHE\tTIREUR\tRÉFÉRENCE\tDATE\tMONTANT")
			for _, c := range cheques {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					c.ID, c.SheetNumber, c.PayerName, c.ChequeReference, c.CollectedAt.Format("02/01/2006"), c.FormattedAmount)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			total, count := remittance.SelectionTotal(cheques)
			fmt.Fprintf(out, "%d chèque(s) disponible(s), %s\n\n", count, utils.FormatAmount(total))

			w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COMPTE\tLIBELLÉ\tBANQUE\tJOURNAL")
			for _, acc := range accounts {
				journal := ""
				if acc.JournalID != nil {
					journal = *acc.JournalID
				}
				fmt.Fprintf(w, "%s\t%s\t%s (%s)\t%s\n", acc.ID, acc.Label, acc.BankName, acc.BankID, journal)
			}
			return w.Flush()
		},
	}
}

func slipsCreateCommand() *cobra.Command {
	var (
		accountID, bankID, journalID, notes string
		date, dueDate                       string
		chequeIDs                           []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft slip from available cheques",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			in := dto.CreateRemittanceRequest{
				BankID:    bankID,
				AccountID: accountID,
				Notes:     notes,
				ChequeIDs: chequeIDs,
			}
			var err error
			if in.DepositDate, err = parseDate(date, time.Now()); err != nil {
				return err
			}
			if in.DueDate, err = parseOptionalDate(dueDate); err != nil {
				return err
			}
			if journalID != "" {
				in.JournalID = &journalID
			}
			if in.BankID == "" && in.AccountID != "" {
				// The account determines the bank unless one was given.
				accounts, err := a.slips.LoadTreasuryAccounts(cmd.Context())
				if err != nil {
					return err
				}
				for _, acc := range accounts {
					if acc.ID == in.AccountID {
						in.BankID = acc.BankID
					}
				}
			}

			slip, err := a.slips.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			printSlip(cmd.OutOrStdout(), slip)
			return nil
		},
	}
	cmd.Flags().StringVar(&accountID, "account", "", "treasury account id")
	cmd.Flags().StringVar(&bankID, "bank", "", "beneficiary bank id (defaults to the account's bank)")
	cmd.Flags().StringVar(&journalID, "journal", "", "treasury journal id")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	cmd.Flags().StringVar(&date, "date", "", "deposit date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&dueDate, "due-date", "", "due date YYYY-MM-DD")
	cmd.Flags().StringSliceVarP(&chequeIDs, "cheque", "c", nil, "cheque sheet id (repeatable)")
	return cmd
}

func slipsEditCommand() *cobra.Command {
	var (
		accountID, bankID, journalID, notes string
		date, dueDate                       string
		chequeIDs                           []string
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a draft or submitted slip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if _, err := a.slips.Load(cmd.Context(), args[0]); err != nil {
				return err
			}

			var in dto.UpdateRemittanceRequest
			flags := cmd.Flags()
			if flags.Changed("account") {
				in.AccountID = &accountID
			}
			if flags.Changed("bank") {
				in.BankID = &bankID
			}
			if flags.Changed("journal") {
				in.JournalID = &journalID
			}
			if flags.Changed("notes") {
				in.Notes = &notes
			}
			if flags.Changed("cheque") {
				in.ChequeIDs = chequeIDs
			}
			if flags.Changed("date") {
				d, err := parseDate(date, time.Time{})
				if err != nil {
					return err
				}
				in.DepositDate = &d
			}
			if flags.Changed("due-date") {
				d, err := parseOptionalDate(dueDate)
				if err != nil {
					return err
				}
				in.DueDate = d
			}

			slip, err := a.slips.Update(cmd.Context(), in)
			if err != nil {
				return err
			}
			printSlip(cmd.OutOrStdout(), slip)
			return nil
		},
	}
	cmd.Flags().StringVar(&accountID, "account", "", "treasury account id")
	cmd.Flags().StringVar(&bankID, "bank", "", "beneficiary bank id")
	cmd.Flags().StringVar(&journalID, "journal", "", "treasury journal id")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	cmd.Flags().StringVar(&date, "date", "", "deposit date YYYY-MM-DD")
	cmd.Flags().StringVar(&dueDate, "due-date", "", "due date YYYY-MM-DD")
	cmd.Flags().StringSliceVarP(&chequeIDs, "cheque", "c", nil, "replacement cheque selection (draft only)")
	return cmd
}

// transitionCommand loads the slip, then runs fn against the controller.
func transitionCommand(use, short string, fn func(cmd *cobra.Command, ctrl *remittance.Controller) (*dto.RemittanceResponse, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if _, err := a.slips.Load(cmd.Context(), args[0]); err != nil {
				return err
			}
			slip, err := fn(cmd, a.slips)
			if err != nil {
				return err
			}
			printSlip(cmd.OutOrStdout(), slip)
			return nil
		},
	}
}

func slipsValidateCommand() *cobra.Command {
	return transitionCommand("validate", "Validate a draft slip", func(cmd *cobra.Command, ctrl *remittance.Controller) (*dto.RemittanceResponse, error) {
		return ctrl.Validate(cmd.Context())
	})
}

func slipsDepositCommand() *cobra.Command {
	var receipt string
	cmd := transitionCommand("deposit", "Record the bank deposit of a submitted slip", func(cmd *cobra.Command, ctrl *remittance.Controller) (*dto.RemittanceResponse, error) {
		return ctrl.Deposit(cmd.Context(), receipt)
	})
	cmd.Flags().StringVar(&receipt, "receipt", "", "bank receipt number (generated when empty)")
	return cmd
}

func slipsClearCommand() *cobra.Command {
	var date string
	cmd := transitionCommand("clear", "Record the encashment of a deposited slip", func(cmd *cobra.Command, ctrl *remittance.Controller) (*dto.RemittanceResponse, error) {
		d, err := parseOptionalDate(date)
		if err != nil {
			return nil, err
		}
		return ctrl.Clear(cmd.Context(), d)
	})
	cmd.Flags().StringVar(&date, "date", "", "encashment date YYYY-MM-DD (default today)")
	return cmd
}

func slipsNotPaidCommand() *cobra.Command {
	var reason string
	cmd := transitionCommand("not-paid", "Declare a deposited slip unpaid", func(cmd *cobra.Command, ctrl *remittance.Controller) (*dto.RemittanceResponse, error) {
		return ctrl.DeclareNotPaid(cmd.Context(), reason)
	})
	cmd.Flags().StringVar(&reason, "reason", "", "reason (required)")
	return cmd
}

func slipsCancelCommand() *cobra.Command {
	var reason string
	cmd := transitionCommand("cancel", "Cancel a draft, submitted or deposited slip", func(cmd *cobra.Command, ctrl *remittance.Controller) (*dto.RemittanceResponse, error) {
		return ctrl.Cancel(cmd.Context(), reason)
	})
	cmd.Flags().StringVar(&reason, "reason", "", "reason (required)")
	return cmd
}

func slipsExportCommand() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a slip as PDF or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			a := appFrom(cmd)
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			slip, err := a.slips.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output == "-" {
				return a.slips.Export(cmd.OutOrStdout(), f)
			}
			if output == "" {
				output = slip.SlipNumber + f.Extension()
			}
			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer func() {
				if cerr := file.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()
			if err := a.slips.Export(file, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exporté vers %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatPDF), "pdf or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default <slip number>.<format>)")
	return cmd
}

func printSlip(out io.Writer, s *dto.RemittanceResponse) {
	receipt := export.NotAssigned
	if s.ReceiptNumber != nil {
		receipt = *s.ReceiptNumber
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Bordereau\t%s (%s)\n", s.SlipNumber, s.ID)
	fmt.Fprintf(w, "Statut\t%s\n", s.StatusLabel)
	fmt.Fprintf(w, "Date de dépôt\t%s\n", s.DepositDate.Format("02/01/2006"))
	fmt.Fprintf(w, "Banque\t%s\n", s.BankName)
	fmt.Fprintf(w, "Compte\t%s\n", s.AccountLabel)
	fmt.Fprintf(w, "N° de reçu\t%s\n", receipt)
	if s.Notes != "" {
		fmt.Fprintf(w, "Notes\t%s\n", s.Notes)
	}
	fmt.Fprintf(w, "Total\t%s (%d chèque(s))\n", s.FormattedTotal, s.ChequeCount)
	_ = w.Flush()

	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\nRÉFÉRENCE\tTIREUR\tMONTANT\tSTATUT")
	for _, c := range s.Cheques {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ChequeReference, c.PayerName, c.FormattedAmount, c.StatusLabel)
	}
	_ = w.Flush()
}

// parseDate reads a YYYY-MM-DD flag; an empty value yields def.
func parseDate(value string, def time.Time) (time.Time, error) {
	if value == "" {
		return def.UTC(), nil
	}
	t, err := time.Parse(dateFlagLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return t, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(value, time.Time{})
	if err != nil {
		return nil, err
	}
	return &t, nil
}
