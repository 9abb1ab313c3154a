package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/SscSPs/treasury_backoffice/internal/client/auth"
	"github.com/spf13/cobra"
)

func loginCommand() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if username == "" {
				var err error
				if username, err = a.term.Prompt("Identifiant: "); err != nil {
					return err
				}
			}
			password, err := a.term.ReadPassword(os.Stdin, "Mot de passe: ")
			if err != nil {
				return err
			}

			p, err := a.auth.Login(cmd.Context(), username, password)
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return errors.New("identifiant ou mot de passe incorrect")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connecté en tant que %s (%s).\n", p.Name, strings.Join(p.Roles, ", "))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "operator username (prompted when empty)")
	return cmd
}

func logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appFrom(cmd).auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Déconnecté.")
			return nil
		},
	}
}

func whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in operator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := appFrom(cmd).auth.Whoami(cmd.Context())
			if errors.Is(err, auth.ErrNotLoggedIn) {
				return errors.New("aucune session: lancez « treasury login »")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p.ID, p.Name, strings.Join(p.Roles, ","))
			return nil
		},
	}
}
