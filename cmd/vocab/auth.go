package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
)

func (a *app) authCommands() []*cobra.Command {
	return []*cobra.Command{
		a.loginCommand(),
		a.registerCommand(),
		{
			Use:   "logout",
			Short: "End the session on the backend and locally",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				err := a.deps.AuthService.MustLoad().Logout(cmd.Context())
				fmt.Fprintln(a.out, "logged out")
				return err
			},
		},
		{
			Use:   "me",
			Short: "Show the current user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				user, err := a.deps.UserService.MustLoad().GetCurrentUser(cmd.Context())
				if err != nil {
					return err
				}

				fmt.Fprintf(a.out, "%s <%s>\n", user.Name, user.Email)
				fmt.Fprintf(a.out, "id:      %s\n", user.ID)
				fmt.Fprintf(a.out, "since:   %s\n", formatDate(user.CreatedAt))
				return nil
			},
		},
		a.passwdCommand(),
	}
}

func (a *app) loginCommand() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in, missing credentials are prompted for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.promptIfEmpty(&email, "email: "); err != nil {
				return err
			}
			if err := a.promptIfEmpty(&password, "password: "); err != nil {
				return err
			}

			resp, err := a.deps.AuthService.MustLoad().Login(cmd.Context(), domain.LoginRequest{
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "logged in as %s <%s>\n", resp.User.Name, resp.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func (a *app) registerCommand() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, p := range []struct {
				value *string
				label string
			}{
				{&name, "name: "},
				{&email, "email: "},
				{&password, "password: "},
			} {
				if err := a.promptIfEmpty(p.value, p.label); err != nil {
					return err
				}
			}

			resp, err := a.deps.AuthService.MustLoad().Register(cmd.Context(), domain.RegisterRequest{
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "registered and logged in as %s <%s>\n", resp.User.Name, resp.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func (a *app) passwdCommand() *cobra.Command {
	var current, next, confirm string
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the account password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.promptIfEmpty(&current, "current password: "); err != nil {
				return err
			}
			if err := a.promptIfEmpty(&next, "new password: "); err != nil {
				return err
			}
			if err := a.promptIfEmpty(&confirm, "confirm new password: "); err != nil {
				return err
			}

			resp, err := a.deps.UserService.MustLoad().ChangePassword(cmd.Context(), domain.ChangePasswordRequest{
				CurrentPassword:    current,
				NewPassword:        next,
				ConfirmNewPassword: confirm,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, resp.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "new password confirmation")
	return cmd
}
