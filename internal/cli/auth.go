package cli

import (
	"bufio"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nkosarev/vidgen/internal/session"
)

func newLoginCmd(a *app) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			var err error
			if username == "" {
				if username, err = promptText(reader, "Username", out); err != nil {
					return err
				}
			}
			password, err := promptPassword("Password", out)
			if err != nil {
				return err
			}

			sess, err := a.mgr.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Logged in as %s\n", sess.User.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when omitted)")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			username, err := promptText(reader, "Username", out)
			if err != nil {
				return err
			}
			email, err := promptText(reader, "Email", out)
			if err != nil {
				return err
			}
			password, err := promptPassword("Password", out)
			if err != nil {
				return err
			}
			confirm, err := promptPassword("Confirm password", out)
			if err != nil {
				return err
			}
			if password != confirm {
				return fmt.Errorf("passwords do not match")
			}

			sess, err := a.mgr.Register(cmd.Context(), username, email, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Account created. Logged in as %s\n", sess.User.Username)
			return nil
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.mgr.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.mgr.Restore(cmd.Context())
			if err != nil {
				return err
			}
			if sess == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Username: %s\n", sess.User.Username)
			if sess.User.Email != "" {
				fmt.Fprintf(out, "Email:    %s\n", sess.User.Email)
			}
			if sess.User.ID != "" {
				fmt.Fprintf(out, "User ID:  %s\n", sess.User.ID)
			}
			if exp, ok := session.TokenExpiry(sess.Token); ok {
				state := "expires"
				if exp.Before(time.Now()) {
					state = "expired"
				}
				fmt.Fprintf(out, "Token:    %s %s\n", state, exp.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}
