package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCommand(opts *rootOptions) *cobra.Command {
	var email, password string

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session for later commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = line
			}

			return withApp(cmd.Context(), opts, func(a *app) error {
				s, err := a.sessions.Login(cmd.Context(), a.client, email, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", s.User.Name, s.User.Email)
				return nil
			})
		},
	}
	loginCmd.Flags().StringVar(&email, "email", "", "Account email")
	loginCmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	_ = loginCmd.MarkFlagRequired("email")
	return loginCmd
}

func newLogoutCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				if err := a.sessions.Logout(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

func newWhoamiCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user and their permissions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				s, err := a.sessions.Session()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s <%s>\n", s.User.Name, s.User.Email)
				fmt.Fprintf(out, "Roles:       %s\n", joinOrDash(s.Roles))
				fmt.Fprintf(out, "Permissions: %s\n", joinOrDash(s.Permissions))
				return nil
			})
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
