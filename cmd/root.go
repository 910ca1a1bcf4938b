package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/opalaxis/beamsolopex-companion/internal/session"
	custom_error "github.com/opalaxis/beamsolopex-companion/pkg/errors"
	"github.com/spf13/cobra"
)

// Version is reported by the version command and the fixture's /health.
var Version = "dev"

type rootOptions struct {
	configPath string
	verbose    bool
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "receiving",
		Short:         "Record and manage asset receipts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to the configuration file (default ./receiving.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(
		newLoginCommand(opts),
		newLogoutCommand(opts),
		newWhoamiCommand(opts),
		newReceiptsCommand(opts),
		newFixtureCommand(opts),
		newVersionCommand(),
	)
	return rootCmd
}

func Execute(ctx context.Context) {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}

// describe turns session errors into a hint; everything else is printed as is.
func describe(err error) string {
	switch {
	case errors.Is(err, session.ErrNotLoggedIn):
		return "You are not logged in. Run `receiving login` first."
	case errors.Is(err, custom_error.ErrUnauthorized):
		return "Your session has expired. Run `receiving login` again."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}
