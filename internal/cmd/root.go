// Package cmd implements the zumo CLI command tree.
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mamaso/azure-mobile-apps-go-client/internal/config"
	"github.com/mamaso/azure-mobile-apps-go-client/internal/debug"
	"github.com/mamaso/azure-mobile-apps-go-client/mobileservice"
)

// Version is the CLI version, overridden at build time via ldflags.
var Version = "dev"

// rootFlags holds global CLI flags.
type rootFlags struct {
	Debug   bool
	JQ      string
	Timeout time.Duration
}

// flags is package-level mutable state reset at the start of every
// Execute call; tests depend on that reset for isolation.
var flags = rootFlags{
	Timeout: mobileservice.DefaultTimeout,
}

// Execute runs the CLI with the given arguments.
func Execute(ctx context.Context, args []string) error {
	flags = rootFlags{
		Timeout: mobileservice.DefaultTimeout,
	}

	root := &cobra.Command{
		Use:           "zumo",
		Short:         "CLI for Azure Mobile Apps backends",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			debug.SetupLogger(flags.Debug)
			cmd.SetContext(debug.WithDebug(cmd.Context(), flags.Debug))
		},
	}

	root.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flags.JQ, "jq", "", "Filter JSON output with a jq expression")
	root.PersistentFlags().DurationVar(&flags.Timeout, "timeout", mobileservice.DefaultTimeout, "Request timeout")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newTableCmd())
	root.AddCommand(newAPICmd())
	root.AddCommand(newVersionCmd())

	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// buildClient constructs a mobile service client from the stored
// account and installation id.
func buildClient() (*mobileservice.Client, error) {
	account, err := config.LoadAccount()
	if err != nil {
		return nil, err
	}

	installationID, err := config.InstallationID()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve installation id: %w", err)
	}

	client, err := mobileservice.New(account.Endpoint)
	if err != nil {
		return nil, err
	}
	client.InstallationID = installationID
	client.HTTP.Timeout = flags.Timeout

	if account.AuthToken != "" {
		client.SetCurrentUser(&mobileservice.User{
			UserID:    account.UserID,
			AuthToken: account.AuthToken,
		})
	}

	return client, nil
}
