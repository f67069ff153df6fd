package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mamaso/azure-mobile-apps-go-client/internal/config"
)

// newAuthCmd returns the auth command with subcommands.
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage backend credentials",
		Long:  "Store and manage Azure Mobile Apps credentials securely in your OS keychain.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		endpoint string
		token    string
		userID   string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save backend credentials",
		Long: strings.TrimSpace(`
Save Azure Mobile Apps credentials to your OS keychain.

You'll need:
- Endpoint: your backend URL (e.g. https://myapp.azurewebsites.net)
- Auth token (optional): a ZUMO authentication token for user-scoped tables
`),
		Example: strings.TrimSpace(`
  # Anonymous access to a backend
  zumo auth login --endpoint https://myapp.azurewebsites.net

  # Authenticated access
  zumo auth login --endpoint https://myapp.azurewebsites.net --token ZUMO_TOKEN --user-id sid:1234
`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(endpoint) == "" {
				return fmt.Errorf("--endpoint is required")
			}
			account := config.Account{
				Endpoint:  strings.TrimSpace(endpoint),
				UserID:    strings.TrimSpace(userID),
				AuthToken: strings.TrimSpace(token),
			}
			if err := config.SaveAccount(account); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved credentials for %s\n", account.Endpoint)
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Backend endpoint URL")
	cmd.Flags().StringVar(&token, "token", "", "ZUMO authentication token")
	cmd.Flags().StringVar(&userID, "user-id", "", "Authenticated user id")

	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the configured backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, err := config.LoadAccount()
			if err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
					return nil
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Endpoint: %s\n", account.Endpoint)
			if account.AuthToken != "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Authenticated: yes")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Authenticated: no (anonymous)")
			}
			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.DeleteAccount(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
