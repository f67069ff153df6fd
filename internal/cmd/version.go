package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mamaso/azure-mobile-apps-go-client/internal/update"
	"github.com/mamaso/azure-mobile-apps-go-client/mobileservice"
)

func newVersionCmd() *cobra.Command {
	var checkUpdate bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "zumo %s (sdk %s, api %s)\n",
				Version, mobileservice.SDKVersion, mobileservice.APIVersion)

			if checkUpdate {
				result := update.CheckForUpdate(cmd.Context(), Version)
				switch {
				case result == nil:
					fmt.Fprintln(cmd.OutOrStdout(), "Update check skipped or failed")
				case result.UpdateAvailable:
					fmt.Fprintf(cmd.OutOrStdout(), "Update available: %s (%s)\n",
						result.LatestVersion, result.UpdateURL)
				default:
					fmt.Fprintln(cmd.OutOrStdout(), "Up to date")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkUpdate, "check-update", false, "Check GitHub for a newer release")
	return cmd
}
