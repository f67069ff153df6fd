package cmd

import (
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

// newAPICmd returns the raw custom-API invocation command.
func newAPICmd() *cobra.Command {
	var (
		method string
		body   string
	)

	cmd := &cobra.Command{
		Use:   "api <name>",
		Short: "Invoke a custom API endpoint",
		Long:  "Invoke a custom API endpoint (/api/<name>) on the backend and print the raw response.",
		Example: strings.TrimSpace(`
  zumo api completeall --method POST
  zumo api status --jq '.version'
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient()
			if err != nil {
				return err
			}

			var payload []byte
			if body != "" {
				payload = []byte(body)
			}

			resp, err := client.InvokeAPI(cmd.Context(), args[0], strings.ToUpper(method), payload)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp.Body)
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "HTTP method")
	cmd.Flags().StringVarP(&body, "body", "d", "", "JSON request body")
	return cmd
}
