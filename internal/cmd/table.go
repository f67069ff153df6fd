package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mamaso/azure-mobile-apps-go-client/internal/filter"
)

// newTableCmd returns the table command with CRUD subcommands.
func newTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Read and write backend tables",
	}

	cmd.AddCommand(newTableReadCmd())
	cmd.AddCommand(newTableLookupCmd())
	cmd.AddCommand(newTableInsertCmd())
	cmd.AddCommand(newTableUpdateCmd())
	cmd.AddCommand(newTableDeleteCmd())
	cmd.AddCommand(newTableBulkDeleteCmd())

	return cmd
}

func newTableReadCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "read <table>",
		Short: "Query table records",
		Example: strings.TrimSpace(`
  zumo table read todoitem
  zumo table read todoitem --query '$filter=complete eq false'
  zumo table read todoitem --jq '.[].text'
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient()
			if err != nil {
				return err
			}
			body, err := client.Table(args[0]).Read(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(cmd, body)
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "OData query string (without the leading '?')")
	return cmd
}

func newTableLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <table> <id>",
		Short: "Fetch a single record by id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient()
			if err != nil {
				return err
			}
			body, err := client.Table(args[0]).Lookup(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, body)
		},
	}
}

func newTableInsertCmd() *cobra.Command {
	var dataFile string

	cmd := &cobra.Command{
		Use:   "insert <table> [json]",
		Short: "Insert a record",
		Example: strings.TrimSpace(`
  zumo table insert todoitem '{"text": "buy milk", "complete": false}'
  zumo table insert todoitem --file item.json
`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := entityArg(args, dataFile)
			if err != nil {
				return err
			}
			client, err := buildClient()
			if err != nil {
				return err
			}
			body, err := client.Table(args[0]).Insert(cmd.Context(), entity)
			if err != nil {
				return err
			}
			return printJSON(cmd, body)
		},
	}

	cmd.Flags().StringVar(&dataFile, "file", "", "Read the entity JSON from a file")
	return cmd
}

func newTableUpdateCmd() *cobra.Command {
	var dataFile string

	cmd := &cobra.Command{
		Use:   "update <table> <id> [json]",
		Short: "Update a record",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := entityArg(args[1:], dataFile)
			if err != nil {
				return err
			}
			client, err := buildClient()
			if err != nil {
				return err
			}
			body, err := client.Table(args[0]).Update(cmd.Context(), args[1], entity)
			if err != nil {
				return err
			}
			return printJSON(cmd, body)
		},
	}

	cmd.Flags().StringVar(&dataFile, "file", "", "Read the entity JSON from a file")
	return cmd
}

func newTableDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient()
			if err != nil {
				return err
			}
			if err := client.Table(args[0]).Delete(cmd.Context(), args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s/%s\n", args[0], args[1])
			return nil
		},
	}
}

// entityArg resolves the entity payload from a positional JSON
// argument or --file, and validates that it parses.
func entityArg(args []string, dataFile string) ([]byte, error) {
	var raw []byte
	switch {
	case dataFile != "":
		data, err := os.ReadFile(dataFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read entity file: %w", err)
		}
		raw = data
	case len(args) >= 2:
		raw = []byte(args[1])
	default:
		return nil, fmt.Errorf("entity JSON is required (positional argument or --file)")
	}

	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("entity is not valid JSON: %w", err)
	}
	return raw, nil
}

// printJSON writes a response body, applying the global --jq filter
// and pretty-printing.
func printJSON(cmd *cobra.Command, body []byte) error {
	if len(body) == 0 {
		return nil
	}

	out, err := filter.ApplyToJSON(body, flags.JQ)
	if err != nil {
		return err
	}
	if flags.JQ == "" {
		var data any
		if jsonErr := json.Unmarshal(out, &data); jsonErr == nil {
			if pretty, prettyErr := json.MarshalIndent(data, "", "  "); prettyErr == nil {
				out = pretty
			}
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
