package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the default number of concurrent workers for
// bulk operations.
const DefaultConcurrency = 5

// BulkResult is the outcome of one bulk operation.
type BulkResult struct {
	ID      string
	Success bool
	Err     error
}

func newTableBulkDeleteCmd() *cobra.Command {
	var (
		ids         []string
		concurrency int64
	)

	cmd := &cobra.Command{
		Use:     "bulk-delete <table>",
		Short:   "Delete multiple records concurrently",
		Example: "  zumo table bulk-delete todoitem --ids 1,2,3 --concurrency 10",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(ids) == 0 {
				return fmt.Errorf("--ids is required")
			}
			client, err := buildClient()
			if err != nil {
				return err
			}
			table := client.Table(args[0])

			results := runBulk(cmd.Context(), ids, concurrency, func(ctx context.Context, id string) error {
				return table.Delete(ctx, id)
			})

			failed := 0
			for _, r := range results {
				if !r.Success {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "failed to delete %s: %v\n", r.ID, r.Err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d/%d records\n", len(results)-failed, len(results))
			if failed > 0 {
				return fmt.Errorf("%d of %d deletes failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Record ids to delete")
	cmd.Flags().Int64Var(&concurrency, "concurrency", DefaultConcurrency, "Number of concurrent workers")
	return cmd
}

// runBulk executes the operation for each id with bounded parallelism.
func runBulk(ctx context.Context, ids []string, concurrency int64, operation func(ctx context.Context, id string) error) []BulkResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	sem := semaphore.NewWeighted(concurrency)
	var mu sync.Mutex
	results := make([]BulkResult, 0, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return nil // context cancelled, drop the remaining work
			}
			defer sem.Release(1)

			err := operation(ctx, id)

			mu.Lock()
			results = append(results, BulkResult{ID: id, Success: err == nil, Err: err})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}
