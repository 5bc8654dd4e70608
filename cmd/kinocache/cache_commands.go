package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"kinocache/internal/querycache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the query cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache usage counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *querycache.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return fmt.Errorf("read cache stats: %w", err)
				}

				hitRate := "-"
				if stats.Queries > 0 {
					hitRate = fmt.Sprintf("%.1f%%", 100*float64(stats.Hits)/float64(stats.Queries))
				}

				rows := [][]string{
					{"Database", store.Path()},
					{"Queries", strconv.FormatInt(stats.Queries, 10)},
					{"Hits", strconv.FormatInt(stats.Hits, 10)},
					{"Hit Rate", hitRate},
					{"Entries", strconv.FormatInt(stats.Entries, 10)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Stat", "Value"}, rows))
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry and reset the counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("cache clear is destructive; re-run with --yes to confirm")
			}
			return ctx.withStore(func(store *querycache.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached entries\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "Confirm clearing the cache")
	return cmd
}
