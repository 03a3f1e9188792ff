package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-repository-kit/cache"
	"github.com/goliatone/go-repository-kit/events"
)

// CacheCommands adds cache:stats, cache:flush and cache:delete.
func CacheCommands(ctx context.Context, e *events.Event) error {
	root, locator, err := targetAndLocator(e)
	if err != nil {
		return err
	}

	resolve := func() (cache.Cache, error) {
		return lookup[cache.Cache](locator, ServiceCache)
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "cache:stats",
			Short: "Show cache hits, misses and entries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := resolve()
				if err != nil {
					return err
				}
				stats := c.Stats()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "hits: %d\n", stats.Hits)
				fmt.Fprintf(out, "misses: %d\n", stats.Misses)
				if stats.Entries >= 0 {
					fmt.Fprintf(out, "entries: %d\n", stats.Entries)
				} else {
					fmt.Fprintln(out, "entries: unknown")
				}
				fmt.Fprintf(out, "uptime: %s\n", stats.Uptime.Round(time.Second))
				return nil
			},
		},
		&cobra.Command{
			Use:   "cache:flush",
			Short: "Remove every cache entry",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := resolve()
				if err != nil {
					return err
				}
				if err := c.Flush(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "cache flushed")
				return nil
			},
		},
		&cobra.Command{
			Use:   "cache:delete <key>",
			Short: "Remove one cache entry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := resolve()
				if err != nil {
					return err
				}
				if err := c.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			},
		},
	)
	return nil
}
