package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewPingCmd checks that the configured store is reachable.
func NewPingCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity to the configured quiz store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadRuntime(*configPath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			store, backend, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			var count int
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return store.Ping(gctx) })
			g.Go(func() error {
				quizzes, err := store.List(gctx)
				count = len(quizzes)
				return err
			})
			if err := g.Wait(); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", color.RedString("FAIL"), backend, err)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d quizzes\n", color.GreenString("OK"), backend, count)
			return nil
		},
	}
}
