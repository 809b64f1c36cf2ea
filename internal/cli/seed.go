package cli

import (
	"fmt"

	"quiz-hosting-service/internal/app"

	"github.com/spf13/cobra"
)

// NewSeedCmd upserts the sample quiz into the configured store.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample quiz into the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime(*configPath)
			if err != nil {
				return err
			}
			store, backend, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := app.NewQuizService(store, logger).Seed(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded quiz %s into %s\n", app.SampleQuizID, backend)
			return nil
		},
	}
}
