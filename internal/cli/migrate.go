package cli

import (
	"context"
	"log/slog"

	"quiz-hosting-service/internal/infra/postgres"

	"github.com/spf13/cobra"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run Postgres schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadRuntime(*configPath)
			if err != nil {
				return err
			}
			return applyMigrations(cmd.Context(), cfg.Postgres.URL)
		},
	}
}

func applyMigrations(ctx context.Context, dsn string) error {
	group, err := postgres.Migrate(ctx, dsn)
	if err != nil {
		return err
	}
	if group.IsZero() {
		slog.Info("no new migrations")
		return nil
	}
	slog.Info("migrations applied", "group", group.String())
	return nil
}
