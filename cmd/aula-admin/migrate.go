package main

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/digieduhack/aula-api/internal/bootstrap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd.Context(), func(ctx context.Context, env *commandEnv, db *sql.DB) error {
			env.Logger.InfoContext(ctx, "running database migrations")
			return bootstrap.RunMigrations(ctx, db, env.Logger)
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations that have not been applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd.Context(), func(ctx context.Context, _ *commandEnv, db *sql.DB) error {
			pending, err := bootstrap.PendingMigrations(ctx, db)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				cmd.Println("schema is up to date")
				return nil
			}
			cmd.Printf("%d pending migration(s):\n", len(pending))
			for _, v := range pending {
				cmd.Printf("  %s\n", v)
			}
			return nil
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateStatusCmd)
}
