package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artem13815/interview/pkg/config"
	"github.com/artem13815/interview/pkg/storage/migrations"
	"github.com/artem13815/interview/pkg/storage/postgres"
	"github.com/artem13815/interview/pkg/storage/sqlite"
)

func newMigrateCmd() *cobra.Command {
	var statusOnly bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQL migrations of the session history (sqlite, postgres)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			run := func(step func() (int64, error)) error {
				v, err := step()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s schema version: %d\n", cfg.StorageDriver, v)
				return nil
			}

			switch cfg.StorageDriver {
			case config.DriverSQLite:
				db, err := sqlite.Open(ctx, cfg.SQLitePath)
				if err != nil {
					return err
				}
				defer db.Close()
				if statusOnly {
					return run(func() (int64, error) { return migrations.Version(ctx, db, migrations.SQLite) })
				}
				return run(func() (int64, error) { return migrations.Up(ctx, db, migrations.SQLite) })
			case config.DriverPostgres:
				pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer pool.Close()
				db := postgres.SQL(pool)
				if statusOnly {
					return run(func() (int64, error) { return migrations.Version(ctx, db, migrations.Postgres) })
				}
				return run(func() (int64, error) { return migrations.Up(ctx, db, migrations.Postgres) })
			default:
				return fmt.Errorf("driver %q has no SQL migrations", cfg.StorageDriver)
			}
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "only print the current schema version")
	return cmd
}
