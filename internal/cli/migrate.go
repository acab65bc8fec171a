package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"skillmates-backend/config"
	"skillmates-backend/migrations"
	"skillmates-backend/pkg/database"
)

func migrateCmd() *cobra.Command {
	var dryRun bool

	c := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if dryRun {
				files, err := database.UpMigrations(migrations.FS)
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintln(out, f)
				}
				return nil
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			pool, err := database.NewPostgresConnection(cmd.Context(), cfg.DBUrl)
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := database.Migrate(cmd.Context(), pool, migrations.FS)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(out, "Database is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(out, "applied %s\n", v)
			}
			return nil
		},
	}

	c.Flags().BoolVar(&dryRun, "dry-run", false, "List migration files without connecting to the database")
	return c
}
