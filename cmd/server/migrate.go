package main

import (
	"github.com/spf13/cobra"

	"go-membership-api/internal/app"
	"go-membership-api/internal/config"
	"go-membership-api/internal/database"
)

// NewMigrateCmd creates the migrate command group.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *database.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Println("Migrations completed successfully")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *database.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				cmd.Println("Migrations rolled back")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *database.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				cmd.Printf("version=%d dirty=%t\n", version, dirty)
				return nil
			})
		},
	})

	return cmd
}

func withMigrator(fn func(m *database.Migrator) error) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}
	return app.Migrate(cfg, fn)
}
