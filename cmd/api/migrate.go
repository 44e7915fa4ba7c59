package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yasinhessnawi1/Jobboard_Backend/migrations"
)

// NewMigrateCmd creates the migrate command with its up, down and status
// subcommands.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long:  `Apply, roll back or inspect the embedded database migrations.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, (*migrations.Migrator).RunMigrations, "Migrations applied")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, (*migrations.Migrator).Rollback, "Migration rolled back")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the status of every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, (*migrations.Migrator).Status, "")
		},
	})

	return cmd
}

// withMigrator connects to the database and runs op with a migrator over it.
func withMigrator(cmd *cobra.Command, op func(*migrations.Migrator, context.Context) error, done string) error {
	_, db, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := op(migrations.NewMigrator(db), cmd.Context()); err != nil {
		return err
	}

	if done != "" {
		cmd.Println(done)
	}
	return nil
}
