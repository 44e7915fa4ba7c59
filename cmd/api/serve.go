package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/server"
	"github.com/yasinhessnawi1/Jobboard_Backend/migrations"
)

const flagAutoMigrate = "auto-migrate"

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server. The server runs until it receives SIGINT or
SIGTERM and then drains in-flight requests before exiting.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().Bool(flagAutoMigrate, true, "Apply pending migrations before serving")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	autoMigrate, err := cmd.Flags().GetBool(flagAutoMigrate)
	if err != nil {
		return err
	}

	cfg, db, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	log.Info().
		Str("version", cfg.App.Version).
		Str("environment", cfg.App.Environment).
		Msg("Starting Job Board API Server")

	if autoMigrate {
		if err := migrations.NewMigrator(db).RunMigrations(cmd.Context()); err != nil {
			db.Close()
			return err
		}
	}

	srv, err := server.NewServer(cfg, db)
	if err != nil {
		db.Close()
		return err
	}

	// Start blocks until shutdown and closes the pool on the way out
	return srv.Start()
}
