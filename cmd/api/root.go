package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/config"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/database"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

const defaultConfigPath = "./configs/config.yaml"

// configPath is the --config flag shared by every subcommand.
var configPath string

// NewRootCmd creates the root command. Without a subcommand it serves the API.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "api",
		Short:        "Job board API server",
		Long:         `Job board API server with JWT authentication, job postings and resume uploads.`,
		Version:      versionString(),
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "Path to configuration file")
	cmd.Flags().Bool(flagAutoMigrate, true, "Apply pending migrations before serving")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// NewVersionCmd creates the version subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("Job Board API Server\nVersion: %s\nCommit: %s\nBuild Date: %s\n", version, commit, buildDate)
		},
	}
}

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate)
}

// loadConfig reads configuration and initializes logging and validation.
func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Build-time version wins over configuration outside dev builds
	if version != "dev" {
		cfg.App.Version = version
	}

	utils.InitLogger(cfg)
	utils.InitValidator()

	return cfg, nil
}

// connect loads configuration and opens the database pool. The caller
// closes the pool.
func connect(ctx context.Context) (*config.AppConfig, *database.Pool, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return cfg, db, nil
}
