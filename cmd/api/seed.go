package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/auth"
	"github.com/yasinhessnawi1/Jobboard_Backend/scripts"
)

const (
	flagSeedPassword = "password"
	envSeedPassword  = "SEED_PASSWORD"
)

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with demo data",
		Long: `Create a demo employer, a demo candidate and a few jobs. Seeds that
already ran are skipped, so the command is safe to repeat.`,
		Args: cobra.NoArgs,
		RunE: runSeed,
	}

	cmd.Flags().String(flagSeedPassword, "", "Password for the demo accounts (default $"+envSeedPassword+" or "+scripts.DefaultDemoPassword+")")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	password, err := cmd.Flags().GetString(flagSeedPassword)
	if err != nil {
		return err
	}
	if password == "" {
		password = os.Getenv(envSeedPassword)
	}

	cfg, db, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	seeder := scripts.NewSeeder(db, auth.NewPasswordHasher(&cfg.PasswordHash), password)
	if err := seeder.SeedDatabase(cmd.Context()); err != nil {
		return err
	}

	cmd.Printf("Demo accounts: %s, %s\n", scripts.DemoEmployerEmail, scripts.DemoCandidateEmail)
	return nil
}
