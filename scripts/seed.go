// Package scripts provides utility scripts for database management.
//
// The seeder populates a development database with a demo employer, a demo
// candidate and a handful of jobs. Like migrations, executed seeds are
// tracked in a seeds table so running the seeder twice is safe.
package scripts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/vinovest/sqlx"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/auth"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/database"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/models"
)

const (
	// DemoEmployerEmail is the login of the seeded employer.
	DemoEmployerEmail = "employer@jobboard.local"

	// DemoCandidateEmail is the login of the seeded candidate.
	DemoCandidateEmail = "candidate@jobboard.local"

	// DefaultDemoPassword is used when the seeder is given no password.
	DefaultDemoPassword = "password123"
)

// demoJobs are posted by the demo employer.
var demoJobs = []models.Job{
	{
		Title:       "Backend Engineer (Go)",
		Description: "Build and operate the services behind our job board.",
		Location:    "Oslo",
		Type:        models.JobTypeFullTime,
		Skills:      pq.StringArray{"go", "postgresql", "docker"},
	},
	{
		Title:       "Frontend Developer",
		Description: "Own the candidate-facing web application.",
		Location:    "Remote",
		Type:        models.JobTypeContract,
		Skills:      pq.StringArray{"typescript", "react"},
	},
	{
		Title:       "Data Analyst",
		Description: "Turn application funnels into weekly insights.",
		Location:    "Bergen",
		Type:        models.JobTypePartTime,
		Skills:      pq.StringArray{"sql", "python"},
	},
}

type seed struct {
	Name     string
	SeedFunc func(ctx context.Context, tx *sqlx.Tx) error
}

// Seeder handles database seeding.
type Seeder struct {
	db       *database.Pool
	hasher   auth.PasswordHasher
	password string
}

// NewSeeder creates a new seeder.
//
// Parameters:
//   - db: A database connection pool to use for seeding
//   - hasher: Hashes the demo account password
//   - password: The demo account password; empty selects DefaultDemoPassword
//
// Returns:
//   - *Seeder: A configured seeder
func NewSeeder(db *database.Pool, hasher auth.PasswordHasher, password string) *Seeder {
	if password == "" {
		password = DefaultDemoPassword
	}
	return &Seeder{
		db:       db,
		hasher:   hasher,
		password: password,
	}
}

// SeedDatabase runs every seed that has not been recorded yet.
func (s *Seeder) SeedDatabase(ctx context.Context) error {
	log.Info().Msg("Seeding database")
	startTime := time.Now()

	if err := s.createSeedsTable(ctx); err != nil {
		return fmt.Errorf("failed to create seeds table: %w", err)
	}

	executedSeeds, err := s.getExecutedSeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed seeds: %w", err)
	}

	seeds := []seed{
		{"demo_users", s.seedDemoUsers},
		{"demo_jobs", s.seedDemoJobs},
	}

	for _, sd := range seeds {
		if executedSeeds[sd.Name] {
			log.Debug().Str("seed", sd.Name).Msg("Seed already executed")
			continue
		}

		log.Info().Str("seed", sd.Name).Msg("Running seed")
		if err := s.runSeed(ctx, sd.Name, sd.SeedFunc); err != nil {
			return err
		}
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database seeding completed")

	return nil
}

// createSeedsTable creates the seeds tracking table if it does not exist.
func (s *Seeder) createSeedsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS seeds (
			name VARCHAR(255) PRIMARY KEY,
			executed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// getExecutedSeeds returns the names of executed seeds.
func (s *Seeder) getExecutedSeeds(ctx context.Context) (map[string]bool, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, `SELECT name FROM seeds`); err != nil {
		return nil, err
	}

	seeds := make(map[string]bool, len(names))
	for _, name := range names {
		seeds[name] = true
	}
	return seeds, nil
}

// runSeed runs a seed function and records it in one transaction.
// A unique violation on the seeds table means a concurrent seeder already
// recorded the seed; the transaction is rolled back and the seed skipped.
func (s *Seeder) runSeed(ctx context.Context, name string, seedFunc func(ctx context.Context, tx *sqlx.Tx) error) error {
	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := seedFunc(ctx, tx); err != nil {
			return fmt.Errorf("seed %s failed: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO seeds (name) VALUES ($1)`, name); err != nil {
			return fmt.Errorf("failed to record seed: %w", err)
		}

		return nil
	})

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation {
		log.Warn().Str("seed", name).Msg("Seed recorded concurrently, skipping")
		return nil
	}
	return err
}

// seedDemoUsers creates the demo employer and candidate unless accounts with
// those emails already exist.
func (s *Seeder) seedDemoUsers(ctx context.Context, tx *sqlx.Tx) error {
	hash, err := s.hasher.Hash(s.password)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	users := []models.User{
		{Name: "Demo Employer", Email: DemoEmployerEmail, Role: models.RoleEmployer},
		{Name: "Demo Candidate", Email: DemoCandidateEmail, Role: models.RoleCandidate},
	}

	inserted := 0
	for _, user := range users {
		result, err := tx.ExecContext(ctx, `
            INSERT INTO users (name, email, password_hash, role)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT ON CONSTRAINT idx_users_email DO NOTHING
        `, user.Name, user.Email, hash, user.Role)
		if err != nil {
			return fmt.Errorf("failed to insert demo user %s: %w", user.Email, err)
		}
		if rows, err := result.RowsAffected(); err == nil {
			inserted += int(rows)
		}
	}

	log.Info().
		Int("inserted_users", inserted).
		Msg("Demo users seeding completed")

	return nil
}

// seedDemoJobs posts the demo jobs as the demo employer.
func (s *Seeder) seedDemoJobs(ctx context.Context, tx *sqlx.Tx) error {
	var employerID int64
	err := tx.GetContext(ctx, &employerID, `SELECT id FROM users WHERE email = $1`, DemoEmployerEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("demo employer %s not found", DemoEmployerEmail)
	}
	if err != nil {
		return fmt.Errorf("failed to look up demo employer: %w", err)
	}

	for _, job := range demoJobs {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO jobs (title, description, location, type, skills, employer_id)
            VALUES ($1, $2, $3, $4, $5, $6)
        `, job.Title, job.Description, job.Location, job.Type, job.Skills, employerID)
		if err != nil {
			return fmt.Errorf("failed to insert demo job %q: %w", job.Title, err)
		}
	}

	log.Info().
		Int("inserted_jobs", len(demoJobs)).
		Int64("employer_id", employerID).
		Msg("Demo jobs seeding completed")

	return nil
}
