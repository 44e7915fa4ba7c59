// Package migrations manages the database schema with goose.
//
// The SQL migrations are embedded into the binary, so the API and the
// migrate command always agree on the schema version. Each file under sql/
// carries its own Up and Down sections.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/database"
)

//go:embed sql/*.sql
var embedMigrations embed.FS

// migrationsDir is the directory inside embedMigrations holding the files.
const migrationsDir = "sql"

const dialect = "postgres"

// goose entry points, replaceable in tests.
var (
	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.UpContext(ctx, db, dir)
	}
	gooseDown = func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.DownContext(ctx, db, dir)
	}
	gooseStatus = func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.StatusContext(ctx, db, dir)
	}
)

// Migrator handles database migrations.
type Migrator struct {
	db *database.Pool
}

// NewMigrator creates a new migrator.
//
// Parameters:
//   - db: A database connection pool to use for migrations
//
// Returns:
//   - *Migrator: A configured migrator
func NewMigrator(db *database.Pool) *Migrator {
	return &Migrator{
		db: db,
	}
}

// RunMigrations applies all pending migrations and then verifies that every
// required table exists.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//
// Returns:
//   - error: Any error encountered during migration, nil if successful
func (m *Migrator) RunMigrations(ctx context.Context) error {
	log.Info().Msg("Running database migrations")
	startTime := time.Now()

	if err := setup(); err != nil {
		return err
	}

	if err := gooseUp(ctx, m.db.DB.DB, migrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	if err := m.VerifyTables(ctx); err != nil {
		return fmt.Errorf("failed to verify tables: %w", err)
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database migrations completed")

	return nil
}

// Rollback reverts the most recently applied migration.
func (m *Migrator) Rollback(ctx context.Context) error {
	if err := setup(); err != nil {
		return err
	}

	if err := gooseDown(ctx, m.db.DB.DB, migrationsDir); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	log.Info().Msg("Rolled back last migration")
	return nil
}

// Status prints the applied state of every migration through goose's logger.
func (m *Migrator) Status(ctx context.Context) error {
	if err := setup(); err != nil {
		return err
	}

	if err := gooseStatus(ctx, m.db.DB.DB, migrationsDir); err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	return nil
}

func setup() error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	return nil
}
