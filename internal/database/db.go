// Package database provides the PostgreSQL connection pool, transactions
// and health checks for the job board API.
package database

import (
	"context"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"
	"github.com/vinovest/sqlx"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/config"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
)

// DriverName is the database/sql driver used for every connection.
const DriverName = "postgres"

// Pool represents a database connection pool
type Pool struct {
	*sqlx.DB
}

// NewPool wraps an existing connection, e.g. one created by sqlmock in tests.
func NewPool(db *sqlx.DB) *Pool {
	return &Pool{DB: db}
}

// Connect opens the connection pool and waits for the database to accept
// connections, retrying with exponential backoff.
func Connect(ctx context.Context, cfg *config.AppConfig) (*Pool, error) {
	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("database", cfg.Database.Name).
		Str("user", cfg.Database.User).
		Msg("Connecting to database")

	db, err := sqlx.Open(DriverName, cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.Database.MaxConns)
	db.SetMaxIdleConns(cfg.Database.MinConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(ctx, constants.DBConnectionTimeout)
	defer cancel()

	retries := cfg.Database.ConnectRetries
	if retries == 0 {
		retries = constants.DefaultDBConnectRetries
	}
	backoff := retry.WithMaxRetries(retries, retry.NewExponential(constants.DBConnectRetryBase))

	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := db.PingContext(ctx); err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("Database not ready, retrying")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database after %d attempts: %w", attempt, err)
	}

	log.Info().Int("attempts", attempt).Msg("Successfully connected to database")

	return &Pool{DB: db}, nil
}

// Close closes the database connection pool
func (p *Pool) Close() {
	if p != nil && p.DB != nil {
		log.Info().Msg("Closing database connection pool")
		if err := p.DB.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database connection pool")
		}
	}
}

// Transaction executes a function within a transaction
func (p *Pool) Transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := p.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to rollback transaction after panic")
			}
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction: %w", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// HealthCheck performs a health check on the database connection
func (p *Pool) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBHealthCheckTimeout)
	defer cancel()

	if err := p.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := p.GetContext(ctx, &result, "SELECT 1"); err != nil {
		return fmt.Errorf("database query test failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("database returned unexpected result: %d", result)
	}

	return nil
}
