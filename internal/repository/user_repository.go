package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/database"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/models"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

const userColumns = `id, name, email, password_hash, role, password_reset_token, password_reset_expires, created_at, updated_at`

// updatableUserColumns are the columns UpdateFields may write.
var updatableUserColumns = database.Columns{
	constants.ColumnName:                 true,
	constants.ColumnEmail:                true,
	constants.ColumnPasswordHash:         true,
	constants.ColumnRole:                 true,
	constants.ColumnPasswordResetToken:   true,
	constants.ColumnPasswordResetExpires: true,
}

// UserRepository defines methods for interacting with user data
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	FindByResetToken(ctx context.Context, hash string, now time.Time) (*models.User, error)
	ResetPasswordByToken(ctx context.Context, hash string, now time.Time, passwordHash string) (*models.User, error)
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// PostgresUserRepository is a PostgreSQL implementation of UserRepository
type PostgresUserRepository struct {
	db *database.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *database.Pool) UserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

// Save inserts a new user and fills in its generated id and timestamps.
// A duplicate email surfaces as a unique violation on idx_users_email.
func (r *PostgresUserRepository) Save(ctx context.Context, user *models.User) error {
	startTime := time.Now()

	query := `
        INSERT INTO users (name, email, password_hash, role)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `

	err := r.db.QueryRowxContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	utils.LogDBQuery(
		query,
		[]interface{}{user.Name, user.Email, constants.LogRedactedValue, user.Role},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	log.Info().
		Int64("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("User created")

	return nil
}

// FindByID retrieves a user by ID
func (r *PostgresUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	startTime := time.Now()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user := &models.User{}
	err := r.db.GetContext(ctx, user, query, id)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", id)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// FindByEmail retrieves a user by email. The match is exact.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	startTime := time.Now()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user := &models.User{}
	err := r.db.GetContext(ctx, user, query, email)

	utils.LogDBQuery(query, []interface{}{utils.MaskEmail(email)}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundMessage(constants.MsgUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// UpdateFields writes the given columns of one user in a single UPDATE.
// A nil value clears the column.
func (r *PostgresUserRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	err := database.UpdateColumns(ctx, r.db, &models.User{}, id, fields, updatableUserColumns)
	if err != nil {
		if errors.Is(err, database.ErrNoRowsAffected) {
			return utils.NewNotFoundError("User", id)
		}
		return err
	}

	return nil
}

// FindByResetToken returns the user holding the given reset token hash whose
// token has not expired at now. Hash match and expiry are checked in one query.
func (r *PostgresUserRepository) FindByResetToken(ctx context.Context, hash string, now time.Time) (*models.User, error) {
	startTime := time.Now()

	query := `SELECT ` + userColumns + `
        FROM users
        WHERE password_reset_token = $1 AND password_reset_expires > $2`

	user := &models.User{}
	err := r.db.GetContext(ctx, user, query, hash, now)

	utils.LogDBQuery(query, []interface{}{constants.LogRedactedValue, now}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundMessage(constants.MsgInvalidResetToken)
		}
		return nil, fmt.Errorf("failed to get user by reset token: %w", err)
	}

	return user, nil
}

// ResetPasswordByToken writes passwordHash for the holder of a live reset
// token and clears the token in one UPDATE. The token check and the write
// share a row lock, so of two concurrent calls with the same hash only one
// returns the user. The other gets a not found error.
func (r *PostgresUserRepository) ResetPasswordByToken(ctx context.Context, hash string, now time.Time, passwordHash string) (*models.User, error) {
	startTime := time.Now()

	query := `
        UPDATE users
        SET password_hash = $1, password_reset_token = NULL, password_reset_expires = NULL, updated_at = NOW()
        WHERE password_reset_token = $2 AND password_reset_expires > $3
        RETURNING ` + userColumns

	user := &models.User{}
	err := r.db.GetContext(ctx, user, query, passwordHash, hash, now)

	utils.LogDBQuery(query, []interface{}{constants.LogRedactedValue, constants.LogRedactedValue, now}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundMessage(constants.MsgInvalidResetToken)
		}
		return nil, fmt.Errorf("failed to reset password: %w", err)
	}

	return user, nil
}

// ClearExpiredResetTokens nulls the reset fields of every user whose token
// expired at or before now and returns the number of users touched.
func (r *PostgresUserRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	startTime := time.Now()

	query := `
        UPDATE users
        SET password_reset_token = NULL, password_reset_expires = NULL
        WHERE password_reset_expires IS NOT NULL AND password_reset_expires <= $1
    `

	result, err := r.db.ExecContext(ctx, query, now)

	utils.LogDBQuery(query, []interface{}{now}, time.Since(startTime), err)

	if err != nil {
		return 0, fmt.Errorf("failed to clear expired reset tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error getting rows affected: %w", err)
	}

	if rows > 0 {
		log.Info().Int64("cleared", rows).Msg("Cleared expired password reset tokens")
	}

	return rows, nil
}
