package repository_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/database"
)

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

var userRowColumns = []string{
	"id", "name", "email", "password_hash", "role",
	"password_reset_token", "password_reset_expires", "created_at", "updated_at",
}

// setupMockPool creates a pool backed by sqlmock and closes it when the test ends
func setupMockPool(t *testing.T) (*database.Pool, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return database.NewPool(sqlx.NewDb(db, database.DriverName)), mock
}
