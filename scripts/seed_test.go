package scripts

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/database"
)

type stubHasher struct {
	err error
}

func (h stubHasher) Hash(plain string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plain, nil
}

func (h stubHasher) Verify(plain, encoded string) bool {
	return encoded == "hashed:"+plain
}

// createMockSeeder creates a seeder over a mock database
func createMockSeeder(t *testing.T, hasher stubHasher) (*Seeder, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewSeeder(database.NewPool(sqlx.NewDb(db, database.DriverName)), hasher, ""), mock
}

func expectDemoUsers(mock sqlmock.Sqlmock) {
	mock.ExpectExec("INSERT INTO users").
		WithArgs("Demo Employer", DemoEmployerEmail, "hashed:"+DefaultDemoPassword, "employer").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO users").
		WithArgs("Demo Candidate", DemoCandidateEmail, "hashed:"+DefaultDemoPassword, "candidate").
		WillReturnResult(sqlmock.NewResult(2, 1))
}

func expectDemoJobs(mock sqlmock.Sqlmock, employerID int64) {
	mock.ExpectQuery("SELECT id FROM users WHERE email").
		WithArgs(DemoEmployerEmail).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(employerID))
	for range demoJobs {
		mock.ExpectExec("INSERT INTO jobs").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), employerID).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
}

func TestNewSeeder_DefaultPassword(t *testing.T) {
	seeder := NewSeeder(&database.Pool{}, stubHasher{}, "")
	assert.Equal(t, DefaultDemoPassword, seeder.password)

	seeder = NewSeeder(&database.Pool{}, stubHasher{}, "s3cret!")
	assert.Equal(t, "s3cret!", seeder.password)
}

func TestSeedDatabase_FreshDatabase(t *testing.T) {
	seeder, mock := createMockSeeder(t, stubHasher{})

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT name FROM seeds").WillReturnRows(sqlmock.NewRows([]string{"name"}))

	mock.ExpectBegin()
	expectDemoUsers(mock)
	mock.ExpectExec("INSERT INTO seeds").WithArgs("demo_users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	expectDemoJobs(mock, 1)
	mock.ExpectExec("INSERT INTO seeds").WithArgs("demo_jobs").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, seeder.SeedDatabase(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDatabase_WithExistingSeeds(t *testing.T) {
	seeder, mock := createMockSeeder(t, stubHasher{})

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT name FROM seeds").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("demo_users").AddRow("demo_jobs"))

	require.NoError(t, seeder.SeedDatabase(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDatabase_CreateTableError(t *testing.T) {
	seeder, mock := createMockSeeder(t, stubHasher{})
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").WillReturnError(errors.New("permission denied"))

	err := seeder.SeedDatabase(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create seeds table")
}

func TestRunSeed_RollsBackOnFailure(t *testing.T) {
	seeder, mock := createMockSeeder(t, stubHasher{err: errors.New("hash failed")})

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := seeder.runSeed(context.Background(), "demo_users", seeder.seedDemoUsers)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed demo_users failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSeed_ConcurrentlyRecorded(t *testing.T) {
	seeder, mock := createMockSeeder(t, stubHasher{})

	mock.ExpectBegin()
	expectDemoUsers(mock)
	mock.ExpectExec("INSERT INTO seeds").
		WithArgs("demo_users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "seeds_pkey"})
	mock.ExpectRollback()

	require.NoError(t, seeder.runSeed(context.Background(), "demo_users", seeder.seedDemoUsers))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDemoUsers_ExistingAccountsAreKept(t *testing.T) {
	seeder, mock := createMockSeeder(t, stubHasher{})

	mock.ExpectBegin()
	mock.ExpectExec("ON CONFLICT ON CONSTRAINT idx_users_email DO NOTHING").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ON CONFLICT ON CONSTRAINT idx_users_email DO NOTHING").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := seeder.db.Transaction(context.Background(), func(tx *sqlx.Tx) error {
		return seeder.seedDemoUsers(context.Background(), tx)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDemoJobs_MissingEmployer(t *testing.T) {
	seeder, mock := createMockSeeder(t, stubHasher{})

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM users WHERE email").
		WithArgs(DemoEmployerEmail).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := seeder.db.Transaction(context.Background(), func(tx *sqlx.Tx) error {
		return seeder.seedDemoJobs(context.Background(), tx)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "demo employer")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDemoJobsHaveSkills(t *testing.T) {
	for _, job := range demoJobs {
		assert.NotEmpty(t, job.Title)
		assert.NotEmpty(t, job.Skills, job.Title)

		value, err := job.Skills.Value()
		require.NoError(t, err)
		assert.IsType(t, "", value)
	}
}
