//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vinovest/sqlx"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/auth"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/database"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/models"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/repository"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
	"github.com/yasinhessnawi1/Jobboard_Backend/migrations"
)

func startPostgres(t *testing.T) *database.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("jobboard"),
		postgres.WithUsername("jobboard"),
		postgres.WithPassword("jobboard"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sqlx.Open(database.DriverName, connStr)
	require.NoError(t, err)
	pool := database.NewPool(db)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.NewMigrator(pool).RunMigrations(ctx))
	return pool
}

func TestIntegration_UsersJobsApplications(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	jobs := repository.NewJobRepository(pool)
	apps := repository.NewApplicationRepository(pool)

	employer := &models.User{Name: "Acme", Email: "hr@acme.test", PasswordHash: "$2a$10$x", Role: models.RoleEmployer}
	require.NoError(t, users.Save(ctx, employer))
	candidate := &models.User{Name: "Candy", Email: "candy@example.com", PasswordHash: "$2a$10$y", Role: models.RoleCandidate}
	require.NoError(t, users.Save(ctx, candidate))

	t.Run("email is unique", func(t *testing.T) {
		err := users.Save(ctx, &models.User{Name: "Dup", Email: "hr@acme.test", PasswordHash: "$2a$10$z", Role: models.RoleCandidate})
		assert.True(t, utils.IsUniqueViolation(err, constants.ConstraintUsersEmail))
	})

	job := &models.Job{
		Title:       "Go Developer",
		Description: "Build 100% reliable APIs",
		Location:    "Oslo",
		Type:        models.JobTypeFullTime,
		Skills:      []string{"go", "postgres"},
		EmployerID:  employer.ID,
	}
	require.NoError(t, jobs.Create(ctx, job))

	t.Run("filters", func(t *testing.T) {
		found, err := jobs.List(ctx, models.JobFilter{Skills: []string{"rust", "go"}})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Acme", found[0].Employer.Name)

		found, err = jobs.List(ctx, models.JobFilter{Search: "100%"})
		require.NoError(t, err)
		assert.Len(t, found, 1)

		found, err = jobs.List(ctx, models.JobFilter{Search: "0%r"})
		require.NoError(t, err)
		assert.Empty(t, found, "wildcards in the search term match literally")

		found, err = jobs.List(ctx, models.JobFilter{Location: "oslo"})
		require.NoError(t, err)
		assert.Empty(t, found, "location matches exactly")
	})

	t.Run("applications", func(t *testing.T) {
		app := &models.JobApplication{JobID: job.ID, CandidateID: candidate.ID, ResumeURL: "uploads/resumes/1.pdf"}
		require.NoError(t, apps.Create(ctx, app))

		exists, err := apps.Exists(ctx, job.ID, candidate.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		err = apps.Create(ctx, &models.JobApplication{JobID: job.ID, CandidateID: candidate.ID, ResumeURL: "x"})
		assert.True(t, utils.IsUniqueViolation(err, constants.ConstraintApplicationJobCandidate))

		updated, err := apps.UpdateStatus(ctx, app.ID, models.StatusInterviewScheduled)
		require.NoError(t, err)
		assert.Equal(t, models.StatusInterviewScheduled, updated.Status)

		mine, err := apps.ListByCandidate(ctx, candidate.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "Go Developer", mine[0].Job.Title)

		forJob, err := apps.ListByJob(ctx, job.ID)
		require.NoError(t, err)
		require.Len(t, forJob, 1)
		assert.Equal(t, "Candy", forJob[0].Candidate.Name)
	})

	t.Run("reset token lifecycle", func(t *testing.T) {
		tokens := auth.NewResetTokenService(time.Hour)
		token, err := tokens.Generate()
		require.NoError(t, err)

		require.NoError(t, users.UpdateFields(ctx, candidate.ID, map[string]interface{}{
			constants.ColumnPasswordResetToken:   token.Hash,
			constants.ColumnPasswordResetExpires: token.ExpiresAt,
		}))

		user, err := tokens.Lookup(ctx, token.Raw, users.FindByResetToken)
		require.NoError(t, err)
		assert.Equal(t, candidate.ID, user.ID)

		redeem := func(ctx context.Context, hash string, now time.Time) (*models.User, error) {
			return users.ResetPasswordByToken(ctx, hash, now, "$2a$10$new")
		}

		user, err = tokens.Consume(ctx, token.Raw, redeem)
		require.NoError(t, err)
		assert.Equal(t, "$2a$10$new", user.PasswordHash)
		assert.Nil(t, user.PasswordResetToken)

		_, err = tokens.Consume(ctx, token.Raw, redeem)
		assert.ErrorIs(t, err, utils.ErrInvalidResetToken, "a token works only once")
	})

	t.Run("expired tokens are cleared", func(t *testing.T) {
		require.NoError(t, users.UpdateFields(ctx, employer.ID, map[string]interface{}{
			constants.ColumnPasswordResetToken:   auth.HashResetToken("old"),
			constants.ColumnPasswordResetExpires: time.Now().Add(-time.Hour),
		}))

		_, err := users.FindByResetToken(ctx, auth.HashResetToken("old"), time.Now())
		assert.True(t, utils.IsNotFoundError(err), "expired token must not match")

		cleared, err := users.ClearExpiredResetTokens(ctx, time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(1), cleared)
	})
}
