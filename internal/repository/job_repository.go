package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/database"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/models"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

const jobSelect = `
        SELECT j.id, j.title, j.description, j.location, j.type, j.skills, j.employer_id,
               j.created_at, j.updated_at, u.name AS employer_name, u.email AS employer_email
        FROM jobs j
        JOIN users u ON u.id = j.employer_id`

// jobRow is a job joined with its employer's public fields.
type jobRow struct {
	models.Job
	EmployerName  string `db:"employer_name"`
	EmployerEmail string `db:"employer_email"`
}

func (row *jobRow) toJob() *models.Job {
	job := row.Job
	job.Employer = &models.UserSummary{
		ID:    job.EmployerID,
		Name:  row.EmployerName,
		Email: row.EmployerEmail,
	}
	return &job
}

// JobRepository defines methods for interacting with job postings
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id int64) (*models.Job, error)
	List(ctx context.Context, filter models.JobFilter) ([]*models.Job, error)
}

// PostgresJobRepository is a PostgreSQL implementation of JobRepository
type PostgresJobRepository struct {
	db *database.Pool
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *database.Pool) JobRepository {
	return &PostgresJobRepository{
		db: db,
	}
}

// Create inserts a job posting and fills in its id and timestamps
func (r *PostgresJobRepository) Create(ctx context.Context, job *models.Job) error {
	startTime := time.Now()

	query := `
        INSERT INTO jobs (title, description, location, type, skills, employer_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `
	args := []interface{}{job.Title, job.Description, job.Location, job.Type, job.Skills, job.EmployerID}

	err := r.db.QueryRowxContext(ctx, query, args...).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	log.Info().
		Int64("job_id", job.ID).
		Int64("employer_id", job.EmployerID).
		Msg("Job created")

	return nil
}

// FindByID retrieves a job with its employer summary
func (r *PostgresJobRepository) FindByID(ctx context.Context, id int64) (*models.Job, error) {
	startTime := time.Now()

	query := jobSelect + ` WHERE j.id = $1`

	var row jobRow
	err := r.db.GetContext(ctx, &row, query, id)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundMessage(constants.MsgJobNotFound)
		}
		return nil, fmt.Errorf("failed to get job by ID: %w", err)
	}

	return row.toJob(), nil
}

// List retrieves jobs matching the filter, newest first. Location and type
// match exactly, skills match when any overlaps, and search is a
// case-insensitive substring of the title or description.
func (r *PostgresJobRepository) List(ctx context.Context, filter models.JobFilter) ([]*models.Job, error) {
	startTime := time.Now()

	query, args := buildJobListQuery(filter)

	var rows []jobRow
	err := r.db.SelectContext(ctx, &rows, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	jobs := make([]*models.Job, 0, len(rows))
	for i := range rows {
		jobs = append(jobs, rows[i].toJob())
	}

	return jobs, nil
}

func buildJobListQuery(filter models.JobFilter) (string, []interface{}) {
	var where []string
	var args []interface{}

	next := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Location != "" {
		where = append(where, "j.location = "+next(filter.Location))
	}
	if filter.Type != "" {
		where = append(where, "j.type = "+next(filter.Type))
	}
	if len(filter.Skills) > 0 {
		where = append(where, "j.skills && "+next(pq.Array(filter.Skills))+"::text[]")
	}
	if filter.Search != "" {
		p := next("%" + utils.EscapeLike(filter.Search) + "%")
		where = append(where, fmt.Sprintf("(j.title ILIKE %s OR j.description ILIKE %s)", p, p))
	}

	query := jobSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY j.created_at DESC"

	return query, args
}
