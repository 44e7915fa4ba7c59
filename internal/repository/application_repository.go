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

const applicationColumns = `a.id, a.job_id, a.candidate_id, a.resume_url, a.status, a.created_at, a.updated_at`

// candidateApplicationRow is an application joined with its job summary.
type candidateApplicationRow struct {
	models.JobApplication
	JobTitle    string         `db:"job_title"`
	JobLocation string         `db:"job_location"`
	JobType     models.JobType `db:"job_type"`
}

// jobApplicationRow is an application joined with its candidate's public fields.
type jobApplicationRow struct {
	models.JobApplication
	CandidateName  string `db:"candidate_name"`
	CandidateEmail string `db:"candidate_email"`
}

// ApplicationRepository defines methods for interacting with job applications
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.JobApplication) error
	Exists(ctx context.Context, jobID, candidateID int64) (bool, error)
	FindByID(ctx context.Context, id int64) (*models.JobApplication, error)
	ListByJob(ctx context.Context, jobID int64) ([]*models.JobApplication, error)
	ListByCandidate(ctx context.Context, candidateID int64) ([]*models.JobApplication, error)
	UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.JobApplication, error)
}

// PostgresApplicationRepository is a PostgreSQL implementation of ApplicationRepository
type PostgresApplicationRepository struct {
	db *database.Pool
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *database.Pool) ApplicationRepository {
	return &PostgresApplicationRepository{
		db: db,
	}
}

// Create inserts an application. A second application by the same candidate
// for the same job surfaces as a unique violation on
// idx_job_applications_job_candidate.
func (r *PostgresApplicationRepository) Create(ctx context.Context, app *models.JobApplication) error {
	startTime := time.Now()

	if app.Status == "" {
		app.Status = models.StatusApplied
	}

	query := `
        INSERT INTO job_applications (job_id, candidate_id, resume_url, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `
	args := []interface{}{app.JobID, app.CandidateID, app.ResumeURL, app.Status}

	err := r.db.QueryRowxContext(ctx, query, args...).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	log.Info().
		Int64("application_id", app.ID).
		Int64("job_id", app.JobID).
		Int64("candidate_id", app.CandidateID).
		Msg("Job application created")

	return nil
}

// Exists reports whether the candidate already applied for the job
func (r *PostgresApplicationRepository) Exists(ctx context.Context, jobID, candidateID int64) (bool, error) {
	count, err := database.Count(ctx, r.db, &models.JobApplication{}, map[string]interface{}{
		"job_id":       jobID,
		"candidate_id": candidateID,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByID retrieves an application by ID
func (r *PostgresApplicationRepository) FindByID(ctx context.Context, id int64) (*models.JobApplication, error) {
	startTime := time.Now()

	query := `SELECT ` + applicationColumns + ` FROM job_applications a WHERE a.id = $1`

	app := &models.JobApplication{}
	err := r.db.GetContext(ctx, app, query, id)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundMessage(constants.MsgApplicationNotFound)
		}
		return nil, fmt.Errorf("failed to get application by ID: %w", err)
	}

	return app, nil
}

// ListByJob retrieves the applications for a job with candidate summaries
func (r *PostgresApplicationRepository) ListByJob(ctx context.Context, jobID int64) ([]*models.JobApplication, error) {
	startTime := time.Now()

	query := `SELECT ` + applicationColumns + `, u.name AS candidate_name, u.email AS candidate_email
        FROM job_applications a
        JOIN users u ON u.id = a.candidate_id
        WHERE a.job_id = $1
        ORDER BY a.created_at DESC`

	var rows []jobApplicationRow
	err := r.db.SelectContext(ctx, &rows, query, jobID)

	utils.LogDBQuery(query, []interface{}{jobID}, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list applications for job: %w", err)
	}

	apps := make([]*models.JobApplication, 0, len(rows))
	for i := range rows {
		app := rows[i].JobApplication
		app.Candidate = &models.UserSummary{
			ID:    app.CandidateID,
			Name:  rows[i].CandidateName,
			Email: rows[i].CandidateEmail,
		}
		apps = append(apps, &app)
	}

	return apps, nil
}

// ListByCandidate retrieves a candidate's applications with job summaries
func (r *PostgresApplicationRepository) ListByCandidate(ctx context.Context, candidateID int64) ([]*models.JobApplication, error) {
	startTime := time.Now()

	query := `SELECT ` + applicationColumns + `, j.title AS job_title, j.location AS job_location, j.type AS job_type
        FROM job_applications a
        JOIN jobs j ON j.id = a.job_id
        WHERE a.candidate_id = $1
        ORDER BY a.created_at DESC`

	var rows []candidateApplicationRow
	err := r.db.SelectContext(ctx, &rows, query, candidateID)

	utils.LogDBQuery(query, []interface{}{candidateID}, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list applications for candidate: %w", err)
	}

	apps := make([]*models.JobApplication, 0, len(rows))
	for i := range rows {
		app := rows[i].JobApplication
		app.Job = &models.JobSummary{
			ID:       app.JobID,
			Title:    rows[i].JobTitle,
			Location: rows[i].JobLocation,
			Type:     rows[i].JobType,
		}
		apps = append(apps, &app)
	}

	return apps, nil
}

// UpdateStatus sets the status of an application and returns the updated row
func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.JobApplication, error) {
	startTime := time.Now()

	query := `
        UPDATE job_applications a
        SET status = $1, updated_at = NOW()
        WHERE a.id = $2
        RETURNING ` + applicationColumns

	app := &models.JobApplication{}
	err := r.db.GetContext(ctx, app, query, status, id)

	utils.LogDBQuery(query, []interface{}{status, id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundMessage(constants.MsgApplicationNotFound)
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}

	log.Info().
		Int64("application_id", app.ID).
		Str("status", string(status)).
		Msg("Job application status updated")

	return app, nil
}
