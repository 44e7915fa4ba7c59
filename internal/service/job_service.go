package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/metrics"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/models"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/repository"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/storage"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

// JobService handles job postings and the application lifecycle
type JobService struct {
	jobRepo  repository.JobRepository
	appRepo  repository.ApplicationRepository
	userRepo repository.UserRepository
	resumes  storage.ResumeStore
	emails   EmailSender
	metrics  *metrics.Metrics
}

// NewJobService creates a new JobService
func NewJobService(
	jobRepo repository.JobRepository,
	appRepo repository.ApplicationRepository,
	userRepo repository.UserRepository,
	resumes storage.ResumeStore,
	emails EmailSender,
	m *metrics.Metrics,
) *JobService {
	return &JobService{
		jobRepo:  jobRepo,
		appRepo:  appRepo,
		userRepo: userRepo,
		resumes:  resumes,
		emails:   emails,
		metrics:  m,
	}
}

// CreateJob posts a new job owned by employer
func (s *JobService) CreateJob(ctx context.Context, employer *models.User, req *models.CreateJobRequest) (*models.Job, error) {
	if !employer.HasRole(models.RoleEmployer) {
		return nil, utils.NewForbiddenError(constants.MsgOnlyEmployersPost)
	}

	job := &models.Job{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Type:        req.Type,
		Skills:      req.Skills,
		EmployerID:  employer.ID,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	job.Employer = employer.Summary()

	log.Info().
		Int64("job_id", job.ID).
		Int64("employer_id", employer.ID).
		Msg("Job posted")

	return job, nil
}

// ListJobs returns the jobs matching filter, newest first
func (s *JobService) ListJobs(ctx context.Context, filter models.JobFilter) ([]*models.Job, error) {
	jobs, err := s.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	if jobs == nil {
		jobs = []*models.Job{}
	}
	return jobs, nil
}

// GetJob returns a job. Applications are attached only when viewer owns it.
func (s *JobService) GetJob(ctx context.Context, id int64, viewer *models.User) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if viewer != nil && job.IsOwnedBy(viewer) {
		apps, err := s.appRepo.ListByJob(ctx, job.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list applications: %w", err)
		}
		job.Applications = apps
	}

	return job, nil
}

// Apply stores the candidate's resume and records an application for jobID.
// When the application cannot be recorded the stored resume is removed again.
// Notification emails are best effort.
func (s *JobService) Apply(ctx context.Context, jobID int64, candidate *models.User, upload *storage.ResumeUpload) (*models.JobApplication, error) {
	if !candidate.HasRole(models.RoleCandidate) {
		return nil, utils.NewForbiddenError(constants.MsgOnlyCandidatesApply)
	}
	if upload == nil || upload.Body == nil {
		return nil, utils.NewBadRequestError(constants.MsgResumeRequired)
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	exists, err := s.appRepo.Exists(ctx, job.ID, candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}
	if exists {
		s.metrics.RecordApplication(metrics.OutcomeDuplicate)
		return nil, utils.NewBadRequestError(constants.MsgAlreadyApplied)
	}

	resumeURL, err := s.resumes.Save(ctx, upload)
	if err != nil {
		s.metrics.RecordApplication(metrics.OutcomeFailure)
		return nil, err
	}

	app := &models.JobApplication{
		JobID:       job.ID,
		CandidateID: candidate.ID,
		ResumeURL:   resumeURL,
		Status:      models.StatusApplied,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		s.discardResume(ctx, resumeURL)
		if utils.IsUniqueViolation(err, constants.ConstraintApplicationJobCandidate) {
			s.metrics.RecordApplication(metrics.OutcomeDuplicate)
			return nil, utils.NewBadRequestError(constants.MsgAlreadyApplied)
		}
		s.metrics.RecordApplication(metrics.OutcomeFailure)
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	s.metrics.RecordApplication(metrics.OutcomeSuccess)

	log.Info().
		Int64("application_id", app.ID).
		Int64("job_id", job.ID).
		Int64("candidate_id", candidate.ID).
		Msg("Application submitted")

	s.notifyApplication(ctx, job, candidate)

	return app, nil
}

// discardResume removes a resume whose application was not recorded. It runs
// even when ctx is already cancelled.
func (s *JobService) discardResume(ctx context.Context, ref string) {
	if err := s.resumes.Delete(context.WithoutCancel(ctx), ref); err != nil {
		utils.LogError(err, map[string]interface{}{"resume": ref, "action": "discard_resume"})
	}
}

func (s *JobService) notifyApplication(ctx context.Context, job *models.Job, candidate *models.User) {
	employerEmail := ""
	if job.Employer != nil {
		employerEmail = job.Employer.Email
	} else if employer, err := s.userRepo.FindByID(ctx, job.EmployerID); err == nil {
		employerEmail = employer.Email
	} else {
		log.Warn().Err(err).Int64("employer_id", job.EmployerID).Msg("Failed to load employer for notification")
	}

	if employerEmail != "" {
		if err := s.emails.SendApplicationNotification(ctx, employerEmail, job.Title); err != nil {
			log.Error().Err(err).Int64("job_id", job.ID).Msg("Failed to send application notification")
		}
	}

	if err := s.emails.SendApplicationConfirmation(ctx, candidate.Email, job.Title); err != nil {
		log.Error().Err(err).Int64("job_id", job.ID).Msg("Failed to send application confirmation")
	}
}

// TrackApplications lists the applications made by candidate
func (s *JobService) TrackApplications(ctx context.Context, candidate *models.User) ([]*models.JobApplication, error) {
	apps, err := s.appRepo.ListByCandidate(ctx, candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	if len(apps) == 0 {
		return nil, utils.NewNotFoundMessage(constants.MsgNoApplications)
	}
	return apps, nil
}

// UpdateApplicationStatus changes the status of an application on one of the
// employer's own jobs
func (s *JobService) UpdateApplicationStatus(ctx context.Context, employer *models.User, req *models.UpdateApplicationStatusRequest) (*models.JobApplication, error) {
	if !employer.HasRole(models.RoleEmployer) {
		return nil, utils.NewForbiddenError(constants.MsgOnlyEmployersUpdate)
	}
	if !req.Status.Valid() {
		return nil, utils.NewValidationError("status", constants.MsgInvalidApplicationStat)
	}

	app, err := s.appRepo.FindByID(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobRepo.FindByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if !job.IsOwnedBy(employer) {
		return nil, utils.NewForbiddenError(constants.MsgOwnJobsOnly)
	}

	updated, err := s.appRepo.UpdateStatus(ctx, app.ID, req.Status)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("application_id", updated.ID).
		Str("status", string(updated.Status)).
		Msg("Application status updated")

	return updated, nil
}
