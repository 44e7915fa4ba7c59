// Package handlers provides HTTP request handlers for the job board API.
package handlers

import (
	"context"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/auth"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/models"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/storage"
)

// AuthService defines the authentication use cases the auth handlers call.
// It is satisfied by *service.AuthService.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *auth.TokenPair, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, *auth.TokenPair, error)
	RefreshAccess(ctx context.Context, refreshToken string) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
}

// JobService defines the job board use cases the job handlers call.
// It is satisfied by *service.JobService.
type JobService interface {
	CreateJob(ctx context.Context, employer *models.User, req *models.CreateJobRequest) (*models.Job, error)
	ListJobs(ctx context.Context, filter models.JobFilter) ([]*models.Job, error)
	GetJob(ctx context.Context, id int64, viewer *models.User) (*models.Job, error)
	Apply(ctx context.Context, jobID int64, candidate *models.User, upload *storage.ResumeUpload) (*models.JobApplication, error)
	TrackApplications(ctx context.Context, candidate *models.User) ([]*models.JobApplication, error)
	UpdateApplicationStatus(ctx context.Context, employer *models.User, req *models.UpdateApplicationStatusRequest) (*models.JobApplication, error)
}
