package handlers

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/auth"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/models"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/storage"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *auth.TokenPair, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*models.User)
	pair, _ := args.Get(1).(*auth.TokenPair)
	return user, pair, args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, *auth.TokenPair, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*models.User)
	pair, _ := args.Get(1).(*auth.TokenPair)
	return user, pair, args.Error(2)
}

func (m *MockAuthService) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	return m.Called(ctx, rawToken, newPassword).Error(0)
}

type MockJobService struct {
	mock.Mock

	// resume holds the bytes read from the last upload passed to Apply.
	resume []byte
}

func (m *MockJobService) CreateJob(ctx context.Context, employer *models.User, req *models.CreateJobRequest) (*models.Job, error) {
	args := m.Called(ctx, employer, req)
	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *MockJobService) ListJobs(ctx context.Context, filter models.JobFilter) ([]*models.Job, error) {
	args := m.Called(ctx, filter)
	jobs, _ := args.Get(0).([]*models.Job)
	return jobs, args.Error(1)
}

func (m *MockJobService) GetJob(ctx context.Context, id int64, viewer *models.User) (*models.Job, error) {
	args := m.Called(ctx, id, viewer)
	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *MockJobService) Apply(ctx context.Context, jobID int64, candidate *models.User, upload *storage.ResumeUpload) (*models.JobApplication, error) {
	if upload != nil && upload.Body != nil {
		m.resume, _ = io.ReadAll(upload.Body)
	}
	args := m.Called(ctx, jobID, candidate, upload)
	app, _ := args.Get(0).(*models.JobApplication)
	return app, args.Error(1)
}

func (m *MockJobService) TrackApplications(ctx context.Context, candidate *models.User) ([]*models.JobApplication, error) {
	args := m.Called(ctx, candidate)
	apps, _ := args.Get(0).([]*models.JobApplication)
	return apps, args.Error(1)
}

func (m *MockJobService) UpdateApplicationStatus(ctx context.Context, employer *models.User, req *models.UpdateApplicationStatusRequest) (*models.JobApplication, error) {
	args := m.Called(ctx, employer, req)
	app, _ := args.Get(0).(*models.JobApplication)
	return app, args.Error(1)
}
