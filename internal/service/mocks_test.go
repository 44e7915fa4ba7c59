package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/models"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/storage"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

// MockUserRepository is an in-memory UserRepository
type MockUserRepository struct {
	mu           sync.Mutex
	users        map[int64]*models.User
	usersByEmail map[string]*models.User
	nextID       int64
	updates      int

	// afterResetLookup runs once FindByResetToken has returned, outside the lock.
	afterResetLookup func()
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:        make(map[int64]*models.User),
		usersByEmail: make(map[string]*models.User),
		nextID:       1,
	}
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, utils.NewNotFoundMessage(constants.MsgUserNotFound)
	}
	return user, nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User", id)
	}
	return user, nil
}

func (m *MockUserRepository) Save(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.usersByEmail[user.Email]; ok {
		return fmt.Errorf("failed to save user: %w", &pq.Error{
			Code:       "23505",
			Constraint: constants.ConstraintUsersEmail,
		})
	}

	user.ID = m.nextID
	m.nextID++

	m.users[user.ID] = user
	m.usersByEmail[user.Email] = user
	return nil
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}
	m.updates++

	for column, value := range fields {
		switch column {
		case constants.ColumnPasswordHash:
			user.PasswordHash = value.(string)
		case constants.ColumnPasswordResetToken:
			if value == nil {
				user.PasswordResetToken = nil
			} else {
				hash := value.(string)
				user.PasswordResetToken = &hash
			}
		case constants.ColumnPasswordResetExpires:
			if value == nil {
				user.PasswordResetExpires = nil
			} else {
				expires := value.(time.Time)
				user.PasswordResetExpires = &expires
			}
		default:
			return fmt.Errorf("unexpected column %q", column)
		}
	}
	return nil
}

func (m *MockUserRepository) FindByResetToken(ctx context.Context, hash string, now time.Time) (*models.User, error) {
	m.mu.Lock()
	user := m.userByResetToken(hash, now)
	hook := m.afterResetLookup
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	if user == nil {
		return nil, utils.NewNotFoundMessage(constants.MsgInvalidResetToken)
	}
	return user, nil
}

func (m *MockUserRepository) ResetPasswordByToken(ctx context.Context, hash string, now time.Time, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user := m.userByResetToken(hash, now)
	if user == nil {
		return nil, utils.NewNotFoundMessage(constants.MsgInvalidResetToken)
	}
	m.updates++
	user.PasswordHash = passwordHash
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil
	return user, nil
}

// userByResetToken must be called with m.mu held.
func (m *MockUserRepository) userByResetToken(hash string, now time.Time) *models.User {
	for _, user := range m.users {
		if user.PasswordResetToken != nil && *user.PasswordResetToken == hash &&
			user.PasswordResetExpires != nil && user.PasswordResetExpires.After(now) {
			return user
		}
	}
	return nil
}

func (m *MockUserRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var cleared int64
	for _, user := range m.users {
		if user.PasswordResetExpires != nil && !user.PasswordResetExpires.After(now) {
			user.PasswordResetToken = nil
			user.PasswordResetExpires = nil
			cleared++
		}
	}
	return cleared, nil
}

func (m *MockUserRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// MockJobRepository is an in-memory JobRepository
type MockJobRepository struct {
	jobs   map[int64]*models.Job
	users  *MockUserRepository
	nextID int64
}

func NewMockJobRepository(users *MockUserRepository) *MockJobRepository {
	return &MockJobRepository{
		jobs:   make(map[int64]*models.Job),
		users:  users,
		nextID: 1,
	}
}

func (m *MockJobRepository) Create(ctx context.Context, job *models.Job) error {
	job.ID = m.nextID
	m.nextID++
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	m.jobs[job.ID] = job
	return nil
}

func (m *MockJobRepository) FindByID(ctx context.Context, id int64) (*models.Job, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, utils.NewNotFoundMessage(constants.MsgJobNotFound)
	}

	// Return a copy so callers cannot leak applications into the store
	found := *job
	if employer, err := m.users.FindByID(ctx, job.EmployerID); err == nil {
		found.Employer = employer.Summary()
	}
	return &found, nil
}

func (m *MockJobRepository) List(ctx context.Context, filter models.JobFilter) ([]*models.Job, error) {
	var jobs []*models.Job
	for id := int64(1); id < m.nextID; id++ {
		job, ok := m.jobs[id]
		if !ok {
			continue
		}
		if filter.Location != "" && job.Location != filter.Location {
			continue
		}
		if filter.Type != "" && job.Type != filter.Type {
			continue
		}
		found := *job
		jobs = append(jobs, &found)
	}
	return jobs, nil
}

// MockApplicationRepository is an in-memory ApplicationRepository
type MockApplicationRepository struct {
	apps      map[int64]*models.JobApplication
	nextID    int64
	existsErr error
	createErr error
	// skipExists simulates a concurrent insert slipping past the pre-check
	skipExists bool
}

func NewMockApplicationRepository() *MockApplicationRepository {
	return &MockApplicationRepository{
		apps:   make(map[int64]*models.JobApplication),
		nextID: 1,
	}
}

func (m *MockApplicationRepository) Create(ctx context.Context, app *models.JobApplication) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.apps {
		if existing.JobID == app.JobID && existing.CandidateID == app.CandidateID {
			return fmt.Errorf("failed to create application: %w", &pq.Error{
				Code:       "23505",
				Constraint: constants.ConstraintApplicationJobCandidate,
			})
		}
	}
	if app.Status == "" {
		app.Status = models.StatusApplied
	}
	app.ID = m.nextID
	m.nextID++
	stored := *app
	m.apps[app.ID] = &stored
	return nil
}

func (m *MockApplicationRepository) Exists(ctx context.Context, jobID, candidateID int64) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	if m.skipExists {
		return false, nil
	}
	for _, app := range m.apps {
		if app.JobID == jobID && app.CandidateID == candidateID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockApplicationRepository) FindByID(ctx context.Context, id int64) (*models.JobApplication, error) {
	app, ok := m.apps[id]
	if !ok {
		return nil, utils.NewNotFoundMessage(constants.MsgApplicationNotFound)
	}
	found := *app
	return &found, nil
}

func (m *MockApplicationRepository) ListByJob(ctx context.Context, jobID int64) ([]*models.JobApplication, error) {
	apps := []*models.JobApplication{}
	for id := int64(1); id < m.nextID; id++ {
		if app, ok := m.apps[id]; ok && app.JobID == jobID {
			found := *app
			apps = append(apps, &found)
		}
	}
	return apps, nil
}

func (m *MockApplicationRepository) ListByCandidate(ctx context.Context, candidateID int64) ([]*models.JobApplication, error) {
	var apps []*models.JobApplication
	for id := int64(1); id < m.nextID; id++ {
		if app, ok := m.apps[id]; ok && app.CandidateID == candidateID {
			found := *app
			apps = append(apps, &found)
		}
	}
	return apps, nil
}

func (m *MockApplicationRepository) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.JobApplication, error) {
	app, ok := m.apps[id]
	if !ok {
		return nil, utils.NewNotFoundMessage(constants.MsgApplicationNotFound)
	}
	app.Status = status
	app.UpdatedAt = time.Now()
	found := *app
	return &found, nil
}

// sentEmail is a message captured by MockMailer
type sentEmail struct {
	To      string
	Subject string
	Body    string
}

// MockMailer records every message instead of sending it
type MockMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *MockMailer) messages() []sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentEmail(nil), m.sent...)
}

// MockResumeStore keeps uploaded resumes in memory
type MockResumeStore struct {
	saved   map[string]string
	deleted []string
	err     error
}

func NewMockResumeStore() *MockResumeStore {
	return &MockResumeStore{saved: make(map[string]string)}
}

func (m *MockResumeStore) Save(ctx context.Context, upload *storage.ResumeUpload) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	data, err := io.ReadAll(upload.Body)
	if err != nil {
		return "", err
	}
	ref := fmt.Sprintf("uploads/resumes/%d%s", len(m.saved)+1, upload.Ext())
	m.saved[ref] = string(data)
	return ref, nil
}

func (m *MockResumeStore) Delete(ctx context.Context, ref string) error {
	if _, ok := m.saved[ref]; !ok {
		return fmt.Errorf("unknown resume %q", ref)
	}
	delete(m.saved, ref)
	m.deleted = append(m.deleted, ref)
	return nil
}
