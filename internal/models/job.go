package models

import (
	"time"

	"github.com/lib/pq"
)

// JobType is the employment type of a job posting.
type JobType string

// Known job types.
const (
	JobTypeFullTime JobType = "full-time"
	JobTypePartTime JobType = "part-time"
	JobTypeContract JobType = "contract"
)

// Valid reports whether t is a known job type.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract:
		return true
	}
	return false
}

// Job is a job posting owned by an employer.
type Job struct {
	ID           int64             `json:"id" db:"id"`
	Title        string            `json:"title" db:"title"`
	Description  string            `json:"description" db:"description"`
	Location     string            `json:"location" db:"location"`
	Type         JobType           `json:"type" db:"type"`
	Skills       pq.StringArray    `json:"skills" db:"skills"`
	EmployerID   int64             `json:"-" db:"employer_id"`
	Employer     *UserSummary      `json:"employer,omitempty" db:"-"`
	Applications []*JobApplication `json:"applications,omitempty" db:"-"`
	CreatedAt    time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time         `json:"updatedAt" db:"updated_at"`
}

// TableName returns the database table name for the Job model.
func (j *Job) TableName() string {
	return "jobs"
}

// IsOwnedBy reports whether the user posted this job.
func (j *Job) IsOwnedBy(u *User) bool {
	return u != nil && j.EmployerID == u.ID
}

// Summary returns the short job description embedded in applications.
func (j *Job) Summary() *JobSummary {
	return &JobSummary{ID: j.ID, Title: j.Title, Location: j.Location, Type: j.Type}
}

// JobSummary is the part of a job shown in a candidate's application list.
type JobSummary struct {
	ID       int64   `json:"id" db:"id"`
	Title    string  `json:"title" db:"title"`
	Location string  `json:"location" db:"location"`
	Type     JobType `json:"type" db:"type"`
}

// CreateJobRequest is the body of a job posting request.
type CreateJobRequest struct {
	Title       string   `json:"title" validate:"required,notblank,max=255"`
	Description string   `json:"description" validate:"required,notblank"`
	Location    string   `json:"location" validate:"required,notblank,max=255"`
	Type        JobType  `json:"type" validate:"required,oneof=full-time part-time contract"`
	Skills      []string `json:"skills" validate:"required,min=1,dive,notblank"`
}

// JobFilter narrows a job listing. Empty fields do not filter.
type JobFilter struct {
	Location string
	Type     JobType
	Skills   []string
	Search   string
}
