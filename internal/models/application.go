package models

import (
	"time"
)

// ApplicationStatus is the state of a job application.
type ApplicationStatus string

// Known application statuses.
const (
	StatusApplied            ApplicationStatus = "applied"
	StatusUnderReview        ApplicationStatus = "under review"
	StatusInterviewScheduled ApplicationStatus = "interview scheduled"
	StatusRejected           ApplicationStatus = "rejected"
	StatusHired              ApplicationStatus = "hired"
)

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusUnderReview, StatusInterviewScheduled, StatusRejected, StatusHired:
		return true
	}
	return false
}

// JobApplication is a candidate's application to a job.
type JobApplication struct {
	ID          int64             `json:"id" db:"id"`
	JobID       int64             `json:"jobId" db:"job_id"`
	CandidateID int64             `json:"candidateId" db:"candidate_id"`
	ResumeURL   string            `json:"resumeUrl" db:"resume_url"`
	Status      ApplicationStatus `json:"status" db:"status"`
	Job         *JobSummary       `json:"job,omitempty" db:"-"`
	Candidate   *UserSummary      `json:"candidate,omitempty" db:"-"`
	CreatedAt   time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time         `json:"updatedAt" db:"updated_at"`
}

// TableName returns the database table name for the JobApplication model.
func (a *JobApplication) TableName() string {
	return "job_applications"
}

// UpdateApplicationStatusRequest is the body of a status change.
type UpdateApplicationStatusRequest struct {
	ApplicationID int64             `json:"applicationId" validate:"required,gt=0"`
	Status        ApplicationStatus `json:"status" validate:"required,oneof='applied' 'under review' 'interview scheduled' 'rejected' 'hired'"`
}

// ApplicationResponse is returned after submitting or updating an application.
type ApplicationResponse struct {
	Message     string          `json:"message"`
	Application *JobApplication `json:"application"`
}
