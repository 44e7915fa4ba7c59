// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines table, column and constraint names so that
// repositories, migrations and error mapping refer to the schema consistently.
package constants

// Table Names
const (
	// TableUsers stores user accounts.
	TableUsers = "users"

	// TableJobs stores job postings.
	TableJobs = "jobs"

	// TableJobApplications stores applications made by candidates.
	TableJobApplications = "job_applications"
)

// User columns that may be changed through a partial update.
const (
	ColumnName                 = "name"
	ColumnEmail                = "email"
	ColumnPasswordHash         = "password_hash"
	ColumnRole                 = "role"
	ColumnPasswordResetToken   = "password_reset_token"
	ColumnPasswordResetExpires = "password_reset_expires"
)

// Constraint names
const (
	ConstraintUsersEmail              = "idx_users_email"
	ConstraintApplicationJobCandidate = "idx_job_applications_job_candidate"
)
