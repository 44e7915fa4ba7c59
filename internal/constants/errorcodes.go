// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling, categorization,
// and messaging. User-facing messages are kept generic where they concern
// credentials or tokens.
package constants

// Error Types define the categories of errors that can occur in the application.
// These are used for internal error classification and handling.
const (
	ErrorNotFound           = "resource not found"
	ErrorUnauthorized       = "unauthorized access"
	ErrorForbidden          = "forbidden access"
	ErrorBadRequest         = "invalid request"
	ErrorInternalServer     = "internal server error"
	ErrorValidation         = "validation error"
	ErrorDuplicate          = "duplicate resource"
	ErrorInvalidCredentials = "invalid credentials"
	ErrorInvalidToken       = "invalid token"
	ErrorInvalidResetToken  = "invalid or expired reset token"
	ErrorTooManyRequests    = "too many requests"
)

// Response codes carried in the "code" field of every error body.
const (
	CodeBadRequest         = "bad_request"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeInternalError      = "internal_error"
	CodeValidationError    = "validation_error"
	CodeInvalidCredentials = "invalid_credentials"
	CodeTokenInvalid       = "token_invalid"
	CodeInvalidResetToken  = "invalid_reset_token"
	CodeDuplicateResource  = "duplicate_resource"
	CodeTooManyRequests    = "too_many_requests"
	CodeServiceUnavailable = "service_unavailable"
)

// User-Facing Error Messages define standardized messages that can be safely presented to users.
const (
	// MsgNoToken is returned when a protected route is called without a bearer token.
	MsgNoToken = "No token, authorization denied"

	// MsgTokenNotValid is returned when the bearer token fails verification.
	MsgTokenNotValid = "Token is not valid"

	// MsgUserNotFound is returned when the token subject no longer exists.
	MsgUserNotFound = "User not found"

	// MsgUserExists is returned on registration with an email that is already taken.
	MsgUserExists = "User already exists"

	// MsgInvalidCredentials is returned for any login failure.
	MsgInvalidCredentials = "Invalid credentials"

	// MsgRefreshTokenRequired is returned when /refresh is called without a token.
	MsgRefreshTokenRequired = "Refresh token is required"

	// MsgInvalidRefreshToken is returned when the refresh token fails verification.
	MsgInvalidRefreshToken = "Invalid refresh token"

	// MsgUnknownEmail is returned by forgot-password for an unregistered address.
	MsgUnknownEmail = "User with this email does not exist"

	// MsgInvalidResetToken is returned when a reset token is unknown or expired.
	MsgInvalidResetToken = "Invalid or expired password reset token"

	// MsgAccessDenied indicates that the user lacks permission for the requested action.
	MsgAccessDenied = "You don't have permission to access this resource"

	// MsgServiceUnhealthy is the /health body when the database is unreachable.
	MsgServiceUnhealthy = "Service is not healthy"

	// MsgInternalServerError provides a generic server error message.
	MsgInternalServerError = "An internal server error occurred"

	// MsgRequestBodyTooLarge indicates that the request payload exceeds size limits.
	MsgRequestBodyTooLarge = "Request body too large"

	// MsgEmptyRequestBody indicates that a request body was expected but not provided.
	MsgEmptyRequestBody = "Request body must not be empty"

	// MsgMalformedJSON indicates that the request body contains invalid JSON.
	MsgMalformedJSON = "Request body contains malformed JSON"

	// MsgResourceNotFound indicates that the requested resource does not exist.
	MsgResourceNotFound = "The requested resource could not be found"

	// MsgResourceAlreadyExists indicates a duplicate resource conflict.
	MsgResourceAlreadyExists = "A resource with the same unique identifier already exists"

	// MsgTooManyRequests is the api rate limit message.
	MsgTooManyRequests = "Too many requests, please try again later."

	// MsgTooManyLoginAttempts is the auth rate limit message.
	MsgTooManyLoginAttempts = "Too many login attempts, please try again later."
)

// Job board messages
const (
	MsgOnlyEmployersPost      = "Only employers can post jobs"
	MsgOnlyCandidatesApply    = "Only candidates can apply for jobs"
	MsgOnlyEmployersUpdate    = "Only employers can update application status"
	MsgOwnJobsOnly            = "You can only update applications for your own jobs"
	MsgInvalidJobID           = "Invalid job ID format"
	MsgResumeRequired         = "Resume is required"
	MsgResumeTooLarge         = "Resume exceeds the maximum upload size"
	MsgAlreadyApplied         = "You have already applied for this job"
	MsgNoApplications         = "No applications found"
	MsgJobNotFound            = "Job not found"
	MsgApplicationNotFound    = "Application not found"
	MsgInvalidApplicationStat = "Invalid application status"
)

// Success messages
const (
	MsgUserRegistered         = "User registered"
	MsgLoginSuccessful        = "Login successful"
	MsgResetTokenSent         = "Password reset token sent to email"
	MsgPasswordReset          = "Password has been reset successfully"
	MsgApplicationSubmitted   = "Application submitted successfully"
	MsgApplicationStatusSaved = "Application status updated"
)

// Email subjects and templates
const (
	EmailSubjectPasswordReset     = "Password Reset Request"
	EmailSubjectNewApplication    = "New Job Application Received"
	EmailSubjectApplicationSubmit = "Application Submitted"

	EmailBodyPasswordReset     = "You requested a password reset. Click the link below to reset your password:\n\n%s\n\nIf you did not request this, please ignore this email."
	EmailBodyNewApplication    = "New application received for the job: %s"
	EmailBodyApplicationSubmit = "Your application for the job: %s has been submitted successfully."
)

// Logger Constants define values used for structured logging.
const (
	LogCategoryAuth = "auth"

	LogEventLogin          = "login"
	LogEventRegister       = "register"
	LogEventRefresh        = "refresh"
	LogEventForgotPassword = "forgot_password"
	LogEventResetPassword  = "reset_password"

	LogOutcomeSuccess = "success"
	LogOutcomeFailure = "failure"

	// LogRedactedValue is used to replace sensitive values in logs.
	LogRedactedValue = "[REDACTED]"
)
