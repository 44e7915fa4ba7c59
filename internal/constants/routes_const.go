package constants

// Base Routes
const (
	APIBasePath = "/api"
	HealthPath  = "/health"
	VersionPath = "/version"
	MetricsPath = "/metrics"
)

// Authentication Routes
const (
	AuthBasePath           = "/api/auth"
	AuthRegisterPath       = "/register"
	AuthLoginPath          = "/login"
	AuthRefreshPath        = "/refresh"
	AuthForgotPasswordPath = "/forgot-password"
	AuthResetPasswordPath  = "/reset-password"
)

// Job Routes
const (
	JobsBasePath                = "/api/jobs"
	JobsPostPath                = "/post"
	JobsApplicationsPath        = "/applications"
	JobsApplicationStatusPath   = "/applications/status"
	JobDetailPath               = "/{id}"
	JobApplyPath                = "/{id}/apply"
	ResetPasswordFrontendPrefix = "/reset-password/"
)

// URL and query parameters
const (
	ParamID = "id"

	QueryParamLocation = "location"
	QueryParamType     = "type"
	QueryParamSkills   = "skills"
	QueryParamSearch   = "search"
)
