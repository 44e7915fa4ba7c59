// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the application.
// These constants provide fallbacks for configuration settings and establish
// boundaries for resource usage.
package constants

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultDBPort is the default PostgreSQL port.
	DefaultDBPort = 5432

	// DefaultDBSSLMode is the default PostgreSQL sslmode parameter.
	DefaultDBSSLMode = "disable"

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default number of idle database connections kept open.
	DefaultDBMinConnections = 5

	// DefaultDBConnectRetries is the number of retries after the first failed connect.
	DefaultDBConnectRetries = 5

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultFrontendURL is used to build password reset links when none is configured.
	DefaultFrontendURL = "http://localhost:3000"

	// DefaultMailFrom is the sender address used when none is configured.
	DefaultMailFrom = "no-reply@jobboard.local"

	// DefaultSMTPPort is the default SMTP submission port.
	DefaultSMTPPort = 587
)

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment.
	EnvProduction = "production"
)

// Size Limits define the maximum allowed sizes for request bodies and uploads.
const (
	// MaxRequestBodySize is the maximum size in bytes for JSON request bodies.
	MaxRequestBodySize = 1048576 // 1MB

	// DefaultMaxUploadBytes is the maximum resume size accepted by the apply endpoint.
	DefaultMaxUploadBytes = 5 << 20 // 5MiB

	// ResumeFormField is the multipart field carrying the resume file.
	ResumeFormField = "resume"
)

// Storage backends
const (
	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"

	DefaultLocalUploadDir = "uploads/resumes"
	DefaultS3KeyPrefix    = "resumes"
)

// Password Hash Settings define the parameters for password hashing.
const (
	// HashAlgorithmBcrypt selects bcrypt for new password hashes.
	HashAlgorithmBcrypt = "bcrypt"

	// HashAlgorithmArgon2id selects argon2id for new password hashes.
	HashAlgorithmArgon2id = "argon2id"

	// MinBcryptCost is the lowest accepted bcrypt work factor.
	MinBcryptCost = 10

	// ProductionBcryptCost is the bcrypt work factor used in production.
	ProductionBcryptCost = 12

	// DefaultPasswordHashMemory is the memory cost in KiB for Argon2id hashing.
	DefaultPasswordHashMemory = 64 * 1024

	// DefaultPasswordHashIterations is the number of iterations for Argon2id hashing.
	DefaultPasswordHashIterations = 3

	// DefaultPasswordHashParallelism is the parallelism parameter for Argon2id hashing.
	DefaultPasswordHashParallelism = 2

	// DefaultPasswordHashSaltLength is the length in bytes of the random salt.
	DefaultPasswordHashSaltLength = 16

	// DefaultPasswordHashKeyLength is the length in bytes of the generated key.
	DefaultPasswordHashKeyLength = 32
)

// Auth Constants define values related to token handling.
const (
	// DefaultJWTIssuer is the issuer claim value for JWT tokens.
	DefaultJWTIssuer = "jobboard-api"

	// BearerTokenPrefix is the prefix for Authorization header bearer tokens.
	BearerTokenPrefix = "Bearer "

	// ResetTokenBytes is the amount of entropy in a raw password reset token.
	ResetTokenBytes = 32

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 6
)

// Rate limiting defaults
const (
	DefaultAPIRateLimit  = 100
	DefaultAuthRateLimit = 10

	RateLimitCategoryAPI  = "api"
	RateLimitCategoryAuth = "auth"
)
