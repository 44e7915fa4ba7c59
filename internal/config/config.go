package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
)

// AppConfig represents the entire application configuration
type AppConfig struct {
	App          AppSettings       `yaml:"app"`
	Database     DatabaseSettings  `yaml:"database"`
	Server       ServerSettings    `yaml:"server"`
	JWT          JWTSettings       `yaml:"jwt"`
	Auth         AuthSettings      `yaml:"auth"`
	PasswordHash HashSettings      `yaml:"password_hash"`
	Logging      LoggingSettings   `yaml:"logging"`
	CORS         CORSSettings      `yaml:"cors"`
	Mail         MailSettings      `yaml:"mail"`
	Storage      StorageSettings   `yaml:"storage"`
	RateLimit    RateLimitSettings `yaml:"rate_limit"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV"`
	Name        string `yaml:"name" env:"APP_NAME"`
	Version     string `yaml:"version" env:"APP_VERSION"`
	FrontendURL string `yaml:"frontend_url" env:"FRONTEND_URL"`
}

// DatabaseSettings contains database connection settings
type DatabaseSettings struct {
	Host           string `yaml:"host" env:"DB_HOST"`
	Port           int    `yaml:"port" env:"DB_PORT"`
	Name           string `yaml:"name" env:"DB_NAME"`
	User           string `yaml:"user" env:"DB_USER"`
	Password       string `yaml:"password" env:"DB_PASSWORD"`
	SSLMode        string `yaml:"sslmode" env:"DB_SSLMODE"`
	MaxConns       int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
	MinConns       int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
	ConnectRetries uint64 `yaml:"connect_retries" env:"DB_CONNECT_RETRIES"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable it only behind a proxy that overwrites those headers,
	// otherwise clients can pick their own rate limit bucket.
	TrustProxyHeaders bool `yaml:"trust_proxy_headers" env:"SERVER_TRUST_PROXY_HEADERS"`
}

// JWTSettings contains JWT authentication settings
type JWTSettings struct {
	AccessSecret  string        `yaml:"access_secret" env:"JWT_ACCESS_SECRET"`
	RefreshSecret string        `yaml:"refresh_secret" env:"JWT_REFRESH_SECRET"`
	AccessExpiry  time.Duration `yaml:"access_expiry" env:"JWT_ACCESS_EXPIRY"`
	RefreshExpiry time.Duration `yaml:"refresh_expiry" env:"JWT_REFRESH_EXPIRY"`
	Issuer        string        `yaml:"issuer" env:"JWT_ISSUER"`
}

// AuthSettings contains auth flow behaviour switches
type AuthSettings struct {
	// ConcealUnknownEmail makes forgot-password answer 200 for unregistered addresses.
	ConcealUnknownEmail bool          `yaml:"conceal_unknown_email" env:"AUTH_CONCEAL_UNKNOWN_EMAIL"`
	ResetTokenTTL       time.Duration `yaml:"reset_token_ttl" env:"AUTH_RESET_TOKEN_TTL"`
}

// HashSettings contains password hashing settings
type HashSettings struct {
	Algorithm   string `yaml:"algorithm" env:"HASH_ALGORITHM"`
	BcryptCost  int    `yaml:"bcrypt_cost" env:"HASH_BCRYPT_COST"`
	Memory      uint32 `yaml:"memory" env:"HASH_MEMORY"`
	Iterations  uint32 `yaml:"iterations" env:"HASH_ITERATIONS"`
	Parallelism uint8  `yaml:"parallelism" env:"HASH_PARALLELISM"`
	SaltLength  uint32 `yaml:"salt_length" env:"HASH_SALT_LENGTH"`
	KeyLength   uint32 `yaml:"key_length" env:"HASH_KEY_LENGTH"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
}

// MailSettings contains outgoing mail settings. An empty Host selects the log sender.
type MailSettings struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT"`
	Username string `yaml:"username" env:"EMAIL_USER"`
	Password string `yaml:"password" env:"EMAIL_PASS"`
	From     string `yaml:"from" env:"EMAIL_FROM"`
	TLS      bool   `yaml:"tls" env:"SMTP_TLS"`
}

// StorageSettings contains resume storage settings
type StorageSettings struct {
	Backend        string `yaml:"backend" env:"STORAGE_BACKEND"`
	LocalDir       string `yaml:"local_dir" env:"STORAGE_LOCAL_DIR"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" env:"STORAGE_MAX_UPLOAD_BYTES"`
	S3Bucket       string `yaml:"s3_bucket" env:"S3_BUCKET"`
	S3Region       string `yaml:"s3_region" env:"S3_REGION"`
	S3Endpoint     string `yaml:"s3_endpoint" env:"S3_ENDPOINT"`
	S3AccessKey    string `yaml:"s3_access_key" env:"S3_ACCESS_KEY"`
	S3SecretKey    string `yaml:"s3_secret_key" env:"S3_SECRET_KEY"`
	S3KeyPrefix    string `yaml:"s3_key_prefix" env:"S3_KEY_PREFIX"`
	S3PathStyle    bool   `yaml:"s3_path_style" env:"S3_PATH_STYLE"`
}

// RateLimitSettings contains per-category request budgets over a shared window
type RateLimitSettings struct {
	API    int           `yaml:"api" env:"RATE_LIMIT_API"`
	Auth   int           `yaml:"auth" env:"RATE_LIMIT_AUTH"`
	Window time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW"`
}

// ConnectionString returns the PostgreSQL connection string
func (dbs *DatabaseSettings) ConnectionString() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", dbs.Host, dbs.Port),
		Path:   "/" + dbs.Name,
	}
	if dbs.Password != "" {
		u.User = url.UserPassword(dbs.User, dbs.Password)
	} else {
		u.User = url.User(dbs.User)
	}
	q := url.Values{}
	q.Set("sslmode", dbs.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// Load loads the configuration from a config file and environment variables
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	// A missing file is fine, env and defaults still apply
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("error parsing config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	setDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logConfig(config)

	return config, nil
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	// App defaults
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = "jobboard"
	}
	if config.App.Version == "" {
		config.App.Version = "1.0.0"
	}
	if config.App.FrontendURL == "" {
		config.App.FrontendURL = constants.DefaultFrontendURL
	}

	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}

	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		config.Database.Port = constants.DefaultDBPort
	}
	if config.Database.SSLMode == "" {
		config.Database.SSLMode = constants.DefaultDBSSLMode
	}
	if config.Database.MaxConns == 0 {
		config.Database.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Database.MinConns == 0 {
		config.Database.MinConns = constants.DefaultDBMinConnections
	}
	if config.Database.ConnectRetries == 0 {
		config.Database.ConnectRetries = constants.DefaultDBConnectRetries
	}

	// JWT defaults
	if config.JWT.AccessExpiry == 0 {
		config.JWT.AccessExpiry = constants.DefaultJWTExpiry
	}
	if config.JWT.RefreshExpiry == 0 {
		config.JWT.RefreshExpiry = constants.DefaultJWTRefreshExpiry
	}
	if config.JWT.Issuer == "" {
		config.JWT.Issuer = constants.DefaultJWTIssuer
	}

	if config.Auth.ResetTokenTTL == 0 {
		config.Auth.ResetTokenTTL = constants.DefaultResetTokenTTL
	}

	// Password hash defaults
	if config.PasswordHash.Algorithm == "" {
		config.PasswordHash.Algorithm = constants.HashAlgorithmBcrypt
	}
	if config.PasswordHash.BcryptCost == 0 {
		if config.App.IsProduction() {
			config.PasswordHash.BcryptCost = constants.ProductionBcryptCost
		} else {
			config.PasswordHash.BcryptCost = constants.MinBcryptCost
		}
	}
	if config.PasswordHash.BcryptCost < constants.MinBcryptCost {
		config.PasswordHash.BcryptCost = constants.MinBcryptCost
	}
	if config.PasswordHash.Memory == 0 {
		config.PasswordHash.Memory = constants.DefaultPasswordHashMemory
	}
	if config.PasswordHash.Iterations == 0 {
		config.PasswordHash.Iterations = constants.DefaultPasswordHashIterations
	}
	if config.PasswordHash.Parallelism == 0 {
		config.PasswordHash.Parallelism = constants.DefaultPasswordHashParallelism
	}
	if config.PasswordHash.SaltLength == 0 {
		config.PasswordHash.SaltLength = constants.DefaultPasswordHashSaltLength
	}
	if config.PasswordHash.KeyLength == 0 {
		config.PasswordHash.KeyLength = constants.DefaultPasswordHashKeyLength
	}

	// Logging defaults
	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}

	// CORS defaults
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{"*"}
	}

	// Mail defaults
	if config.Mail.Port == 0 {
		config.Mail.Port = constants.DefaultSMTPPort
	}
	if config.Mail.From == "" {
		if config.Mail.Username != "" {
			config.Mail.From = config.Mail.Username
		} else {
			config.Mail.From = constants.DefaultMailFrom
		}
	}

	// Storage defaults
	if config.Storage.Backend == "" {
		config.Storage.Backend = constants.StorageBackendLocal
	}
	if config.Storage.LocalDir == "" {
		config.Storage.LocalDir = constants.DefaultLocalUploadDir
	}
	if config.Storage.MaxUploadBytes == 0 {
		config.Storage.MaxUploadBytes = constants.DefaultMaxUploadBytes
	}
	if config.Storage.S3KeyPrefix == "" {
		config.Storage.S3KeyPrefix = constants.DefaultS3KeyPrefix
	}

	// Rate limit defaults
	if config.RateLimit.API == 0 {
		config.RateLimit.API = constants.DefaultAPIRateLimit
	}
	if config.RateLimit.Auth == 0 {
		config.RateLimit.Auth = constants.DefaultAuthRateLimit
	}
	if config.RateLimit.Window == 0 {
		config.RateLimit.Window = constants.DefaultRateLimitWindow
	}
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		log.Warn().Str("environment", config.App.Environment).Msg("Invalid environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	// Token secrets
	if config.App.IsProduction() {
		if config.JWT.AccessSecret == "" || config.JWT.RefreshSecret == "" {
			return fmt.Errorf("JWT access and refresh secrets must be set in production")
		}
	}
	if config.JWT.AccessSecret != "" && config.JWT.AccessSecret == config.JWT.RefreshSecret {
		return fmt.Errorf("JWT access and refresh secrets must differ")
	}

	if config.Database.User == "" {
		return fmt.Errorf("database user must be set")
	}

	// Validate log level
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	if !slices.Contains(validLevels, strings.ToLower(config.Logging.Level)) {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	switch config.PasswordHash.Algorithm {
	case constants.HashAlgorithmBcrypt, constants.HashAlgorithmArgon2id:
	default:
		return fmt.Errorf("unknown password hash algorithm: %s", config.PasswordHash.Algorithm)
	}

	switch config.Storage.Backend {
	case constants.StorageBackendLocal:
	case constants.StorageBackendS3:
		if config.Storage.S3Bucket == "" {
			return fmt.Errorf("s3 storage requires a bucket")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", config.Storage.Backend)
	}

	if config.RateLimit.API < 0 || config.RateLimit.Auth < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	return nil
}

// logConfig logs the current configuration without sensitive values
func logConfig(config *AppConfig) {
	log.Info().
		Str("environment", config.App.Environment).
		Str("version", config.App.Version).
		Str("server", config.Server.ServerAddress()).
		Str("db_host", config.Database.Host).
		Int("db_port", config.Database.Port).
		Str("db_name", config.Database.Name).
		Str("db_password", redact(config.Database.Password)).
		Str("jwt_access_secret", redact(config.JWT.AccessSecret)).
		Str("jwt_refresh_secret", redact(config.JWT.RefreshSecret)).
		Str("mail_host", config.Mail.Host).
		Str("storage_backend", config.Storage.Backend).
		Str("log_level", config.Logging.Level).
		Msg("Configuration loaded")
}

func redact(value string) string {
	if value == "" {
		return ""
	}
	return constants.LogRedactedValue
}
