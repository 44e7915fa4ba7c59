package constants

import "time"

// Server Timeouts
const (
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
)

// Database Timeouts
const (
	DBConnectionTimeout   = 30 * time.Second
	DBHealthCheckTimeout  = 5 * time.Second
	DBConnMaxLifetime     = 1 * time.Hour
	DBConnMaxIdleTime     = 30 * time.Minute
	DBMaintenanceInterval = 1 * time.Hour
	DBMaintenanceTimeout  = 5 * time.Minute
	DBConnectRetryBase    = 500 * time.Millisecond
)

// Authentication Timeouts
const (
	DefaultJWTExpiry        = 15 * time.Minute
	DefaultJWTRefreshExpiry = 7 * 24 * time.Hour // 7 days
	DefaultResetTokenTTL    = 1 * time.Hour
)

// Rate Limiting
const (
	DefaultRateLimitWindow   = 15 * time.Minute
	RateLimitCleanupInterval = 5 * time.Minute
)
