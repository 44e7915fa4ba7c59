package utils

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/config"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
)

// Log field names shared by the helpers below.
const (
	logFieldRequestID = "request_id"
	logFieldUserID    = "user_id"
	logFieldEmail     = "email"
)

// InitLogger configures the global zerolog logger from the application config.
func InitLogger(cfg *config.AppConfig) {
	log.Logger = NewLogger(cfg, os.Stdout)

	if err := SetLogLevel(cfg.Logging.Level); err != nil {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Err(err).Msg("Falling back to info log level")
	}
}

// NewLogger builds a logger writing JSON, or console output outside production
// when the configured format is "console".
func NewLogger(cfg *config.AppConfig, out io.Writer) zerolog.Logger {
	output := out
	if strings.ToLower(cfg.Logging.Format) == "console" && !cfg.App.IsProduction() {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	logCtx := zerolog.New(output).
		With().
		Timestamp().
		Str("app", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("env", cfg.App.Environment)
	if cfg.App.IsDevelopment() {
		logCtx = logCtx.Caller()
	}

	return logCtx.Logger()
}

// RequestLogger creates a logger with request-specific context
func RequestLogger(requestID string, userID int64, method, path string) zerolog.Logger {
	logger := log.With().
		Str(logFieldRequestID, requestID).
		Str("method", method).
		Str("path", path)

	if userID != 0 {
		logger = logger.Int64(logFieldUserID, userID)
	}

	return logger.Logger()
}

// LogHTTPRequest logs an HTTP request with request details
func LogHTTPRequest(requestID, method, path, remoteAddr, userAgent string, statusCode int, latency time.Duration) {
	// High-volume operational endpoints are only logged at debug level
	if path == constants.HealthPath || path == constants.MetricsPath {
		if zerolog.GlobalLevel() > zerolog.DebugLevel {
			return
		}
	}

	event := log.Debug()
	switch {
	case statusCode >= 500:
		event = log.Error()
	case statusCode >= 400:
		event = log.Warn()
	case strings.HasPrefix(path, constants.APIBasePath):
		event = log.Info()
	}

	event.
		Str(logFieldRequestID, requestID).
		Str("method", method).
		Str("path", path).
		Str("remote_addr", remoteAddr).
		Str("user_agent", userAgent).
		Int("status", statusCode).
		Dur("latency", latency).
		Msg("HTTP Request")
}

// LogError logs an error with context information
func LogError(err error, context map[string]interface{}) {
	log.Error().
		Err(err).
		Fields(SanitizeKeys(context)).
		Msg("Error occurred")
}

// LogPanic logs a recovered panic value with request context
func LogPanic(recovered interface{}, stack []byte, context map[string]interface{}) {
	log.Error().
		Fields(SanitizeKeys(context)).
		Interface("panic", recovered).
		Str("stack", string(stack)).
		Msg("Panic recovered")
}

// LogDBQuery logs a database query for debugging. String arguments of queries
// touching credentials or reset tokens are redacted.
func LogDBQuery(query string, args []interface{}, duration time.Duration, err error) {
	lowered := strings.ToLower(query)
	sensitive := strings.Contains(lowered, constants.ColumnPasswordHash) ||
		strings.Contains(lowered, "secret") ||
		strings.Contains(lowered, "token")

	safeArgs := make([]interface{}, len(args))
	for i, arg := range args {
		if _, ok := arg.(string); ok && sensitive {
			safeArgs[i] = constants.LogRedactedValue
			continue
		}
		safeArgs[i] = arg
	}

	event := log.Debug()
	if err != nil {
		event = log.Error().Err(err)
	}

	event.
		Str("query", query).
		Interface("args", safeArgs).
		Dur("duration", duration).
		Msg("Database query executed")
}

// LogAuth logs authentication events. Emails are masked.
func LogAuth(event string, userID int64, email string, success bool, reason string) {
	logEvent := log.Info()
	if !success {
		logEvent = log.Warn()
	}

	logEvent = logEvent.
		Str("category", constants.LogCategoryAuth).
		Str("event", event).
		Bool("success", success)

	if userID != 0 {
		logEvent = logEvent.Str(logFieldUserID, strconv.FormatInt(userID, 10))
	}
	if email != "" {
		logEvent = logEvent.Str(logFieldEmail, MaskEmail(email))
	}
	if reason != "" {
		logEvent = logEvent.Str("reason", reason)
	}

	logEvent.Msg(event)
}

// GetLogLevel returns the current global log level as a string
func GetLogLevel() string {
	return zerolog.GlobalLevel().String()
}

// SetLogLevel updates the global log level
func SetLogLevel(level string) error {
	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return fmt.Errorf("invalid log level: %s", level)
	}

	zerolog.SetGlobalLevel(parsedLevel)
	log.Debug().Str("level", parsedLevel.String()).Msg("Log level changed")

	return nil
}
