// Package utils provides utility functions and helpers for common operations
// used throughout the application: response writing, request decoding and
// validation, error mapping, logging and small string helpers.
package utils

import (
	"strings"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
)

// MaskEmail masks the local part of an email address for logging.
// For example: "user@example.com" becomes "u**r@example.com"
//
// Parameters:
//   - email: the email address to mask
//
// Returns:
//   - the masked email address, or the original string if it's not a valid email format
func MaskEmail(email string) string {
	user, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return email
	}

	if len(user) <= 2 {
		return email
	}

	return string(user[0]) + strings.Repeat("*", len(user)-2) + string(user[len(user)-1]) + "@" + domain
}

// SanitizeKeys redacts potentially sensitive fields from a map.
// It recursively traverses nested maps and slices of maps.
//
// Parameters:
//   - data: the map to sanitize
//
// Returns:
//   - a new map with sensitive values redacted
func SanitizeKeys(data map[string]interface{}) map[string]interface{} {
	sensitiveKeys := map[string]bool{
		constants.ColumnPasswordHash:       true,
		constants.ColumnPasswordResetToken: true,
		"password":                         true,
		"newpassword":                      true,
		"token":                            true,
		"refreshtoken":                     true,
		"accesstoken":                      true,
		"secret":                           true,
	}

	result := make(map[string]interface{}, len(data))

	for k, v := range data {
		if sensitiveKeys[strings.ToLower(k)] {
			result[k] = constants.LogRedactedValue
			continue
		}

		if nestedMap, ok := v.(map[string]interface{}); ok {
			result[k] = SanitizeKeys(nestedMap)
			continue
		}

		if nestedMapSlice, ok := v.([]map[string]interface{}); ok {
			sanitizedSlice := make([]map[string]interface{}, len(nestedMapSlice))
			for i, nestedMap := range nestedMapSlice {
				sanitizedSlice[i] = SanitizeKeys(nestedMap)
			}
			result[k] = sanitizedSlice
			continue
		}

		result[k] = v
	}

	return result
}

// SplitCSV splits a comma-separated list, trimming whitespace and dropping empty items.
func SplitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// EscapeLike escapes the LIKE wildcards in s so it matches literally.
func EscapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
