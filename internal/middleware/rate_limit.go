package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/metrics"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils/ratelimit"
)

// RateLimit is middleware that limits the rate of requests from clients.
// Every client IP has its own budget per category.
//
// Parameters:
//   - store: The limiter store holding the per-client buckets
//   - category: The endpoint category to apply limits for (e.g., "auth", "api")
//   - message: The message returned with a 429 response
//   - m: Optional metrics recorder
//
// Returns:
//   - A middleware function that can be used with an HTTP handler
func RateLimit(store *ratelimit.Store, category, message string, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip rate limiting for health checks and metrics
			if isExemptedPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := getClientIP(r)
			limiter := store.GetLimiter(clientIP, category)
			allowed := limiter.Allow()

			w.Header().Set(constants.HeaderRateLimitLimit, strconv.Itoa(limiter.Budget().Limit))
			w.Header().Set(constants.HeaderRateLimitRemaining, strconv.Itoa(limiter.Remaining()))

			if !allowed {
				log.Warn().
					Str("client_ip", clientIP).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Str("category", category).
					Msg("Rate limit exceeded")

				m.RecordRateLimited(category)

				retryAfter := int(math.Ceil(limiter.RetryAfter().Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
				utils.Error(w, http.StatusTooManyRequests, constants.CodeTooManyRequests, message, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP returns the host part of RemoteAddr. When proxy headers are
// trusted, chi's RealIP middleware runs first and rewrites RemoteAddr.
func getClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If there's no port in the address, use it as is
		return r.RemoteAddr
	}
	return ip
}

// isExemptedPath returns true if the path should be exempted from
// rate limiting (health checks and scraping endpoints).
func isExemptedPath(path string) bool {
	exempt := []string{
		constants.HealthPath,
		constants.VersionPath,
		constants.MetricsPath,
	}

	for _, prefix := range exempt {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}

	return false
}
