package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/middleware"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/models"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Accept, Authorization, Content-Type, X-Request-ID"
	corsMaxAge       = "300"
)

// SetupRoutes configures the routes for the application.
//
// The configured routes include:
//   - /health, /version and /metrics (unprotected, never rate limited)
//   - /api/auth: registration, login, token refresh and password reset
//   - /api/jobs: job posting, search and applications
//
// Every /api route shares the api rate limit; /api/auth additionally has the
// stricter auth limit.
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	// Base middleware
	r.Use(chimiddleware.RequestID)
	if s.Config.Server.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestObserver(s.Metrics))
	r.Use(middleware.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(corsMiddleware(s.Config.CORS.AllowedOrigins, s.Config.CORS.AllowCredentials))

	r.Get(constants.HealthPath, s.handleHealth)
	r.Get(constants.VersionPath, s.handleVersion)
	r.Method(http.MethodGet, constants.MetricsPath, s.Metrics.Handler())

	r.Route(constants.APIBasePath, func(r chi.Router) {
		r.Use(middleware.RateLimit(s.limiters, constants.RateLimitCategoryAPI, constants.MsgTooManyRequests, s.Metrics))

		r.Route(strings.TrimPrefix(constants.AuthBasePath, constants.APIBasePath), func(r chi.Router) {
			r.Use(middleware.RateLimit(s.limiters, constants.RateLimitCategoryAuth, constants.MsgTooManyLoginAttempts, s.Metrics))

			r.Post(constants.AuthRegisterPath, s.Handlers.AuthHandler.Register)
			r.Post(constants.AuthLoginPath, s.Handlers.AuthHandler.Login)
			r.Post(constants.AuthRefreshPath, s.Handlers.AuthHandler.RefreshToken)
			r.Post(constants.AuthForgotPasswordPath, s.Handlers.AuthHandler.ForgotPassword)
			r.Post(constants.AuthResetPasswordPath, s.Handlers.AuthHandler.ResetPassword)
		})

		r.Route(strings.TrimPrefix(constants.JobsBasePath, constants.APIBasePath), func(r chi.Router) {
			jobs := s.Handlers.JobHandler

			// Public job endpoints
			r.Get("/", jobs.ListJobs)
			r.With(s.guard.OptionalAuth).Get(constants.JobDetailPath, jobs.GetJob)

			// Protected job endpoints
			r.Group(func(r chi.Router) {
				r.Use(s.guard.RequireAuth)

				r.Get(constants.JobsApplicationsPath, jobs.TrackApplications)

				r.With(middleware.RequireRole(models.RoleEmployer, constants.MsgOnlyEmployersPost)).
					Post(constants.JobsPostPath, jobs.CreateJob)
				r.With(middleware.RequireRole(models.RoleEmployer, constants.MsgOnlyEmployersUpdate)).
					Put(constants.JobsApplicationStatusPath, jobs.UpdateApplicationStatus)
				r.With(middleware.RequireRole(models.RoleCandidate, constants.MsgOnlyCandidatesApply)).
					Post(constants.JobApplyPath, jobs.Apply)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.NotFound(w, "")
	})

	s.router = r
}

// GetRouter returns the configured router
func (s *Server) GetRouter() chi.Router {
	return s.router
}

// handleHealth reports whether the database is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.Db.HealthCheck(r.Context()); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		utils.Error(w, http.StatusServiceUnavailable, constants.CodeServiceUnavailable, constants.MsgServiceUnhealthy, nil)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": s.Config.App.Version,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{
		"name":        s.Config.App.Name,
		"version":     s.Config.App.Version,
		"environment": s.Config.App.Environment,
	})
}

// corsMiddleware adds CORS headers for allowed origins and answers
// preflight requests. A "*" entry allows every origin.
//
// Requests from other origins pass through without CORS headers, leaving
// the browser to block them.
func corsMiddleware(allowedOrigins []string, allowCredentials bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || !originAllowed(allowedOrigins, origin) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			if allowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method != http.MethodOptions || r.Header.Get("Access-Control-Request-Method") == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Handle OPTIONS preflight requests
			w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
			w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
			w.Header().Set("Access-Control-Max-Age", corsMaxAge)
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

func originAllowed(allowedOrigins []string, origin string) bool {
	for _, allowed := range allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
