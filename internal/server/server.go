// Package server provides the HTTP server for the job board API.
// It wires configuration, storage and services together, owns the router
// and manages the server lifecycle including graceful shutdown and
// background maintenance.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/auth"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/config"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/database"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/handlers"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/mailer"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/metrics"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/repository"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/service"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/storage"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils/ratelimit"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	// AuthHandler serves /api/auth
	AuthHandler *handlers.AuthHandler

	// JobHandler serves /api/jobs
	JobHandler *handlers.JobHandler
}

// Server represents the API server.
// It encapsulates all server components and handles server lifecycle management,
// including initialization, startup, and graceful shutdown.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// Metrics holds the Prometheus collectors served on /metrics
	Metrics *metrics.Metrics

	router      chi.Router
	httpServer  *http.Server
	guard       *auth.Guard
	limiters    *ratelimit.Store
	userRepo    repository.UserRepository
	resumeStore storage.ResumeStore

	maintenanceStop chan struct{}
	maintenanceDone chan struct{}
	maintenanceOnce sync.Once
	shutdownOnce    sync.Once
}

// NewServer creates a new server instance with all required components.
//
// Parameters:
//   - cfg: Application configuration
//   - db: An open connection pool; the server closes it on shutdown
//
// Returns:
//   - A fully initialized Server instance ready to start
//   - An error if initialization of any component fails
//
// Components are built in dependency order: repositories, auth providers,
// collaborators (mail, storage, metrics), services, handlers, then routes.
func NewServer(cfg *config.AppConfig, db *database.Pool) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if db == nil {
		return nil, errors.New("database pool is required")
	}

	s := &Server{
		Config:  cfg,
		Db:      db,
		Metrics: metrics.New(),
	}

	if err := s.setupHandlers(); err != nil {
		return nil, fmt.Errorf("failed to set up handlers: %w", err)
	}

	s.setupRateLimiter()

	// Set up routes
	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupHandlers builds repositories, services and the handlers on top of them.
func (s *Server) setupHandlers() error {
	userRepo := repository.NewUserRepository(s.Db)
	jobRepo := repository.NewJobRepository(s.Db)
	appRepo := repository.NewApplicationRepository(s.Db)
	s.userRepo = userRepo

	tokens := auth.NewTokenService(&s.Config.JWT)
	hasher := auth.NewPasswordHasher(&s.Config.PasswordHash)
	resetTokens := auth.NewResetTokenService(s.Config.Auth.ResetTokenTTL)
	s.guard = auth.NewGuard(tokens, userRepo)

	emails := service.NewEmailService(mailer.New(&s.Config.Mail), s.Config.App.FrontendURL)

	ctx, cancel := context.WithTimeout(context.Background(), constants.DBConnectionTimeout)
	defer cancel()
	resumes, err := storage.NewResumeStore(ctx, &s.Config.Storage)
	if err != nil {
		return fmt.Errorf("failed to set up resume storage: %w", err)
	}
	s.resumeStore = resumes

	authService := service.NewAuthService(userRepo, tokens, hasher, resetTokens, emails, s.Metrics, &s.Config.Auth)
	jobService := service.NewJobService(jobRepo, appRepo, userRepo, resumes, emails, s.Metrics)

	s.Handlers = &Handlers{
		AuthHandler: handlers.NewAuthHandler(authService),
		JobHandler:  handlers.NewJobHandler(jobService, s.Config.Storage.MaxUploadBytes),
	}

	return nil
}

// setupRateLimiter creates the limiter store with one budget per category.
func (s *Server) setupRateLimiter() {
	window := s.Config.RateLimit.Window
	if window <= 0 {
		window = constants.DefaultRateLimitWindow
	}

	apiRate := ratelimit.Rate{Limit: s.Config.RateLimit.API, Window: window}
	s.limiters = ratelimit.NewStore(apiRate, constants.RateLimitCleanupInterval)
	s.limiters.SetRate(constants.RateLimitCategoryAPI, apiRate)
	s.limiters.SetRate(constants.RateLimitCategoryAuth, ratelimit.Rate{Limit: s.Config.RateLimit.Auth, Window: window})
}

// Start starts the HTTP server and blocks until it fails or a shutdown
// signal (SIGINT, SIGTERM) is received, then shuts down gracefully.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Str("environment", s.Config.App.Environment).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	s.SetupMaintenanceTasks()

	select {
	case err := <-serverErrors:
		s.stopBackground()
		s.Db.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server. In-flight requests are allowed
// to finish; then the maintenance loop and the limiter sweeper stop and the
// database pool is closed.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	s.stopBackground()
	s.Db.Close()
	log.Info().Msg("Database connection closed")

	return nil
}

// stopBackground stops the maintenance loop and the rate limiter sweeper.
// It is safe to call more than once.
func (s *Server) stopBackground() {
	s.shutdownOnce.Do(func() {
		if s.maintenanceStop != nil {
			close(s.maintenanceStop)
			<-s.maintenanceDone
		}
		if s.limiters != nil {
			s.limiters.Stop()
		}
	})
}

// SetupMaintenanceTasks starts the periodic maintenance loop. Only the first
// call has an effect.
//
// Every constants.DBMaintenanceInterval the loop clears reset tokens that have
// expired. Expired tokens already fail verification, so this only keeps the
// users table tidy.
func (s *Server) SetupMaintenanceTasks() {
	s.maintenanceOnce.Do(func() {
		s.maintenanceStop = make(chan struct{})
		s.maintenanceDone = make(chan struct{})

		ticker := time.NewTicker(constants.DBMaintenanceInterval)
		go func() {
			defer close(s.maintenanceDone)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					s.RunMaintenance()
				case <-s.maintenanceStop:
					return
				}
			}
		}()
	})
}

// RunMaintenance performs one maintenance pass.
func (s *Server) RunMaintenance() {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DBMaintenanceTimeout)
	defer cancel()

	count, err := s.userRepo.ClearExpiredResetTokens(ctx, time.Now())
	if err != nil {
		utils.LogError(err, map[string]interface{}{"task": "clear_expired_reset_tokens"})
		return
	}
	if count > 0 {
		log.Info().Int64("count", count).Msg("Cleared expired reset tokens")
	}
}
