package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/auth"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/config"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/metrics"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/models"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/repository"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

// AuthService handles registration, login, token refresh and password resets
type AuthService struct {
	userRepo    repository.UserRepository
	tokens      *auth.TokenService
	hasher      auth.PasswordHasher
	resetTokens *auth.ResetTokenService
	emails      EmailSender
	metrics     *metrics.Metrics
	cfg         *config.AuthSettings
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	tokens *auth.TokenService,
	hasher auth.PasswordHasher,
	resetTokens *auth.ResetTokenService,
	emails EmailSender,
	m *metrics.Metrics,
	cfg *config.AuthSettings,
) *AuthService {
	if cfg == nil {
		cfg = &config.AuthSettings{}
	}
	return &AuthService{
		userRepo:    userRepo,
		tokens:      tokens,
		hasher:      hasher,
		resetTokens: resetTokens,
		emails:      emails,
		metrics:     m,
		cfg:         cfg,
	}
}

// Register creates a new account and returns it with a fresh token pair
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *auth.TokenPair, error) {
	// Check if email already exists
	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		s.record(constants.LogEventRegister, 0, req.Email, false, "email taken")
		return nil, nil, utils.NewUserExistsError()
	}
	if !utils.IsNotFoundError(err) {
		return nil, nil, fmt.Errorf("failed to check email existence: %w", err)
	}

	// Hash the password
	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(req.Name, req.Email, req.Role)
	user.PasswordHash = passwordHash

	if err := s.userRepo.Save(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same email
		if utils.IsUniqueViolation(err, constants.ConstraintUsersEmail) {
			s.record(constants.LogEventRegister, 0, req.Email, false, "email taken")
			return nil, nil, utils.NewUserExistsError()
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.tokens.IssueTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.record(constants.LogEventRegister, user.ID, user.Email, true, "")

	return user, pair, nil
}

// Login verifies credentials and returns a fresh token pair.
// Unknown emails and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, *auth.TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			s.record(constants.LogEventLogin, 0, req.Email, false, "user not found")
			return nil, nil, utils.NewInvalidCredentialsError()
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.record(constants.LogEventLogin, user.ID, user.Email, false, "invalid password")
		return nil, nil, utils.NewInvalidCredentialsError()
	}

	pair, err := s.tokens.IssueTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.record(constants.LogEventLogin, user.ID, user.Email, true, "")

	return user, pair, nil
}

// RefreshAccess exchanges a valid refresh token for a new access token.
// The refresh token itself is not rotated.
func (s *AuthService) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		s.record(constants.LogEventRefresh, 0, "", false, "missing token")
		return "", utils.NewUnauthorizedError(constants.MsgRefreshTokenRequired)
	}

	claims, ok := s.tokens.VerifyRefreshToken(refreshToken)
	if !ok {
		s.record(constants.LogEventRefresh, 0, "", false, "invalid token")
		return "", utils.NewUnauthorizedError(constants.MsgInvalidRefreshToken)
	}

	accessToken, err := s.tokens.IssueAccessToken(claims.ID, claims.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	s.record(constants.LogEventRefresh, claims.ID, "", true, "")

	return accessToken, nil
}

// ForgotPassword stores a hashed reset token for the user and mails the raw
// token. Unknown emails fail with 400 unless ConcealUnknownEmail is set.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !utils.IsNotFoundError(err) {
			return fmt.Errorf("failed to get user: %w", err)
		}
		s.record(constants.LogEventForgotPassword, 0, email, false, "unknown email")
		if s.cfg.ConcealUnknownEmail {
			return nil
		}
		return utils.New(utils.ErrNotFound, http.StatusBadRequest, constants.MsgUnknownEmail)
	}

	token, err := s.resetTokens.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	err = s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		constants.ColumnPasswordResetToken:   token.Hash,
		constants.ColumnPasswordResetExpires: token.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.emails.SendPasswordResetEmail(ctx, user.Email, token.Raw); err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to send password reset email")
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	s.record(constants.LogEventForgotPassword, user.ID, user.Email, true, "")

	return nil
}

// ResetPassword sets a new password for the owner of a valid reset token.
// The password write and the token clear happen in one conditional UPDATE,
// so a token redeems at most once even when requests race.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if _, err := s.resetTokens.Lookup(ctx, rawToken, s.userRepo.FindByResetToken); err != nil {
		return s.resetFailure(err)
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.resetTokens.Consume(ctx, rawToken, func(ctx context.Context, hash string, now time.Time) (*models.User, error) {
		return s.userRepo.ResetPasswordByToken(ctx, hash, now, passwordHash)
	})
	if err != nil {
		return s.resetFailure(err)
	}

	s.record(constants.LogEventResetPassword, user.ID, user.Email, true, "")

	return nil
}

func (s *AuthService) resetFailure(err error) error {
	if errors.Is(err, utils.ErrInvalidResetToken) {
		s.record(constants.LogEventResetPassword, 0, "", false, "invalid or expired token")
		return utils.NewInvalidResetTokenError()
	}
	return fmt.Errorf("failed to reset password: %w", err)
}

func (s *AuthService) record(event string, userID int64, email string, success bool, reason string) {
	utils.LogAuth(event, userID, email, success, reason)
	s.metrics.RecordAuthEvent(event, success)
}
