package handlers

import (
	"net/http"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/models"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

// AuthHandler handles authentication-related routes
type AuthHandler struct {
	authService AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService AuthService) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	return &AuthHandler{authService: authService}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	_, pair, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusCreated, models.AuthResponse{
		Message:      constants.MsgUserRegistered,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	_, pair, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.AuthResponse{
		Message:      constants.MsgLoginSuccessful,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// RefreshToken exchanges a refresh token for a new access token.
// A missing or unreadable body is treated as a missing token.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Unauthorized(w, constants.MsgRefreshTokenRequired)
		return
	}

	accessToken, err := h.authService.RefreshAccess(r.Context(), req.RefreshToken)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.AccessTokenResponse{AccessToken: accessToken})
}

// ForgotPassword starts the password reset flow
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		respondError(w, r, err)
		return
	}

	utils.Message(w, http.StatusOK, constants.MsgResetTokenSent)
}

// ResetPassword completes the password reset flow
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		respondError(w, r, err)
		return
	}

	utils.Message(w, http.StatusOK, constants.MsgPasswordReset)
}
