package models

// ForgotPasswordRequest defines the structure for requesting a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the structure for resetting a password with a token.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required,notblank"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}
