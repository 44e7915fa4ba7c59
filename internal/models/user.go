package models

import (
	"time"
)

// Role is the account type of a user.
type Role string

// Known roles.
const (
	RoleEmployer  Role = "employer"
	RoleCandidate Role = "candidate"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleEmployer || r == RoleCandidate
}

// User represents a registered user of the job board.
// The password hash and reset token fields never leave the server.
type User struct {
	ID                   int64      `json:"id" db:"id"`
	Name                 string     `json:"name" db:"name"`
	Email                string     `json:"email" db:"email"`
	PasswordHash         string     `json:"-" db:"password_hash"`
	Role                 Role       `json:"role" db:"role"`
	PasswordResetToken   *string    `json:"-" db:"password_reset_token"`
	PasswordResetExpires *time.Time `json:"-" db:"password_reset_expires"`
	CreatedAt            time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time  `json:"updatedAt" db:"updated_at"`
}

// NewUser creates a new User with the given identity. The password hash is set
// during registration.
func NewUser(name, email string, role Role) *User {
	now := time.Now()
	return &User{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TableName returns the database table name for the User model.
func (u *User) TableName() string {
	return "users"
}

// HasRole reports whether the user has the given role.
func (u *User) HasRole(role Role) bool {
	return u != nil && u.Role == role
}

// Summary returns the public part of the user shown alongside jobs.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserSummary is the public identity of a user embedded in other resources.
type UserSummary struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

// RegisterRequest represents the data required for user registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     Role   `json:"role" validate:"required,oneof=employer candidate"`
}

// LoginRequest represents the login credentials provided by a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token exchanged for a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AccessTokenResponse is returned by refresh.
type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}
