package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/config"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/models"
)

// ErrInvalidSigningMethod is returned by the key function for any non-HMAC token.
var ErrInvalidSigningMethod = errors.New("invalid signing method")

// Claims represents the claims in a JWT token. The private claims are
// limited to the user id and role.
type Claims struct {
	ID   int64       `json:"id"`
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenPair holds the tokens issued on register and login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenVerifier verifies access tokens presented on protected routes.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*Claims, bool)
}

// TokenService issues and verifies access and refresh JWTs.
type TokenService struct {
	config *config.JWTSettings
	now    func() time.Time
}

// NewTokenService creates a new TokenService instance
func NewTokenService(cfg *config.JWTSettings) *TokenService {
	return &TokenService{
		config: cfg,
		now:    time.Now,
	}
}

// IssueAccessToken generates a new access token for a user
func (s *TokenService) IssueAccessToken(id int64, role models.Role) (string, error) {
	return s.issue(id, role, s.config.AccessSecret, s.config.AccessExpiry)
}

// IssueRefreshToken generates a new refresh token for a user
func (s *TokenService) IssueRefreshToken(id int64, role models.Role) (string, error) {
	return s.issue(id, role, s.config.RefreshSecret, s.config.RefreshExpiry)
}

// IssueTokenPair generates both tokens for a user
func (s *TokenService) IssueTokenPair(id int64, role models.Role) (*TokenPair, error) {
	access, err := s.IssueAccessToken(id, role)
	if err != nil {
		return nil, err
	}

	refresh, err := s.IssueRefreshToken(id, role)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccessToken verifies a token against the access secret
func (s *TokenService) VerifyAccessToken(token string) (*Claims, bool) {
	return s.Verify(token, s.config.AccessSecret)
}

// VerifyRefreshToken verifies a token against the refresh secret
func (s *TokenService) VerifyRefreshToken(token string) (*Claims, bool) {
	return s.Verify(token, s.config.RefreshSecret)
}

// Verify checks the signature, expiry and not-before of token using secret.
// Any failure yields nil and false.
func (s *TokenService) Verify(token, secret string) (*Claims, bool) {
	if token == "" || secret == "" {
		return nil, false
	}

	parser := jwt.Parser{
		ValidMethods: []string{jwt.SigningMethodHS256.Alg()},
	}

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, false
	}

	return claims, true
}

// issue creates a signed token with the provided parameters
func (s *TokenService) issue(id int64, role models.Role, secret string, expiry time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("token secret is not configured")
	}

	now := s.now()
	claims := Claims{
		ID:   id,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
