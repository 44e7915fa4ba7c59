// Package auth provides authentication and authorization functionality for the job board API.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/models"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

// contextKey is unexported so no other package can read or overwrite the
// authenticated user.
type contextKey struct{}

var userContextKey = contextKey{}

// UserLoader loads the user named by a verified token.
type UserLoader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// Guard authenticates requests carrying a bearer access token and attaches
// the stored user record to the request context.
type Guard struct {
	tokens TokenVerifier
	users  UserLoader
}

// NewGuard creates a Guard.
//
// Parameters:
//   - tokens: verifies access tokens
//   - users: loads the user named by the token claims
//
// Returns:
//   - A Guard ready to wrap protected routes
func NewGuard(tokens TokenVerifier, users UserLoader) *Guard {
	return &Guard{
		tokens: tokens,
		users:  users,
	}
}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user stored by WithUser.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok && user != nil
}

// RequireAuth is a middleware that rejects requests without a valid bearer
// token for an existing user.
//
// Responses on failure:
//   - 401 unauthorized when the header is missing or not a bearer token
//   - 401 token_invalid when the token does not verify
//   - 404 not_found when the token subject no longer exists
//   - 500 when the user lookup fails
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			utils.Unauthorized(w, constants.MsgNoToken)
			return
		}

		claims, ok := g.tokens.VerifyAccessToken(token)
		if !ok {
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("Rejected invalid access token")
			utils.Error(w, http.StatusUnauthorized, constants.CodeTokenInvalid, constants.MsgTokenNotValid, nil)
			return
		}

		user, err := g.users.FindByID(r.Context(), claims.ID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				utils.NotFound(w, constants.MsgUserNotFound)
				return
			}
			utils.InternalServerError(w, err)
			return
		}
		if user == nil {
			utils.NotFound(w, constants.MsgUserNotFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// OptionalAuth is a middleware that attaches the user when a valid bearer
// token is present and otherwise lets the request through anonymously.
func (g *Guard) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, ok := g.tokens.VerifyAccessToken(token)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		user, err := g.users.FindByID(r.Context(), claims.ID)
		if err != nil || user == nil {
			if err != nil && !errors.Is(err, utils.ErrNotFound) {
				log.Warn().Err(err).Int64("user_id", claims.ID).Msg("Optional authentication lookup failed")
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(constants.HeaderAuthorization)
	if !strings.HasPrefix(header, constants.BearerTokenPrefix) {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, constants.BearerTokenPrefix))
	if token == "" {
		return "", false
	}
	return token, true
}
