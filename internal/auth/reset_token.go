package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/models"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

// ResetToken is a freshly generated password reset token. Raw is mailed to the
// user, Hash and ExpiresAt are persisted.
type ResetToken struct {
	Raw       string
	Hash      string
	ExpiresAt time.Time
}

// ResetTokenLookup resolves the user whose stored reset hash equals hash and
// has not expired at now.
type ResetTokenLookup func(ctx context.Context, hash string, now time.Time) (*models.User, error)

// ResetTokenService generates and consumes one-time password reset tokens.
type ResetTokenService struct {
	ttl time.Duration
	now func() time.Time
}

// NewResetTokenService creates a ResetTokenService with the given token lifetime
func NewResetTokenService(ttl time.Duration) *ResetTokenService {
	if ttl <= 0 {
		ttl = constants.DefaultResetTokenTTL
	}
	return &ResetTokenService{
		ttl: ttl,
		now: time.Now,
	}
}

// TTL returns the lifetime of generated tokens.
func (s *ResetTokenService) TTL() time.Duration {
	return s.ttl
}

// Generate creates a new random reset token
func (s *ResetTokenService) Generate() (*ResetToken, error) {
	b, err := GenerateRandomBytes(constants.ResetTokenBytes)
	if err != nil {
		return nil, err
	}

	raw := hex.EncodeToString(b)
	return &ResetToken{
		Raw:       raw,
		Hash:      HashResetToken(raw),
		ExpiresAt: s.now().Add(s.ttl),
	}, nil
}

// Lookup reports the user a raw token currently belongs to without using it
// up. Unknown and expired tokens are both reported as utils.ErrInvalidResetToken.
func (s *ResetTokenService) Lookup(ctx context.Context, raw string, lookup ResetTokenLookup) (*models.User, error) {
	return s.resolve(ctx, raw, lookup)
}

// Consume redeems a raw token through redeem, which must check and clear the
// stored hash in one atomic step. Errors map like Lookup.
func (s *ResetTokenService) Consume(ctx context.Context, raw string, redeem ResetTokenLookup) (*models.User, error) {
	return s.resolve(ctx, raw, redeem)
}

func (s *ResetTokenService) resolve(ctx context.Context, raw string, fn ResetTokenLookup) (*models.User, error) {
	if raw == "" {
		return nil, utils.ErrInvalidResetToken
	}

	user, err := fn(ctx, HashResetToken(raw), s.now())
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.ErrInvalidResetToken
		}
		return nil, err
	}
	if user == nil {
		return nil, utils.ErrInvalidResetToken
	}

	return user, nil
}

// HashResetToken returns the hex encoded SHA-256 of a raw reset token
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
