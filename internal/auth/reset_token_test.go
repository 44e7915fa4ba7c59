package auth_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/auth"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/models"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

func TestResetTokenService_Generate(t *testing.T) {
	service := auth.NewResetTokenService(time.Hour)

	before := time.Now()
	token, err := service.Generate()
	require.NoError(t, err)

	assert.Len(t, token.Raw, 64)
	_, err = hex.DecodeString(token.Raw)
	assert.NoError(t, err, "raw token should be hex")

	sum := sha256.Sum256([]byte(token.Raw))
	assert.Equal(t, hex.EncodeToString(sum[:]), token.Hash)
	assert.WithinDuration(t, before.Add(time.Hour), token.ExpiresAt, 2*time.Second)

	other, err := service.Generate()
	require.NoError(t, err)
	assert.NotEqual(t, token.Raw, other.Raw)
}

func TestNewResetTokenService_DefaultTTL(t *testing.T) {
	assert.Equal(t, time.Hour, auth.NewResetTokenService(0).TTL())
	assert.Equal(t, 30*time.Minute, auth.NewResetTokenService(30*time.Minute).TTL())
}

func TestHashResetToken_Deterministic(t *testing.T) {
	assert.Equal(t, auth.HashResetToken("abc"), auth.HashResetToken("abc"))
	assert.NotEqual(t, auth.HashResetToken("abc"), auth.HashResetToken("abd"))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", auth.HashResetToken("abc"))
}

func TestResetTokenService_Consume(t *testing.T) {
	service := auth.NewResetTokenService(time.Hour)
	token, err := service.Generate()
	require.NoError(t, err)

	stored := &models.User{ID: 5, Email: "user@example.com"}
	expires := token.ExpiresAt

	// Mirrors the store query: hash match and expiry in the future.
	lookup := func(_ context.Context, hash string, now time.Time) (*models.User, error) {
		if hash == token.Hash && expires.After(now) {
			return stored, nil
		}
		return nil, utils.NewNotFoundMessage("no user")
	}

	t.Run("valid token", func(t *testing.T) {
		user, err := service.Consume(context.Background(), token.Raw, lookup)
		require.NoError(t, err)
		assert.Equal(t, stored, user)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := service.Consume(context.Background(), "deadbeef", lookup)
		assert.ErrorIs(t, err, utils.ErrInvalidResetToken)
	})

	t.Run("empty token", func(t *testing.T) {
		called := false
		_, err := service.Consume(context.Background(), "", func(context.Context, string, time.Time) (*models.User, error) {
			called = true
			return stored, nil
		})
		assert.ErrorIs(t, err, utils.ErrInvalidResetToken)
		assert.False(t, called, "lookup must not run for an empty token")
	})

	t.Run("expired token", func(t *testing.T) {
		expires = time.Now().Add(-time.Minute)
		defer func() { expires = token.ExpiresAt }()

		_, err := service.Consume(context.Background(), token.Raw, lookup)
		assert.ErrorIs(t, err, utils.ErrInvalidResetToken)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		boom := errors.New("connection reset")
		_, err := service.Consume(context.Background(), token.Raw, func(context.Context, string, time.Time) (*models.User, error) {
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, utils.ErrInvalidResetToken)
	})
}

func TestResetTokenService_LookupLeavesTokenUsable(t *testing.T) {
	service := auth.NewResetTokenService(time.Hour)
	token, err := service.Generate()
	require.NoError(t, err)

	stored := &models.User{ID: 5}
	current := token.Hash

	lookup := func(_ context.Context, hash string, _ time.Time) (*models.User, error) {
		if hash == current {
			return stored, nil
		}
		return nil, utils.NewNotFoundMessage("no user")
	}
	redeem := func(ctx context.Context, hash string, now time.Time) (*models.User, error) {
		user, err := lookup(ctx, hash, now)
		if err == nil {
			current = ""
		}
		return user, err
	}

	_, err = service.Lookup(context.Background(), token.Raw, lookup)
	require.NoError(t, err)
	_, err = service.Lookup(context.Background(), token.Raw, lookup)
	require.NoError(t, err)

	user, err := service.Consume(context.Background(), token.Raw, redeem)
	require.NoError(t, err)
	assert.Equal(t, stored, user)

	_, err = service.Consume(context.Background(), token.Raw, redeem)
	assert.ErrorIs(t, err, utils.ErrInvalidResetToken)
	_, err = service.Lookup(context.Background(), token.Raw, lookup)
	assert.ErrorIs(t, err, utils.ErrInvalidResetToken)
}
