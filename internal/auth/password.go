package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/config"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
)

// ErrInvalidHash is returned when an encoded argon2id hash cannot be parsed.
var ErrInvalidHash = errors.New("invalid encoded hash")

const argon2idPrefix = "$argon2id$"

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) bool
}

// PasswordConfig holds the parameters for the Argon2id password hashing algorithm
type PasswordConfig struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultPasswordConfig returns the default configuration for Argon2id hashing
func DefaultPasswordConfig() *PasswordConfig {
	return &PasswordConfig{
		Memory:      constants.DefaultPasswordHashMemory,
		Iterations:  constants.DefaultPasswordHashIterations,
		Parallelism: constants.DefaultPasswordHashParallelism,
		SaltLength:  constants.DefaultPasswordHashSaltLength,
		KeyLength:   constants.DefaultPasswordHashKeyLength,
	}
}

// passwordHasher creates new hashes with the configured algorithm and
// verifies hashes of either algorithm.
type passwordHasher struct {
	algorithm  string
	bcryptCost int
	argon      *PasswordConfig
}

// NewPasswordHasher creates a PasswordHasher from the hash settings
func NewPasswordHasher(cfg *config.HashSettings) PasswordHasher {
	argon := DefaultPasswordConfig()
	if cfg.Memory > 0 {
		argon.Memory = cfg.Memory
	}
	if cfg.Iterations > 0 {
		argon.Iterations = cfg.Iterations
	}
	if cfg.Parallelism > 0 {
		argon.Parallelism = cfg.Parallelism
	}
	if cfg.SaltLength > 0 {
		argon.SaltLength = cfg.SaltLength
	}
	if cfg.KeyLength > 0 {
		argon.KeyLength = cfg.KeyLength
	}

	cost := cfg.BcryptCost
	if cost < constants.MinBcryptCost {
		cost = constants.MinBcryptCost
	}

	algorithm := cfg.Algorithm
	if algorithm == "" {
		algorithm = constants.HashAlgorithmBcrypt
	}

	return &passwordHasher{
		algorithm:  algorithm,
		bcryptCost: cost,
		argon:      argon,
	}
}

// Hash generates a hash of the provided password
func (h *passwordHasher) Hash(plain string) (string, error) {
	if h.algorithm == constants.HashAlgorithmArgon2id {
		return HashArgon2id(plain, h.argon)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify compares a password with an encoded hash of either algorithm
func (h *passwordHasher) Verify(plain, encoded string) bool {
	switch {
	case strings.HasPrefix(encoded, argon2idPrefix):
		ok, err := VerifyArgon2id(plain, encoded)
		return err == nil && ok
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain)) == nil
	default:
		return false
	}
}

// HashArgon2id hashes a password with Argon2id and returns it in PHC format
func HashArgon2id(password string, cfg *PasswordConfig) (string, error) {
	salt, err := GenerateRandomBytes(cfg.SaltLength)
	if err != nil {
		return "", err
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		cfg.Iterations,
		cfg.Memory,
		cfg.Parallelism,
		cfg.KeyLength,
	)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix,
		argon2.Version,
		cfg.Memory,
		cfg.Iterations,
		cfg.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyArgon2id compares a password with a PHC encoded Argon2id hash
func VerifyArgon2id(password, encoded string) (bool, error) {
	cfg, salt, hash, err := decodeArgon2id(encoded)
	if err != nil {
		return false, err
	}

	comparisonHash := argon2.IDKey(
		[]byte(password),
		salt,
		cfg.Iterations,
		cfg.Memory,
		cfg.Parallelism,
		uint32(len(hash)),
	)

	// Use constant-time comparison to avoid timing attacks
	return subtle.ConstantTimeCompare(hash, comparisonHash) == 1, nil
}

func decodeArgon2id(encoded string) (*PasswordConfig, []byte, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, ErrInvalidHash
	}
	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("%w: unsupported argon2 version %d", ErrInvalidHash, version)
	}

	cfg := &PasswordConfig{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &cfg.Memory, &cfg.Iterations, &cfg.Parallelism); err != nil {
		return nil, nil, nil, ErrInvalidHash
	}
	if cfg.Iterations == 0 || cfg.Parallelism == 0 {
		return nil, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to decode hash: %w", err)
	}
	if len(hash) == 0 {
		return nil, nil, nil, ErrInvalidHash
	}
	cfg.SaltLength = uint32(len(salt))
	cfg.KeyLength = uint32(len(hash))

	return cfg, salt, hash, nil
}

// GenerateRandomBytes generates cryptographically secure random bytes
func GenerateRandomBytes(length uint32) ([]byte, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
