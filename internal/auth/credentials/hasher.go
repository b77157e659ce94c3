package credentials

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher produces salted one-way digests and checks passwords against them.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password string, digest string) bool
}

// BcryptHasher hashes with bcrypt. Each digest embeds its own random salt.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash hashes a plaintext password using bcrypt.
func (h *BcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a plaintext password with a stored digest. bcrypt
// compares in constant time; any malformed digest simply fails.
func (h *BcryptHasher) Verify(password string, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
