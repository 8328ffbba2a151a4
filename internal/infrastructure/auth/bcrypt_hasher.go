package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements domain.PasswordHasher on top of x/crypto's bcrypt,
// which salts each hash and embeds cost + salt in the output string.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher builds a hasher with the given cost. Non-positive costs
// fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether password maps to hash. bcrypt's comparison is
// constant-time over the digest, so a wrong password and a malformed hash
// are indistinguishable to the caller.
func (h *BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
