package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const minPasswordLength = 8

// PasswordHasher is the one-way credential capability. Implementations must
// use a salted, computationally expensive function; the stored hash embeds
// whatever parameters Verify needs.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// User is the aggregate root for identity. PasswordHash is only ever written
// through SetPassword; raw passwords never persist.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	DateJoined   time.Time `json:"date_joined"`
}

// NewUser validates and normalizes identity fields: the email is lowercased
// and must contain a domain separator, the full name is stored trimmed.
func NewUser(email, fullName string) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, NewValidationError("email", "must not be empty")
	}
	if !strings.Contains(email, "@") {
		return nil, NewValidationError("email", "must be a valid email address")
	}

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, NewValidationError("full_name", "must not be empty")
	}

	return &User{
		ID:         uuid.NewString(),
		Email:      email,
		FullName:   fullName,
		IsActive:   true,
		DateJoined: time.Now().UTC(),
	}, nil
}

// SetPassword hashes raw through the given hasher and stores the result.
func (u *User) SetPassword(raw string, hasher PasswordHasher) error {
	if utf8.RuneCountInString(raw) < minPasswordLength {
		return NewValidationError("password", "must be at least 8 characters")
	}
	hash, err := hasher.Hash(raw)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword reports whether raw matches the stored hash. The comparison
// is fully delegated to the hasher.
func (u *User) CheckPassword(raw string, hasher PasswordHasher) bool {
	return hasher.Verify(u.PasswordHash, raw)
}

// Equal reports identity equality: two users are the same iff their IDs match.
func (u *User) Equal(other *User) bool {
	return other != nil && u.ID == other.ID
}

// NormalizeEmail applies the same normalization NewUser applies, so lookups
// against the store match what registration persisted.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
