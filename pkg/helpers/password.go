package helpers

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/vital-identity/pkg/apperr"
)

const (
	DefaultPasswordMinLength = 6
	DefaultPasswordMaxLength = 20
	DefaultBcryptCost        = 10
)

// CredentialManager hashes, verifies and rotates passwords. Hashes are bcrypt strings
// and carry their own salt and cost.
type CredentialManager struct {
	MinLength int
	MaxLength int
	Cost      int
}

func NewCredentialManager(minLength, maxLength, cost int) *CredentialManager {
	if minLength <= 0 {
		minLength = DefaultPasswordMinLength
	}
	if maxLength < minLength {
		maxLength = DefaultPasswordMaxLength
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &CredentialManager{MinLength: minLength, MaxLength: maxLength, Cost: cost}
}

// Set validates the length of plain and returns its bcrypt hash.
func (m *CredentialManager) Set(plain string) (string, error) {
	if n := utf8.RuneCountInString(plain); n < m.MinLength || n > m.MaxLength {
		return "", apperr.Invalid("password", "password must be between %d and %d characters", m.MinLength, m.MaxLength)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), m.Cost)
	if err != nil {
		return "", apperr.Wrap(err, apperr.Internal, "hash password")
	}
	return string(b), nil
}

// Verify compares a bcrypt hash with a plain password.
func (m *CredentialManager) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Rotate hashes a replacement password, refusing one equal to the current credential.
func (m *CredentialManager) Rotate(plain, currentHash string) (string, error) {
	if m.Verify(plain, currentHash) {
		return "", apperr.Invalid("password", "cannot reuse current credential")
	}
	return m.Set(plain)
}
