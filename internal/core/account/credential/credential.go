// Package credential derives and verifies salted password hashes.
//
// A salt is the digest of the creation time and the first password. The stored
// hash is the digest of salt + "--" + password. Plaintext passwords never leave
// this package in any other form.
package credential

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"socialcore/internal/core/account"
)

const separator = "--"

// Digest returns the lowercase hex SHA-256 of s.
func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func GenerateSalt(now time.Time, password string) string {
	return Digest(now.UTC().String() + separator + password)
}

func Encrypt(salt, plaintext string) string {
	return Digest(salt + separator + plaintext)
}

type Manager struct {
	now func() time.Time
}

func NewManager() *Manager {
	return &Manager{now: time.Now}
}

// NewManagerWithClock is used where the salt must be reproducible.
func NewManagerWithClock(now func() time.Time) *Manager {
	return &Manager{now: now}
}

// Prepare runs before an account is written. A new account gets its salt here
// and only here; any save that carries a plaintext password re-hashes it with
// the account's existing salt.
func (m *Manager) Prepare(acc *account.Account, password string) {
	if acc.IsNew() {
		acc.Salt = GenerateSalt(m.now(), password)
	}
	if password != "" {
		acc.EncryptedPassword = Encrypt(acc.Salt, password)
	}
}

// Verify reports whether submitted is the account's password. A nil account never verifies.
func (m *Manager) Verify(acc *account.Account, submitted string) bool {
	if acc == nil {
		return false
	}
	return Equal(Encrypt(acc.Salt, submitted), acc.EncryptedPassword)
}

// Equal compares two secrets in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
