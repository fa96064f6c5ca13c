package account

import (
	"errors"
	"strings"
	"time"

	"github.com/gofrs/uuid"
)

// ErrNotFound covers both a missing account and a credential mismatch on the
// authentication paths, so callers cannot tell the two apart.
var ErrNotFound = errors.New("account not found")

// ErrEmailTaken is returned by repositories when the email key is already in use.
var ErrEmailTaken = errors.New("email has already been taken")

type Account struct {
	ID                uuid.UUID `gorm:"primary_key;type:char(36)"`
	Name              string    `gorm:"size:50;not null"`
	Email             string    `gorm:"size:255;not null"`
	EmailKey          string    `gorm:"size:255;not null;uniqueIndex"`
	Salt              string    `gorm:"size:64;not null"`
	EncryptedPassword string    `gorm:"size:64;not null"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// IsNew reports whether the account has never been persisted.
func (a *Account) IsNew() bool {
	return a.Salt == ""
}

// SetEmail stores the address as given and the lowercased lookup key.
func (a *Account) SetEmail(email string) {
	a.Email = email
	a.EmailKey = NormalizeEmail(email)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}
