package account

import (
	"context"
	"time"

	"socialcore/internal/core/account"

	"github.com/gofrs/uuid"
)

// AccountRepository is the port for storing and loading accounts.
// Lookups return account.ErrNotFound when no row matches.
type AccountRepository interface {
	// Create inserts acc; it returns account.ErrEmailTaken when the email key is in use.
	Create(ctx context.Context, acc *account.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*account.Account, error)
	// Update loads the row, applies mutate and saves it in one transaction.
	Update(ctx context.Context, id uuid.UUID, mutate func(*account.Account) error) (*account.Account, error)
	// Destroy removes the account together with its relationships in both
	// directions and its microposts.
	Destroy(ctx context.Context, id uuid.UUID) error
}

type AccountDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func ToDTO(a *account.Account) *AccountDTO {
	return &AccountDTO{
		ID:        a.ID.String(),
		Name:      a.Name,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}

func ToDTOs(accounts []*account.Account) []*AccountDTO {
	out := make([]*AccountDTO, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, ToDTO(a))
	}
	return out
}

type SessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expiresAt"`
	Account   *AccountDTO `json:"account"`
}
