package database

import (
	"context"
	"errors"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"socialcore/internal/core/account"
	"socialcore/internal/core/micropost"
	"socialcore/internal/core/relationship"
)

// AccountRepositoryDatabase implements AccountRepository on gorm.
type AccountRepositoryDatabase struct {
	DB *gorm.DB
}

func NewAccountRepositoryDatabase(db *gorm.DB) *AccountRepositoryDatabase {
	return &AccountRepositoryDatabase{DB: db}
}

func (repo *AccountRepositoryDatabase) Create(ctx context.Context, acc *account.Account) error {
	err := repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, acc.EmailKey, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return account.ErrEmailTaken
		}
		if err := tx.Create(acc).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return account.ErrEmailTaken
			}
			return err
		}
		return nil
	})
	return wrap("account.create", err, account.ErrEmailTaken)
}

func (repo *AccountRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var acc account.Account
	if err := repo.DB.WithContext(ctx).Where("id = ?", id).First(&acc).Error; err != nil {
		return nil, notFound("account.find_by_id", err)
	}
	return &acc, nil
}

func (repo *AccountRepositoryDatabase) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	var acc account.Account
	if err := repo.DB.WithContext(ctx).Where("email_key = ?", account.NormalizeEmail(email)).First(&acc).Error; err != nil {
		return nil, notFound("account.find_by_email", err)
	}
	return &acc, nil
}

func (repo *AccountRepositoryDatabase) Update(ctx context.Context, id uuid.UUID, mutate func(*account.Account) error) (*account.Account, error) {
	var acc account.Account
	err := repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).Where("id = ?", id).First(&acc).Error; err != nil {
			return notFound("account.update", err)
		}
		if err := mutate(&acc); err != nil {
			return err
		}
		taken, err := emailTaken(tx, acc.EmailKey, acc.ID)
		if err != nil {
			return err
		}
		if taken {
			return account.ErrEmailTaken
		}
		if err := tx.Save(&acc).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return account.ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, wrap("account.update", err, account.ErrNotFound, account.ErrEmailTaken)
	}
	return &acc, nil
}

// Destroy deletes the account's edges in both directions and its microposts
// before the account row, all in one transaction.
func (repo *AccountRepositoryDatabase) Destroy(ctx context.Context, id uuid.UUID) error {
	err := repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var acc account.Account
		if err := forUpdate(tx).Where("id = ?", id).First(&acc).Error; err != nil {
			return notFound("account.destroy", err)
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", id, id).Delete(&relationship.Relationship{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&micropost.Micropost{}).Error; err != nil {
			return err
		}
		return tx.Delete(&acc).Error
	})
	return wrap("account.destroy", err, account.ErrNotFound)
}

func emailTaken(tx *gorm.DB, emailKey string, except uuid.UUID) (bool, error) {
	var count int64
	q := tx.Model(&account.Account{}).Where("email_key = ?", emailKey)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func notFound(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return account.ErrNotFound
	}
	return wrap(op, err)
}
