package database

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"socialcore/internal/core/account"
	"socialcore/internal/core/micropost"
	"socialcore/internal/core/relationship"
	"socialcore/internal/core/storage"
)

// Migrate creates or updates the tables of every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&account.Account{},
		&relationship.Relationship{},
		&micropost.Micropost{},
	)
}

// forUpdate locks the selected rows where the dialect supports it.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// wrap turns gorm failures into storage errors and lets domain errors through.
func wrap(op string, err error, domain ...error) error {
	if err == nil {
		return nil
	}
	var se *storage.Error
	if errors.As(err, &se) {
		return err
	}
	for _, d := range domain {
		if errors.Is(err, d) {
			return err
		}
	}
	return storage.Wrap(op, err)
}
