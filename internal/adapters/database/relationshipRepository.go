package database

import (
	"context"
	"errors"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"socialcore/internal/core/account"
	"socialcore/internal/core/relationship"
)

// RelationshipRepositoryDatabase implements RelationshipRepository on gorm.
type RelationshipRepositoryDatabase struct {
	DB *gorm.DB
}

func NewRelationshipRepositoryDatabase(db *gorm.DB) *RelationshipRepositoryDatabase {
	return &RelationshipRepositoryDatabase{DB: db}
}

func (repo *RelationshipRepositoryDatabase) Create(ctx context.Context, r *relationship.Relationship) error {
	err := repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := edgeExists(tx, r.FollowerID, r.FollowedID)
		if err != nil {
			return err
		}
		if exists {
			return relationship.ErrAlreadyFollowing
		}
		if err := tx.Create(r).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return relationship.ErrAlreadyFollowing
			}
			return err
		}
		return nil
	})
	return wrap("relationship.create", err, relationship.ErrAlreadyFollowing)
}

func (repo *RelationshipRepositoryDatabase) Delete(ctx context.Context, followerID, followedID uuid.UUID) error {
	res := repo.DB.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&relationship.Relationship{})
	if res.Error != nil {
		return wrap("relationship.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return relationship.ErrEdgeNotFound
	}
	return nil
}

func (repo *RelationshipRepositoryDatabase) Exists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	exists, err := edgeExists(repo.DB.WithContext(ctx), followerID, followedID)
	return exists, wrap("relationship.exists", err)
}

func (repo *RelationshipRepositoryDatabase) Following(ctx context.Context, followerID uuid.UUID) ([]*account.Account, error) {
	var accounts []*account.Account
	err := repo.DB.WithContext(ctx).
		Joins("JOIN relationships ON relationships.followed_id = accounts.id").
		Where("relationships.follower_id = ?", followerID).
		Order("relationships.created_at, accounts.id").
		Find(&accounts).Error
	if err != nil {
		return nil, wrap("relationship.following", err)
	}
	return accounts, nil
}

func (repo *RelationshipRepositoryDatabase) Followers(ctx context.Context, followedID uuid.UUID) ([]*account.Account, error) {
	var accounts []*account.Account
	err := repo.DB.WithContext(ctx).
		Joins("JOIN relationships ON relationships.follower_id = accounts.id").
		Where("relationships.followed_id = ?", followedID).
		Order("relationships.created_at, accounts.id").
		Find(&accounts).Error
	if err != nil {
		return nil, wrap("relationship.followers", err)
	}
	return accounts, nil
}

func edgeExists(tx *gorm.DB, followerID, followedID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&relationship.Relationship{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}
