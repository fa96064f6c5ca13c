package database

import (
	"context"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"socialcore/internal/core/micropost"
)

// MicropostRepositoryDatabase implements MicropostRepository on gorm.
type MicropostRepositoryDatabase struct {
	DB *gorm.DB
}

func NewMicropostRepositoryDatabase(db *gorm.DB) *MicropostRepositoryDatabase {
	return &MicropostRepositoryDatabase{DB: db}
}

func (repo *MicropostRepositoryDatabase) Create(ctx context.Context, p *micropost.Micropost) error {
	return wrap("micropost.create", repo.DB.WithContext(ctx).Create(p).Error)
}

func (repo *MicropostRepositoryDatabase) FindByUserID(ctx context.Context, userID uuid.UUID, start, limit int64) ([]*micropost.Micropost, error) {
	var posts []*micropost.Micropost
	q := repo.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")
	if start > 0 {
		q = q.Offset(int(start))
	}
	if limit > 0 {
		q = q.Limit(int(limit))
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, wrap("micropost.find_by_user_id", err)
	}
	return posts, nil
}

func (repo *MicropostRepositoryDatabase) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*micropost.Micropost, error) {
	var posts []*micropost.Micropost
	if len(ids) == 0 {
		return posts, nil
	}
	if err := repo.DB.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, wrap("micropost.find_by_ids", err)
	}
	return posts, nil
}
