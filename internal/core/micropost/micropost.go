package micropost

import (
	"time"

	"github.com/gofrs/uuid"
)

const ContentMaxLength = 140

type Micropost struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	Content   string    `gorm:"type:text;not null"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
