package relationship

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
)

var (
	// ErrEdgeNotFound is returned when unfollowing an account that is not followed.
	ErrEdgeNotFound     = errors.New("relationship not found")
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this account")
)

// Relationship is the directed edge "FollowerID follows FollowedID".
type Relationship struct {
	ID         uuid.UUID `gorm:"primary_key;type:char(36)"`
	FollowerID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_follower_followed"`
	FollowedID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_follower_followed;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}
