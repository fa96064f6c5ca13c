package relationship

import (
	"context"

	"socialcore/internal/core/account"
	"socialcore/internal/core/relationship"

	"github.com/gofrs/uuid"
)

// RelationshipRepository is the port for the follow graph.
type RelationshipRepository interface {
	// Create returns relationship.ErrAlreadyFollowing for an existing edge.
	Create(ctx context.Context, r *relationship.Relationship) error
	// Delete removes the edge in one statement and returns
	// relationship.ErrEdgeNotFound when nothing was deleted.
	Delete(ctx context.Context, followerID, followedID uuid.UUID) error
	Exists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	// Following lists the accounts followerID follows.
	Following(ctx context.Context, followerID uuid.UUID) ([]*account.Account, error)
	// Followers lists the accounts following followedID.
	Followers(ctx context.Context, followedID uuid.UUID) ([]*account.Account, error)
}

type FollowStatusDTO struct {
	FollowerID string `json:"follower_id"`
	FollowedID string `json:"followed_id"`
	Following  bool   `json:"following"`
}
