package relationshipapp

import (
	"context"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"socialcore/internal/core/account"
	"socialcore/internal/core/relationship"
	accountPort "socialcore/internal/ports/account"
	relationshipPort "socialcore/internal/ports/relationship"
)

// RelationshipService manages the directed follow graph between accounts.
//
// Policy: following yourself is rejected with relationship.ErrSelfFollow, a
// second follow of the same account with relationship.ErrAlreadyFollowing,
// and unfollowing an account that is not followed with
// relationship.ErrEdgeNotFound.
type RelationshipService struct {
	RelationshipRepository relationshipPort.RelationshipRepository
	AccountRepository      accountPort.AccountRepository
	Logger                 *zap.Logger
}

func NewRelationshipService(
	repo relationshipPort.RelationshipRepository,
	accountRepo accountPort.AccountRepository,
	logger *zap.Logger,
) *RelationshipService {
	return &RelationshipService{
		RelationshipRepository: repo,
		AccountRepository:      accountRepo,
		Logger:                 logger,
	}
}

func (s *RelationshipService) Follow(ctx context.Context, actorID, targetID string) error {
	actor, target, err := s.endpoints(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if actor == target {
		s.Logger.Warn("⚠️ Cannot follow yourself", zap.String("accountID", actorID))
		return relationship.ErrSelfFollow
	}

	r := &relationship.Relationship{
		ID:         uuid.Must(uuid.NewV4()),
		FollowerID: actor,
		FollowedID: target,
	}
	if err := s.RelationshipRepository.Create(ctx, r); err != nil {
		return err
	}

	s.Logger.Info("Followed", zap.String("followerID", actorID), zap.String("followedID", targetID))
	return nil
}

// Unfollow deletes the edge actor -> target.
func (s *RelationshipService) Unfollow(ctx context.Context, actorID, targetID string) error {
	actor, target, ok := parsePair(actorID, targetID)
	if !ok {
		return relationship.ErrEdgeNotFound
	}
	if err := s.RelationshipRepository.Delete(ctx, actor, target); err != nil {
		return err
	}

	s.Logger.Info("Unfollowed", zap.String("followerID", actorID), zap.String("followedID", targetID))
	return nil
}

func (s *RelationshipService) IsFollowing(ctx context.Context, actorID, targetID string) (bool, error) {
	actor, target, ok := parsePair(actorID, targetID)
	if !ok {
		return false, nil
	}
	return s.RelationshipRepository.Exists(ctx, actor, target)
}

// ListFollowing returns the accounts actorID follows.
func (s *RelationshipService) ListFollowing(ctx context.Context, actorID string) ([]*account.Account, error) {
	id, err := s.existing(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.RelationshipRepository.Following(ctx, id)
}

// ListFollowers returns the accounts following actorID.
func (s *RelationshipService) ListFollowers(ctx context.Context, actorID string) ([]*account.Account, error) {
	id, err := s.existing(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.RelationshipRepository.Followers(ctx, id)
}

func (s *RelationshipService) endpoints(ctx context.Context, actorID, targetID string) (uuid.UUID, uuid.UUID, error) {
	actor, err := s.existing(ctx, actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	target, err := s.existing(ctx, targetID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return actor, target, nil
}

func (s *RelationshipService) existing(ctx context.Context, id string) (uuid.UUID, error) {
	uid, err := uuid.FromString(id)
	if err != nil {
		return uuid.Nil, account.ErrNotFound
	}
	if _, err := s.AccountRepository.FindByID(ctx, uid); err != nil {
		return uuid.Nil, err
	}
	return uid, nil
}

func parsePair(a, b string) (uuid.UUID, uuid.UUID, bool) {
	first, err := uuid.FromString(a)
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	second, err := uuid.FromString(b)
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	return first, second, true
}
