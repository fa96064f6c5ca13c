package micropost

import (
	"context"
	"time"

	"socialcore/internal/core/micropost"

	"github.com/gofrs/uuid"
)

// MicropostRepository is the content store keyed by author.
type MicropostRepository interface {
	Create(ctx context.Context, p *micropost.Micropost) error
	// FindByUserID returns the author's posts newest first. A limit <= 0 means no limit.
	FindByUserID(ctx context.Context, userID uuid.UUID, start, limit int64) ([]*micropost.Micropost, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*micropost.Micropost, error)
}

// AuthorIndex caches the ordered post ids of each author.
type AuthorIndex interface {
	// Push adds p to its author's index if the index is complete or being rebuilt.
	Push(ctx context.Context, p *micropost.Micropost) error
	// Page returns ids newest first; ok is false when the author is not indexed.
	Page(ctx context.Context, authorID uuid.UUID, start, limit int64) (ids []uuid.UUID, ok bool, err error)
	// MarkRebuilding starts accepting pushes for an author whose posts are
	// about to be read for Rebuild.
	MarkRebuilding(ctx context.Context, authorID uuid.UUID) error
	// Rebuild merges posts into the author's index and marks it complete.
	Rebuild(ctx context.Context, authorID uuid.UUID, posts []*micropost.Micropost) error
	Forget(ctx context.Context, authorID uuid.UUID) error
}

type MicropostDTO struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func ToDTO(p *micropost.Micropost) *MicropostDTO {
	return &MicropostDTO{
		ID:        p.ID.String(),
		Content:   p.Content,
		UserID:    p.UserID.String(),
		CreatedAt: p.CreatedAt,
	}
}

func ToDTOs(posts []*micropost.Micropost) []*MicropostDTO {
	out := make([]*MicropostDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, ToDTO(p))
	}
	return out
}
