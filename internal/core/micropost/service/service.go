package micropostapp

import (
	"context"
	"iter"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"socialcore/internal/core/account"
	"socialcore/internal/core/micropost"
	accountPort "socialcore/internal/ports/account"
	micropostPort "socialcore/internal/ports/micropost"
)

const DefaultPageSize = 50

type MicropostService struct {
	MicropostRepository micropostPort.MicropostRepository
	AccountRepository   accountPort.AccountRepository
	AuthorIndex         micropostPort.AuthorIndex // optional
	PageSize            int64
	Logger              *zap.Logger
}

func NewMicropostService(
	repo micropostPort.MicropostRepository,
	accountRepo accountPort.AccountRepository,
	authorIndex micropostPort.AuthorIndex,
	pageSize int,
	logger *zap.Logger,
) *MicropostService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &MicropostService{
		MicropostRepository: repo,
		AccountRepository:   accountRepo,
		AuthorIndex:         authorIndex,
		PageSize:            int64(pageSize),
		Logger:              logger,
	}
}

// CreateMicropost stores a post authored by authorID.
func (s *MicropostService) CreateMicropost(ctx context.Context, authorID, content string) (*micropost.Micropost, error) {
	uid, err := s.existing(ctx, authorID)
	if err != nil {
		return nil, err
	}

	verr, err := account.NewValidationError(micropost.CreateRequest{Content: content}.Validate())
	if err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	p := &micropost.Micropost{
		ID:      uuid.Must(uuid.NewV4()),
		Content: content,
		UserID:  uid,
	}
	if err := s.MicropostRepository.Create(ctx, p); err != nil {
		s.Logger.Error("❌ Failed to create micropost", zap.String("userID", authorID), zap.Error(err))
		return nil, err
	}

	if s.AuthorIndex != nil {
		if err := s.AuthorIndex.Push(ctx, p); err != nil {
			// The index is rebuilt from the database on the next miss.
			s.Logger.Warn("⚠️ Could not push micropost to author index", zap.String("postID", p.ID.String()), zap.Error(err))
			if err := s.AuthorIndex.Forget(ctx, uid); err != nil {
				s.Logger.Warn("⚠️ Could not drop stale author index", zap.String("userID", authorID), zap.Error(err))
			}
		}
	}

	s.Logger.Info("✅ Created micropost", zap.String("postID", p.ID.String()), zap.String("userID", authorID))
	return p, nil
}

// Feed returns the posts authored by accountID. Aggregation over followed
// accounts is not part of the feed.
func (s *MicropostService) Feed(ctx context.Context, accountID string) (*Feed, error) {
	uid, err := s.existing(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &Feed{authorID: uid, service: s}, nil
}

// FeedPage is Feed followed by Page.
func (s *MicropostService) FeedPage(ctx context.Context, accountID string, start, limit int64) ([]*micropost.Micropost, error) {
	feed, err := s.Feed(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return feed.Page(ctx, start, limit)
}

func (s *MicropostService) existing(ctx context.Context, id string) (uuid.UUID, error) {
	uid, err := uuid.FromString(id)
	if err != nil {
		return uuid.Nil, account.ErrNotFound
	}
	if _, err := s.AccountRepository.FindByID(ctx, uid); err != nil {
		return uuid.Nil, err
	}
	return uid, nil
}

// Feed is a restartable query over one author's posts, newest first.
// Nothing is fetched until Page or All runs.
type Feed struct {
	authorID uuid.UUID
	service  *MicropostService
}

// All pages through the whole feed lazily. Each call starts a fresh query.
func (f *Feed) All(ctx context.Context) iter.Seq2[*micropost.Micropost, error] {
	return func(yield func(*micropost.Micropost, error) bool) {
		size := f.service.PageSize
		var start int64
		for {
			page, err := f.Page(ctx, start, size)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, p := range page {
				if !yield(p, nil) {
					return
				}
			}
			if int64(len(page)) < size {
				return
			}
			start += size
		}
	}
}

// Page returns up to limit posts starting at offset start. A limit <= 0 returns the rest.
func (f *Feed) Page(ctx context.Context, start, limit int64) ([]*micropost.Micropost, error) {
	if start < 0 {
		start = 0
	}
	s := f.service
	if s.AuthorIndex == nil {
		return s.MicropostRepository.FindByUserID(ctx, f.authorID, start, limit)
	}

	ids, ok, err := s.AuthorIndex.Page(ctx, f.authorID, start, limit)
	if err != nil {
		s.Logger.Warn("⚠️ Author index unavailable, reading from database", zap.String("userID", f.authorID.String()), zap.Error(err))
		return s.MicropostRepository.FindByUserID(ctx, f.authorID, start, limit)
	}
	if ok {
		return f.hydrate(ctx, ids)
	}

	// Posts created while the database is read are pushed into the index
	// being rebuilt, so the snapshot below cannot drop them.
	if err := s.AuthorIndex.MarkRebuilding(ctx, f.authorID); err != nil {
		s.Logger.Warn("⚠️ Could not start author index rebuild, reading from database", zap.String("userID", f.authorID.String()), zap.Error(err))
		return s.MicropostRepository.FindByUserID(ctx, f.authorID, start, limit)
	}
	all, err := s.MicropostRepository.FindByUserID(ctx, f.authorID, 0, 0)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorIndex.Rebuild(ctx, f.authorID, all); err != nil {
		s.Logger.Warn("⚠️ Could not rebuild author index", zap.String("userID", f.authorID.String()), zap.Error(err))
	}
	return window(all, start, limit), nil
}

// hydrate loads ids from the database keeping their order. Ids whose post is
// gone are skipped.
func (f *Feed) hydrate(ctx context.Context, ids []uuid.UUID) ([]*micropost.Micropost, error) {
	found, err := f.service.MicropostRepository.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*micropost.Micropost, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	posts := make([]*micropost.Micropost, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			f.service.Logger.Debug("Post in author index not found in database", zap.String("postID", id.String()))
			continue
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func window(posts []*micropost.Micropost, start, limit int64) []*micropost.Micropost {
	n := int64(len(posts))
	if start >= n {
		return []*micropost.Micropost{}
	}
	end := n
	if limit > 0 && start+limit < n {
		end = start + limit
	}
	return posts[start:end]
}
