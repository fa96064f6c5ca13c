package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"socialcore/internal/core/micropost"
	"socialcore/internal/core/storage"
)

const (
	keyPrefix  = "microposts:"
	DefaultTTL = 24 * time.Hour
	// RebuildWindow bounds how long pushes keep landing in an index that is
	// being rebuilt from the database.
	RebuildWindow = time.Minute
)

// pushIfIndexed adds a post only to an index that is complete or being
// rebuilt. A partial index would hide older posts from the feed. A set created
// on a complete index takes over the marker's expiry.
var pushIfIndexed = redis.NewScript(`
local indexed = redis.call('EXISTS', KEYS[2]) == 1
if not indexed and redis.call('EXISTS', KEYS[3]) == 0 then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[1], ARGV[2])
if indexed then
	local ttl = redis.call('PTTL', KEYS[2])
	if ttl > 0 then
		redis.call('PEXPIRE', KEYS[1], ttl)
	end
end
return 1
`)

// MicropostIndexRedis keeps one sorted set of post ids per author, scored by creation time.
type MicropostIndexRedis struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

func NewMicropostIndexRedis(client *redis.Client, ttl time.Duration, logger *zap.Logger) *MicropostIndexRedis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MicropostIndexRedis{
		Client: client,
		TTL:    ttl,
		Logger: logger,
	}
}

// authorKey holds the sorted set of post ids. An author without posts has
// no set, so completeness is tracked by indexedKey.
func authorKey(authorID uuid.UUID) string {
	return keyPrefix + authorID.String()
}

func indexedKey(authorID uuid.UUID) string {
	return authorKey(authorID) + ":indexed"
}

func rebuildingKey(authorID uuid.UUID) string {
	return authorKey(authorID) + ":rebuilding"
}

func score(p *micropost.Micropost) float64 {
	return float64(p.CreatedAt.UnixMicro())
}

func (r *MicropostIndexRedis) Push(ctx context.Context, p *micropost.Micropost) error {
	key := authorKey(p.UserID)
	keys := []string{key, indexedKey(p.UserID), rebuildingKey(p.UserID)}
	added, err := pushIfIndexed.Run(ctx, r.Client, keys, score(p), p.ID.String()).Int()
	if err != nil {
		return storage.Wrap("micropost_index.push", err)
	}
	r.Logger.Debug("Pushed post to author index", zap.String("key", key), zap.String("postID", p.ID.String()), zap.Bool("indexed", added == 1))
	return nil
}

func (r *MicropostIndexRedis) Page(ctx context.Context, authorID uuid.UUID, start, limit int64) ([]uuid.UUID, bool, error) {
	key := authorKey(authorID)
	stop := int64(-1)
	if limit > 0 {
		stop = start + limit - 1
	}

	var exists *redis.IntCmd
	var members *redis.StringSliceCmd
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		exists = pipe.Exists(ctx, indexedKey(authorID))
		members = pipe.ZRevRange(ctx, key, start, stop)
		return nil
	})
	if err != nil {
		return nil, false, storage.Wrap("micropost_index.page", err)
	}
	if exists.Val() == 0 {
		return nil, false, nil
	}

	ids := make([]uuid.UUID, 0, len(members.Val()))
	for _, m := range members.Val() {
		id, err := uuid.FromString(m)
		if err != nil {
			r.Logger.Warn("Skipping malformed member in author index", zap.String("key", key), zap.String("member", m))
			continue
		}
		ids = append(ids, id)
	}
	return ids, true, nil
}

// MarkRebuilding makes pushes for the author land in the index until Rebuild
// completes or RebuildWindow passes. Call it before reading the posts that are
// handed to Rebuild.
func (r *MicropostIndexRedis) MarkRebuilding(ctx context.Context, authorID uuid.UUID) error {
	err := r.Client.Set(ctx, rebuildingKey(authorID), 1, RebuildWindow).Err()
	return storage.Wrap("micropost_index.mark_rebuilding", err)
}

// Rebuild merges posts into the author's index and marks it complete. Ids
// pushed since MarkRebuilding are kept.
func (r *MicropostIndexRedis) Rebuild(ctx context.Context, authorID uuid.UUID, posts []*micropost.Micropost) error {
	key := authorKey(authorID)
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(posts) > 0 {
			members := make([]*redis.Z, 0, len(posts))
			for _, p := range posts {
				members = append(members, &redis.Z{Score: score(p), Member: p.ID.String()})
			}
			pipe.ZAdd(ctx, key, members...)
		}
		pipe.Expire(ctx, key, r.TTL)
		pipe.Set(ctx, indexedKey(authorID), 1, r.TTL)
		pipe.Del(ctx, rebuildingKey(authorID))
		return nil
	})
	if err != nil {
		return storage.Wrap("micropost_index.rebuild", err)
	}
	r.Logger.Debug("Rebuilt author index", zap.String("key", key), zap.Int("count", len(posts)))
	return nil
}

func (r *MicropostIndexRedis) Forget(ctx context.Context, authorID uuid.UUID) error {
	err := r.Client.Del(ctx, authorKey(authorID), indexedKey(authorID), rebuildingKey(authorID)).Err()
	return storage.Wrap("micropost_index.forget", err)
}
