package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"socialcore/internal/core/micropost"
	"socialcore/internal/core/storage"
)

func newIndex(t *testing.T) (*MicropostIndexRedis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewMicropostIndexRedis(client, time.Hour, zaptest.NewLogger(t)), mr
}

func posts(author uuid.UUID, n int) []*micropost.Micropost {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*micropost.Micropost, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &micropost.Micropost{
			ID:        uuid.Must(uuid.NewV4()),
			UserID:    author,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}

func TestMicropostIndex_MissingAuthor(t *testing.T) {
	idx, _ := newIndex(t)

	ids, ok, err := idx.Page(context.Background(), uuid.Must(uuid.NewV4()), 0, 10)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, ids)
}

func TestMicropostIndex_RebuildAndPage(t *testing.T) {
	ctx := context.Background()
	idx, mr := newIndex(t)
	author := uuid.Must(uuid.NewV4())
	ps := posts(author, 4)

	require.NoError(t, idx.Rebuild(ctx, author, ps))
	assert.Equal(t, time.Hour, mr.TTL(authorKey(author)))
	assert.Equal(t, time.Hour, mr.TTL(indexedKey(author)))

	ids, ok, err := idx.Page(ctx, author, 0, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{ps[3].ID, ps[2].ID}, ids)

	ids, ok, err = idx.Page(ctx, author, 2, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{ps[1].ID, ps[0].ID}, ids)
}

func TestMicropostIndex_PushOnlyExtendsExistingIndex(t *testing.T) {
	ctx := context.Background()
	idx, mr := newIndex(t)
	author := uuid.Must(uuid.NewV4())
	ps := posts(author, 3)

	require.NoError(t, idx.Push(ctx, ps[0]))
	assert.False(t, mr.Exists(authorKey(author)))

	require.NoError(t, idx.Rebuild(ctx, author, ps[:2]))
	require.NoError(t, idx.Push(ctx, ps[2]))

	ids, ok, err := idx.Page(ctx, author, 0, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{ps[2].ID, ps[1].ID, ps[0].ID}, ids)
}

func TestMicropostIndex_PushDuringRebuild(t *testing.T) {
	ctx := context.Background()
	idx, mr := newIndex(t)
	author := uuid.Must(uuid.NewV4())
	ps := posts(author, 3)

	require.NoError(t, idx.MarkRebuilding(ctx, author))
	assert.Equal(t, RebuildWindow, mr.TTL(rebuildingKey(author)))

	// ps[2] is created after the database snapshot of ps[:2] was taken.
	require.NoError(t, idx.Push(ctx, ps[2]))
	_, ok, err := idx.Page(ctx, author, 0, 0)
	require.NoError(t, err)
	assert.False(t, ok, "an index being rebuilt is not complete")

	require.NoError(t, idx.Rebuild(ctx, author, ps[:2]))
	assert.False(t, mr.Exists(rebuildingKey(author)))

	ids, ok, err := idx.Page(ctx, author, 0, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{ps[2].ID, ps[1].ID, ps[0].ID}, ids)
}

func TestMicropostIndex_RebuildMerges(t *testing.T) {
	ctx := context.Background()
	idx, _ := newIndex(t)
	author := uuid.Must(uuid.NewV4())
	ps := posts(author, 3)

	require.NoError(t, idx.Rebuild(ctx, author, ps[1:]))
	require.NoError(t, idx.Rebuild(ctx, author, ps[:2]))

	ids, ok, err := idx.Page(ctx, author, 0, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{ps[2].ID, ps[1].ID, ps[0].ID}, ids)
}

func TestMicropostIndex_AuthorWithoutPosts(t *testing.T) {
	ctx := context.Background()
	idx, mr := newIndex(t)
	author := uuid.Must(uuid.NewV4())

	require.NoError(t, idx.Rebuild(ctx, author, nil))
	assert.False(t, mr.Exists(authorKey(author)))

	ids, ok, err := idx.Page(ctx, author, 0, 10)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, ids)

	p := posts(author, 1)[0]
	require.NoError(t, idx.Push(ctx, p))
	assert.Equal(t, time.Hour, mr.TTL(authorKey(author)))

	ids, ok, err = idx.Page(ctx, author, 0, 10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{p.ID}, ids)
}

func TestMicropostIndex_Forget(t *testing.T) {
	ctx := context.Background()
	idx, mr := newIndex(t)
	author := uuid.Must(uuid.NewV4())

	require.NoError(t, idx.Rebuild(ctx, author, posts(author, 1)))
	require.NoError(t, idx.MarkRebuilding(ctx, author))
	require.NoError(t, idx.Forget(ctx, author))
	assert.False(t, mr.Exists(authorKey(author)))
	assert.False(t, mr.Exists(indexedKey(author)))
	assert.False(t, mr.Exists(rebuildingKey(author)))

	_, ok, err := idx.Page(ctx, author, 0, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMicropostIndex_StoreFailure(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0", MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	idx := NewMicropostIndexRedis(client, 0, zaptest.NewLogger(t))
	assert.Equal(t, DefaultTTL, idx.TTL)

	_, _, err := idx.Page(context.Background(), uuid.Must(uuid.NewV4()), 0, 1)
	var se *storage.Error
	assert.ErrorAs(t, err, &se)
}
