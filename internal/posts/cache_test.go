package posts

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheFetchJSONPopulatesOnce(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, keyFeed())
	require.NoError(t, err)

	loads := 0
	loader := func(ctx context.Context) (interface{}, error) {
		loads++
		return []Post{{Title: "cached"}}, nil
	}

	var first, second []Post
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))

	assert.Equal(t, 1, loads)
	require.Len(t, second, 1)
	assert.Equal(t, "cached", second[0].Title)
}

func TestCacheBumpInvalidates(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, keyFeed())
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.BuildKey(ctx, keyFeed())
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestCacheNilClientPassThrough(t *testing.T) {
	cache := NewCache(nil, time.Minute)
	ctx := context.Background()

	loads := 0
	loader := func(ctx context.Context) (interface{}, error) {
		loads++
		return []Post{{Title: "direct"}}, nil
	}

	key, err := cache.BuildKey(ctx, keyFeed())
	require.NoError(t, err)

	var out []Post
	require.NoError(t, cache.FetchJSON(ctx, key, &out, loader))
	require.NoError(t, cache.FetchJSON(ctx, key, &out, loader))
	assert.Equal(t, 2, loads)
}

func TestServiceBumpOnMutation(t *testing.T) {
	cache := newTestCache(t)
	repo := newMockRepository()
	svc := NewService(repo, cache, nil)
	ctx := context.Background()

	feed, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, feed)

	_, err = svc.Create(ctx, 1, CreateRequest{Title: "Hi", Body: "body text"})
	require.NoError(t, err)

	feed, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}
