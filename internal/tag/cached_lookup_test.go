package tag_test

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tagform/internal/tag"
)

// unreachableRedis returns a client whose every command fails fast.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCachedLookup_FallsThroughWhenCacheIsDown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := seededStore(t, "red")
	lookup := tag.NewCachedLookup(store, unreachableRedis(t), tag.WithCacheTTL(time.Minute))

	red, err := lookup.FindByName(ctx, "red")
	require.NoError(t, err)
	assert.Equal(t, "red", red.Name)
	assert.False(t, red.IsTransient())

	_, err = lookup.FindByName(ctx, "blue")
	assert.ErrorIs(t, err, tag.ErrNotFound)
}

func TestCachedLookup_WorksWithCodec(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	codec := tag.NewCodec(tag.NewCachedLookup(seededStore(t, "red"), unreachableRedis(t)))

	set, err := codec.Decode(ctx, "red, blue")
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.False(t, set[0].IsTransient())
	assert.True(t, set[1].IsTransient())
}

// countingLookup records how many lookups reach the wrapped store.
type countingLookup struct {
	tag.Lookup
	calls atomic.Int32
}

func (c *countingLookup) FindByName(ctx context.Context, name string) (*tag.Tag, error) {
	c.calls.Add(1)
	return c.Lookup.FindByName(ctx, name)
}

func liveRedis(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestCachedLookup_Redis(t *testing.T) {
	t.Parallel()
	client := liveRedis(t)
	ctx := context.Background()

	// Unique names keep runs against a shared server apart.
	name := "cached-" + uuid.NewString()
	key := "tagform:tag:name:" + name
	t.Cleanup(func() { _ = client.Del(context.Background(), key).Err() })

	store := seededStore(t, name)
	next := &countingLookup{Lookup: store}
	lookup := tag.NewCachedLookup(next, client, tag.WithCacheTTL(time.Minute))

	t.Run("second lookup is served from cache", func(t *testing.T) {
		first, err := lookup.FindByName(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, int32(1), next.calls.Load())

		ttl, err := client.TTL(ctx, key).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))

		second, err := lookup.FindByName(ctx, "  "+name+" ")
		require.NoError(t, err)
		assert.Equal(t, int32(1), next.calls.Load())
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, name, second.Name)
	})

	t.Run("malformed entry falls through and is rewritten", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, key, "{not json", time.Minute).Err())
		before := next.calls.Load()

		got, err := lookup.FindByName(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, before+1, next.calls.Load())

		want, err := store.FindByName(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)

		raw, err := client.Get(ctx, key).Result()
		require.NoError(t, err)
		assert.Contains(t, raw, want.ID.String())
	})

	t.Run("misses are not cached", func(t *testing.T) {
		missing := "missing-" + uuid.NewString()
		_, err := lookup.FindByName(ctx, missing)
		require.ErrorIs(t, err, tag.ErrNotFound)

		n, err := client.Exists(ctx, "tagform:tag:name:"+missing).Result()
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
