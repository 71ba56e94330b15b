package tag

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/tagform/pkg/logger"
)

// DefaultCacheTTL bounds how long a cached tag may outlive a rename or delete.
const DefaultCacheTTL = 10 * time.Minute

const cacheKeyPrefix = "tagform:tag:name:"

// CachedLookup is a Redis read-through cache in front of another Lookup.
// Only hits are cached: a name that is not found today may be saved a moment
// later. Cache failures are logged and fall through to the wrapped lookup.
type CachedLookup struct {
	next   Lookup
	client redis.UniversalClient
	ttl    time.Duration
	log    *slog.Logger
}

// CachedLookupOption configures CachedLookup.
type CachedLookupOption func(*CachedLookup)

// WithCacheTTL overrides DefaultCacheTTL. Non-positive values are ignored.
func WithCacheTTL(ttl time.Duration) CachedLookupOption {
	return func(c *CachedLookup) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheLogger sets the logger used for cache failures.
func WithCacheLogger(log *slog.Logger) CachedLookupOption {
	return func(c *CachedLookup) {
		if log != nil {
			c.log = log
		}
	}
}

// NewCachedLookup wraps next with a Redis cache.
func NewCachedLookup(next Lookup, client redis.UniversalClient, opts ...CachedLookupOption) *CachedLookup {
	c := &CachedLookup{
		next:   next,
		client: client,
		ttl:    DefaultCacheTTL,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type cachedTag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *CachedLookup) FindByName(ctx context.Context, name string) (*Tag, error) {
	name = NormalizeName(name)
	key := cacheKeyPrefix + name

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if t, decErr := decodeCachedTag(data); decErr == nil {
			return t, nil
		}
		c.log.WarnContext(ctx, "dropping malformed tag cache entry",
			logger.Component("tag_cache"),
			slog.String("key", key),
		)
		_ = c.client.Del(ctx, key).Err()
	case !errors.Is(err, redis.Nil):
		c.log.WarnContext(ctx, "tag cache read failed",
			logger.Component("tag_cache"),
			logger.Error(err),
		)
	}

	t, err := c.next.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, t)
	return t, nil
}

func (c *CachedLookup) store(ctx context.Context, key string, t *Tag) {
	if t == nil || t.IsTransient() {
		return
	}
	data, err := json.Marshal(cachedTag{ID: t.ID.String(), Name: t.Name, CreatedAt: t.CreatedAt})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "tag cache write failed",
			logger.Component("tag_cache"),
			logger.Error(err),
		)
	}
}

func decodeCachedTag(data []byte) (*Tag, error) {
	var ct cachedTag
	if err := json.Unmarshal(data, &ct); err != nil {
		return nil, err
	}
	t := &Tag{Name: ct.Name, CreatedAt: ct.CreatedAt}
	if err := t.ID.UnmarshalText([]byte(ct.ID)); err != nil {
		return nil, err
	}
	return t, nil
}
