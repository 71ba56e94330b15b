package main

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/tagform/internal/post"
	"github.com/dmitrymomot/tagform/internal/tag"
	"github.com/dmitrymomot/tagform/pkg/config"
	"github.com/dmitrymomot/tagform/pkg/httpserver"
	"github.com/dmitrymomot/tagform/pkg/pg"
	"github.com/dmitrymomot/tagform/pkg/ratelimiter"
	"github.com/dmitrymomot/tagform/pkg/redis"
)

// stores bundles the persistence layer picked from configuration.
type stores struct {
	tags   tag.Store
	lookup tag.Lookup // tags, possibly behind the Redis cache
	posts  post.Store
	checks []httpserver.Check
	// limits backs login throttling; Redis when configured so instances share counts.
	limits ratelimiter.Store
	closer []func()
}

func (s *stores) Close() {
	for i := len(s.closer) - 1; i >= 0; i-- {
		s.closer[i]()
	}
}

type storesOpener func(ctx context.Context, log *slog.Logger) (*stores, error)

// openStores uses Postgres when PG_CONN_URL is set and memory otherwise.
// REDIS_URL adds a read-through cache for tag lookups and keeps login
// throttling counts in Redis.
func openStores(ctx context.Context, log *slog.Logger) (*stores, error) {
	var pgCfg pg.Config
	if err := config.Load(&pgCfg); err != nil {
		return nil, err
	}
	var redisCfg redis.Config
	if err := config.Load(&redisCfg); err != nil {
		return nil, err
	}

	s := &stores{}
	if pgCfg.Enabled() {
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		s.closer = append(s.closer, pool.Close)
		s.tags = tag.NewPostgresStore(pool)
		s.posts = post.NewPostgresStore(pool)
		s.checks = append(s.checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})
	} else {
		log.WarnContext(ctx, "PG_CONN_URL is not set, data is kept in memory")
		memory := tag.NewMemoryStore()
		s.tags = memory
		s.posts = post.NewMemoryStore(memory)
	}

	s.lookup = s.tags
	if redisCfg.Enabled() {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closer = append(s.closer, func() { _ = client.Close() })
		s.lookup = tag.NewCachedLookup(s.tags, client,
			tag.WithCacheTTL(redisCfg.CacheTTL),
			tag.WithCacheLogger(log),
		)
		s.limits = ratelimiter.NewRedisStore(client)
		s.checks = append(s.checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
	} else {
		limits := ratelimiter.NewMemoryStore()
		s.closer = append(s.closer, limits.Close)
		s.limits = limits
	}

	return s, nil
}
