package data

import (
	"context"
	"errors"
	"time"

	"mediareview/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const memoryCleanupInterval = 10 * time.Minute

// NewCache returns the Redis-backed cache when Redis is connected and an
// in-process cache otherwise.
func NewCache(data *Data, logger log.Logger) biz.Cache {
	l := log.NewHelper(log.With(logger, "module", "data/cache"))
	if data.rdb != nil {
		return &redisCache{rdb: data.rdb, log: l}
	}
	l.Debug("using in-process review cache")
	return newMemoryCache()
}

type redisCache struct {
	rdb *redis.Client
	log *log.Helper
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, biz.ErrCacheMiss
	}
	return b, err
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

type memoryCache struct {
	c *gocache.Cache
}

func newMemoryCache() *memoryCache {
	return &memoryCache{c: gocache.New(gocache.NoExpiration, memoryCleanupInterval)}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, biz.ErrCacheMiss
	}
	return v.([]byte), nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(key, value, ttl)
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}
