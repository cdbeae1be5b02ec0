// Package cache holds rendered highlight previews for snippets. Entries are keyed on the
// snippet's update time, so an edit makes old entries unreachable and the TTL reaps them.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/barky-backend/internal/platform/logger"
)

const keyPrefix = "barky:highlight:"

type HighlightCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, html string) error
	Close() error
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// HighlightKey identifies one rendering of one snippet revision.
func HighlightKey(snippetID uint, updatedAt time.Time, style string, lineNos bool) string {
	ln := "0"
	if lineNos {
		ln = "1"
	}
	return fmt.Sprintf("%s%d:%d:%s:%s", keyPrefix, snippetID, updatedAt.UTC().UnixNano(), strings.ToLower(style), ln)
}

type redisHighlightCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewRedisHighlightCache dials Redis and fails fast if it is unreachable.
func NewRedisHighlightCache(cfg RedisConfig, log *logger.Logger) (HighlightCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewHighlightCacheFromClient(rdb, cfg.TTL, log), nil
}

func NewHighlightCacheFromClient(rdb *goredis.Client, ttl time.Duration, log *logger.Logger) HighlightCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &redisHighlightCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With("service", "RedisHighlightCache"),
	}
}

func (c *redisHighlightCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *redisHighlightCache) Set(ctx context.Context, key string, html string) error {
	return c.rdb.Set(ctx, key, html, c.ttl).Err()
}

func (c *redisHighlightCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

type noopHighlightCache struct{}

// NewNoopHighlightCache never stores anything; used when Redis is not configured.
func NewNoopHighlightCache() HighlightCache { return noopHighlightCache{} }

func (noopHighlightCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (noopHighlightCache) Set(context.Context, string, string) error         { return nil }
func (noopHighlightCache) Close() error                                       { return nil }
