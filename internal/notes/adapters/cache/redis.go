// Package cache содержит кэш страниц списка заметок на Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gonotes/internal/notes/config"
	"gonotes/internal/notes/domain/entities"
	"gonotes/internal/notes/ports/cache"
	redisdb "gonotes/pkg/db/redis"
	"gonotes/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodGet        = "ListCache.Get"
	LogMethodSet        = "ListCache.Set"
	LogMethodInvalidate = "ListCache.Invalidate"

	ErrorFailedToConnect    = "failed to connect to redis"
	ErrorFailedToGet        = "failed to get page from redis"
	ErrorFailedToDecode     = "failed to decode cached page"
	ErrorFailedToEncode     = "failed to encode page"
	ErrorFailedToSet        = "failed to set page in redis"
	ErrorFailedToInvalidate = "failed to invalidate page cache"
	ErrorFailedToClose      = "failed to close redis connection"
)

// RedisListCache реализует cache.ListCache на Redis.
// Ключи страниц включают номер поколения, инвалидация увеличивает счетчик поколения.
type RedisListCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisListCache подключается к Redis и создает кэш страниц.
func NewRedisListCache(ctx context.Context, cfg *config.RedisConfig) (*RedisListCache, error) {
	client, err := redisdb.Connect(ctx, redisdb.Options{
		Address:      cfg.GetAddress(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.ConnectTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorFailedToConnect, err)
	}

	return NewRedisListCacheWithClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

// NewRedisListCacheWithClient создает кэш поверх готового клиента.
func NewRedisListCacheWithClient(client *redis.Client, ttl time.Duration, prefix string) *RedisListCache {
	return &RedisListCache{client: client, ttl: ttl, prefix: prefix}
}

type pageKey struct {
	Filter entities.NoteFilter `json:"filter"`
	Page   int                 `json:"page"`
	Limit  int                 `json:"limit"`
}

func (c *RedisListCache) generationKey() string {
	return c.prefix + ":list:generation"
}

func (c *RedisListCache) pageKey(gen cache.Generation, query entities.ListQuery) (string, error) {
	raw, err := json.Marshal(pageKey{Filter: query.Filter, Page: query.Page, Limit: query.Limit})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:list:%d:%s", c.prefix, gen, raw), nil
}

func (c *RedisListCache) generation(ctx context.Context) (cache.Generation, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return cache.Generation(gen), nil
}

// Get ищет страницу в текущем поколении.
func (c *RedisListCache) Get(ctx context.Context, query entities.ListQuery) (*entities.NotePage, cache.Generation, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodGet))

	gen, err := c.generation(ctx)
	if err != nil {
		log.Error(ctx, ErrorFailedToGet, zap.Error(err))
		return nil, 0, fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	key, err := c.pageKey(gen, query)
	if err != nil {
		return nil, gen, fmt.Errorf("%s: %w", ErrorFailedToEncode, err)
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			log.Debug(ctx, "page cache miss", zap.Int64("generation", int64(gen)))
			return nil, gen, nil
		}
		log.Error(ctx, ErrorFailedToGet, zap.Error(err))
		return nil, gen, fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	var page entities.NotePage
	if err := json.Unmarshal(raw, &page); err != nil {
		log.Warn(ctx, ErrorFailedToDecode, zap.Error(err))
		return nil, gen, fmt.Errorf("%s: %w", ErrorFailedToDecode, err)
	}

	log.Debug(ctx, "page cache hit", zap.Int64("generation", int64(gen)))
	return &page, gen, nil
}

// Set сохраняет страницу в поколении gen.
func (c *RedisListCache) Set(ctx context.Context, gen cache.Generation, query entities.ListQuery, page *entities.NotePage) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSet))

	key, err := c.pageKey(gen, query)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToEncode, err)
	}

	raw, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToEncode, err)
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	return nil
}

// Invalidate начинает новое поколение, старые страницы истекают по TTL.
func (c *RedisListCache) Invalidate(ctx context.Context) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodInvalidate))

	gen, err := c.client.Incr(ctx, c.generationKey()).Result()
	if err != nil {
		log.Error(ctx, ErrorFailedToInvalidate, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToInvalidate, err)
	}

	log.Debug(ctx, "page cache invalidated", zap.Int64("generation", gen))
	return nil
}

// Close закрывает соединение с Redis.
func (c *RedisListCache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}
