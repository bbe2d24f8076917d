// Package redis предоставляет общее подключение к Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gonotes/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogConnecting = "connecting to redis"
	LogConnected  = "redis connection established"
)

// Константы для сообщений об ошибках.
const (
	ErrConnect = "failed to connect to Redis"
)

// DefaultPingTimeout ограничивает проверку соединения, если у ctx нет дедлайна.
const DefaultPingTimeout = 5 * time.Second

// Options содержит параметры подключения к Redis.
type Options struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Connect создает клиент Redis и проверяет соединение.
// При неудачной проверке клиент закрывается.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogConnecting,
		zap.String("address", opts.Address),
		zap.Int("db", opts.DB),
		zap.Int("pool_size", opts.PoolSize))

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Address,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})

	pingCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, DefaultPingTimeout)
		defer cancel()
	}

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", ErrConnect, err)
	}

	log.Info(ctx, LogConnected)
	return client, nil
}
