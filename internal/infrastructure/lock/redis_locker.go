package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/jhoicas/inventario-pedidos/internal/application/ports"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/pkg/config"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var _ ports.Locker = (*RedisLocker)(nil)

const (
	retryBackoff   = 50 * time.Millisecond
	releaseTimeout = 2 * time.Second
)

// RedisLocker bloqueo distribuido por clave (bsm/redislock) compartido entre instancias.
// Si ctx no trae deadline, la espera máxima es el TTL del bloqueo.
type RedisLocker struct {
	client *redislock.Client
	prefix string
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisClient abre la conexión y verifica con PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// NewRedisLocker construye el adaptador. prefix separa claves entre aplicaciones.
func NewRedisLocker(rdb redis.UniversalClient, prefix string, ttl time.Duration, log *logger.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{
		client: redislock.New(rdb),
		prefix: prefix,
		ttl:    ttl,
		log:    log.Component("redis_locker"),
	}
}

// Acquire obtiene el bloqueo reintentando con backoff lineal.
// Si no lo consigue a tiempo devuelve domain.ErrConflict.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (ports.Unlock, error) {
	fullKey := l.prefix + key
	lk, err := l.client.Obtain(ctx, fullKey, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(retryBackoff),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		l.log.Warn().Str("key", fullKey).Msg("no se obtuvo el bloqueo")
		return nil, fmt.Errorf("lock %s: %w", key, domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := lk.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Error().Err(err).Str("key", fullKey).Msg("liberar bloqueo")
		}
	}, nil
}
