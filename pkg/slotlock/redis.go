package slotlock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL      = 10 * time.Second
	defaultPollInterval = 25 * time.Millisecond
)

// unlockScript удаляет ключ, только если он все еще принадлежит владельцу
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker распределенная блокировка на основе SET NX PX.
// TTL ограничивает время жизни блокировки, если процесс упал, не освободив её.
type RedisLocker struct {
	rdb          redis.UniversalClient
	prefix       string
	ttl          time.Duration
	pollInterval time.Duration
}

// NewRedisLocker создает распределенную блокировку
func NewRedisLocker(rdb redis.UniversalClient, prefix string, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if prefix == "" {
		prefix = "lock"
	}
	return &RedisLocker{
		rdb:          rdb,
		prefix:       prefix,
		ttl:          ttl,
		pollInterval: defaultPollInterval,
	}
}

// Lock пытается захватить ключ, повторяя попытки до отмены контекста
func (l *RedisLocker) Lock(ctx context.Context, key string) (UnlockFunc, error) {
	fullKey := l.prefix + ":" + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.rdb.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: key=%s: %v", ErrLockTimeout, key, err)
		}
		if ok {
			return func() {
				// Контекст запроса мог быть отменен, освобождаем независимо от него
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = unlockScript.Run(releaseCtx, l.rdb, []string{fullKey}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: key=%s: %v", ErrLockTimeout, key, ctx.Err())
		case <-ticker.C:
		}
	}
}
