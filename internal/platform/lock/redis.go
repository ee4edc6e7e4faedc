package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLockerConfig struct {
	Prefix       string
	TTL          time.Duration
	Wait         time.Duration
	RetryBackoff time.Duration
}

// RedisLocker holds a lease per key with SET NX PX so several API replicas
// can share one auction track safely.
type RedisLocker struct {
	client  redis.UniversalClient
	prefix  string
	ttl     time.Duration
	wait    time.Duration
	backoff time.Duration
}

func NewRedisLocker(client redis.UniversalClient, cfg RedisLockerConfig) *RedisLocker {
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Second
	}
	if cfg.Wait <= 0 {
		cfg.Wait = 5 * time.Second
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 50 * time.Millisecond
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "league-auction:lock:"
	}

	return &RedisLocker{
		client:  client,
		prefix:  cfg.Prefix,
		ttl:     cfg.TTL,
		wait:    cfg.Wait,
		backoff: cfg.RetryBackoff,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (Release, error) {
	redisKey := l.prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire redis lock %s: %w", key, err)
		}
		if ok {
			return l.releaser(redisKey, token), nil
		}
		if time.Now().After(deadline) {
			return nil, ErrBusy
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.backoff):
		}
	}
}

func (l *RedisLocker) releaser(redisKey, token string) Release {
	var (
		once   sync.Once
		result error
	)
	return func(ctx context.Context) error {
		once.Do(func() {
			deleted, err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Int64()
			if err != nil {
				result = fmt.Errorf("release redis lock: %w", err)
				return
			}
			if deleted == 0 {
				result = ErrNotHeld
			}
		})
		return result
	}
}
