package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"live-airlines/provisioner/internal/logging"
)

// ErrLockHeld is returned when another provisioner kept the lock for longer
// than we were willing to wait.
var ErrLockHeld = errors.New("schema lock is held by another provisioner")

// ReleaseFunc gives a lock back. It is safe to call after the lock expired.
type ReleaseFunc func(ctx context.Context) error

// Locker serialises provisioning runs across instances.
type Locker interface {
	Acquire(ctx context.Context, key string) (ReleaseFunc, error)
}

// only the holder's token may delete the key
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLock is a single-instance SET NX lock. The TTL bounds how long a
// crashed holder can block others.
type RedisLock struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	poll   time.Duration
}

var _ Locker = (*RedisLock)(nil)

func NewRedisLock(client *redis.Client, ttl, wait time.Duration) *RedisLock {
	return &RedisLock{
		client: client,
		ttl:    ttl,
		wait:   wait,
		poll:   250 * time.Millisecond,
	}
}

func LockKey(database string) string {
	return "liveairlines:schema-lock:" + database
}

// Acquire takes the lock, polling while someone else holds it for at most
// the configured wait.
func (l *RedisLock) Acquire(ctx context.Context, key string) (ReleaseFunc, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			logging.Debug("Schema lock acquired", "key", key, "ttl", l.ttl.String())
			return l.releaser(key, token), nil
		}
		if !time.Now().Before(deadline) {
			return nil, ErrLockHeld
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.poll):
		}
	}
}

func (l *RedisLock) releaser(key, token string) ReleaseFunc {
	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("release lock %s: %w", key, err)
		}
		return nil
	}
}

// NoopLock is used when Redis is not configured.
type NoopLock struct{}

func (NoopLock) Acquire(ctx context.Context, key string) (ReleaseFunc, error) {
	return func(context.Context) error { return nil }, nil
}
