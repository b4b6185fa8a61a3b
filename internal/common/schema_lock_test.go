package common

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLock(t *testing.T, wait time.Duration) (*RedisLock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	lock := NewRedisLock(client, time.Minute, wait)
	lock.poll = 10 * time.Millisecond
	return lock, mr
}

func TestRedisLock_AcquireRelease(t *testing.T) {
	lock, mr := newTestLock(t, 0)
	ctx := context.Background()
	key := LockKey("liveAirlines")

	release, err := lock.Acquire(ctx, key)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	_, err = lock.Acquire(ctx, key)
	assert.ErrorIs(t, err, ErrLockHeld)

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists(key))

	release, err = lock.Acquire(ctx, key)
	require.NoError(t, err)
	require.NoError(t, release(ctx))
}

func TestRedisLock_ReleaseKeepsForeignLock(t *testing.T) {
	lock, mr := newTestLock(t, 0)
	ctx := context.Background()
	key := LockKey("liveAirlines")

	release, err := lock.Acquire(ctx, key)
	require.NoError(t, err)

	// our lock expired and another instance took over
	require.NoError(t, mr.Set(key, "someone-else"))

	require.NoError(t, release(ctx))
	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLock_WaitsForHolder(t *testing.T) {
	lock, mr := newTestLock(t, 2*time.Second)
	ctx := context.Background()
	key := LockKey("liveAirlines")
	require.NoError(t, mr.Set(key, "other"))

	go func() {
		time.Sleep(50 * time.Millisecond)
		mr.Del(key)
	}()

	release, err := lock.Acquire(ctx, key)
	require.NoError(t, err)
	require.NoError(t, release(ctx))
}

func TestRedisLock_ContextCancelled(t *testing.T) {
	lock, mr := newTestLock(t, time.Minute)
	key := LockKey("liveAirlines")
	require.NoError(t, mr.Set(key, "other"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := lock.Acquire(ctx, key)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNoopLock(t *testing.T) {
	release, err := NoopLock{}.Acquire(context.Background(), "k")
	require.NoError(t, err)
	assert.NoError(t, release(context.Background()))
}
