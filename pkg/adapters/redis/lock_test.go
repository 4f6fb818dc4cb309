package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/dataflow/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
)

func TestRedisLocker_LockUnlock(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "ComputeSVD0", 5*time.Second)
	assert.NoError(t, err)
	assert.NotNil(t, unlock)
	assert.True(t, mr.Exists("test:lock:ComputeSVD0"), "Lock key should be set in Redis")

	assert.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:ComputeSVD0"), "Lock key should be removed after unlock")
}

func TestRedisLocker_Contention(t *testing.T) {
	_, client := newClient(t)
	locker1 := redis.NewLocker(client, "test:")
	locker2 := redis.NewLocker(client, "test:")
	ctx := context.Background()
	key := "shared-module"

	unlock1, err := locker1.Lock(ctx, key, 5*time.Second)
	assert.NoError(t, err)

	ctxTimeout, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = locker2.Lock(ctxTimeout, key, 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.WithinDuration(t, start.Add(500*time.Millisecond), time.Now(), 150*time.Millisecond, "Should block until timeout")

	assert.NoError(t, unlock1(ctx))

	unlock2, err := locker2.Lock(ctx, key, 5*time.Second)
	assert.NoError(t, err)
	assert.NoError(t, unlock2(ctx))
}

func TestRedisLocker_StaleUnlockKeepsNewOwner(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock1, err := locker.Lock(ctx, "m", time.Second)
	assert.NoError(t, err)

	mr.FastForward(2 * time.Second)

	unlock2, err := locker.Lock(ctx, "m", 5*time.Second)
	assert.NoError(t, err)

	// The expired holder must not release the new owner's lock.
	assert.NoError(t, unlock1(ctx))
	assert.True(t, mr.Exists("test:lock:m"))

	assert.NoError(t, unlock2(ctx))
	assert.False(t, mr.Exists("test:lock:m"))
}
