package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"starwars-api/pkg/redis_limiter"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_MutualExclusion(t *testing.T) {
	locker := NewLocalLocker(0)
	ctx := context.Background()

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "user:1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&active, 1)
			for {
				m := atomic.LoadInt32(&maxActive)
				if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&active, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive)
	assert.Empty(t, locker.entries, "空闲的键应被清理")
}

func TestLocalLocker_IndependentKeys(t *testing.T) {
	locker := NewLocalLocker(0)
	ctx := context.Background()

	unlockA, err := locker.Lock(ctx, "planet:1")
	require.NoError(t, err)
	defer unlockA()

	unlockB, err := locker.Lock(ctx, "planet:2")
	require.NoError(t, err)
	unlockB()
}

func TestLocalLocker_Timeout(t *testing.T) {
	locker := NewLocalLocker(20 * time.Millisecond)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "user:1")
	require.NoError(t, err)

	_, err = locker.Lock(ctx, "user:1")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	unlock()
	unlock2, err := locker.Lock(ctx, "user:1")
	require.NoError(t, err)
	unlock2()
}

func TestLockKeys_ReleasesOnFailure(t *testing.T) {
	locker := NewLocalLocker(20 * time.Millisecond)
	ctx := context.Background()

	held, err := locker.Lock(ctx, "planet:1")
	require.NoError(t, err)

	_, err = lockKeys(ctx, locker, "user:1", "planet:1")
	require.Error(t, err)

	// user:1 已在失败时释放
	unlock, err := locker.Lock(ctx, "user:1")
	require.NoError(t, err)
	unlock()
	held()
}

func TestEntityKeys(t *testing.T) {
	assert.Equal(t, "user:3", userKey(3))
	assert.Equal(t, "planet:4", planetKey(4))
	assert.Equal(t, "character:5", characterKey(5))
}

func TestRedisLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter := redis_limiter.NewRedisLimiter(client, 1, "lock:", 30*time.Second)
	locker := NewRedisLocker(limiter, 100*time.Millisecond)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:user:1"))

	_, err = locker.Lock(ctx, "user:1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	assert.False(t, mr.Exists("lock:user:1"))

	unlock, err = locker.Lock(ctx, "user:1")
	require.NoError(t, err)
	unlock()
}
