package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"starwars-api/pkg/redis_limiter"
)

// Locker 按实体键互斥，保护收藏写入与级联删除
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

func userKey(id uint) string      { return fmt.Sprintf("user:%d", id) }
func planetKey(id uint) string    { return fmt.Sprintf("planet:%d", id) }
func characterKey(id uint) string { return fmt.Sprintf("character:%d", id) }

// lockKeys 按给定顺序依次加锁，返回的函数按相反顺序解锁
func lockKeys(ctx context.Context, locker Locker, keys ...string) (func(), error) {
	unlocks := make([]func(), 0, len(keys))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, key := range keys {
		unlock, err := locker.Lock(ctx, key)
		if err != nil {
			release()
			return nil, fmt.Errorf("获取锁 %s 失败: %w", key, err)
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}

// LocalLocker 进程内的键控互斥锁，未配置 Redis 时使用
type LocalLocker struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
	maxWait time.Duration
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker 创建进程内锁，maxWait 为 0 时只受 ctx 限制
func NewLocalLocker(maxWait time.Duration) *LocalLocker {
	return &LocalLocker{
		entries: make(map[string]*lockEntry),
		maxWait: maxWait,
	}
}

// Lock 获取 key 对应的锁
func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	if l.maxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.maxWait)
		defer cancel()
	}

	select {
	case e.ch <- struct{}{}:
		return func() {
			<-e.ch
			l.unref(key, e)
		}, nil
	case <-ctx.Done():
		l.unref(key, e)
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) unref(key string, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

// RedisLocker 基于 RedisLimiter 的跨实例互斥锁
// 持有时间超过 lock_ttl 后锁会自动失效，释放时只删除自己的令牌
type RedisLocker struct {
	limiter *redis_limiter.RedisLimiter
	maxWait time.Duration
}

// NewRedisLocker 创建跨实例锁，limiter 的最大并发数应为 1
func NewRedisLocker(limiter *redis_limiter.RedisLimiter, maxWait time.Duration) *RedisLocker {
	return &RedisLocker{limiter: limiter, maxWait: maxWait}
}

// Lock 获取 key 对应的锁
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l.maxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.maxWait)
		defer cancel()
	}

	token, err := l.limiter.Wait(ctx, key)
	if err != nil {
		return nil, err
	}
	return func() {
		// 请求结束后 ctx 可能已取消，释放时使用独立的 ctx
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		l.limiter.Release(releaseCtx, key, token)
	}, nil
}
