package redis_limiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrLimitReached 槽位已满
var ErrLimitReached = errors.New("redis_limiter: concurrency limit reached")

// 每个槽位是有序集合中的一个成员，成员为持有者令牌，分数为过期时间(毫秒)
// 脚本逻辑：
// 1. 清理已过期的槽位
// 2. 未过期的槽位数达到上限时返回 0
// 3. 否则写入令牌并刷新 key 的过期时间，返回 1
var acquireScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[2])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[1]) then
	return 0
end

redis.call('ZADD', KEYS[1], ARGV[3], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1`)

// 脚本逻辑：
// 1. 只删除自己的令牌，槽位过期后被他人占用时返回 0
// 2. 集合为空时删除 key
var releaseScript = redis.NewScript(`
local removed = redis.call('ZREM', KEYS[1], ARGV[1])
if redis.call('ZCARD', KEYS[1]) == 0 then
	redis.call('DEL', KEYS[1])
end
return removed`)

// RedisLimiter 基于Redis的并发限制器
// maxConcurrent 为 1 时即为跨实例的互斥锁
type RedisLimiter struct {
	client        *redis.Client
	maxConcurrent int
	keyPrefix     string
	ttl           time.Duration
	retryInterval time.Duration
	now           func() time.Time
}

// NewRedisLimiter 创建基于Redis的并发限制器，ttl 为单个槽位的最长持有时间
func NewRedisLimiter(client *redis.Client, maxConcurrent int, keyPrefix string, ttl time.Duration) *RedisLimiter {
	if ttl <= 0 {
		ttl = time.Second
	}
	return &RedisLimiter{
		client:        client,
		maxConcurrent: maxConcurrent,
		keyPrefix:     keyPrefix,
		ttl:           ttl,
		retryInterval: 50 * time.Millisecond,
		now:           time.Now,
	}
}

// Acquire 获取并发槽位，返回释放时需要的令牌；槽位已满时立即返回 ErrLimitReached
func (rl *RedisLimiter) Acquire(ctx context.Context, key string) (string, error) {
	redisKey := rl.keyPrefix + key
	token := uuid.NewString()
	now := rl.now()

	acquired, err := acquireScript.Run(ctx, rl.client, []string{redisKey},
		rl.maxConcurrent,
		now.UnixMilli(),
		now.Add(rl.ttl).UnixMilli(),
		token,
		rl.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return "", fmt.Errorf("执行Lua脚本失败: %w", err)
	}

	if acquired == 0 {
		logrus.WithFields(logrus.Fields{"key": key, "max": rl.maxConcurrent}).Debug("[RedisLimiter] 槽位已满")
		return "", ErrLimitReached
	}

	logrus.WithFields(logrus.Fields{"key": key, "token": token}).Debug("[RedisLimiter] 成功获取槽位")
	return token, nil
}

// Wait 循环获取槽位，直到成功、出错或 ctx 结束
func (rl *RedisLimiter) Wait(ctx context.Context, key string) (string, error) {
	ticker := time.NewTicker(rl.retryInterval)
	defer ticker.Stop()

	for {
		token, err := rl.Acquire(ctx, key)
		if !errors.Is(err, ErrLimitReached) {
			return token, err
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("等待槽位超时 %s: %w", key, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Release 释放 token 持有的槽位
// 返回 false 表示槽位已过期，此时不会影响其他持有者
func (rl *RedisLimiter) Release(ctx context.Context, key, token string) bool {
	redisKey := rl.keyPrefix + key

	removed, err := releaseScript.Run(ctx, rl.client, []string{redisKey}, token).Int()
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("[RedisLimiter] 执行Lua脚本失败")
		return false
	}

	if removed == 0 {
		logrus.WithFields(logrus.Fields{"key": key, "ttl": rl.ttl}).Warn("[RedisLimiter] 槽位已过期，持有时间超过 ttl")
		return false
	}

	logrus.WithField("key", key).Debug("[RedisLimiter] 成功释放槽位")
	return true
}

// GetCurrent 获取当前未过期的槽位数
func (rl *RedisLimiter) GetCurrent(ctx context.Context, key string) (int, error) {
	minScore := fmt.Sprintf("(%d", rl.now().UnixMilli())
	current, err := rl.client.ZCount(ctx, rl.keyPrefix+key, minScore, "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("获取当前并发数失败: %w", err)
	}
	return int(current), nil
}

// GetMaxConcurrent 获取最大并发数
func (rl *RedisLimiter) GetMaxConcurrent() int {
	return rl.maxConcurrent
}
