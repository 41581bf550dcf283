package redisstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// lockRetryInterval 加锁失败后的重试间隔
const lockRetryInterval = 50 * time.Millisecond

// releaseScript 仅当 value 与 token 相同时删除 key
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStateRepository 基于 Redis 的分布式锁和限流计数器，
// 实现 repository.LockRepository 和 repository.RateLimitRepository。
type RedisStateRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStateRepository 创建 RedisStateRepository 实例
func NewRedisStateRepository(client *redis.Client, keyPrefix string) *RedisStateRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisStateRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "class:" // 默认前缀
	}
	return &RedisStateRepository{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (r *RedisStateRepository) key(k string) string {
	return r.keyPrefix + k
}

// Acquire 使用 SET NX PX 加锁，在 wait 时间内按固定间隔重试
func (r *RedisStateRepository) Acquire(ctx context.Context, key string, ttl, wait time.Duration) (string, error) {
	fullKey := r.key(key)
	token := uuid.NewString()
	deadline := time.Now().Add(wait)

	for {
		ok, err := r.client.SetNX(ctx, fullKey, token, ttl).Result()
		if err != nil {
			return "", fmt.Errorf("redis: failed to acquire lock %s: %w", fullKey, err)
		}
		if ok {
			return token, nil
		}
		if !time.Now().Before(deadline) {
			return "", repository.ErrLockNotAcquired
		}

		timer := time.NewTimer(lockRetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

// Release 释放锁。锁已过期或被他人持有时不做任何事。
func (r *RedisStateRepository) Release(ctx context.Context, key, token string) error {
	fullKey := r.key(key)
	deleted, err := releaseScript.Run(ctx, r.client, []string{fullKey}, token).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis: failed to release lock %s: %w", fullKey, err)
	}
	if deleted == 0 {
		logrus.WithField("key", fullKey).Warn("Redis lock already expired or taken over before release")
	}
	return nil
}

// CheckRateLimit 检查给定 key 的请求频率是否超限，并递增计数。
func (r *RedisStateRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := r.key("ratelimit:" + key)
	pipe := r.client.Pipeline()
	incrCmd := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis: pipeline failed for rate limit check on key %s: %w", fullKey, err)
	}
	count, err := incrCmd.Result()
	if err != nil {
		return false, fmt.Errorf("redis: failed to get incr result for rate limit on key %s: %w", fullKey, err)
	}
	return count > int64(limit), nil
}
