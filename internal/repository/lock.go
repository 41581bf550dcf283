package repository

import (
	"context"
	"time"
)

// LockRepository 分布式锁 (通常由 Redis 实现)。
// 用于给 "先检查再写入" 的成员操作加互斥。
type LockRepository interface {
	// Acquire 在 wait 时间内反复尝试加锁，成功时返回用于释放的 token。
	// 超时返回 ErrLockNotAcquired。
	Acquire(ctx context.Context, key string, ttl, wait time.Duration) (string, error)

	// Release 仅当 token 匹配时释放锁
	Release(ctx context.Context, key, token string) error
}

// RateLimitRepository 固定窗口计数器
type RateLimitRepository interface {
	// CheckRateLimit 递增 key 的计数，返回是否已超过 limit。
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
