package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

const (
	// DefaultLockWait 等待锁的默认时长
	DefaultLockWait = 2 * time.Second
	// lockTTL 锁的过期时间，需大于一次成员操作的耗时
	lockTTL = 10 * time.Second
)

func userLockKey(classID, userID string) string {
	return fmt.Sprintf("lock:class:%s:user:%s", classID, userID)
}

func assistantLockKey(classID string) string {
	return fmt.Sprintf("lock:class:%s:assistant", classID)
}

func meetingLockKey(classID string) string {
	return fmt.Sprintf("lock:class:%s:meeting", classID)
}

// withLock 持有 key 对应的锁执行 fn。拿不到锁时返回 ErrClassBusy。
func withLock(ctx context.Context, locks repository.LockRepository, key string, wait time.Duration, fn func() error) error {
	token, err := locks.Acquire(ctx, key, lockTTL, wait)
	if err != nil {
		if errors.Is(err, repository.ErrLockNotAcquired) {
			logrus.WithField("lock_key", key).Warn("Lock wait timed out")
			return ErrClassBusy
		}
		logrus.WithField("lock_key", key).WithError(err).Error("Failed to acquire lock")
		return ErrInternalServer
	}
	defer func() {
		// 请求被取消时仍需释放锁
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := locks.Release(releaseCtx, key, token); err != nil {
			logrus.WithField("lock_key", key).WithError(err).Warn("Failed to release lock")
		}
	}()
	return fn()
}
