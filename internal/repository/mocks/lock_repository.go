package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// LockRepository 是 repository.LockRepository 的 mock
type LockRepository struct {
	mock.Mock
}

var _ repository.LockRepository = (*LockRepository)(nil)

func (m *LockRepository) Acquire(ctx context.Context, key string, ttl, wait time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl, wait)
	return args.String(0), args.Error(1)
}

func (m *LockRepository) Release(ctx context.Context, key, token string) error {
	args := m.Called(ctx, key, token)
	return args.Error(0)
}

// MemoryLock 进程内的锁实现，供不关心加锁细节的测试使用。
// 锁被占用时立即返回 ErrLockNotAcquired。
type MemoryLock struct {
	mu   sync.Mutex
	held map[string]string
	seq  int
}

var _ repository.LockRepository = (*MemoryLock)(nil)

func NewMemoryLock() *MemoryLock {
	return &MemoryLock{held: make(map[string]string)}
}

func (l *MemoryLock) Acquire(_ context.Context, key string, _, _ time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return "", repository.ErrLockNotAcquired
	}
	l.seq++
	token := fmt.Sprintf("%s#%d", key, l.seq)
	l.held[key] = token
	return token, nil
}

func (l *MemoryLock) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
	}
	return nil
}

// Held 返回 key 当前是否被持有
func (l *MemoryLock) Held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.held[key]
	return ok
}
