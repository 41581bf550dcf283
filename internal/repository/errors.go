package repository

import "errors"

// 通用的存储库错误
var (
	// ErrNotFound 表示请求的记录未找到
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry 表示尝试插入或更新的数据违反了唯一约束
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
	// ErrLockNotAcquired 表示在等待时间内没有拿到锁
	ErrLockNotAcquired = errors.New("repository: lock not acquired")
)

// 特定资源的错误 (基于通用错误)
var (
	ErrRoomNotFound    = ErrNotFound
	ErrMemberNotFound  = ErrNotFound
	ErrPermitNotFound  = ErrNotFound
	ErrCheckInNotFound = ErrNotFound
)
