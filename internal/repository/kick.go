package repository

import (
	"context"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
)

// BanRepository 课堂黑名单
type BanRepository interface {
	// FindByClassAndUser 不存在时返回 ErrNotFound。不按过期时间过滤。
	FindByClassAndUser(ctx context.Context, classID, userID string) (*domain.BanEntry, error)

	// Save 插入记录，(classID, userID) 已存在时返回 ErrDuplicateEntry。
	Save(ctx context.Context, entry *domain.BanEntry) error
}

// AssistantPermitRepository 助教权限
type AssistantPermitRepository interface {
	FindByClassID(ctx context.Context, classID string) (*domain.AssistantPermit, error)

	// Upsert 按 classID 插入或更新 permit
	Upsert(ctx context.Context, permit *domain.AssistantPermit) error

	// DeleteByClassID 删除权限记录，返回是否删除了数据
	DeleteByClassID(ctx context.Context, classID string) (bool, error)
}
