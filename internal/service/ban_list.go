package service

import (
	"context"
	"errors"
	"time"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// BanList 课堂黑名单。
// 被踢出后即永久不能再加入，expired_at 只做记录，不参与判断。
type BanList struct {
	repo repository.BanRepository
	now  func() time.Time
}

func NewBanList(repo repository.BanRepository) *BanList {
	if repo == nil {
		panic("BanRepository cannot be nil for BanList")
	}
	return &BanList{repo: repo, now: time.Now}
}

func (b *BanList) IsBanned(ctx context.Context, classID, userID string) (bool, error) {
	_, err := b.repo.FindByClassAndUser(ctx, classID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Ban 幂等: 已在黑名单中时直接返回
func (b *BanList) Ban(ctx context.Context, classID, userID string) error {
	banned, err := b.IsBanned(ctx, classID, userID)
	if err != nil {
		return err
	}
	if banned {
		return nil
	}
	now := b.now()
	err = b.repo.Save(ctx, &domain.BanEntry{
		ClassID:   classID,
		UserID:    userID,
		ExpiredAt: now.AddDate(0, domain.BanMonths, 0),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if errors.Is(err, repository.ErrDuplicateEntry) {
		return nil
	}
	return err
}
