package repository

import (
	"context"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
)

// MemberQuery 成员分页查询条件，Identity/Status 为 0 时不过滤
type MemberQuery struct {
	ClassID  string
	Identity domain.Identity
	Status   domain.MemberStatus
	PageNum  int
	PageSize int
}

// MemberRepository 定义了课堂成员的存储操作。
// 分页结果按 identity 倒序、status 正序、created_at 倒序排列。
type MemberRepository interface {
	FindByClassAndUser(ctx context.Context, classID, userID string) (*domain.Member, error)

	// FindAssistant 查找课堂的助教记录，status 为 MemberStatusAll 时不限状态。
	FindAssistant(ctx context.Context, classID string, status domain.MemberStatus) (*domain.Member, error)

	// Save 按主键插入或更新
	Save(ctx context.Context, member *domain.Member) error

	// UpdateStatus 修改 (classID, userID) 的状态，记录不存在时返回 ErrMemberNotFound。
	UpdateStatus(ctx context.Context, classID, userID string, status domain.MemberStatus) error

	Delete(ctx context.Context, id uint) error

	Page(ctx context.Context, query MemberQuery) ([]domain.Member, int64, error)
}
