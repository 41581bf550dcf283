package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// memberPageOrder 老师、助教在前，同身份内在线成员在前，最后按加入时间倒序
const memberPageOrder = "identity desc, status asc, created_at desc"

// GormMemberRepository 是 MemberRepository 接口的 GORM 实现
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository 创建 GormMemberRepository 实例
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	if db == nil {
		panic("database connection cannot be nil for GormMemberRepository")
	}
	return &GormMemberRepository{db: db}
}

func (r *GormMemberRepository) FindByClassAndUser(ctx context.Context, classID, userID string) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).Where("class_id = ? AND user_id = ?", classID, userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMemberNotFound
		}
		return nil, fmt.Errorf("gorm: find member (class: %s, user: %s): %w", classID, userID, err)
	}
	return &member, nil
}

// FindAssistant 查找助教，同一课堂理论上只有一条
func (r *GormMemberRepository) FindAssistant(ctx context.Context, classID string, status domain.MemberStatus) (*domain.Member, error) {
	var member domain.Member
	db := r.db.WithContext(ctx).Where("class_id = ? AND identity = ?", classID, domain.IdentityAssistant)
	if status != domain.MemberStatusAll {
		db = db.Where("status = ?", status)
	}
	err := db.Order("updated_at desc").First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMemberNotFound
		}
		return nil, fmt.Errorf("gorm: find assistant of class %s: %w", classID, err)
	}
	return &member, nil
}

// Save 实现保存成员信息（创建或更新）
func (r *GormMemberRepository) Save(ctx context.Context, member *domain.Member) error {
	if err := r.db.WithContext(ctx).Save(member).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save member (class: %s, user: %s): %w", member.ClassID, member.UserID, err)
	}
	return nil
}

func (r *GormMemberRepository) UpdateStatus(ctx context.Context, classID, userID string, status domain.MemberStatus) error {
	result := r.db.WithContext(ctx).Model(&domain.Member{}).
		Where("class_id = ? AND user_id = ?", classID, userID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("gorm: update member (class: %s, user: %s) status: %w", classID, userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrMemberNotFound
	}
	return nil
}

func (r *GormMemberRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Member{}, id).Error; err != nil {
		return fmt.Errorf("gorm: delete member %d: %w", id, err)
	}
	return nil
}

// Page 分页查询，身份高的在前，同身份下在线的在前
func (r *GormMemberRepository) Page(ctx context.Context, query repository.MemberQuery) ([]domain.Member, int64, error) {
	var (
		members []domain.Member
		total   int64
	)
	db := r.db.WithContext(ctx).Model(&domain.Member{}).Where("class_id = ?", query.ClassID)
	if query.Identity != domain.IdentityAll {
		db = db.Where("identity = ?", query.Identity)
	}
	if query.Status != domain.MemberStatusAll {
		db = db.Where("status = ?", query.Status)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("gorm: count members of class %s: %w", query.ClassID, err)
	}
	err := db.Order(memberPageOrder).
		Offset(pageOffset(query.PageNum, query.PageSize)).
		Limit(query.PageSize).
		Find(&members).Error
	if err != nil {
		return nil, 0, fmt.Errorf("gorm: page members of class %s: %w", query.ClassID, err)
	}
	return members, total, nil
}
