package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// GormBanRepository 是 BanRepository 接口的 GORM 实现
type GormBanRepository struct {
	db *gorm.DB
}

func NewGormBanRepository(db *gorm.DB) *GormBanRepository {
	if db == nil {
		panic("database connection cannot be nil for GormBanRepository")
	}
	return &GormBanRepository{db: db}
}

func (r *GormBanRepository) FindByClassAndUser(ctx context.Context, classID, userID string) (*domain.BanEntry, error) {
	var entry domain.BanEntry
	err := r.db.WithContext(ctx).Where("class_id = ? AND user_id = ?", classID, userID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find ban entry (class: %s, user: %s): %w", classID, userID, err)
	}
	return &entry, nil
}

func (r *GormBanRepository) Save(ctx context.Context, entry *domain.BanEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save ban entry (class: %s, user: %s): %w", entry.ClassID, entry.UserID, err)
	}
	return nil
}

// GormAssistantPermitRepository 是 AssistantPermitRepository 接口的 GORM 实现
type GormAssistantPermitRepository struct {
	db *gorm.DB
}

func NewGormAssistantPermitRepository(db *gorm.DB) *GormAssistantPermitRepository {
	if db == nil {
		panic("database connection cannot be nil for GormAssistantPermitRepository")
	}
	return &GormAssistantPermitRepository{db: db}
}

func (r *GormAssistantPermitRepository) FindByClassID(ctx context.Context, classID string) (*domain.AssistantPermit, error) {
	var permit domain.AssistantPermit
	err := r.db.WithContext(ctx).Where("class_id = ?", classID).First(&permit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPermitNotFound
		}
		return nil, fmt.Errorf("gorm: find assistant permit of class %s: %w", classID, err)
	}
	return &permit, nil
}

// Upsert 依赖 class_id 唯一索引: 冲突时只更新 permit 和 updated_at
func (r *GormAssistantPermitRepository) Upsert(ctx context.Context, permit *domain.AssistantPermit) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "class_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"permit", "updated_at"}),
	}).Create(permit).Error
	if err != nil {
		return fmt.Errorf("gorm: upsert assistant permit of class %s: %w", permit.ClassID, err)
	}
	return nil
}

func (r *GormAssistantPermitRepository) DeleteByClassID(ctx context.Context, classID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("class_id = ?", classID).Delete(&domain.AssistantPermit{})
	if result.Error != nil {
		return false, fmt.Errorf("gorm: delete assistant permit of class %s: %w", classID, result.Error)
	}
	return result.RowsAffected > 0, nil
}
