package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// GormCheckInRepository 是 CheckInRepository 接口的 GORM 实现
type GormCheckInRepository struct {
	db *gorm.DB
}

func NewGormCheckInRepository(db *gorm.DB) *GormCheckInRepository {
	if db == nil {
		panic("database connection cannot be nil for GormCheckInRepository")
	}
	return &GormCheckInRepository{db: db}
}

func (r *GormCheckInRepository) Create(ctx context.Context, checkIn *domain.CheckIn) error {
	if err := r.db.WithContext(ctx).Create(checkIn).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create check-in for class %s: %w", checkIn.ClassID, err)
	}
	return nil
}

func (r *GormCheckInRepository) FindByID(ctx context.Context, id string) (*domain.CheckIn, error) {
	var checkIn domain.CheckIn
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&checkIn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCheckInNotFound
		}
		return nil, fmt.Errorf("gorm: find check-in %s: %w", id, err)
	}
	return &checkIn, nil
}

func (r *GormCheckInRepository) ListByClass(ctx context.Context, classID string) ([]domain.CheckIn, error) {
	var list []domain.CheckIn
	if err := r.db.WithContext(ctx).Where("class_id = ?", classID).Order("start_time asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("gorm: list check-ins of class %s: %w", classID, err)
	}
	return list, nil
}

func (r *GormCheckInRepository) CreateRecord(ctx context.Context, record *domain.CheckInRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create check-in record (check-in: %s, user: %s): %w", record.CheckInID, record.UserID, err)
	}
	return nil
}

func (r *GormCheckInRepository) FindRecord(ctx context.Context, checkInID, userID string) (*domain.CheckInRecord, error) {
	var record domain.CheckInRecord
	err := r.db.WithContext(ctx).Where("check_in_id = ? AND user_id = ?", checkInID, userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find check-in record (check-in: %s, user: %s): %w", checkInID, userID, err)
	}
	return &record, nil
}

func (r *GormCheckInRepository) ListRecords(ctx context.Context, checkInID string) ([]domain.CheckInRecord, error) {
	var records []domain.CheckInRecord
	if err := r.db.WithContext(ctx).Where("check_in_id = ?", checkInID).Order("created_at asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("gorm: list records of check-in %s: %w", checkInID, err)
	}
	return records, nil
}
