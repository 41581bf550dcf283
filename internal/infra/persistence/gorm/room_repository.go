package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// GormRoomRepository 是 RoomRepository 接口的 GORM 实现
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository 创建 GormRoomRepository 实例
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	if db == nil {
		panic("database connection cannot be nil for GormRoomRepository")
	}
	return &GormRoomRepository{db: db}
}

// FindByID 实现根据课堂 ID 查找课堂
func (r *GormRoomRepository) FindByID(ctx context.Context, id string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by id '%s': %w", id, err)
	}
	return &room, nil
}

// FindByMeetingID 实现根据 meeting_id 查找课堂
func (r *GormRoomRepository) FindByMeetingID(ctx context.Context, meetingID string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by meeting id '%s': %w", meetingID, err)
	}
	return &room, nil
}

// Create 插入新课堂
func (r *GormRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create room (id: %s): %w", room.ID, err)
	}
	return nil
}

// statusColumns 生成状态变更需要写入的列
func statusColumns(status domain.RoomStatus, at time.Time) map[string]interface{} {
	cols := map[string]interface{}{"status": status, "updated_at": at}
	switch status {
	case domain.RoomStatusOn:
		cols["started_at"] = at
	case domain.RoomStatusOff:
		cols["stopped_at"] = at
	}
	return cols
}

// UpdateStatus 无条件修改课堂状态
func (r *GormRoomRepository) UpdateStatus(ctx context.Context, id string, status domain.RoomStatus, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&domain.Room{}).Where("id = ?", id).Updates(statusColumns(status, at))
	if result.Error != nil {
		return fmt.Errorf("gorm: update room %s status to %d: %w", id, status, result.Error)
	}
	if result.RowsAffected == 0 {
		// 状态未变化时 MySQL 也可能返回 0，这里再确认一次记录是否存在
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// UpdateStatusIf 条件更新: WHERE id = ? AND status IN (from)
func (r *GormRoomRepository) UpdateStatusIf(ctx context.Context, id string, from []domain.RoomStatus, to domain.RoomStatus, at time.Time) (bool, error) {
	if len(from) == 0 {
		return false, nil
	}
	result := r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(statusColumns(to, at))
	if result.Error != nil {
		return false, fmt.Errorf("gorm: conditional update room %s status to %d: %w", id, to, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// UpdateInfo 仅更新非空字段
func (r *GormRoomRepository) UpdateInfo(ctx context.Context, id string, update repository.RoomInfoUpdate) error {
	cols := map[string]interface{}{}
	if update.Title != "" {
		cols["title"] = update.Title
	}
	if update.Notice != "" {
		cols["notice"] = update.Notice
	}
	if update.ExtendsInfo != "" {
		cols["extends"] = update.ExtendsInfo
	}
	if len(cols) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&domain.Room{}).Where("id = ?", id).Updates(cols).Error; err != nil {
		return fmt.Errorf("gorm: update room %s info: %w", id, err)
	}
	return nil
}

// UpdateMeetingInfo 覆盖 meeting_info 列
func (r *GormRoomRepository) UpdateMeetingInfo(ctx context.Context, id string, meetingInfo string) error {
	result := r.db.WithContext(ctx).Model(&domain.Room{}).Where("id = ?", id).Update("meeting_info", meetingInfo)
	if result.Error != nil {
		return fmt.Errorf("gorm: update room %s meeting info: %w", id, result.Error)
	}
	return nil
}

// Delete 删除课堂
func (r *GormRoomRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Room{}).Error; err != nil {
		return fmt.Errorf("gorm: delete room %s: %w", id, err)
	}
	return nil
}

// Page 按创建时间倒序分页
func (r *GormRoomRepository) Page(ctx context.Context, pageNum, pageSize int) ([]domain.Room, int64, error) {
	var (
		rooms []domain.Room
		total int64
	)
	db := r.db.WithContext(ctx).Model(&domain.Room{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("gorm: count rooms: %w", err)
	}
	err := db.Order("created_at desc").Offset(pageOffset(pageNum, pageSize)).Limit(pageSize).Find(&rooms).Error
	if err != nil {
		return nil, 0, fmt.Errorf("gorm: page rooms (page %d, size %d): %w", pageNum, pageSize, err)
	}
	return rooms, total, nil
}
