package repository

import (
	"context"
	"time"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
)

// RoomInfoUpdate 课堂基础信息的部分更新，空字符串表示不修改
type RoomInfoUpdate struct {
	Title       string
	Notice      string
	ExtendsInfo string
}

// RoomRepository 定义了课堂数据的存储和检索操作。
type RoomRepository interface {
	// FindByID 根据课堂 ID 查找，不存在时返回 ErrRoomNotFound。
	FindByID(ctx context.Context, id string) (*domain.Room, error)

	// FindByMeetingID 根据 RTC 频道关联 ID 查找课堂。
	FindByMeetingID(ctx context.Context, meetingID string) (*domain.Room, error)

	// Create 新建课堂，ID 冲突时返回 ErrDuplicateEntry。
	Create(ctx context.Context, room *domain.Room) error

	// UpdateStatus 无条件修改状态。进入 On 时写 started_at，进入 Off 时写 stopped_at。
	// 课堂不存在时返回 ErrRoomNotFound。
	UpdateStatus(ctx context.Context, id string, status domain.RoomStatus, at time.Time) error

	// UpdateStatusIf 仅当当前状态属于 from 时修改，返回是否发生了修改。
	UpdateStatusIf(ctx context.Context, id string, from []domain.RoomStatus, to domain.RoomStatus, at time.Time) (bool, error)

	// UpdateInfo 部分更新标题/公告/扩展信息
	UpdateInfo(ctx context.Context, id string, update RoomInfoUpdate) error

	// UpdateMeetingInfo 覆盖连麦信息
	UpdateMeetingInfo(ctx context.Context, id string, meetingInfo string) error

	// Delete 删除课堂
	Delete(ctx context.Context, id string) error

	// Page 按创建时间倒序分页，pageNum 从 1 开始。
	Page(ctx context.Context, pageNum, pageSize int) ([]domain.Room, int64, error)
}
