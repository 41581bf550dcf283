package repository

import (
	"context"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
)

// CheckInRepository 签到及签到记录
type CheckInRepository interface {
	Create(ctx context.Context, checkIn *domain.CheckIn) error
	FindByID(ctx context.Context, id string) (*domain.CheckIn, error)
	// ListByClass 按开始时间正序
	ListByClass(ctx context.Context, classID string) ([]domain.CheckIn, error)

	// CreateRecord 同一用户重复签到时返回 ErrDuplicateEntry
	CreateRecord(ctx context.Context, record *domain.CheckInRecord) error
	FindRecord(ctx context.Context, checkInID, userID string) (*domain.CheckInRecord, error)
	// ListRecords 按签到时间正序
	ListRecords(ctx context.Context, checkInID string) ([]domain.CheckInRecord, error)
}

// DocRepository 课件
type DocRepository interface {
	Find(ctx context.Context, classID, docID string) (*domain.Doc, error)
	// Create 同一课堂下 docID 已存在时返回 ErrDuplicateEntry
	Create(ctx context.Context, doc *domain.Doc) error
	// Delete 返回是否删除了数据
	Delete(ctx context.Context, classID, docID string) (bool, error)
	ListByClass(ctx context.Context, classID string) ([]domain.Doc, error)
}
