package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// AssistantPermitService 管理课堂的助教权限
type AssistantPermitService struct {
	roomRepo   repository.RoomRepository
	permitRepo repository.AssistantPermitRepository
	members    *MemberService
	now        func() time.Time
}

func NewAssistantPermitService(roomRepo repository.RoomRepository, permitRepo repository.AssistantPermitRepository, members *MemberService) *AssistantPermitService {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for AssistantPermitService")
	}
	if permitRepo == nil {
		panic("AssistantPermitRepository cannot be nil for AssistantPermitService")
	}
	if members == nil {
		panic("MemberService cannot be nil for AssistantPermitService")
	}
	return &AssistantPermitService{roomRepo: roomRepo, permitRepo: permitRepo, members: members, now: time.Now}
}

// Set 按课堂插入或更新权限
func (s *AssistantPermitService) Set(ctx context.Context, classID, permit string) (*dto.AssistantPermit, error) {
	logCtx := logrus.WithField("class_id", classID)

	if _, err := findRoom(ctx, s.roomRepo, classID); err != nil {
		return nil, err
	}
	now := s.now()
	err := s.permitRepo.Upsert(ctx, &domain.AssistantPermit{
		ClassID:   classID,
		Permit:    permit,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to save assistant permit")
		return nil, ErrDBException
	}
	return s.Get(ctx, classID)
}

// Get 查询权限，不存在时返回 ErrNotFound
func (s *AssistantPermitService) Get(ctx context.Context, classID string) (*dto.AssistantPermit, error) {
	p, err := s.permitRepo.FindByClassID(ctx, classID)
	if err != nil {
		if errors.Is(err, repository.ErrPermitNotFound) {
			logrus.WithField("class_id", classID).Warn("Assistant permit not found")
			return nil, ErrNotFound
		}
		logrus.WithField("class_id", classID).WithError(err).Error("Failed to find assistant permit")
		return nil, ErrInternalServer
	}
	return dto.NewAssistantPermit(p), nil
}

// Delete 删除权限并移除课堂的助教
func (s *AssistantPermitService) Delete(ctx context.Context, classID string) error {
	logCtx := logrus.WithField("class_id", classID)

	if _, err := s.permitRepo.DeleteByClassID(ctx, classID); err != nil {
		logCtx.WithError(err).Error("Failed to delete assistant permit")
		return ErrDBException
	}
	err := s.members.RemoveAssistant(ctx, classID, nil)
	if err != nil && !errors.Is(err, ErrClassNotFound) {
		return err
	}
	logCtx.Info("Assistant permit deleted")
	return nil
}
