package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// MeetingUpdate 连麦信息的部分更新，nil 字段不修改
type MeetingUpdate struct {
	Members            []domain.MeetingMember
	AllMute            *bool
	InteractionAllowed *bool
}

// GetMeetingInfo 返回课堂保存的连麦信息，没有时返回空成员列表
func (s *ClassService) GetMeetingInfo(ctx context.Context, classID string) (*domain.Meeting, error) {
	room, err := findRoom(ctx, s.roomRepo, classID)
	if err != nil {
		return nil, err
	}
	return decodeMeeting(room.MeetingInfo), nil
}

// UpdateMeetingInfo 在连麦锁内合并更新
func (s *ClassService) UpdateMeetingInfo(ctx context.Context, classID string, update MeetingUpdate) (*domain.Meeting, error) {
	logCtx := logrus.WithField("class_id", classID)

	var meeting *domain.Meeting
	err := withLock(ctx, s.locks, meetingLockKey(classID), s.opts.LockWait, func() error {
		room, err := findRoom(ctx, s.roomRepo, classID)
		if err != nil {
			return err
		}
		meeting = decodeMeeting(room.MeetingInfo)
		if update.Members != nil {
			meeting.Members = update.Members
		}
		if update.AllMute != nil {
			meeting.AllMute = *update.AllMute
		}
		if update.InteractionAllowed != nil {
			meeting.InteractionAllowed = *update.InteractionAllowed
		}
		b, err := json.Marshal(meeting)
		if err != nil {
			logCtx.WithError(err).Error("Failed to marshal meeting info")
			return ErrInternalServer
		}
		if err := s.roomRepo.UpdateMeetingInfo(ctx, classID, string(b)); err != nil {
			if errors.Is(err, repository.ErrRoomNotFound) {
				return ErrClassNotFound
			}
			logCtx.WithError(err).Error("Failed to update meeting info")
			return ErrDBException
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return meeting, nil
}

func decodeMeeting(raw string) *domain.Meeting {
	meeting := &domain.Meeting{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), meeting); err != nil {
			logrus.WithError(err).Warn("Failed to unmarshal meeting info, use empty")
			meeting = &domain.Meeting{}
		}
	}
	if meeting.Members == nil {
		meeting.Members = []domain.MeetingMember{}
	}
	return meeting
}
