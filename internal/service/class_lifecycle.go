package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// 推流回调的 action
const (
	PushActionPublish     = "publish"
	PushActionPublishDone = "publish_done"
)

// PushStreamEvent 直播推流状态回调
type PushStreamEvent struct {
	ID        string // 流名称
	Action    string
	Signature string
	Timestamp string
}

// verifyPermission 只有课堂的老师可以修改课堂。
// 课堂不存在时放行，由后续操作返回 ErrClassNotFound。
func (s *ClassService) verifyPermission(ctx context.Context, classID, userID string) error {
	room, err := s.roomRepo.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil
		}
		logrus.WithField("class_id", classID).WithError(err).Error("Failed to find class for permission check")
		return ErrInternalServer
	}
	if room == nil {
		return nil
	}
	if room.TeacherID != userID {
		logrus.WithFields(logrus.Fields{"class_id": classID, "user_id": userID}).Warn("Permission denied: user is not the teacher")
		return ErrPermissionDenied
	}
	return nil
}

// Start 上课
func (s *ClassService) Start(ctx context.Context, classID, userID string) (*dto.RoomSnapshot, error) {
	return s.transition(ctx, classID, userID, domain.RoomStatusOn)
}

// Stop 下课
func (s *ClassService) Stop(ctx context.Context, classID, userID string) (*dto.RoomSnapshot, error) {
	return s.transition(ctx, classID, userID, domain.RoomStatusOff)
}

// Pause 暂停，回到准备状态
func (s *ClassService) Pause(ctx context.Context, classID, userID string) (*dto.RoomSnapshot, error) {
	return s.transition(ctx, classID, userID, domain.RoomStatusPrepare)
}

// transition 老师主动的状态修改，不限制当前状态
func (s *ClassService) transition(ctx context.Context, classID, userID string, to domain.RoomStatus) (*dto.RoomSnapshot, error) {
	logCtx := logrus.WithFields(logrus.Fields{"class_id": classID, "user_id": userID, "status": to})

	if err := s.verifyPermission(ctx, classID, userID); err != nil {
		return nil, err
	}
	if err := s.roomRepo.UpdateStatus(ctx, classID, to, s.now()); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			logCtx.Warn("Class not found while updating status")
			return nil, ErrClassNotFound
		}
		logCtx.WithError(err).Error("Failed to update class status")
		return nil, ErrDBException
	}
	logCtx.Info("Class status updated")
	return s.Get(ctx, classID, userID)
}

// HandlePushStreamEvent 根据推流状态同步课堂状态。
// 签名错误返回 ErrInvalidSignature，找不到课堂时视为成功。
func (s *ClassService) HandlePushStreamEvent(ctx context.Context, ev PushStreamEvent) error {
	logCtx := logrus.WithFields(logrus.Fields{"stream_id": ev.ID, "action": ev.Action})

	if !s.verifier.Verify(ev.Signature, ev.Timestamp) {
		logCtx.Warn("Invalid live callback signature")
		return ErrInvalidSignature
	}

	room, err := s.roomOfStream(ctx, ev.ID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			logCtx.Warn("Push stream callback: class not found")
			return nil
		}
		logCtx.WithError(err).Error("Push stream callback: failed to find class")
		return ErrInternalServer
	}
	logCtx = logCtx.WithField("class_id", room.ID)

	var (
		from []domain.RoomStatus
		to   domain.RoomStatus
	)
	switch ev.Action {
	case PushActionPublish:
		from, to = []domain.RoomStatus{domain.RoomStatusOff, domain.RoomStatusPrepare}, domain.RoomStatusOn
	case PushActionPublishDone:
		from, to = []domain.RoomStatus{domain.RoomStatusOn}, domain.RoomStatusPrepare
	default:
		logCtx.Debug("Push stream callback: action ignored")
		return nil
	}

	changed, err := s.roomRepo.UpdateStatusIf(ctx, room.ID, from, to, s.now())
	if err != nil {
		logCtx.WithError(err).Error("Push stream callback: failed to update class status")
		return ErrDBException
	}
	logCtx.WithField("changed", changed).Info("Push stream callback handled")
	return nil
}

// roomOfStream 连麦流的名称为 {appId}_{meetingId}_{userId}_camera 或 _audio，
// 其余情况流名称即课堂 ID。
func (s *ClassService) roomOfStream(ctx context.Context, streamID string) (*domain.Room, error) {
	if strings.HasSuffix(streamID, "_camera") || strings.HasSuffix(streamID, "_audio") {
		parts := strings.Split(streamID, "_")
		if len(parts) < 3 {
			return nil, repository.ErrRoomNotFound
		}
		return s.roomRepo.FindByMeetingID(ctx, parts[1])
	}
	return s.roomRepo.FindByID(ctx, streamID)
}
