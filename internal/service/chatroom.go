package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/provider"
)

// ServerTypeRongCloud 聊天室管理只对融云生效
const ServerTypeRongCloud = "rongCloud"

// ChatroomService 聊天室禁言管理
type ChatroomService struct {
	moderator provider.ChatroomModerator
}

// NewChatroomService moderator 为 nil 时所有操作返回 ErrProviderError
func NewChatroomService(moderator provider.ChatroomModerator) *ChatroomService {
	return &ChatroomService{moderator: moderator}
}

func (s *ChatroomService) ready() error {
	if s.moderator == nil {
		return fmt.Errorf("%w: chatroom moderator is not configured", ErrProviderError)
	}
	return nil
}

func (s *ChatroomService) MuteUser(ctx context.Context, chatroomID, userID string, minutes int) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	if err := s.moderator.MuteUser(ctx, chatroomID, userID, minutes); err != nil {
		logrus.WithFields(logrus.Fields{"chatroom_id": chatroomID, "user_id": userID}).WithError(err).Warn("Failed to mute user")
		return false, nil
	}
	return true, nil
}

func (s *ChatroomService) CancelMuteUser(ctx context.Context, chatroomID, userID string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	if err := s.moderator.CancelMuteUser(ctx, chatroomID, userID); err != nil {
		logrus.WithFields(logrus.Fields{"chatroom_id": chatroomID, "user_id": userID}).WithError(err).Warn("Failed to cancel mute user")
		return false, nil
	}
	return true, nil
}

func (s *ChatroomService) MuteChatroom(ctx context.Context, chatroomID string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	if err := s.moderator.MuteChatroom(ctx, chatroomID); err != nil {
		logrus.WithField("chatroom_id", chatroomID).WithError(err).Warn("Failed to mute chatroom")
		return false, nil
	}
	return true, nil
}

func (s *ChatroomService) CancelMuteChatroom(ctx context.Context, chatroomID string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	if err := s.moderator.CancelMuteChatroom(ctx, chatroomID); err != nil {
		logrus.WithField("chatroom_id", chatroomID).WithError(err).Warn("Failed to cancel mute chatroom")
		return false, nil
	}
	return true, nil
}

// IsChatroomMuted 查询失败时视为未禁言
func (s *ChatroomService) IsChatroomMuted(ctx context.Context, chatroomID string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	muted, err := s.moderator.IsChatroomMuted(ctx, chatroomID)
	if err != nil {
		logrus.WithField("chatroom_id", chatroomID).WithError(err).Warn("Failed to query chatroom mute status")
		return false, nil
	}
	return muted, nil
}

// SendLike 点赞消息目前只做计数占位
func (s *ChatroomService) SendLike(ctx context.Context, chatroomID, userID string) bool {
	logrus.WithFields(logrus.Fields{"chatroom_id": chatroomID, "user_id": userID}).Debug("Like message received")
	return true
}
