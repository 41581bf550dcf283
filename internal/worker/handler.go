package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/provider"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/tasks"
)

// ClassMessageHandler 把成员变动消息投递到对应通道的消息群组
type ClassMessageHandler struct {
	channels provider.ChannelTable
}

// NewClassMessageHandler 创建 Handler 实例
func NewClassMessageHandler(channels provider.ChannelTable) *ClassMessageHandler {
	if channels == nil {
		panic("channel table cannot be nil for ClassMessageHandler")
	}
	return &ClassMessageHandler{channels: channels}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *ClassMessageHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	currentRetry, _ := asynq.GetRetryCount(ctx)

	logCtx := logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
		"retry":     currentRetry,
	})

	payload, err := tasks.ParseClassMessagePayload(t.Payload())
	if err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	logCtx = logCtx.WithFields(logrus.Fields{
		"channel":  payload.Channel,
		"group_id": payload.GroupID,
		"msg_type": payload.MsgType,
		"user_id":  payload.Member.UserID,
	})

	ch, ok := domain.ParseChannel(payload.Channel)
	if !ok {
		logCtx.Error("Unknown messaging channel in task payload")
		return fmt.Errorf("unknown channel %q: %w", payload.Channel, asynq.SkipRetry)
	}
	capability, ok := h.channels.Get(ch)
	if !ok || capability.Messages == nil {
		logCtx.Warn("Messaging channel not configured, dropping message")
		return nil
	}
	if payload.GroupID == "" {
		logCtx.Warn("Class has no group on this channel, dropping message")
		return nil
	}

	member := payload.Member
	if err := capability.Messages.SendToGroup(ctx, payload.GroupID, payload.MsgType, &member); err != nil {
		logCtx.WithError(err).Warn("Failed to send class message")
		return fmt.Errorf("send class message to %s group %s: %w", payload.Channel, payload.GroupID, err)
	}

	logCtx.Info("Class message delivered")
	return nil
}
