package service

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/tasks"
)

// Notifier 投递成员变动消息。投递是异步的，失败不影响调用方。
type Notifier interface {
	Notify(ctx context.Context, room *domain.Room, channels []domain.MessagingChannel, msgType domain.MessageType, member *dto.ClassMember)
}

// TaskEnqueuer 是 *asynq.Client 的子集
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskNotifier 通过 asynq 任务投递消息，由 worker 调用各通道网关
type TaskNotifier struct {
	enqueuer TaskEnqueuer
	maxRetry int
}

func NewTaskNotifier(enqueuer TaskEnqueuer, maxRetry int) *TaskNotifier {
	if enqueuer == nil {
		panic("TaskEnqueuer cannot be nil for TaskNotifier")
	}
	if maxRetry < 0 {
		maxRetry = 0
	}
	return &TaskNotifier{enqueuer: enqueuer, maxRetry: maxRetry}
}

func (n *TaskNotifier) Notify(ctx context.Context, room *domain.Room, channels []domain.MessagingChannel, msgType domain.MessageType, member *dto.ClassMember) {
	if room == nil || member == nil {
		return
	}
	for _, ch := range channels {
		logCtx := logrus.WithFields(logrus.Fields{
			"class_id": room.ID,
			"channel":  ch.String(),
			"msg_type": msgType,
			"user_id":  member.UserID,
		})
		groupID := room.GroupID(ch)
		if groupID == "" {
			logCtx.Warn("Class has no group on channel, skip notification")
			continue
		}
		payload, err := tasks.NewClassMessageTask(ch, groupID, msgType, *member)
		if err != nil {
			logCtx.WithError(err).Error("Failed to build class message task")
			continue
		}
		task := asynq.NewTask(tasks.TypeClassMessage, payload)
		if _, err := n.enqueuer.EnqueueContext(ctx, task, asynq.Queue(tasks.QueueCritical), asynq.MaxRetry(n.maxRetry)); err != nil {
			logCtx.WithError(err).Error("Failed to enqueue class message task")
			continue
		}
		logCtx.Debug("Class message task enqueued")
	}
}
