package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/provider"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/provider/mocks"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/tasks"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/worker"
)

func newMessageTask(t *testing.T, ch domain.MessagingChannel, groupID string) *asynq.Task {
	payload, err := tasks.NewClassMessageTask(ch, groupID, domain.MessageTypeJoin, dto.ClassMember{ClassID: "c1", UserID: "alice"})
	require.NoError(t, err)
	return asynq.NewTask(tasks.TypeClassMessage, payload)
}

func TestClassMessageHandler_ProcessTask_Success(t *testing.T) {
	// Arrange
	gateway := new(mocks.NotificationGateway)
	handler := worker.NewClassMessageHandler(provider.ChannelTable{
		domain.ChannelLegacy: {Messages: gateway},
	})
	gateway.On("SendToGroup", mock.Anything, "g1", domain.MessageTypeJoin, mock.MatchedBy(func(m *dto.ClassMember) bool {
		return m.UserID == "alice" && m.ClassID == "c1"
	})).Return(nil).Once()

	// Act
	err := handler.ProcessTask(context.Background(), newMessageTask(t, domain.ChannelLegacy, "g1"))

	// Assert
	assert.NoError(t, err)
	gateway.AssertExpectations(t)
}

func TestClassMessageHandler_ProcessTask_GatewayError(t *testing.T) {
	gateway := new(mocks.NotificationGateway)
	handler := worker.NewClassMessageHandler(provider.ChannelTable{
		domain.ChannelCurrent: {Messages: gateway},
	})
	gateway.On("SendToGroup", mock.Anything, "g1", domain.MessageTypeJoin, mock.Anything).
		Return(errors.New("timeout")).Once()

	err := handler.ProcessTask(context.Background(), newMessageTask(t, domain.ChannelCurrent, "g1"))

	// 网关失败时返回错误，交给 asynq 重试
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestClassMessageHandler_ProcessTask_BadPayload(t *testing.T) {
	handler := worker.NewClassMessageHandler(provider.ChannelTable{})

	err := handler.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeClassMessage, []byte("not json")))

	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry), "无法解析的 payload 不应重试")
}

func TestClassMessageHandler_ProcessTask_ChannelNotConfigured(t *testing.T) {
	handler := worker.NewClassMessageHandler(provider.ChannelTable{})

	err := handler.ProcessTask(context.Background(), newMessageTask(t, domain.ChannelThirdParty, "room1"))

	assert.NoError(t, err, "未配置的通道直接丢弃消息")
}
