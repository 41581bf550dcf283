package tasks

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// 定义任务类型常量
const (
	TypeClassMessage = "class:message" // 向消息群组投递成员变动消息
)

// 队列名称
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// ClassMessagePayload 成员变动消息任务的数据结构
type ClassMessagePayload struct {
	Channel string             `json:"channel"` // 通道名称 (aliyun_old_im 等)
	GroupID string             `json:"group_id"`
	MsgType domain.MessageType `json:"msg_type"`
	Member  dto.ClassMember    `json:"member"`
}

// NewClassMessageTask 创建成员变动消息任务的 payload
func NewClassMessageTask(channel domain.MessagingChannel, groupID string, msgType domain.MessageType, member dto.ClassMember) ([]byte, error) {
	payload := ClassMessagePayload{
		Channel: channel.String(),
		GroupID: groupID,
		MsgType: msgType,
		Member:  member,
	}
	return json.Marshal(payload)
}

// ParseClassMessagePayload 解析任务 payload
func ParseClassMessagePayload(data []byte) (*ClassMessagePayload, error) {
	var payload ClassMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
