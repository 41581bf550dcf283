// Package provider 定义课堂服务依赖的外部能力 (消息群组、RTC、点播、白板等)。
// 具体实现位于 internal/infra/provider 下。
package provider

import (
	"context"
	"errors"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
)

// ErrUnsupported 表示该通道不提供对应能力
var ErrUnsupported = errors.New("provider: capability not supported on this channel")

// GroupCreator 创建消息群组 / 聊天室
type GroupCreator interface {
	// CreateGroup 创建群组并返回群组 ID。preferredID 为空时由实现决定 ID。
	CreateGroup(ctx context.Context, preferredID, creatorID string) (string, error)
}

// NotificationGateway 向群组发送成员变动消息
type NotificationGateway interface {
	SendToGroup(ctx context.Context, groupID string, msgType domain.MessageType, member *dto.ClassMember) error
}

// TokenRequest 获取 IM 登录凭证的参数
type TokenRequest struct {
	UserID     string
	UserName   string
	Avatar     string
	DeviceID   string
	DeviceType string
	Role       string
}

// LegacyToken 老 IM 的访问凭证
type LegacyToken struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CurrentTokenAuth 新 IM 凭证中的鉴权部分
type CurrentTokenAuth struct {
	UserID    string `json:"userId"`
	Nonce     string `json:"nonce"`
	Timestamp int64  `json:"timestamp"`
	Role      string `json:"role"`
}

// CurrentToken 新 IM 的登录凭证 (本地计算)
type CurrentToken struct {
	AppID    string           `json:"appId"`
	AppSign  string           `json:"appSign"`
	AppToken string           `json:"appToken"`
	Auth     CurrentTokenAuth `json:"auth"`
}

// ThirdPartyToken 融云的登录凭证
type ThirdPartyToken struct {
	AccessToken string `json:"access_token"`
}

// TokenIssuer 签发 IM 登录凭证，返回 *LegacyToken / *CurrentToken / *ThirdPartyToken 之一
type TokenIssuer interface {
	IssueToken(ctx context.Context, req TokenRequest) (interface{}, error)
}

// Channel 单个消息通道具备的能力
type Channel struct {
	Groups   GroupCreator
	Messages NotificationGateway
	Tokens   TokenIssuer
}

// ChannelTable 消息通道到具体能力的映射
type ChannelTable map[domain.MessagingChannel]Channel

// Get 返回通道的能力。未配置的通道返回 false。
func (t ChannelTable) Get(ch domain.MessagingChannel) (Channel, bool) {
	c, ok := t[ch]
	return c, ok
}

// RtcLinkProvider 生成 RTC 推拉流地址
type RtcLinkProvider interface {
	// Link 生成频道内 userID 的推拉流地址和 teacherID 的旁路 CDN 地址
	Link(channelID, userID, teacherID string) *dto.LinkInfo
	// AuthToken 计算 RTC 入会 token
	AuthToken(channelID, userID string, timestamp int64) string
	// CameraStreamName 老师摄像头旁路流名称，也是点播媒资的标题
	CameraStreamName(channelID, teacherID string) string
}

// VodProvider 点播回放
type VodProvider interface {
	// SearchByTitle 返回标题匹配的第一个媒资 ID，没有时返回空字符串
	SearchByTitle(ctx context.Context, title string) (string, error)
	PlayInfo(ctx context.Context, mediaID string) (*dto.VodInfo, error)
}

// GroupMetricsProvider 群组统计与用户禁言状态
type GroupMetricsProvider interface {
	Metrics(ctx context.Context, groupID string) (*dto.Metrics, error)
	UserMuteStatus(ctx context.Context, groupID, userID string) (*dto.UserStatus, error)
}

// WhiteboardProvider 白板房间
type WhiteboardProvider interface {
	AuthInfo() *dto.BoardAuth
	// Create 创建白板房间。code 不为 200 时不返回 error，由调用方判断。
	Create(ctx context.Context, boardID, title string) (*dto.BoardCreateResult, error)
	// Delete 删除白板房间，返回 HTTP 状态码
	Delete(ctx context.Context, cid string) (int, error)
}

// CallbackSignatureVerifier 校验直播推流回调签名
type CallbackSignatureVerifier interface {
	Verify(signature, timestamp string) bool
}

// ChatroomModerator 聊天室禁言管理
type ChatroomModerator interface {
	MuteUser(ctx context.Context, chatroomID, userID string, minutes int) error
	CancelMuteUser(ctx context.Context, chatroomID, userID string) error
	MuteChatroom(ctx context.Context, chatroomID string) error
	CancelMuteChatroom(ctx context.Context, chatroomID string) error
	IsChatroomMuted(ctx context.Context, chatroomID string) (bool, error)
}
