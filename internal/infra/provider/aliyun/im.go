package aliyun

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/provider"
)

// systemOperator 老 IM 系统消息的发送者
const systemOperator = "System"

// currentTokenTTL 新 IM 凭证有效期
const currentTokenTTL = 48 * time.Hour

var (
	_ provider.GroupCreator         = (*LegacyIM)(nil)
	_ provider.NotificationGateway  = (*LegacyIM)(nil)
	_ provider.TokenIssuer          = (*LegacyIM)(nil)
	_ provider.GroupMetricsProvider = (*LegacyIM)(nil)
	_ provider.GroupCreator         = (*CurrentIM)(nil)
	_ provider.NotificationGateway  = (*CurrentIM)(nil)
	_ provider.TokenIssuer          = (*CurrentIM)(nil)
)

// LegacyIM 阿里云互动消息 (老版本)
type LegacyIM struct {
	client   *Client
	endpoint string
	appID    string
}

// NewLegacyIM endpoint 为空时使用 LiveEndpoint
func NewLegacyIM(client *Client, endpoint, appID string) *LegacyIM {
	if client == nil {
		panic("aliyun client cannot be nil for LegacyIM")
	}
	if endpoint == "" {
		endpoint = LiveEndpoint
	}
	return &LegacyIM{client: client, endpoint: endpoint, appID: appID}
}

// CreateGroup 老 IM 由服务端分配群组 ID，忽略 preferredID
func (im *LegacyIM) CreateGroup(ctx context.Context, _ string, creatorID string) (string, error) {
	var resp struct {
		Result struct {
			GroupID string `json:"GroupId"`
		} `json:"Result"`
	}
	err := im.client.Call(ctx, im.endpoint, LiveVersion, "CreateMessageGroup", map[string]string{
		"AppId":     im.appID,
		"CreatorId": creatorID,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Result.GroupID, nil
}

func (im *LegacyIM) SendToGroup(ctx context.Context, groupID string, msgType domain.MessageType, member *dto.ClassMember) error {
	data, err := json.Marshal(member)
	if err != nil {
		return fmt.Errorf("aliyun: marshal member message: %w", err)
	}
	return im.client.Call(ctx, im.endpoint, LiveVersion, "SendMessageToGroup", map[string]string{
		"AppId":          im.appID,
		"GroupId":        groupID,
		"Type":           strconv.Itoa(int(msgType)),
		"Data":           string(data),
		"OperatorUserId": systemOperator,
		"SkipAudit":      "true",
	}, nil)
}

func (im *LegacyIM) IssueToken(ctx context.Context, req provider.TokenRequest) (interface{}, error) {
	var resp struct {
		Result struct {
			AccessToken  string `json:"AccessToken"`
			RefreshToken string `json:"RefreshToken"`
		} `json:"Result"`
	}
	err := im.client.Call(ctx, im.endpoint, LiveVersion, "GetMessageToken", map[string]string{
		"AppId":      im.appID,
		"DeviceId":   req.DeviceID,
		"DeviceType": req.DeviceType,
		"UserId":     req.UserID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &provider.LegacyToken{
		AccessToken:  resp.Result.AccessToken,
		RefreshToken: resp.Result.RefreshToken,
	}, nil
}

// Metrics 群组统计 (点赞数、在线人数、PV、UV)
func (im *LegacyIM) Metrics(ctx context.Context, groupID string) (*dto.Metrics, error) {
	var resp struct {
		Result *struct {
			LikeCount   int64 `json:"LikeCount"`
			OnlineCount int64 `json:"OnlineCount"`
			PV          int64 `json:"PV"`
			UV          int64 `json:"UV"`
		} `json:"Result"`
	}
	err := im.client.Call(ctx, im.endpoint, LiveVersion, "GetGroupStatistics", map[string]string{
		"AppId":   im.appID,
		"GroupId": groupID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, nil
	}
	return &dto.Metrics{
		LikeCount:   resp.Result.LikeCount,
		OnlineCount: resp.Result.OnlineCount,
		PV:          resp.Result.PV,
		UV:          resp.Result.UV,
	}, nil
}

// UserMuteStatus 查询用户在群组中的禁言状态，用户不在群组中时返回 nil
func (im *LegacyIM) UserMuteStatus(ctx context.Context, groupID, userID string) (*dto.UserStatus, error) {
	var resp struct {
		Result struct {
			UserList []struct {
				IsMute bool     `json:"IsMute"`
				MuteBy []string `json:"MuteBy"`
			} `json:"UserList"`
		} `json:"Result"`
	}
	err := im.client.Call(ctx, im.endpoint, LiveVersion, "ListMessageGroupUserById", map[string]string{
		"AppId":        im.appID,
		"GroupId":      groupID,
		"UserIdList.1": userID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Result.UserList) == 0 {
		return nil, nil
	}
	user := resp.Result.UserList[0]
	return &dto.UserStatus{Mute: user.IsMute, MuteSource: user.MuteBy}, nil
}

// CurrentIMConfig 新 IM 应用信息
type CurrentIMConfig struct {
	AppID   string
	AppKey  string
	AppSign string
}

// CurrentIM 阿里云互动消息 (新版本)
type CurrentIM struct {
	client   *Client
	endpoint string
	cfg      CurrentIMConfig
	now      func() time.Time
}

func NewCurrentIM(client *Client, endpoint string, cfg CurrentIMConfig) *CurrentIM {
	if client == nil {
		panic("aliyun client cannot be nil for CurrentIM")
	}
	if endpoint == "" {
		endpoint = LiveEndpoint
	}
	return &CurrentIM{client: client, endpoint: endpoint, cfg: cfg, now: time.Now}
}

// CreateGroup 使用 preferredID 作为群组 ID
func (im *CurrentIM) CreateGroup(ctx context.Context, preferredID, creatorID string) (string, error) {
	var resp struct {
		GroupID string `json:"GroupId"`
	}
	err := im.client.Call(ctx, im.endpoint, LiveVersion, "CreateLiveMessageGroup", map[string]string{
		"AppId":     im.cfg.AppID,
		"GroupId":   preferredID,
		"CreatorId": creatorID,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.GroupID, nil
}

// SendToGroup 新 IM 以成员本人作为发送者
func (im *CurrentIM) SendToGroup(ctx context.Context, groupID string, msgType domain.MessageType, member *dto.ClassMember) error {
	body, err := json.Marshal(member)
	if err != nil {
		return fmt.Errorf("aliyun: marshal member message: %w", err)
	}
	return im.client.Call(ctx, im.endpoint, LiveVersion, "SendLiveMessageGroup", map[string]string{
		"AppId":    im.cfg.AppID,
		"GroupId":  groupID,
		"SenderId": member.UserID,
		"Body":     string(body),
		"MsgType":  strconv.Itoa(int(msgType)),
	}, nil)
}

// IssueToken 本地计算 appToken = sha256(appId+appKey+userId+nonce+timestamp+role)
func (im *CurrentIM) IssueToken(_ context.Context, req provider.TokenRequest) (interface{}, error) {
	nonce := uuid.NewString()
	timestamp := im.now().Add(currentTokenTTL).Unix()
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s%s%s%s%d%s",
		im.cfg.AppID, im.cfg.AppKey, req.UserID, nonce, timestamp, req.Role)))

	return &provider.CurrentToken{
		AppID:    im.cfg.AppID,
		AppSign:  im.cfg.AppSign,
		AppToken: hex.EncodeToString(sum[:]),
		Auth: provider.CurrentTokenAuth{
			UserID:    req.UserID,
			Nonce:     nonce,
			Timestamp: timestamp,
			Role:      req.Role,
		},
	}, nil
}
