// Package rongcloud 融云 Server API 客户端 (聊天室、用户、禁言)
package rongcloud

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/provider"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultAPIURL = "https://api-cn.ronghub.com"
	// retry 每个请求最多尝试的次数
	retry     = 2
	codeOK    = 200
	cmdObject = "RC:CmdMsg"
)

var (
	_ provider.GroupCreator        = (*Client)(nil)
	_ provider.NotificationGateway = (*Client)(nil)
	_ provider.TokenIssuer         = (*Client)(nil)
	_ provider.ChatroomModerator   = (*Client)(nil)
)

// Config 融云应用配置
type Config struct {
	APIURL    string
	AppKey    string
	AppSecret string
	Timeout   time.Duration
}

// Client 融云 Server API
type Client struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{cfg: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}, now: time.Now}
}

// response 融云接口的通用返回
type response struct {
	Code         int    `json:"code"`
	ErrorMessage string `json:"errorMessage"`
	Token        string `json:"token"`
	Status       int    `json:"status"`
}

// signature sha1(appSecret + nonce + timestamp)
func signature(secret, nonce, timestamp string) string {
	sum := sha1.Sum([]byte(secret + nonce + timestamp))
	return hex.EncodeToString(sum[:])
}

func (c *Client) post(ctx context.Context, path string, form url.Values) (*response, error) {
	var lastErr error
	for i := 0; i < retry; i++ {
		resp, err := c.postOnce(ctx, path, form)
		if err == nil && resp.Code == codeOK {
			return resp, nil
		}
		if err == nil {
			err = fmt.Errorf("rongcloud: %s returned code %d: %s", path, resp.Code, resp.ErrorMessage)
		}
		lastErr = err
		logrus.WithFields(logrus.Fields{
			"path":    path,
			"attempt": i + 1,
		}).WithError(err).Warn("RongCloud request failed")
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) postOnce(ctx context.Context, path string, form url.Values) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.cfg.APIURL, "/")+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("rongcloud: build request %s: %w", path, err)
	}
	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")
	timestamp := strconv.FormatInt(c.now().UnixMilli(), 10)
	req.Header.Set("App-Key", c.cfg.AppKey)
	req.Header.Set("Nonce", nonce)
	req.Header.Set("Timestamp", timestamp)
	req.Header.Set("Signature", signature(c.cfg.AppSecret, nonce, timestamp))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rongcloud: call %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rongcloud: read %s response: %w", path, err)
	}
	var out response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("rongcloud: decode %s response (status %d): %w", path, resp.StatusCode, err)
	}
	return &out, nil
}

// IssueToken 注册用户并返回登录 token
func (c *Client) IssueToken(ctx context.Context, req provider.TokenRequest) (interface{}, error) {
	resp, err := c.post(ctx, "/user/getToken.json", url.Values{
		"userId":      {req.UserID},
		"name":        {req.UserName},
		"portraitUri": {req.Avatar},
	})
	if err != nil {
		return nil, err
	}
	return &provider.ThirdPartyToken{AccessToken: resp.Token}, nil
}

// CreateGroup 创建聊天室。聊天室 ID 由本地生成，creatorID 作为聊天室名称。
func (c *Client) CreateGroup(ctx context.Context, preferredID, creatorID string) (string, error) {
	chatroomID := preferredID
	if chatroomID == "" {
		chatroomID = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	if _, err := c.post(ctx, "/chatroom/create.json", url.Values{
		"chatroom[" + chatroomID + "]": {creatorID},
	}); err != nil {
		return "", err
	}
	return chatroomID, nil
}

// SendToGroup 以命令消息的形式向聊天室广播成员变动
func (c *Client) SendToGroup(ctx context.Context, groupID string, msgType domain.MessageType, member *dto.ClassMember) error {
	data, err := json.Marshal(member)
	if err != nil {
		return fmt.Errorf("rongcloud: marshal member message: %w", err)
	}
	content, err := json.Marshal(map[string]string{
		"name": strconv.Itoa(int(msgType)),
		"data": string(data),
	})
	if err != nil {
		return fmt.Errorf("rongcloud: marshal message content: %w", err)
	}
	_, err = c.post(ctx, "/message/chatroom/publish.json", url.Values{
		"fromUserId":   {member.UserID},
		"toChatroomId": {groupID},
		"objectName":   {cmdObject},
		"content":      {string(content)},
	})
	return err
}

func (c *Client) MuteUser(ctx context.Context, chatroomID, userID string, minutes int) error {
	_, err := c.post(ctx, "/chatroom/user/gag/add.json", url.Values{
		"chatroomId": {chatroomID},
		"userId":     {userID},
		"minute":     {strconv.Itoa(minutes)},
		"needNotify": {"true"},
	})
	return err
}

func (c *Client) CancelMuteUser(ctx context.Context, chatroomID, userID string) error {
	_, err := c.post(ctx, "/chatroom/user/gag/rollback.json", url.Values{
		"chatroomId": {chatroomID},
		"userId":     {userID},
		"needNotify": {"true"},
	})
	return err
}

func (c *Client) MuteChatroom(ctx context.Context, chatroomID string) error {
	_, err := c.post(ctx, "/chatroom/ban/add.json", url.Values{
		"chatroomId": {chatroomID},
		"needNotify": {"true"},
	})
	return err
}

func (c *Client) CancelMuteChatroom(ctx context.Context, chatroomID string) error {
	_, err := c.post(ctx, "/chatroom/ban/rollback.json", url.Values{
		"chatroomId": {chatroomID},
		"needNotify": {"true"},
	})
	return err
}

// IsChatroomMuted status 为 1 表示全员禁言中
func (c *Client) IsChatroomMuted(ctx context.Context, chatroomID string) (bool, error) {
	resp, err := c.post(ctx, "/chatroom/ban/check.json", url.Values{
		"chatroomId": {chatroomID},
	})
	if err != nil {
		return false, err
	}
	return resp.Status == 1, nil
}
