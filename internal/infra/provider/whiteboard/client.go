// Package whiteboard 互动白板房间的创建与删除
package whiteboard

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/provider"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var _ provider.WhiteboardProvider = (*Client)(nil)

const (
	modeInteractive = 2
	platformWeb     = 2
)

// Config 白板应用配置
type Config struct {
	AppKey             string
	AppSecret          string
	CreateURL          string
	DeleteURL          string        // 以 cid 结尾拼接
	ChannelDestroyTime time.Duration // 房间自动销毁时长
	Timeout            time.Duration
}

// Client 白板服务客户端
type Client struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{cfg: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}, now: time.Now}
}

// checksum sha1(appSecret + nonce + curTime)
func checksum(secret, nonce string, curTime int64) string {
	sum := sha1.Sum([]byte(secret + nonce + strconv.FormatInt(curTime, 10)))
	return hex.EncodeToString(sum[:])
}

// AuthInfo 生成客户端登录白板所需的鉴权信息
func (c *Client) AuthInfo() *dto.BoardAuth {
	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")
	curTime := c.now().Unix()
	return &dto.BoardAuth{
		Nonce:    nonce,
		CurTime:  curTime,
		Checksum: checksum(c.cfg.AppSecret, nonce, curTime),
	}
}

func (c *Client) setAuthHeaders(req *http.Request) {
	auth := c.AuthInfo()
	req.Header.Set("AppKey", c.cfg.AppKey)
	req.Header.Set("Nonce", auth.Nonce)
	req.Header.Set("CurTime", strconv.FormatInt(auth.CurTime, 10))
	req.Header.Set("CheckSum", auth.Checksum)
}

type createRequest struct {
	ChannelName        string `json:"channelName"`
	UID                int64  `json:"uid"`
	Mode               int    `json:"mode"`
	Persistent         bool   `json:"persistent"`
	Platform           int    `json:"platform"`
	ChannelDestroyTime int64  `json:"channelDestroyTime"`
}

type createResponse struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	ErrMsg string `json:"errmsg"`
	Cid    string `json:"cid"`
}

// Create 创建白板房间。服务端 code 不是 200 时也返回结果，由调用方判断。
func (c *Client) Create(ctx context.Context, boardID, title string) (*dto.BoardCreateResult, error) {
	uid := c.now().Unix()
	body, err := json.Marshal(createRequest{
		ChannelName:        boardID,
		UID:                uid,
		Mode:               modeInteractive,
		Persistent:         true,
		Platform:           platformWeb,
		ChannelDestroyTime: uid + int64(c.cfg.ChannelDestroyTime/time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("whiteboard: marshal create request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.CreateURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("whiteboard: build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whiteboard: create board %s: %w", boardID, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("whiteboard: read create response: %w", err)
	}
	var out createResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("whiteboard: decode create response (status %d): %w", resp.StatusCode, err)
	}

	msg := out.Msg
	if msg == "" {
		msg = out.ErrMsg
	}
	result := &dto.BoardCreateResult{Code: out.Code, Message: msg}
	if out.Code == http.StatusOK {
		result.Cid = out.Cid
		result.BoardTitle = title
		result.UID = uid
		result.BoardID = boardID
		result.AppKey = c.cfg.AppKey
	}
	logrus.WithFields(logrus.Fields{
		"board_id": boardID,
		"code":     out.Code,
		"cid":      out.Cid,
	}).Info("Whiteboard room created")
	return result, nil
}

// Delete 删除白板房间，返回服务端的 HTTP 状态码
func (c *Client) Delete(ctx context.Context, cid string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.cfg.DeleteURL+cid, nil)
	if err != nil {
		return 0, fmt.Errorf("whiteboard: build delete request: %w", err)
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("whiteboard: delete board %s: %w", cid, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
