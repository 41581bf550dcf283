// Package aliyun 实现阿里云 OpenAPI (RPC 风格) 调用，
// 覆盖互动消息 (新老 IM)、点播和直播相关能力。
package aliyun

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	LiveEndpoint = "https://live.aliyuncs.com"
	LiveVersion  = "2016-11-01"
	VodEndpoint  = "https://vod.cn-shanghai.aliyuncs.com"
	VodVersion   = "2017-03-21"

	defaultRegion = "cn-shanghai"
)

// APIError OpenAPI 返回的业务错误
type APIError struct {
	StatusCode int
	Code       string `json:"Code"`
	Message    string `json:"Message"`
	RequestID  string `json:"RequestId"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("aliyun: %s (status %d, request %s): %s", e.Code, e.StatusCode, e.RequestID, e.Message)
}

// ClientConfig OpenAPI 客户端配置
type ClientConfig struct {
	AccessKeyID     string
	AccessKeySecret string
	RegionID        string
	Timeout         time.Duration
	QPS             float64 // 出站限流，<= 0 表示不限
}

// Client 签名并发送 RPC 请求
type Client struct {
	accessKeyID     string
	accessKeySecret string
	regionID        string
	httpClient      *http.Client
	limiter         *rate.Limiter
	now             func() time.Time
}

// NewClient 创建 OpenAPI 客户端
func NewClient(cfg ClientConfig) *Client {
	region := cfg.RegionID
	if region == "" {
		region = defaultRegion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.QPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.QPS), int(cfg.QPS)+1)
	}
	return &Client{
		accessKeyID:     cfg.AccessKeyID,
		accessKeySecret: cfg.AccessKeySecret,
		regionID:        region,
		httpClient:      &http.Client{Timeout: timeout},
		limiter:         limiter,
		now:             time.Now,
	}
}

// percentEncode RFC3986 编码
func percentEncode(s string) string {
	encoded := url.QueryEscape(s)
	encoded = strings.ReplaceAll(encoded, "+", "%20")
	encoded = strings.ReplaceAll(encoded, "*", "%2A")
	encoded = strings.ReplaceAll(encoded, "%7E", "~")
	return encoded
}

// sign 计算签名 (HMAC-SHA1, SignatureVersion 1.0)
func (c *Client) sign(method string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(params[k]))
	}
	canonicalized := strings.Join(pairs, "&")
	stringToSign := method + "&" + percentEncode("/") + "&" + percentEncode(canonicalized)

	mac := hmac.New(sha1.New, []byte(c.accessKeySecret+"&"))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Call 调用 endpoint 上的 action，响应 JSON 解码到 out
func (c *Client) Call(ctx context.Context, endpoint, version, action string, params map[string]string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("aliyun: rate limiter wait for %s: %w", action, err)
	}

	all := map[string]string{
		"Format":           "JSON",
		"Version":          version,
		"AccessKeyId":      c.accessKeyID,
		"SignatureMethod":  "HMAC-SHA1",
		"SignatureVersion": "1.0",
		"SignatureNonce":   uuid.NewString(),
		"Timestamp":        c.now().UTC().Format("2006-01-02T15:04:05Z"),
		"Action":           action,
		"RegionId":         c.regionID,
	}
	for k, v := range params {
		all[k] = v
	}
	all["Signature"] = c.sign(http.MethodPost, all)

	form := url.Values{}
	for k, v := range all {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(endpoint, "/")+"/", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("aliyun: build request for %s: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("aliyun: call %s: %w", action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("aliyun: read %s response: %w", action, err)
	}
	logrus.WithFields(logrus.Fields{
		"action":  action,
		"status":  resp.StatusCode,
		"consume": time.Since(start).String(),
	}).Debug("Aliyun OpenAPI call finished")

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil {
			apiErr.Message = string(body)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("aliyun: decode %s response: %w", action, err)
	}
	return nil
}
