package aliyun

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/provider"
)

const (
	// rtcDomain RTC 推拉流域名
	rtcDomain = "live.aliyun.com"
	// rtcCdnApp RTC 旁路转推使用的直播应用名
	rtcCdnApp = "live"
	// rtcTokenTTL RTC 入会 token 有效期
	rtcTokenTTL = 24 * time.Hour
)

var (
	_ provider.RtcLinkProvider           = (*Live)(nil)
	_ provider.CallbackSignatureVerifier = (*Live)(nil)
)

// LiveConfig 直播与 RTC 配置
type LiveConfig struct {
	PushURL         string // 推流域名，同时参与回调签名
	PullURL         string // 拉流域名
	PushAuthKey     string
	PullAuthKey     string
	AppName         string
	AuthExpires     time.Duration // A 类鉴权有效期
	MicAppID        string        // RTC 应用 ID
	MicAppKey       string
	CallbackAuthKey string
}

// Live 生成 RTC/CDN 地址并校验推流回调
type Live struct {
	cfg LiveConfig
	now func() time.Time
}

func NewLive(cfg LiveConfig) *Live {
	return &Live{cfg: cfg, now: time.Now}
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// AuthToken sha256(micAppId + micAppKey + channelId + userId + timestamp)
func (l *Live) AuthToken(channelID, userID string, timestamp int64) string {
	return sha256Hex(fmt.Sprintf("%s%s%s%s%d", l.cfg.MicAppID, l.cfg.MicAppKey, channelID, userID, timestamp))
}

func (l *Live) CameraStreamName(channelID, teacherID string) string {
	return fmt.Sprintf("%s_%s_%s_camera", l.cfg.MicAppID, channelID, teacherID)
}

func (l *Live) screenStreamName(channelID, teacherID string) string {
	return fmt.Sprintf("%s_%s_%s_shareScreen", l.cfg.MicAppID, channelID, teacherID)
}

// Link 生成 userID 在频道内的 RTC 推拉流地址，以及老师摄像头/屏幕共享流的 CDN 拉流地址
func (l *Live) Link(channelID, userID, teacherID string) *dto.LinkInfo {
	timestamp := l.now().Add(rtcTokenTTL).Unix()
	token := l.AuthToken(channelID, userID, timestamp)

	query := fmt.Sprintf("sdkAppId=%s&userId=%s&timestamp=%d&token=%s", l.cfg.MicAppID, userID, timestamp, token)
	return &dto.LinkInfo{
		RtcPushURL:  fmt.Sprintf("artc://%s/push/%s?%s", rtcDomain, channelID, query),
		RtcPullURL:  fmt.Sprintf("artc://%s/play/%s?%s", rtcDomain, channelID, query),
		CdnPullInfo: l.pullInfo(rtcCdnApp, l.CameraStreamName(channelID, teacherID), l.screenStreamName(channelID, teacherID)),
	}
}

// aAuth A 类鉴权: exp-rand-uid-md5(path-exp-rand-uid-key)
func (l *Live) aAuth(streamName, authKey string) string {
	const rand, uid = "0", "0"
	path := fmt.Sprintf("/%s/%s", l.cfg.AppName, streamName)
	exp := l.now().Add(l.cfg.AuthExpires).Unix()
	hash := md5Hex(fmt.Sprintf("%s-%d-%s-%s-%s", path, exp, rand, uid, authKey))
	return fmt.Sprintf("%d-%s-%s-%s", exp, rand, uid, hash)
}

// streamURLs 单路流的 rtmp/rts/flv/hls 地址
type streamURLs struct {
	rtmp, rts, flv, hls string
}

func (l *Live) streamURLs(app, stream string) streamURLs {
	base := fmt.Sprintf("%s/%s/%s", l.cfg.PullURL, app, stream)
	key := l.aAuth(stream, l.cfg.PullAuthKey)
	return streamURLs{
		rtmp: fmt.Sprintf("rtmp://%s?auth_key=%s", base, key),
		rts:  fmt.Sprintf("artc://%s?auth_key=%s", base, key),
		flv:  fmt.Sprintf("https://%s.flv?auth_key=%s", base, l.aAuth(stream+".flv", l.cfg.PullAuthKey)),
		hls:  fmt.Sprintf("https://%s.m3u8?auth_key=%s", base, l.aAuth(stream+".m3u8", l.cfg.PullAuthKey)),
	}
}

func (l *Live) pullInfo(app, camera, screen string) *dto.PullLiveInfo {
	c := l.streamURLs(app, camera)
	co := l.streamURLs(app, camera+"_oriaac")
	s := l.streamURLs(app, screen)
	so := l.streamURLs(app, screen+"_oriaac")

	return &dto.PullLiveInfo{
		RtmpURL:        c.rtmp,
		RtsURL:         c.rts,
		FlvURL:         c.flv,
		HlsURL:         c.hls,
		RtmpOriaacURL:  co.rtmp,
		RtsOriaacURL:   co.rts,
		FlvOriaacURL:   co.flv,
		HlsOriaacURL:   co.hls,
		RtmpScreenURL:  s.rtmp,
		RtsScreenURL:   s.rts,
		FlvScreenURL:   s.flv,
		HlsScreenURL:   s.hls,
		RtmpScreenOURL: so.rtmp,
		RtsScreenOURL:  so.rts,
		FlvScreenOURL:  so.flv,
		HlsScreenOURL:  so.hls,
	}
}

// Verify 校验推流回调签名: md5(pushUrl|timestamp|callbackAuthKey)
func (l *Live) Verify(signature, timestamp string) bool {
	return md5Hex(fmt.Sprintf("%s|%s|%s", l.cfg.PushURL, timestamp, l.cfg.CallbackAuthKey)) == signature
}
