package http

import (
	"fmt"
	"net"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/provider"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/service"
)

// ClassHandler 课堂管理相关接口
type ClassHandler struct {
	classes *service.ClassService
	tokens  *service.AuthTokenService
}

func NewClassHandler(classes *service.ClassService, tokens *service.AuthTokenService) *ClassHandler {
	if classes == nil {
		panic("ClassService cannot be nil for ClassHandler")
	}
	if tokens == nil {
		panic("AuthTokenService cannot be nil for ClassHandler")
	}
	return &ClassHandler{classes: classes, tokens: tokens}
}

// parseV1Channels v1 接口只识别 aliyun / rongCloud，其它名称忽略
func parseV1Channels(names []string) []domain.MessagingChannel {
	channels := make([]domain.MessagingChannel, 0, len(names))
	for _, name := range names {
		if name != "aliyun" && name != service.ServerTypeRongCloud {
			logrus.WithField("im_server", name).Warn("IM group service is not configured")
			continue
		}
		ch, _ := domain.ParseChannel(name)
		if !domain.ContainsChannel(channels, ch) {
			channels = append(channels, ch)
		}
	}
	return channels
}

// TokenRequest 获取 IM token
type TokenRequest struct {
	UserID     string   `json:"user_id" binding:"required"`
	DeviceID   string   `json:"device_id"`
	DeviceType string   `json:"device_type"`
	Role       string   `json:"role"`
	IMServer   []string `json:"im_server"`
}

func (r *TokenRequest) toProvider() provider.TokenRequest {
	return provider.TokenRequest{
		UserID:     r.UserID,
		UserName:   r.UserID,
		DeviceID:   r.DeviceID,
		DeviceType: r.DeviceType,
		Role:       r.Role,
	}
}

// Token v1: 默认使用老 IM，任一通道失败即返回错误
func (h *ClassHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Token: Invalid input format")
		InvalidParamResponse(c, err.Error())
		return
	}
	names := req.IMServer
	if len(names) == 0 {
		names = []string{"aliyun"}
	}

	tokens, err := h.classes.IssueTokens(c.Request.Context(), parseV1Channels(names), req.toProvider(), true)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	resp := gin.H{"aliyun_access_token": "", "aliyun_refresh_token": "", "rong_cloud_token": ""}
	if t, ok := tokens[domain.ChannelLegacy].(*provider.LegacyToken); ok {
		resp["aliyun_access_token"] = t.AccessToken
		resp["aliyun_refresh_token"] = t.RefreshToken
	}
	if t, ok := tokens[domain.ChannelThirdParty].(*provider.ThirdPartyToken); ok {
		resp["rong_cloud_token"] = t.AccessToken
	}
	SuccessResponse(c, resp)
}

// TokenV2Request v2 必须显式指定通道
type TokenV2Request struct {
	TokenRequest
	IMServer []string `json:"im_server" binding:"required,min=1,dive,im_server"`
}

// TokenV2 按通道名称返回各通道的凭证，失败的通道不出现在结果中
func (h *ClassHandler) TokenV2(c *gin.Context) {
	var req TokenV2Request
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.TokenV2: Invalid input format")
		InvalidParamResponse(c, err.Error())
		return
	}
	channels, _ := domain.ParseChannels(req.IMServer)

	tokens, err := h.classes.IssueTokens(c.Request.Context(), channels, req.toProvider(), false)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	resp := make(map[string]interface{}, len(tokens))
	for ch, token := range tokens {
		resp[ch.String()] = token
	}
	SuccessResponse(c, resp)
}

// CreateRequest 创建课堂
type CreateRequest struct {
	Title       string          `json:"title" binding:"required"`
	Notice      string          `json:"notice"`
	CoverURL    string          `json:"cover_url"`
	TeacherID   string          `json:"teacher_id" binding:"required"`
	TeacherNick string          `json:"teacher_nick"`
	Mode        domain.RoomMode `json:"mode" binding:"gte=0,lte=2"`
	ExtendsInfo string          `json:"extends"`
	IMServer    []string        `json:"im_server"`
}

func (r *CreateRequest) toInput(channels []domain.MessagingChannel) service.CreateInput {
	return service.CreateInput{
		Title:       r.Title,
		Notice:      r.Notice,
		CoverURL:    r.CoverURL,
		TeacherID:   r.TeacherID,
		TeacherNick: r.TeacherNick,
		Mode:        r.Mode,
		ExtendsInfo: r.ExtendsInfo,
		Channels:    channels,
	}
}

func (h *ClassHandler) create(c *gin.Context, req *CreateRequest, channels []domain.MessagingChannel) {
	logCtx := logrus.WithFields(logrus.Fields{"teacher_id": req.TeacherID, "im_server": req.IMServer})
	if len(channels) == 0 {
		logCtx.Warn("Handler.Create: imServer null")
		InvalidParamResponse(c, "imServer null")
		return
	}
	room, err := h.classes.Create(c.Request.Context(), req.toInput(channels))
	if err != nil {
		logCtx.WithError(err).Warn("Handler.Create: Failed to create class via service")
		HandleServiceError(c, err)
		return
	}
	logCtx.WithField("class_id", room.ID).Info("Handler.Create: Class created successfully")
	SuccessResponse(c, room)
}

func (h *ClassHandler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Create: Invalid input format")
		InvalidParamResponse(c, err.Error())
		return
	}
	h.create(c, &req, parseV1Channels(req.IMServer))
}

// CreateV2Request v2 使用完整的通道名称
type CreateV2Request struct {
	CreateRequest
	IMServer []string `json:"im_server" binding:"required,min=1,dive,im_server"`
}

func (h *ClassHandler) CreateV2(c *gin.Context) {
	var req CreateV2Request
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateV2: Invalid input format")
		InvalidParamResponse(c, err.Error())
		return
	}
	channels, _ := domain.ParseChannels(req.IMServer)
	req.CreateRequest.IMServer = req.IMServer
	h.create(c, &req.CreateRequest, channels)
}

// ClassUserRequest get/start/stop/pause/delete 共用
type ClassUserRequest struct {
	ID     string `json:"id" binding:"required"`
	UserID string `json:"user_id" binding:"required"`
}

func (h *ClassHandler) bindClassUser(c *gin.Context) (*ClassUserRequest, bool) {
	var req ClassUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).WithField("path", c.FullPath()).Warn("Handler: Invalid input format")
		InvalidParamResponse(c, err.Error())
		return nil, false
	}
	return &req, true
}

func (h *ClassHandler) Get(c *gin.Context) {
	req, ok := h.bindClassUser(c)
	if !ok {
		return
	}
	room, err := h.classes.Get(c.Request.Context(), req.ID, req.UserID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, room)
}

// ListRequest 课堂分页
type ListRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	PageNum  int    `json:"page_num" binding:"required,min=1"`
	PageSize int    `json:"page_size" binding:"required,min=1,max=100"`
}

func (h *ClassHandler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.List: Invalid input format")
		InvalidParamResponse(c, err.Error())
		return
	}
	page, err := h.classes.List(c.Request.Context(), req.PageNum, req.PageSize)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, page)
}

func (h *ClassHandler) Start(c *gin.Context) {
	req, ok := h.bindClassUser(c)
	if !ok {
		return
	}
	room, err := h.classes.Start(c.Request.Context(), req.ID, req.UserID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, room)
}

func (h *ClassHandler) Stop(c *gin.Context) {
	req, ok := h.bindClassUser(c)
	if !ok {
		return
	}
	room, err := h.classes.Stop(c.Request.Context(), req.ID, req.UserID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, room)
}

func (h *ClassHandler) Pause(c *gin.Context) {
	req, ok := h.bindClassUser(c)
	if !ok {
		return
	}
	room, err := h.classes.Pause(c.Request.Context(), req.ID, req.UserID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, room)
}

func (h *ClassHandler) Delete(c *gin.Context) {
	req, ok := h.bindClassUser(c)
	if !ok {
		return
	}
	room, err := h.classes.Delete(c.Request.Context(), req.ID, req.UserID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, room)
}

// UpdateRequest 字段为空时不修改
type UpdateRequest struct {
	ID          string `json:"id" binding:"required"`
	Title       string `json:"title"`
	Notice      string `json:"notice"`
	ExtendsInfo string `json:"extends"`
}

func (h *ClassHandler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Update: Invalid input format")
		InvalidParamResponse(c, err.Error())
		return
	}
	room, err := h.classes.Update(c.Request.Context(), service.UpdateInput{
		ClassID:     req.ID,
		Title:       req.Title,
		Notice:      req.Notice,
		ExtendsInfo: req.ExtendsInfo,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, room)
}

// MeetingUpdateRequest 为 nil 的字段保持原值
type MeetingUpdateRequest struct {
	ID                 string                 `json:"id" binding:"required"`
	Members            []domain.MeetingMember `json:"members"`
	AllMute            *bool                  `json:"all_mute"`
	InteractionAllowed *bool                  `json:"interaction_allowed"`
}

func (h *ClassHandler) UpdateMeetingInfo(c *gin.Context) {
	var req MeetingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.UpdateMeetingInfo: Invalid input format")
		InvalidParamResponse(c, err.Error())
		return
	}
	meeting, err := h.classes.UpdateMeetingInfo(c.Request.Context(), req.ID, service.MeetingUpdate{
		Members:            req.Members,
		AllMute:            req.AllMute,
		InteractionAllowed: req.InteractionAllowed,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, meeting)
}

// ClassIDRequest 只带课堂 ID 的请求
type ClassIDRequest struct {
	ID string `json:"id" binding:"required"`
}

func (h *ClassHandler) GetMeetingInfo(c *gin.Context) {
	var req ClassIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.GetMeetingInfo: Invalid input format")
		InvalidParamResponse(c, err.Error())
		return
	}
	meeting, err := h.classes.GetMeetingInfo(c.Request.Context(), req.ID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, meeting)
}

// PushStreamEventRequest 直播推流回调，参数在 query 或表单中
type PushStreamEventRequest struct {
	Action  string `form:"action"`
	App     string `form:"app"`
	AppName string `form:"appname"`
	ID      string `form:"id"`
	IP      string `form:"ip"`
	Time    int64  `form:"time"`
	Height  string `form:"height"`
	Width   string `form:"width"`
}

// 推流回调的签名头
const (
	headerLiveSignature = "ALI-LIVE-SIGNATURE"
	headerLiveTimestamp = "ALI-LIVE-TIMESTAMP"
)

func (h *ClassHandler) HandlePushStreamEventCallback(c *gin.Context) {
	var req PushStreamEventRequest
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Warn("Handler.HandlePushStreamEventCallback: Invalid input format")
		InvalidParamResponse(c, err.Error())
		return
	}
	signature := c.GetHeader(headerLiveSignature)
	timestamp := c.GetHeader(headerLiveTimestamp)
	if signature == "" || timestamp == "" {
		logrus.Warn("Handler.HandlePushStreamEventCallback: liveSignature or liveTimestamp is null")
		InvalidParamResponse(c, "liveSignature or liveTimestamp is null")
		return
	}

	err := h.classes.HandlePushStreamEvent(c.Request.Context(), service.PushStreamEvent{
		ID:        req.ID,
		Action:    req.Action,
		Signature: signature,
		Timestamp: timestamp,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, nil)
}

// JumpURLRequest 获取推流助手跳转链接
type JumpURLRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	LiveID   string `json:"live_id" binding:"required"`
	UserName string `json:"user_name"`
}

func (h *ClassHandler) GetLiveJumpURL(c *gin.Context) {
	var req JumpURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.GetLiveJumpURL: Invalid input format")
		InvalidParamResponse(c, err.Error())
		return
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	serverHost := fmt.Sprintf("%s://%s", scheme, hostName(c.Request.Host))

	jumpURL, err := h.tokens.LiveJumpURL(req.UserID, req.UserName, req.LiveID, serverHost)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, gin.H{"live_jump_url": jumpURL})
}

// hostName 去掉 Host 头中的端口
func hostName(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// VerifyAuthTokenRequest 校验推流助手 token
type VerifyAuthTokenRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	LiveID    string `json:"live_id" binding:"required"`
	UserName  string `json:"user_name"`
	AppServer string `json:"app_server" binding:"required"`
	Token     string `json:"token" binding:"required"`
}

func (h *ClassHandler) VerifyAuthToken(c *gin.Context) {
	var req VerifyAuthTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.VerifyAuthToken: Invalid input format")
		InvalidParamResponse(c, err.Error())
		return
	}
	loginToken, err := h.tokens.Verify(service.VerifyInput{
		Token:     req.Token,
		UserID:    req.UserID,
		LiveID:    req.LiveID,
		UserName:  req.UserName,
		AppServer: req.AppServer,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, gin.H{"login_token": loginToken})
}

// RtcAuthTokenRequest 获取 RTC 入会 token
type RtcAuthTokenRequest struct {
	RoomID string `json:"room_id" binding:"required"`
	UserID string `json:"user_id" binding:"required"`
}

func (h *ClassHandler) GetRtcAuthToken(c *gin.Context) {
	var req RtcAuthTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.GetRtcAuthToken: Invalid input format")
		InvalidParamResponse(c, err.Error())
		return
	}
	SuccessResponse(c, h.classes.RtcAuthToken(req.RoomID, req.UserID))
}

func (h *ClassHandler) GetWhiteboardAuthInfo(c *gin.Context) {
	auth, err := h.classes.WhiteboardAuthInfo()
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, auth)
}
