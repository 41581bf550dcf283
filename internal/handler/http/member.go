package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/service"
)

// MemberHandler 课堂成员与助教权限
type MemberHandler struct {
	members *service.MemberService
	permits *service.AssistantPermitService
}

func NewMemberHandler(members *service.MemberService, permits *service.AssistantPermitService) *MemberHandler {
	if members == nil {
		panic("MemberService cannot be nil for MemberHandler")
	}
	if permits == nil {
		panic("AssistantPermitService cannot be nil for MemberHandler")
	}
	return &MemberHandler{members: members, permits: permits}
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logrus.WithError(err).WithField("path", c.FullPath()).Warn("Handler: Invalid input format")
		InvalidParamResponse(c, err.Error())
		return false
	}
	return true
}

// parseChannelsOrAll 未指定通道时返回 nil，由 Service 使用课堂的全部通道
func parseChannelsOrAll(c *gin.Context, names []string) ([]domain.MessagingChannel, bool) {
	if len(names) == 0 {
		return nil, true
	}
	channels, ok := domain.ParseChannels(names)
	if !ok {
		InvalidParamResponse(c, "unknown im_server")
		return nil, false
	}
	return channels, true
}

// JoinClassRequest 加入课堂
type JoinClassRequest struct {
	ClassID    string          `json:"class_id" binding:"required"`
	UserID     string          `json:"user_id" binding:"required"`
	UserName   string          `json:"user_name" binding:"required"`
	UserAvatar string          `json:"user_avatar"`
	Identity   domain.Identity `json:"identity" binding:"omitempty,identity"`
}

func (h *MemberHandler) JoinClass(c *gin.Context) {
	var req JoinClassRequest
	if !bindJSON(c, &req) {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"class_id": req.ClassID, "user_id": req.UserID})

	member, err := h.members.Join(c.Request.Context(), service.JoinInput{
		ClassID:    req.ClassID,
		UserID:     req.UserID,
		UserName:   req.UserName,
		UserAvatar: req.UserAvatar,
		Identity:   req.Identity,
	})
	if err != nil {
		logCtx.WithError(err).Warn("Handler.JoinClass: Failed to join class via service")
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, member)
}

// LeaveClassRequest 离开课堂
type LeaveClassRequest struct {
	ClassID string `json:"class_id" binding:"required"`
	UserID  string `json:"user_id" binding:"required"`
}

func (h *MemberHandler) LeaveClass(c *gin.Context) {
	var req LeaveClassRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.members.Leave(c.Request.Context(), req.ClassID, req.UserID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, nil)
}

// KickClassRequest 踢出课堂，im_server 为空时通知课堂的全部通道
type KickClassRequest struct {
	ClassID  string   `json:"class_id" binding:"required"`
	UserID   string   `json:"user_id" binding:"required"`
	IMServer []string `json:"im_server"`
}

func (h *MemberHandler) KickClass(c *gin.Context) {
	var req KickClassRequest
	if !bindJSON(c, &req) {
		return
	}
	channels, ok := parseChannelsOrAll(c, req.IMServer)
	if !ok {
		return
	}
	if err := h.members.Kick(c.Request.Context(), req.ClassID, req.UserID, channels); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, nil)
}

// ListMembersRequest 成员分页，status 必填 (0 表示全部)
type ListMembersRequest struct {
	ClassID  string               `json:"class_id" binding:"required"`
	Identity domain.Identity      `json:"identity" binding:"omitempty,identity"`
	Status   *domain.MemberStatus `json:"status" binding:"required,member_status"`
	PageNum  int                  `json:"page_num" binding:"omitempty,min=1"`
	PageSize int                  `json:"page_size" binding:"omitempty,min=1,max=200"`
}

func (h *MemberHandler) ListMembers(c *gin.Context) {
	var req ListMembersRequest
	if !bindJSON(c, &req) {
		return
	}
	page, err := h.members.List(c.Request.Context(), repository.MemberQuery{
		ClassID:  req.ClassID,
		Identity: req.Identity,
		Status:   *req.Status,
		PageNum:  req.PageNum,
		PageSize: req.PageSize,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, page)
}

// AssistantPermitRequest set/get/delete 共用，permit 只在 set 时使用
type AssistantPermitRequest struct {
	ClassID  string   `json:"class_id" binding:"required"`
	Permit   string   `json:"permit"`
	IMServer []string `json:"im_server"`
}

func (h *MemberHandler) SetAssistantPermit(c *gin.Context) {
	var req AssistantPermitRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Permit == "" {
		InvalidParamResponse(c, "permit is required")
		return
	}
	permit, err := h.permits.Set(c.Request.Context(), req.ClassID, req.Permit)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, permit)
}

func (h *MemberHandler) GetAssistantPermit(c *gin.Context) {
	var req AssistantPermitRequest
	if !bindJSON(c, &req) {
		return
	}
	permit, err := h.permits.Get(c.Request.Context(), req.ClassID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, permit)
}

func (h *MemberHandler) DeleteAssistantPermit(c *gin.Context) {
	var req AssistantPermitRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.permits.Delete(c.Request.Context(), req.ClassID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, nil)
}
