package http

import (
	"github.com/gin-gonic/gin"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/service"
)

// ChatroomHandler 聊天室禁言、点赞和统计。
// 只有 server_type 为 rongCloud 时才会调用服务，否则返回空对象。
type ChatroomHandler struct {
	chatroom *service.ChatroomService
	classes  *service.ClassService
}

func NewChatroomHandler(chatroom *service.ChatroomService, classes *service.ClassService) *ChatroomHandler {
	if chatroom == nil {
		panic("ChatroomService cannot be nil for ChatroomHandler")
	}
	if classes == nil {
		panic("ClassService cannot be nil for ChatroomHandler")
	}
	return &ChatroomHandler{chatroom: chatroom, classes: classes}
}

// ChatroomRequest 聊天室级别的操作
type ChatroomRequest struct {
	ChatroomID string `json:"chatroom_id" binding:"required"`
	ServerType string `json:"server_type" binding:"required"`
}

// ChatroomUserRequest 针对聊天室中某个用户的操作
type ChatroomUserRequest struct {
	ChatroomRequest
	UserID string `json:"user_id" binding:"required"`
}

// MuteUserRequest 禁言时长单位为分钟
type MuteUserRequest struct {
	ChatroomUserRequest
	Minute *int `json:"minute" binding:"required,min=1"`
}

// writeResult 把 (bool, error) 写成 {"result": bool}
func writeResult(c *gin.Context, result bool, err error) {
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, gin.H{"result": result})
}

func skipServerType(c *gin.Context, serverType string) bool {
	if serverType != service.ServerTypeRongCloud {
		SuccessResponse(c, gin.H{})
		return true
	}
	return false
}

func (h *ChatroomHandler) MuteUser(c *gin.Context) {
	var req MuteUserRequest
	if !bindJSON(c, &req) || skipServerType(c, req.ServerType) {
		return
	}
	result, err := h.chatroom.MuteUser(c.Request.Context(), req.ChatroomID, req.UserID, *req.Minute)
	writeResult(c, result, err)
}

func (h *ChatroomHandler) CancelMuteUser(c *gin.Context) {
	var req ChatroomUserRequest
	if !bindJSON(c, &req) || skipServerType(c, req.ServerType) {
		return
	}
	result, err := h.chatroom.CancelMuteUser(c.Request.Context(), req.ChatroomID, req.UserID)
	writeResult(c, result, err)
}

func (h *ChatroomHandler) MuteChatroom(c *gin.Context) {
	var req ChatroomRequest
	if !bindJSON(c, &req) || skipServerType(c, req.ServerType) {
		return
	}
	result, err := h.chatroom.MuteChatroom(c.Request.Context(), req.ChatroomID)
	writeResult(c, result, err)
}

func (h *ChatroomHandler) CancelMuteChatroom(c *gin.Context) {
	var req ChatroomRequest
	if !bindJSON(c, &req) || skipServerType(c, req.ServerType) {
		return
	}
	result, err := h.chatroom.CancelMuteChatroom(c.Request.Context(), req.ChatroomID)
	writeResult(c, result, err)
}

func (h *ChatroomHandler) IsMuteChatroom(c *gin.Context) {
	var req ChatroomRequest
	if !bindJSON(c, &req) || skipServerType(c, req.ServerType) {
		return
	}
	result, err := h.chatroom.IsChatroomMuted(c.Request.Context(), req.ChatroomID)
	writeResult(c, result, err)
}

func (h *ChatroomHandler) SendLikeMessage(c *gin.Context) {
	var req ChatroomUserRequest
	if !bindJSON(c, &req) || skipServerType(c, req.ServerType) {
		return
	}
	writeResult(c, h.chatroom.SendLike(c.Request.Context(), req.ChatroomID, req.UserID), nil)
}

func (h *ChatroomHandler) GetStatistics(c *gin.Context) {
	var req ChatroomRequest
	if !bindJSON(c, &req) || skipServerType(c, req.ServerType) {
		return
	}
	metrics, err := h.classes.Statistics(c.Request.Context(), req.ChatroomID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, gin.H{"metrics": metrics})
}
